package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"bitbucket.org/sotavant/alexa-skill/internal/config"
	"bitbucket.org/sotavant/alexa-skill/internal/dispatcher"
	"bitbucket.org/sotavant/alexa-skill/internal/generator"
	"bitbucket.org/sotavant/alexa-skill/internal/logger"
	"bitbucket.org/sotavant/alexa-skill/internal/parser"
	"bitbucket.org/sotavant/alexa-skill/internal/skill"
	"bitbucket.org/sotavant/alexa-skill/internal/store"
)

func main() {
	cfg, err := config.Load(os.Args[0], os.Args[1:], os.Getenv)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		panic(err)
	}
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		panic(err)
	}

	s, err := store.Open(cfg.CatalogueFile)
	if err != nil {
		panic(err)
	}

	h := newHandler(dispatcher.New(skill.NewHandler(s), parser.New(), generator.New()), cfg.DispatchTimeout)

	// Outside the Lambda runtime, handle one request from stdin.
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") == "" {
		if err := h.pipe(context.Background(), os.Stdin, os.Stdout); err != nil {
			logger.Log.Debug("request failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	lambda.Start(h.handle)
}
