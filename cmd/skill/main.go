package main

import (
	"errors"
	"flag"
	"net/http"

	"go.uber.org/zap"

	"bitbucket.org/sotavant/alexa-skill/internal/config"
	"bitbucket.org/sotavant/alexa-skill/internal/dispatcher"
	"bitbucket.org/sotavant/alexa-skill/internal/generator"
	"bitbucket.org/sotavant/alexa-skill/internal/logger"
	"bitbucket.org/sotavant/alexa-skill/internal/metrics"
	"bitbucket.org/sotavant/alexa-skill/internal/parser"
	"bitbucket.org/sotavant/alexa-skill/internal/skill"
	"bitbucket.org/sotavant/alexa-skill/internal/store"
)

func main() {
	cfg, err := parseFlags()
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		panic(err)
	}
	if err := run(cfg); err != nil {
		panic(err)
	}
}

func run(cfg *config.Config) error {
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		return err
	}

	s, err := store.Open(cfg.CatalogueFile)
	if err != nil {
		return err
	}

	d := dispatcher.New(skill.NewHandler(s), parser.New(), generator.New())
	appInstance := newApp(d, metrics.New(), cfg.DispatchTimeout, newLimiter(cfg.RateLimit, cfg.RateBurst))

	logger.Log.Info("Running server",
		zap.String("address", cfg.RunAddr),
		zap.Duration("dispatchTimeout", cfg.DispatchTimeout),
		zap.Float64("rateLimit", cfg.RateLimit),
	)

	return http.ListenAndServe(cfg.RunAddr, appInstance.routes())
}
