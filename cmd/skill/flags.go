package main

import (
	"os"

	"bitbucket.org/sotavant/alexa-skill/internal/config"
)

func parseFlags() (*config.Config, error) {
	return config.Load(os.Args[0], os.Args[1:], os.Getenv)
}
