package main

import (
	"os"

	"github.com/rs/zerolog"

	"bptracker/internal/app"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	application, err := app.New(version, buildDate, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init server")
	}
	if err := application.Run(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped with error")
	}
}
