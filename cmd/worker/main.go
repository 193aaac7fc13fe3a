package main

import (
	"airpark/config"
	"airpark/di"
	"airpark/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	if err := di.InitializeWorker().Run(); err != nil {
		log.Fatal().Err(err).Msg("Worker stopped with an error")
	}
}
