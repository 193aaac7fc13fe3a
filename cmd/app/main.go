package main

import (
	"airpark/config"
	"airpark/di"
	"airpark/shared/logger"
)

// @title						airpark API
// @version					1.0
// @description				Airport parking availability, occupancy and booking administration.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	http := di.InitializeService()
	http.Serve()
}
