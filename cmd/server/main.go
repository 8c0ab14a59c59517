package main

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/ValterGames-Coder/IDMS/internal/config"
	"github.com/ValterGames-Coder/IDMS/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging
	if cfg.Server.Mode == gin.DebugMode {
		logger.Init("debug")
	} else {
		logger.Init("info")
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	svc := bootstrap(cfg)
	defer svc.shutdown()

	r := gin.New()
	registerRoutes(r, svc)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Info().Str("addr", addr).Msg("Server starting")
	if err := r.Run(addr); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
