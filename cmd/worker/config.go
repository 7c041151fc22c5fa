package main

import (
	"library-backend/internal/shared/utils"
	"library-backend/pkg/logger"
)

// WorkerConfig holds the worker's own knobs, separate from the shared
// application config the container loads.
type WorkerConfig struct {
	RedisAddr   string
	Concurrency int
}

func loadWorkerConfig() *WorkerConfig {
	cfg := &WorkerConfig{
		RedisAddr:   utils.GetEnvVariable("REDIS_HOST", "localhost:6379"),
		Concurrency: 10,
	}

	logger.Info("worker config loaded", map[string]interface{}{
		"redis": cfg.RedisAddr,
	})

	return cfg
}
