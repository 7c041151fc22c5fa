package main

import (
	"context"
	"os"

	"github.com/hibiken/asynq"

	"library-backend/pkg/logger"
)

type asynqServer struct {
	*asynq.Server
}

func setupAsynqServer(cfg *WorkerConfig, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues: map[string]int{
				"default": 10,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("task failed: "+task.Type(), err)
			}),
		},
	)

	go func() {
		logger.Info("worker starting", map[string]interface{}{
			"concurrency": cfg.Concurrency,
		})
		if err := srv.Run(mux); err != nil {
			logger.Error("worker failed", err)
			os.Exit(1)
		}
	}()

	return &asynqServer{Server: srv}
}

func (s *asynqServer) Shutdown() {
	logger.Info("worker shutting down", nil)
	s.Server.Shutdown()
}
