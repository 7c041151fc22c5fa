package main

import (
	"github.com/hibiken/asynq"

	loanjob "library-backend/internal/domains/loan/job"
	"library-backend/pkg/container"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	overdueScan *loanjob.OverdueScanHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		overdueScan: loanjob.NewOverdueScanHandler(c.LoanService),
	}
}

func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(loanjob.TypeOverdueScan, h.overdueScan.ProcessTask)
}
