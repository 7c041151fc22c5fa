package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"library-backend/internal/config"
	loanjob "library-backend/internal/domains/loan/job"
	"library-backend/pkg/logger"
)

type Scheduler struct {
	scheduler  *asynq.Scheduler
	loanConfig config.LoanConfig
}

func NewScheduler(redisAddress string, loanConfig config.LoanConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler:  scheduler,
		loanConfig: loanConfig,
	}
}

// RegisterJobs wires every cron job the worker runs.
func (s *Scheduler) RegisterJobs() error {
	return s.registerOverdueScanJob()
}

// The scan enqueues with a zero as_of so the handler evaluates "now" at
// execution time, not at schedule registration time.
func (s *Scheduler) registerOverdueScanJob() error {
	task, err := loanjob.NewOverdueScanTask(time.Time{})
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		s.loanConfig.OverdueScanCron,
		task,
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("failed to register overdue scan job", err)
		return err
	}

	logger.Info("registered overdue scan job", map[string]interface{}{
		"cron": s.loanConfig.OverdueScanCron,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
