package queue

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"homelibrary-backend/internal/shared"
	"homelibrary-backend/pkg/logger"
)

type Scheduler struct {
	scheduler    *asynq.Scheduler
	sweepMinutes int
}

func NewScheduler(redisAddress, redisPassword string, redisDB, sweepMinutes int) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisAddress,
			Password: redisPassword,
			DB:       redisDB,
		},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler:    scheduler,
		sweepMinutes: sweepMinutes,
	}
}

// RegisterMaintenanceJobs đăng ký các cron jobs.
func (s *Scheduler) RegisterMaintenanceJobs() error {
	return s.registerSweepStaleTransfersJob()
}

// ================================================
// JOB: Sweep Stale Transfers
// ================================================
// Pending transfer records outlive a crashed worker; the sweep flips
// them to failed so waiters stop blocking. Runs at half the stale
// window so nothing stays pending for more than 1.5x the window.
func (s *Scheduler) registerSweepStaleTransfersJob() error {
	interval := s.sweepMinutes / 2
	if interval < 1 {
		interval = 1
	}

	task := asynq.NewTask(shared.TypeSweepStaleTransfers, nil)

	_, err := s.scheduler.Register(
		fmt.Sprintf("*/%d * * * *", interval),
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register SweepStaleTransfers job", err)
		return err
	}

	logger.Info(fmt.Sprintf("✓ Registered SweepStaleTransfers: every %d minutes", interval), map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
