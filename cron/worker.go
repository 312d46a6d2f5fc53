package cron

import (
	"context"
	"time"

	"salonbook/services/tasks"
	"salonbook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const sweepSpec = "@every 5m"

// Worker owns the asynq server that runs booking tasks and the scheduler that
// triggers the periodic settlement sweep.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	logger    *zap.Logger
}

// StartWorker runs the task server and sweep scheduler in the background.
func StartWorker(handlers *tasks.Handlers, logger *zap.Logger) (*Worker, error) {
	redisOpts := utils.QueueRedisOpt()

	srv := asynq.NewServer(redisOpts, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"default": 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			logger.Warn("task failed", zap.String("type", task.Type()), zap.Error(err))
		}),
	})
	mux := asynq.NewServeMux()
	handlers.Register(mux)

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: time.Local})
	if _, err := scheduler.Register(sweepSpec, asynq.NewTask(tasks.TypeSweep, nil)); err != nil {
		return nil, err
	}

	w := &Worker{server: srv, scheduler: scheduler, logger: logger}
	go w.run(mux)
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("sweep scheduler stopped", zap.Error(err))
		}
	}()
	return w, nil
}

// run retries startup with backoff while redis comes up.
func (w *Worker) run(mux *asynq.ServeMux) {
	const maxAttempts = 5
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err := w.server.Start(mux)
		if err == nil {
			w.logger.Info("task worker started")
			return
		}
		w.logger.Warn("failed to start task worker",
			zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
		if attempts == maxAttempts {
			w.logger.Error("task worker gave up; background tasks will not run")
			return
		}
		time.Sleep(time.Duration(attempts*2) * time.Second)
	}
}

// Shutdown stops the scheduler and drains in-flight tasks.
func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}
