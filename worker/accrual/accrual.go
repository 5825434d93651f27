package accrual

import (
	"context"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"

	"lever/core"
	"lever/worker"
)

// Worker triggers interest accrual on a schedule and flushes the resulting
// state snapshot. The engine itself stays synchronous; this is plain
// host-side scheduling around it.
type Worker struct {
	worker.BaseJob
	Engine core.IEngine
	Store  core.IStateStore
}

// New new accrual worker
func New(cfg *core.Config, engine core.IEngine, store core.IStateStore) *Worker {
	job := Worker{
		Engine: engine,
		Store:  store,
	}

	location, _ := time.LoadLocation(cfg.App.Location)
	job.Cron = cron.New(cron.WithLocation(location))

	spec := cfg.App.AccrualSpec
	if spec == "" {
		spec = "@every 10s"
	}
	job.Cron.AddFunc(spec, job.Run)

	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "accrual")

	delta, err := w.Engine.Accrue(ctx)
	if err != nil {
		log.WithError(err).Errorln("accrue failed")
		return err
	}

	if delta.Sign() > 0 {
		log.Debugln("multiplier advanced by", delta)
	}

	if w.Store != nil {
		if err := w.Store.Save(ctx, w.Engine.Snapshot(ctx)); err != nil {
			log.WithError(err).Errorln("snapshot flush failed")
			return err
		}
	}

	return nil
}
