package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Maintenance periodically purges expired entries from in-process stores.
type Maintenance struct {
	schedule string
	sweepers map[string]Sweeper
	logger   *zap.Logger
}

// NewMaintenance creates a Maintenance running on a cron schedule.
func NewMaintenance(schedule string, sweepers map[string]Sweeper, logger *zap.Logger) *Maintenance {
	return &Maintenance{schedule: schedule, sweepers: sweepers, logger: logger}
}

// Start schedules the sweep and blocks until ctx is done.
func (m *Maintenance) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	if _, err := c.AddFunc(m.schedule, m.RunOnce); err != nil {
		return fmt.Errorf("schedule sweep %q: %w", m.schedule, err)
	}

	c.Start()
	m.logger.Info("maintenance started", zap.String("schedule", m.schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	m.logger.Info("maintenance stopped")
	return nil
}

// RunOnce sweeps every registered store.
func (m *Maintenance) RunOnce() {
	for name, sw := range m.sweepers {
		if removed := sw.Sweep(); removed > 0 {
			m.logger.Debug("swept expired entries", zap.String("store", name), zap.Int("removed", removed))
		}
	}
}
