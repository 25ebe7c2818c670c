// Package di provides dependency injection for scheduler jobs.
package di

import (
	"fmt"

	"github.com/aristath/folioview/internal/config"
	"github.com/aristath/folioview/internal/modules/views"
	"github.com/aristath/folioview/internal/scheduler"
	"github.com/rs/zerolog"
)

// RegisterJobs creates the scheduler and registers the maintenance jobs on
// the configured cleanup schedule. The scheduler is not started.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	container.Scheduler = scheduler.New(container.EventManager, log)

	instances := &JobInstances{
		ViewsCleanup:        views.NewCleanupJob(container.ViewsRepo, log),
		CheckWALCheckpoints: scheduler.NewCheckWALCheckpointsJob(log, container.Databases()...),
	}

	for _, job := range []scheduler.Job{instances.ViewsCleanup, instances.CheckWALCheckpoints} {
		if err := container.Scheduler.AddJob(cfg.CleanupSchedule, job); err != nil {
			return nil, err
		}
	}

	log.Info().Str("schedule", cfg.CleanupSchedule).Msg("Jobs registered")
	return instances, nil
}
