/**
 * Package di provides dependency injection type definitions.
 *
 * This package defines the Container type which holds all application dependencies.
 * The Container is the single source of truth for all service instances and is
 * passed to the server for access to services.
 */
package di

import (
	"errors"

	"github.com/aristath/folioview/internal/database"
	"github.com/aristath/folioview/internal/events"
	"github.com/aristath/folioview/internal/metrics"
	"github.com/aristath/folioview/internal/modules/holdings"
	"github.com/aristath/folioview/internal/modules/settings"
	"github.com/aristath/folioview/internal/modules/views"
	"github.com/aristath/folioview/internal/modules/watchlist"
	"github.com/aristath/folioview/internal/scheduler"
	"github.com/aristath/folioview/internal/seed"
)

/**
 * Container holds all dependencies for the application.
 *
 * Architecture:
 * - Databases: portfolio (holdings, watchlist), config (settings), cache (saved views)
 * - Repositories: data access per module
 * - Services: table projection, reordering, notes, settings and saved views
 * - Scheduler: maintenance jobs on cron schedules
 */
type Container struct {
	// Databases
	PortfolioDB *database.DB
	ConfigDB    *database.DB
	CacheDB     *database.DB

	// Events and metrics
	EventBus     *events.Bus
	EventManager *events.Manager
	Metrics      *metrics.Metrics

	// Repositories
	HoldingsRepo  *holdings.Repository
	WatchlistRepo *watchlist.Repository
	SettingsRepo  *settings.Repository
	ViewsRepo     *views.Repository

	// Services
	HoldingsService  *holdings.Service
	WatchlistService *watchlist.Service
	SettingsService  *settings.Service
	ViewsService     *views.Service
	Seeder           *seed.Seeder

	// Background jobs
	Scheduler *scheduler.Scheduler

	unsubscribers []func()
}

// JobInstances holds the registered jobs for manual triggering
type JobInstances struct {
	ViewsCleanup        scheduler.Job
	CheckWALCheckpoints scheduler.Job
}

// Databases returns the open databases, skipping any that were never initialized
func (c *Container) Databases() []*database.DB {
	out := make([]*database.DB, 0, 3)
	for _, db := range []*database.DB{c.PortfolioDB, c.ConfigDB, c.CacheDB} {
		if db != nil {
			out = append(out, db)
		}
	}
	return out
}

// Close drops event subscriptions and closes every database
func (c *Container) Close() error {
	for _, unsub := range c.unsubscribers {
		unsub()
	}
	c.unsubscribers = nil

	var errs []error
	for _, db := range c.Databases() {
		if err := db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
