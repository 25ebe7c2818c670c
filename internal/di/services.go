// Package di provides dependency injection for service implementations.
package di

import (
	"fmt"
	"time"

	"github.com/aristath/folioview/internal/config"
	"github.com/aristath/folioview/internal/events"
	"github.com/aristath/folioview/internal/metrics"
	"github.com/aristath/folioview/internal/modules/holdings"
	"github.com/aristath/folioview/internal/modules/settings"
	"github.com/aristath/folioview/internal/modules/views"
	"github.com/aristath/folioview/internal/modules/watchlist"
	"github.com/aristath/folioview/internal/seed"
	"github.com/rs/zerolog"
)

// summaryTTL bounds how long a cached summary survives without a mutation
const summaryTTL = 5 * time.Minute

// InitializeServices creates the event bus, metrics and module services
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	container.EventBus = events.NewBus(log)
	container.EventManager = events.NewManager(container.EventBus, log)
	container.Metrics = metrics.New()

	var err error
	container.HoldingsService, err = holdings.NewService(
		container.HoldingsRepo, container.EventManager, container.Metrics, summaryTTL, log,
	)
	if err != nil {
		return fmt.Errorf("failed to create holdings service: %w", err)
	}

	container.WatchlistService, err = watchlist.NewService(
		container.WatchlistRepo, container.EventManager, container.Metrics, summaryTTL, log,
	)
	if err != nil {
		return fmt.Errorf("failed to create watchlist service: %w", err)
	}

	container.SettingsService = settings.NewService(container.SettingsRepo, container.EventManager, log)

	container.ViewsService = views.NewService(container.ViewsRepo, cfg.ViewTTL, container.EventManager, log)
	container.ViewsService.RegisterValidator(holdings.TableName, container.HoldingsService.ValidateState)
	container.ViewsService.RegisterValidator(watchlist.TableName, container.WatchlistService.ValidateState)

	container.Seeder = seed.NewSeeder(
		container.HoldingsService, container.WatchlistService, container.EventManager, log,
	)

	registerListeners(container, log)

	log.Info().Msg("Services initialized")
	return nil
}

// registerListeners counts every published event and drops summary caches
// when seed data replaces the tables
func registerListeners(container *Container, log zerolog.Logger) {
	bus := container.EventBus

	for _, eventType := range events.AllEventTypes {
		eventType := eventType
		container.unsubscribers = append(container.unsubscribers, bus.Subscribe(eventType, func(*events.Event) {
			container.Metrics.ObserveEvent(string(eventType))
		}))
	}

	container.unsubscribers = append(container.unsubscribers, bus.Subscribe(events.DataSeeded, func(e *events.Event) {
		container.HoldingsService.Invalidate()
		container.WatchlistService.Invalidate()
		log.Debug().Interface("data", e.Data).Msg("Summary caches dropped after seeding")
	}))
}
