// Package di provides dependency injection for repository implementations.
package di

import (
	"fmt"

	"github.com/aristath/folioview/internal/modules/holdings"
	"github.com/aristath/folioview/internal/modules/settings"
	"github.com/aristath/folioview/internal/modules/views"
	"github.com/aristath/folioview/internal/modules/watchlist"
	"github.com/rs/zerolog"
)

// InitializeRepositories creates all repositories and stores them in the container
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	container.HoldingsRepo = holdings.NewRepository(container.PortfolioDB.Conn(), log)
	container.WatchlistRepo = watchlist.NewRepository(container.PortfolioDB.Conn(), log)
	container.SettingsRepo = settings.NewRepository(container.ConfigDB.Conn(), log)
	container.ViewsRepo = views.NewRepository(container.CacheDB.Conn(), log)

	log.Info().Msg("Repositories initialized")
	return nil
}
