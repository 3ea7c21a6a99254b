package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/RewardEngine_Go/internal/activity"
	"github.com/osse101/RewardEngine_Go/internal/badge"
	"github.com/osse101/RewardEngine_Go/internal/config"
	"github.com/osse101/RewardEngine_Go/internal/diamond"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/eventlog"
	"github.com/osse101/RewardEngine_Go/internal/ledger"
	"github.com/osse101/RewardEngine_Go/internal/pack"
	"github.com/osse101/RewardEngine_Go/internal/rarity"
	"github.com/osse101/RewardEngine_Go/internal/repository"
	"github.com/osse101/RewardEngine_Go/internal/server"
	"github.com/osse101/RewardEngine_Go/internal/streak"
	"github.com/osse101/RewardEngine_Go/internal/user"
	"github.com/osse101/RewardEngine_Go/internal/validation"
)

// LoadPackCatalog reads and schema-checks the pack definitions
func LoadPackCatalog(cfg *config.Config) (*pack.Catalog, error) {
	slog.Info(LogMsgLoadingPackCatalog, "path", cfg.PacksConfigPath)

	catalog, err := pack.LoadCatalog(cfg.PacksConfigPath, cfg.PacksSchemaPath, validation.NewSchemaValidator())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadPacks, err)
	}

	slog.Info(LogMsgPackCatalogLoaded, "packs", len(catalog.List()))
	return catalog, nil
}

// InitializeServices wires every reward service onto store. Services publish
// through publisher; feed serves the per-user event history.
func InitializeServices(cfg *config.Config, store repository.Store, publisher event.Publisher, catalog *pack.Catalog, feed eventlog.Service) server.Services {
	loc := cfg.Location

	rarities := rarity.NewService(store, cfg.PityScopedByPack(), cfg.RateRuleCacheTTL)
	streaks := streak.NewService(store, publisher, loc)
	badges := badge.NewService(store, publisher)

	return server.Services{
		Users:      user.NewService(store, loc),
		Diamonds:   diamond.NewService(store, publisher, loc),
		Ledger:     ledger.NewService(store),
		Packs:      pack.NewService(store, catalog, rarities, publisher),
		Rarity:     rarities,
		Streaks:    streaks,
		Activities: activity.NewService(store, streaks, badges, publisher, loc),
		Badges:     badges,
		Events:     feed,
	}
}
