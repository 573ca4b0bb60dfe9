package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lantern-hub/lantern/internal/config"
	domainActivity "github.com/lantern-hub/lantern/internal/domain/activity"
	domainAttempt "github.com/lantern-hub/lantern/internal/domain/attempt"
	domainLeaderboard "github.com/lantern-hub/lantern/internal/domain/leaderboard"
	domainRiddle "github.com/lantern-hub/lantern/internal/domain/riddle"
	domainSession "github.com/lantern-hub/lantern/internal/domain/session"
	domainUser "github.com/lantern-hub/lantern/internal/domain/user"
	"github.com/lantern-hub/lantern/internal/infrastructure/postgres"
	"github.com/lantern-hub/lantern/internal/infrastructure/sqlite"
)

// store is the set of repositories backed by one durable database.
type store struct {
	users       domainUser.Repository
	sessions    domainSession.Repository
	riddles     domainRiddle.Repository
	attempts    domainAttempt.Repository
	activity    domainActivity.Repository
	leaderboard domainLeaderboard.Repository
	ping        func(context.Context) error
	close       func()
}

func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		logger.Info().Str("path", cfg.SQLitePath).Msg("using sqlite store")
		return &store{
			users:       sqlite.NewUserRepository(db),
			sessions:    sqlite.NewSessionRepository(db),
			riddles:     sqlite.NewRiddleRepository(db),
			attempts:    sqlite.NewAttemptRepository(db),
			activity:    sqlite.NewActivityRepository(db),
			leaderboard: sqlite.NewLeaderboardRepository(db),
			ping:        db.PingContext,
			close:       func() { _ = db.Close() },
		}, nil
	default:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := postgres.RunMigrations(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info().Msg("using postgres store")
		return &store{
			users:       postgres.NewUserRepository(pool),
			sessions:    postgres.NewSessionRepository(pool),
			riddles:     postgres.NewRiddleRepository(pool),
			attempts:    postgres.NewAttemptRepository(pool),
			activity:    postgres.NewActivityRepository(pool),
			leaderboard: postgres.NewLeaderboardRepository(pool),
			ping:        pool.Ping,
			close:       pool.Close,
		}, nil
	}
}
