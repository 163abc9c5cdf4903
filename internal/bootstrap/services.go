package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/batch-explorer/config"
	"github.com/target/batch-explorer/internal/core"
	"github.com/target/batch-explorer/internal/data"
	"github.com/target/batch-explorer/internal/data/database"
	"github.com/target/batch-explorer/internal/data/schema"
	"github.com/target/batch-explorer/internal/service"
)

// ServiceContainer holds the explorer and the adapters behind it.
type ServiceContainer struct {
	Explorer *service.ExecutionService
	Repo     *data.JobExecutionRepo
	Writer   core.JobExecutionWriter
	Counts   *core.CountCache // nil when count caching is disabled
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	Dialect     database.Dialect
	RedisClient redis.UniversalClient // Optional
	Logger      *slog.Logger
}

// NewServices builds the execution repository for the configured schema and wires
// the explorer service over it.
func NewServices(ctx context.Context, deps ServiceDeps) (*ServiceContainer, error) {
	if deps.Config == nil {
		return nil, errors.New("config is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := schema.NewTemplater(deps.Config.Batch.TablePrefix, deps.Config.Batch.TaskTablePrefix)
	if err != nil {
		return nil, err
	}
	version, err := schema.Resolve(deps.Config.Batch.SchemaVersion)
	if err != nil {
		return nil, err
	}

	repo, err := data.NewJobExecutionRepo(ctx, deps.DB, data.JobExecutionRepoConfig{
		Dialect:   deps.Dialect,
		Version:   version,
		Templater: tmpl,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create job execution repository: %w", err)
	}

	counts := newCountCache(deps.Config, deps.RedisClient)
	if counts != nil {
		logger.InfoContext(ctx, "count cache enabled", "ttl", deps.Config.Cache.CountTTL)
	}

	explorer := service.NewExecutionService(service.ExecutionServiceOptions{
		Repo:   repo,
		Counts: counts,
		Config: service.ExecutionServiceConfig{
			DefaultPageSize: deps.Config.Explorer.DefaultPageSize,
			MaxPageSize:     deps.Config.Explorer.MaxPageSize,
			Logger:          logger,
		},
	})

	return &ServiceContainer{
		Explorer: explorer,
		Repo:     repo,
		Writer:   data.NewReadOnlyExecutionWriter(logger),
		Counts:   counts,
	}, nil
}

func newCountCache(cfg *config.AppConfig, client redis.UniversalClient) *core.CountCache {
	if client == nil || !cfg.CountCacheEnabled() {
		return nil
	}
	return core.NewCountCache(data.NewRedisCacheRepo(client), core.CountCacheConfig{
		TTL:       cfg.Cache.CountTTL,
		KeyPrefix: cfg.Cache.KeyPrefix,
	})
}
