// Package explorertest wires a complete explorer over a throwaway store for end-to-end tests.
package explorertest

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/batch-explorer/internal/core"
	"github.com/target/batch-explorer/internal/data"
	"github.com/target/batch-explorer/internal/data/database"
	"github.com/target/batch-explorer/internal/data/schema"
	"github.com/target/batch-explorer/internal/service"
	"github.com/target/batch-explorer/internal/testutil"
)

// Options configures the harness.
type Options struct {
	// Tag is the schema version of the store; V5 when empty.
	Tag schema.Tag
	// Postgres runs against the test Postgres instance instead of SQLite.
	Postgres bool
	// EnableRedis caches counts in the test Redis instance.
	EnableRedis bool
	// DefaultPageSize and MaxPageSize configure the service; zero keeps the service defaults.
	DefaultPageSize int
	MaxPageSize     int
}

// Harness holds every layer of the explorer over one store.
type Harness struct {
	t testutil.TestingTB

	DB      *sql.DB
	Dialect database.Dialect
	Tag     schema.Tag
	Fixture *testutil.Fixture

	Repo    *data.JobExecutionRepo
	Writer  *data.ReadOnlyExecutionWriter
	Service *service.ExecutionService

	RedisClient *redis.Client
	Counts      *core.CountCache
}

// New creates the store, applies the schema and wires repository, cache and service.
// Tests are skipped when an infrastructure dependency the options ask for is unavailable.
func New(t testutil.TestingTB, opts Options) *Harness {
	t.Helper()

	if opts.Tag == "" {
		opts.Tag = schema.V5
	}
	h := &Harness{t: t, Tag: opts.Tag}

	if opts.Postgres {
		h.DB = testutil.SetupPostgres(t, opts.Tag)
		h.Dialect = database.Postgres{}
	} else {
		h.DB = testutil.OpenSQLite(t, opts.Tag)
		h.Dialect = database.SQLite{}
	}

	version, err := schema.Resolve(opts.Tag)
	if err != nil {
		t.Fatalf("resolve schema version: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	h.Repo, err = data.NewJobExecutionRepo(ctx, h.DB, data.JobExecutionRepoConfig{
		Dialect: h.Dialect,
		Version: version,
	})
	if err != nil {
		t.Fatalf("create job execution repository: %v", err)
	}
	h.Writer = data.NewReadOnlyExecutionWriter(nil)
	h.Fixture = testutil.NewFixture(t, h.DB, h.Dialect, opts.Tag)

	if opts.EnableRedis {
		h.RedisClient = testutil.SetupTestRedis(t)
		h.Counts = core.NewCountCache(data.NewRedisCacheRepo(h.RedisClient), core.DefaultCountCacheConfig())
	}

	h.Service = service.NewExecutionService(service.ExecutionServiceOptions{
		Repo:   h.Repo,
		Counts: h.Counts,
		Config: service.ExecutionServiceConfig{
			DefaultPageSize: opts.DefaultPageSize,
			MaxPageSize:     opts.MaxPageSize,
		},
	})
	return h
}

// SeedRange writes one instance named name with executions first..last, all COMPLETED.
func (h *Harness) SeedRange(instanceID int64, name string, first, last int64) *Harness {
	h.t.Helper()
	h.Fixture.Instance(instanceID, name)
	for id := first; id <= last; id++ {
		h.Fixture.Execution(testutil.NewExecution(id, instanceID))
	}
	return h
}
