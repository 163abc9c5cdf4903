package config

import (
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DBConfig contains the batch metadata store configuration.
// Driver selects the dialect: postgres connects with Host..SSLMode, sqlite opens Path.
type DBConfig struct {
	Driver   string `env:"DRIVER"   envDefault:"postgres"`
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"batch"`
	Password string `env:"PASSWORD" envDefault:"batch"`
	Name     string `env:"NAME"     envDefault:"batch"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	Path     string `env:"PATH"     envDefault:"batch.db"`

	MaxOpenConns    int           `env:"MAX_OPEN_CONNS"    envDefault:"10"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS"    envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	// StatementTimeout bounds every explorer call; zero disables it.
	StatementTimeout time.Duration `env:"STATEMENT_TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to pool and timeout settings.
func (c *DBConfig) Sanitize() {
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	if c.Driver == "" {
		c.Driver = "postgres"
	}
	if c.MaxOpenConns < 2 {
		// The service fetches a page and its total on separate connections.
		c.MaxOpenConns = 2
	}
	if c.MaxIdleConns < 0 {
		c.MaxIdleConns = 0
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxLifetime < 0 {
		c.ConnMaxLifetime = 0
	}
	if c.StatementTimeout < 0 {
		c.StatementTimeout = 0
	}
}

// PostgresDSN builds the pgx connection URL. Credentials are escaped by url.URL.
func (c *DBConfig) PostgresDSN() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	if c.StatementTimeout > 0 {
		q.Set("statement_timeout", strconv.FormatInt(c.StatementTimeout.Milliseconds(), 10))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// SQLiteDSN builds the go-sqlite3 DSN. The store is opened read-only unless writable is set.
func (c *DBConfig) SQLiteDSN(writable bool) string {
	q := url.Values{}
	q.Set("_busy_timeout", "5000")
	if !writable {
		q.Set("mode", "ro")
	}
	return "file:" + c.Path + "?" + q.Encode()
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:""`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:""`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
}

// CacheConfig contains count cache configuration (Redis-based).
type CacheConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"false"`

	// CountTTL is how long a filter total is served from the cache.
	CountTTL  time.Duration `env:"COUNT_TTL"  envDefault:"30s"`
	KeyPrefix string        `env:"KEY_PREFIX" envDefault:"batch-explorer:"`
}

// Sanitize applies guardrails to cache configuration values.
func (c *CacheConfig) Sanitize() {
	if c.CountTTL < time.Second {
		c.CountTTL = time.Second
	}
	c.KeyPrefix = strings.TrimSpace(c.KeyPrefix)
	if c.KeyPrefix == "" {
		c.KeyPrefix = "batch-explorer:"
	}
}
