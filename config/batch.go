package config

import (
	"strings"

	"github.com/target/batch-explorer/internal/data/schema"
)

// BatchConfig describes the batch metadata tables being explored.
type BatchConfig struct {
	// SchemaVersion is V4 or V5. Parsing fails on anything else.
	SchemaVersion schema.Tag `env:"SCHEMA_VERSION" envDefault:"V5"`

	// TablePrefix replaces %PREFIX% in every statement.
	TablePrefix string `env:"TABLE_PREFIX" envDefault:"BATCH_"`

	// TaskTablePrefix replaces %TASK_PREFIX% (the task-batch association table).
	TaskTablePrefix string `env:"TASK_TABLE_PREFIX" envDefault:"TASK_"`
}

// Sanitize trims the prefixes. Their syntax is checked when statements are rendered.
func (c *BatchConfig) Sanitize() {
	c.TablePrefix = strings.TrimSpace(c.TablePrefix)
	c.TaskTablePrefix = strings.TrimSpace(c.TaskTablePrefix)
}

// ExplorerConfig contains paging limits for list requests.
type ExplorerConfig struct {
	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE" envDefault:"20"`
	MaxPageSize     int `env:"MAX_PAGE_SIZE"     envDefault:"500"`
}

// Sanitize applies guardrails to paging limits.
func (c *ExplorerConfig) Sanitize() {
	if c.MaxPageSize < 1 {
		c.MaxPageSize = 1
	}
	if c.MaxPageSize > 10000 {
		c.MaxPageSize = 10000
	}
	if c.DefaultPageSize < 1 {
		c.DefaultPageSize = 1
	}
	if c.DefaultPageSize > c.MaxPageSize {
		c.DefaultPageSize = c.MaxPageSize
	}
}
