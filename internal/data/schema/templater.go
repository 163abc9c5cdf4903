package schema

import (
	"regexp"
	"strings"

	apperrors "github.com/target/batch-explorer/internal/errors"
)

const (
	// PrefixToken is replaced with the batch table prefix.
	PrefixToken = "%PREFIX%"
	// TaskPrefixToken is replaced with the task table prefix.
	TaskPrefixToken = "%TASK_PREFIX%"

	// DefaultTablePrefix is the prefix batch runtimes use unless configured otherwise.
	DefaultTablePrefix = "BATCH_"
	// DefaultTaskTablePrefix is the prefix of the task tables (TASK_TASK_BATCH).
	DefaultTaskTablePrefix = "TASK_"
)

var prefixPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Templater substitutes table prefixes into SQL text.
type Templater struct {
	tablePrefix     string
	taskTablePrefix string
}

// NewTemplater validates the prefixes. Empty prefixes take the defaults;
// anything that is not a plain SQL identifier is a configuration fault.
func NewTemplater(tablePrefix, taskTablePrefix string) (Templater, error) {
	if tablePrefix == "" {
		tablePrefix = DefaultTablePrefix
	}
	if taskTablePrefix == "" {
		taskTablePrefix = DefaultTaskTablePrefix
	}
	if !prefixPattern.MatchString(tablePrefix) {
		return Templater{}, apperrors.Configurationf("invalid table prefix %q", tablePrefix)
	}
	if !prefixPattern.MatchString(taskTablePrefix) {
		return Templater{}, apperrors.Configurationf("invalid task table prefix %q", taskTablePrefix)
	}
	return Templater{tablePrefix: tablePrefix, taskTablePrefix: taskTablePrefix}, nil
}

// Apply replaces the prefix tokens in query.
func (t Templater) Apply(query string) string {
	query = strings.ReplaceAll(query, TaskPrefixToken, t.taskTablePrefix)
	return strings.ReplaceAll(query, PrefixToken, t.tablePrefix)
}

// TablePrefix returns the batch table prefix.
func (t Templater) TablePrefix() string { return t.tablePrefix }

// TaskTablePrefix returns the task table prefix.
func (t Templater) TaskTablePrefix() string { return t.taskTablePrefix }
