package database

import (
	"strings"
	"testing"

	apperrors "github.com/target/batch-explorer/internal/errors"
)

type prefixes struct{}

func (prefixes) Apply(q string) string {
	q = strings.ReplaceAll(q, "%TASK_PREFIX%", "TASK_")
	return strings.ReplaceAll(q, "%PREFIX%", "BATCH_")
}

func TestPostgresRebind(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"A = ? AND B = ?", "A = $1 AND B = $2"},
		{"A = '?' AND B = ?", "A = '?' AND B = $1"},
		{"A LIKE 'it''s?' AND B < ? LIMIT ?", "A LIKE 'it''s?' AND B < $1 LIMIT $2"},
	}
	for _, tt := range tests {
		if got := (Postgres{}).Rebind(tt.in); got != tt.want {
			t.Errorf("Rebind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSQLiteRebindIsIdentity(t *testing.T) {
	q := "A = ? AND B = ?"
	if got := (SQLite{}).Rebind(q); got != q {
		t.Errorf("Rebind(%q) = %q", q, got)
	}
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		driver string
	}{
		{"postgres", DialectPostgres, "pgx"},
		{"PostgreSQL", DialectPostgres, "pgx"},
		{" pgx ", DialectPostgres, "pgx"},
		{"sqlite", DialectSQLite, "sqlite3"},
		{"sqlite3", DialectSQLite, "sqlite3"},
	}
	for _, tt := range tests {
		d, err := DialectFor(tt.name)
		if err != nil {
			t.Fatalf("DialectFor(%q): %v", tt.name, err)
		}
		if d.Name() != tt.want || d.DriverName() != tt.driver {
			t.Errorf("DialectFor(%q) = %s/%s, want %s/%s", tt.name, d.Name(), d.DriverName(), tt.want, tt.driver)
		}
	}

	if _, err := DialectFor("oracle"); !apperrors.IsConfiguration(err) {
		t.Errorf("DialectFor(oracle) error = %v, want configuration fault", err)
	}
}

func TestRender(t *testing.T) {
	got := Render(Postgres{}, prefixes{}, "SELECT * FROM %PREFIX%JOB_EXECUTION E, %TASK_PREFIX%TASK_BATCH B WHERE E.ID = ?")
	want := "SELECT * FROM BATCH_JOB_EXECUTION E, TASK_TASK_BATCH B WHERE E.ID = $1"
	if got.String() != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestCountMarkers(t *testing.T) {
	tests := map[string]int{
		"":                          0,
		"I.JOB_NAME LIKE ?":         1,
		"A = ? AND B = '?' AND C=?": 2,
	}
	for clause, want := range tests {
		if got := countMarkers(clause); got != want {
			t.Errorf("countMarkers(%q) = %d, want %d", clause, got, want)
		}
	}
}
