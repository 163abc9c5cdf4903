//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed globally via `go install` and are not tracked in go.mod
// since they are development tools, not runtime dependencies.
package tools

// Development tools (install via `go install`):
//
// mockgen - Regenerates internal/mocks from the ports in internal/core
//   Install: go install go.uber.org/mock/mockgen@v0.6.0
//   Version: v0.6.0 (matches go.uber.org/mock in go.mod)
//   Usage: go generate ./internal/mocks
//
// goose - Inspects the fixture schema migrations outside the CLI
//   Install: go install github.com/pressly/goose/v3/cmd/goose@v3.26.0
//   Usage: goose -dir internal/migrate/migrations/v5 sqlite3 ./batch.db status
