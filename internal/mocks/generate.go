// Package mocks provides mock implementations of the core ports for tests.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks.
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockJobExecutionQueries(ctrl)
//	repo.EXPECT().CountExecutions(gomock.Any(), model.AllExecutions()).Return(7, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_execution_queries_mock.go github.com/target/batch-explorer/internal/core JobExecutionQueries
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_execution_writer_mock.go github.com/target/batch-explorer/internal/core JobExecutionWriter
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/target/batch-explorer/internal/core CacheRepository
