// Package mocks provides mock implementations of the lingua-web ports for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the port interfaces.
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	fetcher := mocks.NewMockProfileFetcher(ctrl)
//	fetcher.EXPECT().FetchProfile(gomock.Any(), "abc123").Return(user, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=profile_fetcher_mock.go github.com/lingua-labs/lingua-web/internal/ports ProfileFetcher
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=authenticator_mock.go github.com/lingua-labs/lingua-web/internal/ports Authenticator
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=token_store_mock.go github.com/lingua-labs/lingua-web/internal/ports TokenStore

// Backend CRUD ports used by the catalog, exam and withdrawal services.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=backend_mock.go github.com/lingua-labs/lingua-web/internal/ports CatalogBackend,ExamBackend,WithdrawalBackend
