// Package mocks provides gomock implementations of the repository and authorization ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockListingRepository(ctrl)
//	repo.EXPECT().GetByID(gomock.Any(), "listing-1").Return(listing, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/minbak/minbak-web/internal/core UserRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=listing_repository_mock.go github.com/minbak/minbak-web/internal/core ListingRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=booking_repository_mock.go github.com/minbak/minbak-web/internal/core BookingRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=message_repository_mock.go github.com/minbak/minbak-web/internal/core MessageRepository

// UserStore is consulted by the admin role gate.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_store_mock.go github.com/minbak/minbak-web/internal/ports UserStore
