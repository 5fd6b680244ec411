package core

import (
	"context"
	"time"

	"github.com/minbak/minbak-web/internal/domain/model"
)

// Repository interfaces (ports in hexagonal architecture) between the service layer and the data layer.
// Service implementations depend on these interfaces, not on the Postgres repos.

// UserRepository defines the interface for user account data operations.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	CreateWithPassword(ctx context.Context, req *model.RegisterUserRequest, passwordHash string) (*model.User, error)
	UpsertExternal(ctx context.Context, req model.UpsertExternalUserRequest) (*model.User, error)
}

// ListingRepository defines the interface for listing data operations.
type ListingRepository interface {
	Create(ctx context.Context, hostID string, req *model.CreateListingRequest) (*model.Listing, error)
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	Search(ctx context.Context, opts model.ListingSearchOptions) ([]*model.Listing, error)
	List(ctx context.Context, opts model.ListingListOptions) ([]*model.Listing, error)
	// Update applies req and moves the listing back to pending review.
	Update(ctx context.Context, id string, req model.UpdateListingRequest) (*model.Listing, error)
	SetStatus(ctx context.Context, params SetListingStatusParams) (*model.Listing, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// SetListingStatusParams groups parameters for ListingRepository.SetStatus.
type SetListingStatusParams struct {
	ID     string
	Status model.ListingStatus
	Reason *string
}

// BookingRepository defines the interface for booking data operations.
type BookingRepository interface {
	Create(ctx context.Context, params CreateBookingParams) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.HostBooking, error)
	ListByGuest(ctx context.Context, guestID string, limit, offset int) ([]*model.Booking, error)
	ListByHost(ctx context.Context, hostID string, limit, offset int) ([]*model.HostBooking, error)
	// TransitionStatus moves a booking to params.To only when its current status is one of params.From.
	// It returns ErrBookingStatusConflict when the booking exists but is in another status.
	TransitionStatus(ctx context.Context, params TransitionBookingParams) (*model.Booking, error)
}

// CreateBookingParams groups the validated inputs of a booking request.
type CreateBookingParams struct {
	GuestID string
	Request *model.CreateBookingRequest
}

// TransitionBookingParams groups parameters for BookingRepository.TransitionStatus.
type TransitionBookingParams struct {
	ID   string
	From []model.BookingStatus
	To   model.BookingStatus
}

// MessageRepository defines the interface for booking message data operations.
type MessageRepository interface {
	Create(ctx context.Context, bookingID, senderID, body string) (*model.Message, error)
	ListByBooking(ctx context.Context, bookingID string, limit, offset int) ([]*model.Message, error)
}

// ReaperRepository declines booking requests that can no longer be answered.
// Each call handles at most batchSize rows and reports how many it changed.
type ReaperRepository interface {
	// DeclineStaleRequests declines requested bookings whose check-in date is before cutoff.
	DeclineStaleRequests(ctx context.Context, cutoff time.Time, batchSize int) (int64, error)
	// DeclineRejectedListingRequests declines requested bookings on rejected listings.
	DeclineRejectedListingRequests(ctx context.Context, batchSize int) (int64, error)
}
