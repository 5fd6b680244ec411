package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/minbak/minbak-web/internal/core"
	"github.com/minbak/minbak-web/internal/domain/model"
	apperrors "github.com/minbak/minbak-web/internal/errors"
)

// BookingServiceOptions groups dependencies for BookingService.
type BookingServiceOptions struct {
	Repo   core.BookingRepository // Required
	Logger *slog.Logger           // Optional
}

// BookingService handles guest booking requests and host decisions on them.
type BookingService struct {
	repo   core.BookingRepository
	logger *slog.Logger
}

// NewBookingService constructs a new BookingService.
func NewBookingService(opts BookingServiceOptions) *BookingService {
	if opts.Repo == nil {
		panic("BookingRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingService{repo: opts.Repo, logger: logger.With("component", "booking_service")}
}

// Request files a booking request from guestID.
func (s *BookingService) Request(
	ctx context.Context,
	guestID string,
	req *model.CreateBookingRequest,
) (*model.Booking, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Invalid(err)
	}
	b, err := s.repo.Create(ctx, core.CreateBookingParams{GuestID: guestID, Request: req})
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	s.logger.InfoContext(ctx, "booking requested", "booking_id", b.ID, "listing_id", b.ListingID)
	return b, nil
}

// ListForGuest returns the bookings guestID has made.
func (s *BookingService) ListForGuest(ctx context.Context, guestID string, limit, offset int) ([]*model.Booking, error) {
	out, err := s.repo.ListByGuest(ctx, guestID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list guest bookings: %w", err)
	}
	return out, nil
}

// ListForHost returns the bookings made against hostID's listings.
func (s *BookingService) ListForHost(ctx context.Context, hostID string, limit, offset int) ([]*model.HostBooking, error) {
	out, err := s.repo.ListByHost(ctx, hostID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list host bookings: %w", err)
	}
	return out, nil
}

// Get returns a booking visible to userID, who must be its guest or its host.
func (s *BookingService) Get(ctx context.Context, userID, id string) (*model.HostBooking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if b.GuestID != userID && b.HostID != userID {
		return nil, model.ErrNotParticipant
	}
	return b, nil
}

// Cancel withdraws a requested or confirmed booking on behalf of its guest.
func (s *BookingService) Cancel(ctx context.Context, guestID, id string) (*model.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if b.GuestID != guestID {
		return nil, model.ErrNotParticipant
	}
	return s.transition(ctx, id, model.BookingStatusCancelled,
		model.BookingStatusRequested, model.BookingStatusConfirmed)
}

// Confirm accepts a requested booking on behalf of the listing host.
func (s *BookingService) Confirm(ctx context.Context, hostID, id string) (*model.Booking, error) {
	if err := s.requireHost(ctx, hostID, id); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, model.BookingStatusConfirmed, model.BookingStatusRequested)
}

// Decline refuses a requested booking on behalf of the listing host.
func (s *BookingService) Decline(ctx context.Context, hostID, id string) (*model.Booking, error) {
	if err := s.requireHost(ctx, hostID, id); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, model.BookingStatusDeclined, model.BookingStatusRequested)
}

func (s *BookingService) requireHost(ctx context.Context, hostID, id string) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}
	if b.HostID != hostID {
		return model.ErrNotListingOwner
	}
	return nil
}

func (s *BookingService) transition(
	ctx context.Context,
	id string,
	to model.BookingStatus,
	from ...model.BookingStatus,
) (*model.Booking, error) {
	b, err := s.repo.TransitionStatus(ctx, core.TransitionBookingParams{ID: id, From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	s.logger.InfoContext(ctx, "booking status changed", "booking_id", id, "status", to)
	return b, nil
}
