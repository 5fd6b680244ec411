package service

import (
	"context"
	"fmt"

	"github.com/minbak/minbak-web/internal/core"
	"github.com/minbak/minbak-web/internal/domain/model"
	apperrors "github.com/minbak/minbak-web/internal/errors"
)

// MessageServiceOptions groups dependencies for MessageService.
type MessageServiceOptions struct {
	Messages core.MessageRepository // Required
	Bookings core.BookingRepository // Required: participant checks
}

// MessageService lets the guest and the host of a booking talk to each other.
type MessageService struct {
	messages core.MessageRepository
	bookings core.BookingRepository
}

// NewMessageService constructs a new MessageService.
func NewMessageService(opts MessageServiceOptions) *MessageService {
	if opts.Messages == nil {
		panic("MessageRepository is required")
	}
	if opts.Bookings == nil {
		panic("BookingRepository is required")
	}
	return &MessageService{messages: opts.Messages, bookings: opts.Bookings}
}

// Send posts a message to a booking thread as userID.
func (s *MessageService) Send(
	ctx context.Context,
	userID, bookingID string,
	req *model.SendMessageRequest,
) (*model.Message, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Invalid(err)
	}
	if err := s.requireParticipant(ctx, userID, bookingID); err != nil {
		return nil, err
	}
	m, err := s.messages.Create(ctx, bookingID, userID, req.Body)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return m, nil
}

// List returns a booking thread, oldest first.
func (s *MessageService) List(ctx context.Context, userID, bookingID string, limit, offset int) ([]*model.Message, error) {
	if err := s.requireParticipant(ctx, userID, bookingID); err != nil {
		return nil, err
	}
	out, err := s.messages.ListByBooking(ctx, bookingID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return out, nil
}

func (s *MessageService) requireParticipant(ctx context.Context, userID, bookingID string) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}
	if b.GuestID != userID && b.HostID != userID {
		return model.ErrNotParticipant
	}
	return nil
}
