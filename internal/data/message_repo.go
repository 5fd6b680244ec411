package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/minbak/minbak-web/internal/data/pgxutil"
	"github.com/minbak/minbak-web/internal/domain/model"
	apperrors "github.com/minbak/minbak-web/internal/errors"
)

const messageColumns = `id, booking_id, sender_id, body, created_at`

// MessageRepo provides database operations for booking messages.
type MessageRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewMessageRepo creates a new MessageRepo instance with the given database connection.
func NewMessageRepo(db *sql.DB) *MessageRepo {
	return NewMessageRepoWithTimeProvider(db, nil)
}

// NewMessageRepoWithTimeProvider creates a MessageRepo with a custom TimeProvider (useful for testing).
func NewMessageRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *MessageRepo {
	return &MessageRepo{DB: db, timeProvider: orRealTime(tp)}
}

// Create appends a message to a booking thread.
func (r *MessageRepo) Create(ctx context.Context, bookingID, senderID, body string) (*model.Message, error) {
	if uuid.Validate(bookingID) != nil {
		return nil, ErrBookingNotFound
	}
	if uuid.Validate(senderID) != nil {
		return nil, ErrUserNotFound
	}
	if body == "" {
		return nil, apperrors.Validation("body is required")
	}

	m, err := pgxutil.CollectOne[model.Message](ctx, r.DB, `
		INSERT INTO messages (booking_id, sender_id, body, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING `+messageColumns,
		bookingID, senderID, body, r.timeProvider.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", apperrors.MapDBError(err))
	}
	return &m, nil
}

// ListByBooking returns a booking thread oldest first.
func (r *MessageRepo) ListByBooking(ctx context.Context, bookingID string, limit, offset int) ([]*model.Message, error) {
	if uuid.Validate(bookingID) != nil {
		return []*model.Message{}, nil
	}
	limit, offset = clampPage(limit, offset)
	rows, err := pgxutil.CollectAll[model.Message](ctx, r.DB, `
		SELECT `+messageColumns+` FROM messages
		WHERE booking_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3`, bookingID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", apperrors.MapDBError(err))
	}
	return pgxutil.Pointers(rows), nil
}
