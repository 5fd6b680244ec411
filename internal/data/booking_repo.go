package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/minbak/minbak-web/internal/core"
	"github.com/minbak/minbak-web/internal/data/pgxutil"
	"github.com/minbak/minbak-web/internal/domain/model"
	apperrors "github.com/minbak/minbak-web/internal/errors"
)

const bookingColumns = `id, listing_id, guest_id, check_in, check_out, guests, status, created_at, updated_at`

const hostBookingSelect = `
	SELECT b.id, b.listing_id, b.guest_id, b.check_in, b.check_out, b.guests, b.status,
		b.created_at, b.updated_at, l.title AS listing_title, l.host_id
	FROM bookings b
	JOIN listings l ON l.id = b.listing_id`

// BookingRepo provides database operations for bookings.
type BookingRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewBookingRepo creates a new BookingRepo instance with the given database connection.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return NewBookingRepoWithTimeProvider(db, nil)
}

// NewBookingRepoWithTimeProvider creates a BookingRepo with a custom TimeProvider (useful for testing).
func NewBookingRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *BookingRepo {
	return &BookingRepo{DB: db, timeProvider: orRealTime(tp)}
}

type bookableListing struct {
	Status    model.ListingStatus `db:"status"`
	MaxGuests int                 `db:"max_guests"`
}

// Create inserts a requested booking. The listing row is share-locked so a concurrent
// status change cannot slip between the bookability check and the insert.
func (r *BookingRepo) Create(ctx context.Context, params core.CreateBookingParams) (*model.Booking, error) {
	req := params.Request
	if req == nil {
		return nil, ErrRequestRequired
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Invalid(err)
	}
	if uuid.Validate(params.GuestID) != nil {
		return nil, ErrUserNotFound
	}
	if uuid.Validate(req.ListingID) != nil {
		return nil, ErrListingNotFound
	}
	checkIn, checkOut, err := req.Dates()
	if err != nil {
		return nil, apperrors.Invalid(err)
	}

	var out model.Booking
	err = pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		l, qerr := pgxutil.CollectOneWith[bookableListing](ctx, tx,
			`SELECT status, max_guests FROM listings WHERE id = $1 FOR SHARE`, req.ListingID)
		if qerr != nil {
			if errors.Is(qerr, pgx.ErrNoRows) {
				return ErrListingNotFound
			}
			return fmt.Errorf("failed to lock listing: %w", apperrors.MapDBError(qerr))
		}
		if l.Status != model.ListingStatusApproved {
			return model.ErrListingNotBookable
		}
		if req.Guests > l.MaxGuests {
			return apperrors.Validation(fmt.Sprintf("listing accepts at most %d guests", l.MaxGuests))
		}

		now := r.timeProvider.Now()
		out, qerr = pgxutil.CollectOneWith[model.Booking](ctx, tx, `
			INSERT INTO bookings (listing_id, guest_id, check_in, check_out, guests, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			RETURNING `+bookingColumns,
			req.ListingID, params.GuestID, checkIn, checkOut, req.Guests, model.BookingStatusRequested, now)
		if qerr != nil {
			return fmt.Errorf("failed to create booking: %w", apperrors.MapDBError(qerr))
		}
		return nil
	}})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID retrieves a booking together with its listing title and host.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*model.HostBooking, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrBookingNotFound
	}
	b, err := pgxutil.CollectOne[model.HostBooking](ctx, r.DB, hostBookingSelect+` WHERE b.id = $1`, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", apperrors.MapDBError(err))
	}
	return &b, nil
}

// ListByGuest returns a guest's bookings, newest first.
func (r *BookingRepo) ListByGuest(ctx context.Context, guestID string, limit, offset int) ([]*model.Booking, error) {
	if uuid.Validate(guestID) != nil {
		return []*model.Booking{}, nil
	}
	limit, offset = clampPage(limit, offset)
	rows, err := pgxutil.CollectAll[model.Booking](ctx, r.DB, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE guest_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`, guestID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list guest bookings: %w", apperrors.MapDBError(err))
	}
	return pgxutil.Pointers(rows), nil
}

// ListByHost returns bookings across every listing owned by hostID, newest first.
func (r *BookingRepo) ListByHost(ctx context.Context, hostID string, limit, offset int) ([]*model.HostBooking, error) {
	if uuid.Validate(hostID) != nil {
		return []*model.HostBooking{}, nil
	}
	limit, offset = clampPage(limit, offset)
	rows, err := pgxutil.CollectAll[model.HostBooking](ctx, r.DB, hostBookingSelect+`
		WHERE l.host_id = $1
		ORDER BY b.created_at DESC, b.id
		LIMIT $2 OFFSET $3`, hostID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list host bookings: %w", apperrors.MapDBError(err))
	}
	return pgxutil.Pointers(rows), nil
}

// TransitionStatus moves a booking to params.To when its current status is one of params.From.
func (r *BookingRepo) TransitionStatus(ctx context.Context, params core.TransitionBookingParams) (*model.Booking, error) {
	if uuid.Validate(params.ID) != nil {
		return nil, ErrBookingNotFound
	}
	if len(params.From) == 0 {
		return nil, errors.New("at least one source status is required")
	}
	from := make([]string, len(params.From))
	for i, s := range params.From {
		from[i] = string(s)
	}

	b, err := pgxutil.CollectOne[model.Booking](ctx, r.DB, `
		UPDATE bookings SET status = $2, updated_at = $3
		WHERE id = $1 AND status = ANY($4::text[])
		RETURNING `+bookingColumns,
		params.ID, params.To, r.timeProvider.Now(), from)
	if err == nil {
		return &b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to update booking status: %w", apperrors.MapDBError(err))
	}

	// Nothing matched: either the booking is gone or it is in another status.
	if _, gerr := r.GetByID(ctx, params.ID); gerr != nil {
		return nil, gerr
	}
	return nil, model.ErrBookingStatusConflict
}

// DeclineStaleRequests declines up to batchSize requested bookings whose check-in date
// is before cutoff. Rows locked by a concurrent host decision are skipped.
func (r *BookingRepo) DeclineStaleRequests(ctx context.Context, cutoff time.Time, batchSize int) (int64, error) {
	return r.declineBatch(ctx, `
		UPDATE bookings SET status = 'declined', updated_at = $1
		WHERE id IN (
			SELECT id FROM bookings
			WHERE status = 'requested' AND check_in < $2::date
			ORDER BY check_in
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)`, r.timeProvider.Now(), cutoff.UTC().Format(model.DateLayout), batchSize)
}

// DeclineRejectedListingRequests declines up to batchSize requested bookings on rejected listings.
func (r *BookingRepo) DeclineRejectedListingRequests(ctx context.Context, batchSize int) (int64, error) {
	return r.declineBatch(ctx, `
		UPDATE bookings SET status = 'declined', updated_at = $1
		WHERE id IN (
			SELECT b.id FROM bookings b
			JOIN listings l ON l.id = b.listing_id
			WHERE b.status = 'requested' AND l.status = 'rejected'
			LIMIT $2
			FOR UPDATE OF b SKIP LOCKED
		)`, r.timeProvider.Now(), batchSize)
}

func (r *BookingRepo) declineBatch(ctx context.Context, q string, args ...any) (int64, error) {
	res, err := r.DB.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to decline booking requests: %w", apperrors.MapDBError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
