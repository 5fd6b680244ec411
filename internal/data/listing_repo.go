package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/minbak/minbak-web/internal/core"
	"github.com/minbak/minbak-web/internal/data/database"
	"github.com/minbak/minbak-web/internal/data/pgxutil"
	"github.com/minbak/minbak-web/internal/domain/model"
	apperrors "github.com/minbak/minbak-web/internal/errors"
)

var listingColumnList = []string{
	"id", "host_id", "title", "description", "city", "address", "price_per_night", "max_guests",
	"status", "rejection_reason", "created_at", "updated_at",
}

var listingColumns = strings.Join(listingColumnList, ", ")

// ListingRepo provides database operations for listings.
type ListingRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewListingRepo creates a new ListingRepo instance with the given database connection.
func NewListingRepo(db *sql.DB) *ListingRepo {
	return NewListingRepoWithTimeProvider(db, nil)
}

// NewListingRepoWithTimeProvider creates a ListingRepo with a custom TimeProvider (useful for testing).
func NewListingRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ListingRepo {
	return &ListingRepo{DB: db, timeProvider: orRealTime(tp)}
}

// Create inserts a pending listing owned by hostID.
func (r *ListingRepo) Create(ctx context.Context, hostID string, req *model.CreateListingRequest) (*model.Listing, error) {
	if req == nil {
		return nil, ErrRequestRequired
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Invalid(err)
	}
	if uuid.Validate(hostID) != nil {
		return nil, ErrUserNotFound
	}

	now := r.timeProvider.Now()
	l, err := pgxutil.CollectOne[model.Listing](ctx, r.DB, `
		INSERT INTO listings (host_id, title, description, city, address, price_per_night, max_guests,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING `+listingColumns,
		hostID, req.Title, req.Description, req.City, req.Address, req.PricePerNight, req.MaxGuests,
		model.ListingStatusPending, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", apperrors.MapDBError(err))
	}
	return &l, nil
}

func (r *ListingRepo) getOne(ctx context.Context, errMsg, q string, args ...any) (*model.Listing, error) {
	l, err := pgxutil.CollectOne[model.Listing](ctx, r.DB, q, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, apperrors.MapDBError(err))
	}
	return &l, nil
}

// GetByID retrieves a listing by its ID regardless of status.
func (r *ListingRepo) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrListingNotFound
	}
	return r.getOne(ctx, "failed to get listing", `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
}

// Search lists approved listings, newest first, filtered by city and party size.
func (r *ListingRepo) Search(ctx context.Context, opts model.ListingSearchOptions) ([]*model.Listing, error) {
	limit, offset := clampPage(opts.Limit, opts.Offset)

	qopts := []database.ListQueryOption{
		database.WithColumns(listingColumnList...),
		database.WithCondition(database.WhereCond("status", database.Equal, model.ListingStatusApproved)),
	}
	if opts.City != nil && strings.TrimSpace(*opts.City) != "" {
		qopts = append(qopts, database.WithCondition(
			database.WhereRawCond("lower(city) = lower($1)", strings.TrimSpace(*opts.City))))
	}
	if opts.Guests != nil && *opts.Guests > 0 {
		qopts = append(qopts, database.WithCondition(
			database.WhereCond("max_guests", database.GreaterThanOrEqual, *opts.Guests)))
	}
	return r.list(ctx, "failed to search listings", limit, offset, qopts)
}

// List returns listings filtered by host and status, newest first.
func (r *ListingRepo) List(ctx context.Context, opts model.ListingListOptions) ([]*model.Listing, error) {
	limit, offset := clampPage(opts.Limit, opts.Offset)

	qopts := []database.ListQueryOption{database.WithColumns(listingColumnList...)}
	if opts.HostID != nil {
		if uuid.Validate(*opts.HostID) != nil {
			return []*model.Listing{}, nil
		}
		qopts = append(qopts, database.WithCondition(database.WhereCond("host_id", database.Equal, *opts.HostID)))
	}
	if opts.Status != nil {
		qopts = append(qopts, database.WithCondition(database.WhereCond("status", database.Equal, *opts.Status)))
	}
	return r.list(ctx, "failed to list listings", limit, offset, qopts)
}

func (r *ListingRepo) list(
	ctx context.Context,
	errMsg string,
	limit, offset int,
	qopts []database.ListQueryOption,
) ([]*model.Listing, error) {
	qopts = append(qopts,
		database.WithOrderBy("created_at", "DESC"),
		database.WithOrderBy("id", "ASC"),
		database.WithLimit(limit),
		database.WithOffset(offset),
	)
	q, args := database.BuildListQuery(database.NewListQueryOptions("listings", qopts...))
	rows, err := pgxutil.CollectAll[model.Listing](ctx, r.DB, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errMsg, apperrors.MapDBError(err))
	}
	return pgxutil.Pointers(rows), nil
}

// Update applies the set fields of req and sends the listing back to pending review.
func (r *ListingRepo) Update(ctx context.Context, id string, req model.UpdateListingRequest) (*model.Listing, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Invalid(err)
	}
	if uuid.Validate(id) != nil {
		return nil, ErrListingNotFound
	}

	uq := database.UpdateQuery{Table: "listings", KeyColumn: "id", KeyValue: id, Returning: listingColumnList}
	uq.SetIf(req.Title != nil, "title", trimmed(req.Title))
	uq.SetIf(req.Description != nil, "description", deref(req.Description))
	uq.SetIf(req.City != nil, "city", trimmed(req.City))
	uq.SetIf(req.Address != nil, "address", trimmed(req.Address))
	uq.SetIf(req.PricePerNight != nil, "price_per_night", deref(req.PricePerNight))
	uq.SetIf(req.MaxGuests != nil, "max_guests", deref(req.MaxGuests))
	uq.SetIf(true, "status", model.ListingStatusPending)
	uq.SetIf(true, "rejection_reason", nil)
	uq.SetIf(true, "updated_at", r.timeProvider.Now())

	q, args := database.BuildUpdateQuery(uq)
	return r.getOne(ctx, "failed to update listing", q, args...)
}

// SetStatus records an approval decision. The reason is kept only for rejections.
func (r *ListingRepo) SetStatus(ctx context.Context, params core.SetListingStatusParams) (*model.Listing, error) {
	if !params.Status.Valid() {
		return nil, apperrors.Validation("invalid listing status")
	}
	if uuid.Validate(params.ID) != nil {
		return nil, ErrListingNotFound
	}
	var reason *string
	if params.Status == model.ListingStatusRejected {
		reason = params.Reason
	}
	return r.getOne(ctx, "failed to set listing status", `
		UPDATE listings SET status = $2, rejection_reason = $3, updated_at = $4
		WHERE id = $1
		RETURNING `+listingColumns,
		params.ID, params.Status, reason, r.timeProvider.Now())
}

// Delete removes a listing. It reports false when no listing matched.
// Listings with bookings cannot be deleted and yield a foreign key AppError.
func (r *ListingRepo) Delete(ctx context.Context, id string) (bool, error) {
	if uuid.Validate(id) != nil {
		return false, nil
	}
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete listing: %w", apperrors.MapDBError(err))
	}
	return affected > 0, nil
}

func trimmed(s *string) any {
	if s == nil {
		return nil
	}
	return strings.TrimSpace(*s)
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
