package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/minbak/minbak-web/internal/data/pgxutil"
	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/minbak/minbak-web/internal/domain/model"
	apperrors "github.com/minbak/minbak-web/internal/errors"
)

const userColumns = `id, email, name, role, password_hash, external_id, created_at, updated_at`

// UserRepo provides database operations for user accounts.
// It also serves as the authorization user store.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo instance with the given database connection.
func NewUserRepo(db *sql.DB) *UserRepo {
	return NewUserRepoWithTimeProvider(db, nil)
}

// NewUserRepoWithTimeProvider creates a UserRepo with a custom TimeProvider (useful for testing).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: orRealTime(tp)}
}

func (r *UserRepo) getOne(ctx context.Context, q, errMsg string, args ...any) (*model.User, error) {
	u, err := pgxutil.CollectOne[model.User](ctx, r.DB, q, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, apperrors.MapDBError(err))
	}
	return &u, nil
}

// GetByID retrieves a user by ID. Malformed IDs are reported as not found.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrUserNotFound
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, "failed to get user by ID", id)
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrUserNotFound
	}
	return r.getOne(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`,
		"failed to get user by email", email)
}

// FindUserByID returns the authorization projection of a user.
func (r *UserRepo) FindUserByID(ctx context.Context, id string) (*domainauth.UserRecord, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rec := u.Record()
	return &rec, nil
}

// CreateWithPassword inserts a password account with RoleUser.
// A duplicate email yields model.ErrEmailExists.
func (r *UserRepo) CreateWithPassword(
	ctx context.Context,
	req *model.RegisterUserRequest,
	passwordHash string,
) (*model.User, error) {
	if req == nil {
		return nil, ErrRequestRequired
	}
	if passwordHash == "" {
		return nil, errors.New("password hash is required")
	}

	now := r.timeProvider.Now()
	u, err := pgxutil.CollectOne[model.User](ctx, r.DB, `
		INSERT INTO users (email, name, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING `+userColumns,
		req.Email, req.Name, domainauth.RoleUser, passwordHash, now)
	if err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, model.ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", apperrors.MapDBError(err))
	}
	return &u, nil
}

// UpsertExternal creates or refreshes a user identified by an identity provider subject.
// Email and name follow the provider on every sign-in; the role is only set on insert.
func (r *UserRepo) UpsertExternal(ctx context.Context, req model.UpsertExternalUserRequest) (*model.User, error) {
	if req.ExternalID == "" {
		return nil, errors.New("external ID is required")
	}
	if req.Email == "" {
		return nil, errors.New("email is required")
	}
	role := req.Role
	if role == "" {
		role = domainauth.RoleUser
	}

	now := r.timeProvider.Now()
	u, err := pgxutil.CollectOne[model.User](ctx, r.DB, `
		INSERT INTO users (email, name, role, external_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (external_id) WHERE external_id IS NOT NULL
		DO UPDATE SET email = EXCLUDED.email, name = EXCLUDED.name, updated_at = EXCLUDED.updated_at
		RETURNING `+userColumns,
		req.Email, req.Name, role, req.ExternalID, now)
	if err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, model.ErrEmailExists
		}
		return nil, fmt.Errorf("failed to upsert user: %w", apperrors.MapDBError(err))
	}
	return &u, nil
}

// SetRole changes a user's role. Used by the admin seed command.
func (r *UserRepo) SetRole(ctx context.Context, id string, role domainauth.Role) (*model.User, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrUserNotFound
	}
	return r.getOne(ctx, `
		UPDATE users SET role = $2, updated_at = $3 WHERE id = $1
		RETURNING `+userColumns,
		"failed to set user role", id, role, r.timeProvider.Now())
}
