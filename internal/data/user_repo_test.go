package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/minbak/minbak-web/internal/domain/model"
	"github.com/minbak/minbak-web/internal/testutil"
)

func TestUserRepo_CreateWithPassword_GetByEmail(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepoWithTimeProvider(db, NewFixedTimeProvider(testutil.TestTime()))

		u, err := repo.CreateWithPassword(ctx, &model.RegisterUserRequest{
			Email: "guest@example.com", Name: "Guest", Password: "unused",
		}, "hash")
		require.NoError(t, err)
		assert.Equal(t, domainauth.RoleUser, u.Role)
		assert.True(t, u.CreatedAt.Equal(testutil.TestTime()))

		got, err := repo.GetByEmail(ctx, "GUEST@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		_, err = repo.CreateWithPassword(ctx, &model.RegisterUserRequest{
			Email: "Guest@Example.com", Name: "Dup", Password: "unused",
		}, "hash")
		assert.ErrorIs(t, err, model.ErrEmailExists)
	})
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewUserRepo(db)

		_, err := repo.GetByID(context.Background(), "not-a-uuid")
		assert.ErrorIs(t, err, ErrUserNotFound)

		_, err = repo.FindUserByID(context.Background(), "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, domainauth.ErrUserNotFound)
	})
}

func TestUserRepo_UpsertExternal_KeepsRole(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		first, err := repo.UpsertExternal(ctx, model.UpsertExternalUserRequest{
			ExternalID: "sub-1", Email: "host@example.com", Name: "Host", Role: domainauth.RoleAdmin,
		})
		require.NoError(t, err)
		assert.Equal(t, domainauth.RoleAdmin, first.Role)

		second, err := repo.UpsertExternal(ctx, model.UpsertExternalUserRequest{
			ExternalID: "sub-1", Email: "host@example.com", Name: "Renamed", Role: domainauth.RoleUser,
		})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "Renamed", second.Name)
		assert.Equal(t, domainauth.RoleAdmin, second.Role)

		rec, err := repo.FindUserByID(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, rec.IsAdmin())
	})
}

func TestUserRepo_SetRole(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)
		id := testutil.SeedUser(t, db, domainauth.RoleUser)

		u, err := repo.SetRole(ctx, id, domainauth.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, domainauth.RoleAdmin, u.Role)
	})
}
