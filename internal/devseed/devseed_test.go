package devseed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/minbak/minbak-web/internal/core"
	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/minbak/minbak-web/internal/domain/model"
	"github.com/minbak/minbak-web/internal/mocks"
	authmocks "github.com/minbak/minbak-web/internal/mocks/auth"
)

type memoryUsers struct {
	byEmail map[string]*model.User
	setRole int
	getErr  error
}

func newMemoryUsers(existing ...*model.User) *memoryUsers {
	m := &memoryUsers{byEmail: map[string]*model.User{}}
	for _, u := range existing {
		m.byEmail[u.Email] = u
	}
	return m
}

func (m *memoryUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domainauth.ErrUserNotFound
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if u, ok := m.byEmail[strings.ToLower(email)]; ok {
		return u, nil
	}
	return nil, domainauth.ErrUserNotFound
}

func (m *memoryUsers) CreateWithPassword(_ context.Context, req *model.RegisterUserRequest, hash string) (*model.User, error) {
	u := &model.User{
		ID:           fmt.Sprintf("user-%d", len(m.byEmail)+1),
		Email:        req.Email,
		Name:         req.Name,
		Role:         domainauth.RoleUser,
		PasswordHash: &hash,
	}
	m.byEmail[u.Email] = u
	return u, nil
}

func (m *memoryUsers) UpsertExternal(context.Context, model.UpsertExternalUserRequest) (*model.User, error) {
	return nil, errors.New("not supported")
}

func (m *memoryUsers) SetRole(_ context.Context, id string, role domainauth.Role) (*model.User, error) {
	m.setRole++
	for _, u := range m.byEmail {
		if u.ID == id {
			u.Role = role
			return u, nil
		}
	}
	return nil, domainauth.ErrUserNotFound
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_RequiresDependencies(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	require.Error(t, err)
}

func TestRun_SeedsEmptyDatabase(t *testing.T) {
	ctrl := gomock.NewController(t)
	listings := mocks.NewMockListingRepository(ctrl)
	users := newMemoryUsers()

	listings.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)
	n := 0
	listings.EXPECT().Create(gomock.Any(), "user-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, hostID string, req *model.CreateListingRequest) (*model.Listing, error) {
			n++
			return &model.Listing{ID: fmt.Sprintf("l-%d", n), HostID: hostID, Title: req.Title}, nil
		}).Times(4)

	var statuses []core.SetListingStatusParams
	listings.EXPECT().SetStatus(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p core.SetListingStatusParams) (*model.Listing, error) {
			statuses = append(statuses, p)
			return &model.Listing{ID: p.ID, Status: p.Status}, nil
		}).Times(3)

	res, err := Run(context.Background(), Options{
		Users:    users,
		Listings: listings,
		Hasher:   authmocks.PlainHasher{},
		Logger:   discardLogger(),
	})

	require.NoError(t, err)
	assert.Equal(t, Result{UsersCreated: 3, ListingsCreated: 4}, res)

	admin := users.byEmail["admin@minbak.test"]
	require.NotNil(t, admin)
	assert.Equal(t, domainauth.RoleAdmin, admin.Role)
	require.NotNil(t, admin.PasswordHash)
	assert.Equal(t, "plain:"+DefaultPassword, *admin.PasswordHash)

	require.Len(t, statuses, 3)
	rejected := statuses[2]
	assert.Equal(t, model.ListingStatusRejected, rejected.Status)
	require.NotNil(t, rejected.Reason)
	assert.NotEmpty(t, *rejected.Reason)
	assert.Nil(t, statuses[0].Reason)
}

func TestRun_SkipsExistingRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	listings := mocks.NewMockListingRepository(ctrl)
	users := newMemoryUsers(
		&model.User{ID: "h", Email: "host@minbak.test", Role: domainauth.RoleUser},
		&model.User{ID: "g", Email: "guest@minbak.test", Role: domainauth.RoleUser},
		&model.User{ID: "a", Email: "admin@minbak.test", Role: domainauth.RoleAdmin},
	)

	var existing []*model.Listing
	for _, s := range defaultListings() {
		existing = append(existing, &model.Listing{HostID: "h", Title: s.Request.Title})
	}
	listings.EXPECT().List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts model.ListingListOptions) ([]*model.Listing, error) {
			require.NotNil(t, opts.HostID)
			assert.Equal(t, "h", *opts.HostID)
			return existing, nil
		})

	res, err := Run(context.Background(), Options{
		Users:    users,
		Listings: listings,
		Hasher:   authmocks.PlainHasher{},
		Logger:   discardLogger(),
	})

	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
	assert.Zero(t, users.setRole)
}

func TestRun_PropagatesLookupFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := newMemoryUsers()
	users.getErr = errors.New("connection refused")

	_, err := Run(context.Background(), Options{
		Users:    users,
		Listings: mocks.NewMockListingRepository(ctrl),
		Hasher:   authmocks.PlainHasher{},
		Logger:   discardLogger(),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "host@minbak.test")
}
