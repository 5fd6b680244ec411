package service

import (
	"context"
	"errors"
	"testing"

	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/minbak/minbak-web/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRoleGate_AnonymousIsNotAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	users.EXPECT().FindUserByID(gomock.Any(), gomock.Any()).Times(0)

	gate := NewRoleGate(RoleGateOptions{Users: users})
	dec, err := gate.IsAdmin(context.Background(), domainauth.Anonymous())
	require.NoError(t, err)
	assert.False(t, dec.IsAdmin)
	assert.Nil(t, dec.User)
}

func TestRoleGate_Lookup(t *testing.T) {
	admin := &domainauth.UserRecord{ID: "a1", Email: "a@example.com", Name: "Admin", Role: domainauth.RoleAdmin}
	user := &domainauth.UserRecord{ID: "u1", Email: "u@example.com", Name: "User", Role: domainauth.RoleUser}

	tests := []struct {
		name      string
		id        string
		rec       *domainauth.UserRecord
		err       error
		wantAdmin bool
	}{
		{name: "admin role", id: "a1", rec: admin, wantAdmin: true},
		{name: "user role", id: "u1", rec: user},
		{name: "missing user", id: "ghost", err: domainauth.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			users := mocks.NewMockUserStore(ctrl)
			users.EXPECT().FindUserByID(gomock.Any(), tt.id).Return(tt.rec, tt.err).Times(1)

			gate := NewRoleGate(RoleGateOptions{Users: users})
			dec, err := gate.IsAdmin(context.Background(), domainauth.Identity{UserID: tt.id})
			require.NoError(t, err)
			assert.Equal(t, tt.wantAdmin, dec.IsAdmin)
			if tt.wantAdmin {
				assert.Equal(t, tt.rec, dec.User)
			} else {
				assert.Nil(t, dec.User)
			}
		})
	}
}

func TestRoleGate_LookupFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	boom := errors.New("connection refused")
	users.EXPECT().FindUserByID(gomock.Any(), "u1").Return(nil, boom)

	gate := NewRoleGate(RoleGateOptions{Users: users})
	dec, err := gate.IsAdmin(context.Background(), domainauth.Identity{UserID: "u1"})
	require.ErrorIs(t, err, boom)
	assert.False(t, dec.IsAdmin)
}

func TestRoleGate_DevBypass(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	users.EXPECT().FindUserByID(gomock.Any(), gomock.Any()).Times(0)

	gate := NewRoleGate(RoleGateOptions{Users: users, DevBypass: true})
	assert.True(t, gate.DevBypass())

	for _, id := range []domainauth.Identity{domainauth.Anonymous(), {UserID: "u1"}} {
		dec, err := gate.IsAdmin(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, dec.IsAdmin)
		require.NotNil(t, dec.User)
		assert.Equal(t, domainauth.DevAdminRecord, *dec.User)
	}
}

func TestRoleGate_NoStore(t *testing.T) {
	gate := NewRoleGate(RoleGateOptions{})
	_, err := gate.IsAdmin(context.Background(), domainauth.Identity{UserID: "u1"})
	assert.Error(t, err)
}
