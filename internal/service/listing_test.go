package service

import (
	"context"
	"testing"

	"github.com/minbak/minbak-web/internal/core"
	"github.com/minbak/minbak-web/internal/domain/model"
	apperrors "github.com/minbak/minbak-web/internal/errors"
	"github.com/minbak/minbak-web/internal/mocks"
	"github.com/minbak/minbak-web/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testHostID    = "host-1"
	testListingID = "listing-1"
)

func newListingService(t *testing.T) (*ListingService, *mocks.MockListingRepository) {
	t.Helper()
	repo := mocks.NewMockListingRepository(gomock.NewController(t))
	return NewListingService(ListingServiceOptions{Repo: repo}), repo
}

func TestListingService_Create(t *testing.T) {
	svc, repo := newListingService(t)
	ctx := context.Background()
	req := testutil.NewListingRequest().Build()
	created := &model.Listing{ID: testListingID, HostID: testHostID, Status: model.ListingStatusPending}

	repo.EXPECT().Create(ctx, testHostID, req).Return(created, nil)

	got, err := svc.Create(ctx, testHostID, req)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestListingService_Create_Invalid(t *testing.T) {
	svc, repo := newListingService(t)
	repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Create(context.Background(), testHostID, testutil.NewListingRequest().WithMaxGuests(0).Build())
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Create(context.Background(), testHostID, nil)
	assert.True(t, apperrors.IsValidation(err))
}

func TestListingService_GetPublic_HidesUnapproved(t *testing.T) {
	svc, repo := newListingService(t)
	ctx := context.Background()

	repo.EXPECT().GetByID(ctx, "pending").Return(&model.Listing{ID: "pending", Status: model.ListingStatusPending}, nil)
	repo.EXPECT().GetByID(ctx, "live").Return(&model.Listing{ID: "live", Status: model.ListingStatusApproved}, nil)

	_, err := svc.GetPublic(ctx, "pending")
	assert.ErrorIs(t, err, model.ErrListingNotFound)

	got, err := svc.GetPublic(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "live", got.ID)
}

func TestListingService_Update_OwnerOnly(t *testing.T) {
	svc, repo := newListingService(t)
	ctx := context.Background()
	title := "Renovated"
	req := model.UpdateListingRequest{Title: &title}

	repo.EXPECT().GetByID(ctx, testListingID).Return(&model.Listing{ID: testListingID, HostID: "someone-else"}, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Update(ctx, testHostID, testListingID, req)
	assert.ErrorIs(t, err, model.ErrNotListingOwner)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestListingService_Update(t *testing.T) {
	svc, repo := newListingService(t)
	ctx := context.Background()
	title := "Renovated"
	req := model.UpdateListingRequest{Title: &title}
	updated := &model.Listing{ID: testListingID, HostID: testHostID, Title: title, Status: model.ListingStatusPending}

	gomock.InOrder(
		repo.EXPECT().GetByID(ctx, testListingID).Return(&model.Listing{ID: testListingID, HostID: testHostID}, nil),
		repo.EXPECT().Update(ctx, testListingID, req).Return(updated, nil),
	)

	got, err := svc.Update(ctx, testHostID, testListingID, req)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestListingService_Delete(t *testing.T) {
	svc, repo := newListingService(t)
	ctx := context.Background()

	repo.EXPECT().GetByID(ctx, testListingID).Return(&model.Listing{ID: testListingID, HostID: testHostID}, nil).Times(2)
	repo.EXPECT().Delete(ctx, testListingID).Return(true, nil)
	repo.EXPECT().Delete(ctx, testListingID).Return(false, nil)

	require.NoError(t, svc.Delete(ctx, testHostID, testListingID))
	assert.ErrorIs(t, svc.Delete(ctx, testHostID, testListingID), model.ErrListingNotFound)
}

func TestListingService_ListForHost(t *testing.T) {
	svc, repo := newListingService(t)
	ctx := context.Background()

	repo.EXPECT().List(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, opts model.ListingListOptions) ([]*model.Listing, error) {
			require.NotNil(t, opts.HostID)
			assert.Equal(t, testHostID, *opts.HostID)
			assert.Nil(t, opts.Status)
			return []*model.Listing{{ID: testListingID}}, nil
		})

	got, err := svc.ListForHost(ctx, testHostID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestListingService_Review(t *testing.T) {
	svc, repo := newListingService(t)
	ctx := context.Background()

	repo.EXPECT().SetStatus(ctx, core.SetListingStatusParams{
		ID: testListingID, Status: model.ListingStatusApproved,
	}).Return(&model.Listing{ID: testListingID, Status: model.ListingStatusApproved}, nil)

	got, err := svc.Approve(ctx, testListingID)
	require.NoError(t, err)
	assert.Equal(t, model.ListingStatusApproved, got.Status)

	repo.EXPECT().SetStatus(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, p core.SetListingStatusParams) (*model.Listing, error) {
			assert.Equal(t, model.ListingStatusRejected, p.Status)
			require.NotNil(t, p.Reason)
			assert.Equal(t, "blurry photos", *p.Reason)
			return &model.Listing{ID: p.ID, Status: p.Status, RejectionReason: p.Reason}, nil
		})

	got, err = svc.Reject(ctx, testListingID, model.ReviewListingRequest{Reason: "  blurry photos "})
	require.NoError(t, err)
	assert.Equal(t, model.ListingStatusRejected, got.Status)

	_, err = svc.Reject(ctx, testListingID, model.ReviewListingRequest{Reason: "  "})
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "reason", apperrors.GetField(err))
}
