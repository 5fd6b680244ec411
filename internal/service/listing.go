package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minbak/minbak-web/internal/core"
	"github.com/minbak/minbak-web/internal/domain/model"
	apperrors "github.com/minbak/minbak-web/internal/errors"
)

// ListingServiceOptions groups dependencies for ListingService.
type ListingServiceOptions struct {
	Repo   core.ListingRepository // Required
	Logger *slog.Logger           // Optional
}

// ListingService covers host listing management, the public browse and the admin approval queue.
type ListingService struct {
	repo   core.ListingRepository
	logger *slog.Logger
}

// NewListingService constructs a new ListingService.
func NewListingService(opts ListingServiceOptions) *ListingService {
	if opts.Repo == nil {
		panic("ListingRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ListingService{repo: opts.Repo, logger: logger.With("component", "listing_service")}
}

// Create registers a new listing for hostID. New listings wait for admin approval.
func (s *ListingService) Create(
	ctx context.Context,
	hostID string,
	req *model.CreateListingRequest,
) (*model.Listing, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Invalid(err)
	}
	l, err := s.repo.Create(ctx, hostID, req)
	if err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	s.logger.InfoContext(ctx, "listing created", "listing_id", l.ID, "host_id", hostID)
	return l, nil
}

// GetPublic returns an approved listing. Other statuses are reported as not found.
func (s *ListingService) GetPublic(ctx context.Context, id string) (*model.Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	if l.Status != model.ListingStatusApproved {
		return nil, model.ErrListingNotFound
	}
	return l, nil
}

// Search lists approved listings.
func (s *ListingService) Search(ctx context.Context, opts model.ListingSearchOptions) ([]*model.Listing, error) {
	out, err := s.repo.Search(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	return out, nil
}

// ListForHost returns every listing owned by hostID in any status.
func (s *ListingService) ListForHost(ctx context.Context, hostID string, limit, offset int) ([]*model.Listing, error) {
	out, err := s.repo.List(ctx, model.ListingListOptions{HostID: &hostID, Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("list host listings: %w", err)
	}
	return out, nil
}

// Update edits a listing owned by hostID and sends it back to review.
func (s *ListingService) Update(
	ctx context.Context,
	hostID, id string,
	req model.UpdateListingRequest,
) (*model.Listing, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Invalid(err)
	}
	if _, err := s.owned(ctx, hostID, id); err != nil {
		return nil, err
	}
	l, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}
	return l, nil
}

// Delete removes a listing owned by hostID. Listings with bookings cannot be deleted.
func (s *ListingService) Delete(ctx context.Context, hostID, id string) error {
	if _, err := s.owned(ctx, hostID, id); err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if !deleted {
		return model.ErrListingNotFound
	}
	s.logger.InfoContext(ctx, "listing deleted", "listing_id", id, "host_id", hostID)
	return nil
}

// ListForReview returns listings in status (all statuses when nil), for administrators.
func (s *ListingService) ListForReview(
	ctx context.Context,
	status *model.ListingStatus,
	limit, offset int,
) ([]*model.Listing, error) {
	out, err := s.repo.List(ctx, model.ListingListOptions{Status: status, Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("list listings for review: %w", err)
	}
	return out, nil
}

// Approve publishes a listing.
func (s *ListingService) Approve(ctx context.Context, id string) (*model.Listing, error) {
	l, err := s.repo.SetStatus(ctx, core.SetListingStatusParams{ID: id, Status: model.ListingStatusApproved})
	if err != nil {
		return nil, fmt.Errorf("approve listing: %w", err)
	}
	s.logger.InfoContext(ctx, "listing approved", "listing_id", id)
	return l, nil
}

// Reject hides a listing and records why. A reason is required.
func (s *ListingService) Reject(ctx context.Context, id string, req model.ReviewListingRequest) (*model.Listing, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, &apperrors.AppError{
			Code:    apperrors.ErrCodeValidation,
			Message: "reason is required when rejecting a listing",
			Field:   "reason",
		}
	}
	l, err := s.repo.SetStatus(ctx, core.SetListingStatusParams{
		ID:     id,
		Status: model.ListingStatusRejected,
		Reason: &reason,
	})
	if err != nil {
		return nil, fmt.Errorf("reject listing: %w", err)
	}
	s.logger.InfoContext(ctx, "listing rejected", "listing_id", id)
	return l, nil
}

func (s *ListingService) owned(ctx context.Context, hostID, id string) (*model.Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	if l.HostID != hostID {
		return nil, model.ErrNotListingOwner
	}
	return l, nil
}
