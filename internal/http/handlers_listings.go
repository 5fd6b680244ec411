package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/minbak/minbak-web/internal/domain/model"
	"github.com/minbak/minbak-web/internal/service"
)

// ListingHandlers serves the public browse, host listing management and the admin review queue.
type ListingHandlers struct {
	Svc    *service.ListingService
	Logger *slog.Logger
}

// Search lists approved listings.
// GET /api/listings?city=&guests=&limit=&offset=.
func (h *ListingHandlers) Search(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, defaultPageLimit, maxPageLimit)
	opts := model.ListingSearchOptions{Limit: limit, Offset: offset}

	q := r.URL.Query()
	if city := strings.TrimSpace(q.Get("city")); city != "" {
		opts.City = &city
	}
	if raw := q.Get("guests"); raw != "" {
		guests, err := strconv.Atoi(raw)
		if err != nil || guests < 1 {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_guests",
				Err:     errors.New("guests must be a positive integer"),
			})
			return
		}
		opts.Guests = &guests
	}

	out, err := h.Svc.Search(r.Context(), opts)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, out)
}

// Get returns one approved listing.
// GET /api/listings/{id}.
func (h *ListingHandlers) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.Svc.GetPublic(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, l)
}

// HostList returns the caller's listings in every status.
// GET /api/host/listings.
func (h *ListingHandlers) HostList(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, defaultPageLimit, maxPageLimit)
	out, err := h.Svc.ListForHost(r.Context(), IdentityFromContext(r.Context()).UserID, limit, offset)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, out)
}

// Create registers a listing for the caller.
// POST /api/host/listings.
func (h *ListingHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req *model.CreateListingRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	l, err := h.Svc.Create(r.Context(), IdentityFromContext(r.Context()).UserID, req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, l)
}

// Update edits one of the caller's listings.
// PATCH /api/host/listings/{id}.
func (h *ListingHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateListingRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	l, err := h.Svc.Update(r.Context(), IdentityFromContext(r.Context()).UserID, r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, l)
}

// Delete removes one of the caller's listings.
// DELETE /api/host/listings/{id}.
func (h *ListingHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), IdentityFromContext(r.Context()).UserID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReviewQueue lists listings for administrators, pending ones by default.
// GET /api/admin/listings?status=pending|approved|rejected|all.
func (h *ListingHandlers) ReviewQueue(w http.ResponseWriter, r *http.Request) {
	var status *model.ListingStatus
	switch raw := r.URL.Query().Get("status"); raw {
	case "":
		pending := model.ListingStatusPending
		status = &pending
	case "all":
	default:
		s, ok := model.ParseListingStatus(raw)
		if !ok {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_status",
				Err:     errors.New("status must be pending, approved, rejected or all"),
			})
			return
		}
		status = &s
	}

	limit, offset := ParseLimitOffset(r, defaultPageLimit, maxPageLimit)
	out, err := h.Svc.ListForReview(r.Context(), status, limit, offset)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, out)
}

// Approve publishes a listing.
// POST /api/admin/listings/{id}/approve.
func (h *ListingHandlers) Approve(w http.ResponseWriter, r *http.Request) {
	l, err := h.Svc.Approve(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	h.logReview(r, l, "approved")
	WriteJSON(w, http.StatusOK, l)
}

// Reject hides a listing with a reason shown to its host.
// POST /api/admin/listings/{id}/reject.
func (h *ListingHandlers) Reject(w http.ResponseWriter, r *http.Request) {
	var req model.ReviewListingRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	l, err := h.Svc.Reject(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	h.logReview(r, l, "rejected")
	WriteJSON(w, http.StatusOK, l)
}

func (h *ListingHandlers) logReview(r *http.Request, l *model.Listing, decision string) {
	admin, ok := AdminFromContext(r.Context())
	if !ok || h.Logger == nil {
		return
	}
	h.Logger.InfoContext(r.Context(), "listing reviewed",
		"listing_id", l.ID,
		"decision", decision,
		"admin_id", admin.ID)
}
