package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/minbak/minbak-web/internal/domain/model"
	"github.com/minbak/minbak-web/internal/service"
)

// BookingHandlers serves guest booking requests, host decisions and booking threads.
type BookingHandlers struct {
	Svc      *service.BookingService
	Messages *service.MessageService
	Logger   *slog.Logger
}

// GuestList returns the bookings the caller has made.
// GET /api/bookings.
func (h *BookingHandlers) GuestList(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, defaultPageLimit, maxPageLimit)
	out, err := h.Svc.ListForGuest(r.Context(), IdentityFromContext(r.Context()).UserID, limit, offset)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, out)
}

// Request files a booking request.
// POST /api/bookings.
func (h *BookingHandlers) Request(w http.ResponseWriter, r *http.Request) {
	var req *model.CreateBookingRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	b, err := h.Svc.Request(r.Context(), IdentityFromContext(r.Context()).UserID, req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, b)
}

// Get returns a booking to its guest or host.
// GET /api/bookings/{id}.
func (h *BookingHandlers) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.Svc.Get(r.Context(), IdentityFromContext(r.Context()).UserID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, b)
}

// Cancel withdraws a booking on behalf of its guest.
// POST /api/bookings/{id}/cancel.
func (h *BookingHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Svc.Cancel)
}

// HostList returns the bookings made against the caller's listings.
// GET /api/host/bookings.
func (h *BookingHandlers) HostList(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, defaultPageLimit, maxPageLimit)
	out, err := h.Svc.ListForHost(r.Context(), IdentityFromContext(r.Context()).UserID, limit, offset)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, out)
}

// Confirm accepts a requested booking.
// POST /api/host/bookings/{id}/confirm.
func (h *BookingHandlers) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Svc.Confirm)
}

// Decline refuses a requested booking.
// POST /api/host/bookings/{id}/decline.
func (h *BookingHandlers) Decline(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Svc.Decline)
}

type bookingTransition func(ctx context.Context, userID, id string) (*model.Booking, error)

func (h *BookingHandlers) transition(w http.ResponseWriter, r *http.Request, fn bookingTransition) {
	b, err := fn(r.Context(), IdentityFromContext(r.Context()).UserID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, b)
}

// ListMessages returns a booking thread, oldest first.
// GET /api/bookings/{id}/messages.
func (h *BookingHandlers) ListMessages(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, 200)
	out, err := h.Messages.List(r.Context(), IdentityFromContext(r.Context()).UserID, r.PathValue("id"), limit, offset)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, out)
}

// SendMessage posts to a booking thread.
// POST /api/bookings/{id}/messages.
func (h *BookingHandlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req *model.SendMessageRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	m, err := h.Messages.Send(r.Context(), IdentityFromContext(r.Context()).UserID, r.PathValue("id"), req)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, m)
}
