package httpx

import (
	"log/slog"
	"net/http"

	"github.com/minbak/minbak-web/internal/service"
)

// UserHandlers serves profile projections of user accounts.
type UserHandlers struct {
	Svc    *service.UserService
	Logger *slog.Logger
}

// Me returns the caller's own account.
// GET /api/me.
func (h *UserHandlers) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.Svc.Me(r.Context(), IdentityFromContext(r.Context()).UserID)
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, u)
}

// Public returns the id and display name of any user.
// GET /api/users/{id}.
func (h *UserHandlers) Public(w http.ResponseWriter, r *http.Request) {
	p, err := h.Svc.PublicProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

// AdminLookup returns the full authorization record of a user, including email and role.
// GET /api/admin/users/{id}.
func (h *UserHandlers) AdminLookup(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Svc.AdminLookup(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, rec)
}
