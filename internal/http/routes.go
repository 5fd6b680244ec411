package httpx

import (
	"log/slog"
	"net/http"

	"github.com/minbak/minbak-web/internal/i18n"
	"github.com/minbak/minbak-web/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth     AuthServiceInterface
	Resolver IdentityResolver
	Gate     AdminGate
	Listings *service.ListingService
	Bookings *service.BookingService
	Messages *service.MessageService
	Users    *service.UserService
	// Optional: the host page is not registered without a translator.
	Translator   *i18n.Translator
	LocaleCookie string
	CookieDomain string
	Health       map[string]HealthCheck
	Logger       *slog.Logger
}

// NewRouter creates the HTTP handler.
// Every request passes Recover, Logging, Locale and ResolveIdentity before routing.
func NewRouter(services RouterServices) (http.Handler, error) {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	health := &HealthHandler{Checks: services.Health}
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)

	host := RequireHost(services.Resolver)
	admin := RequireAdmin(services.Resolver, services.Gate, logger)
	// Cookie-authenticated form posts from the host page.
	csrf := CSRFProtection(CSRFOptions{CookieDomain: services.CookieDomain})

	if services.Auth != nil {
		registerAuthRoutes(mux, &AuthHandlers{Svc: services.Auth, CookieDomain: services.CookieDomain, Logger: logger},
			host, csrf)
	}
	registerListingRoutes(mux, &ListingHandlers{Svc: services.Listings, Logger: logger}, host, admin)
	registerBookingRoutes(mux, &BookingHandlers{
		Svc:      services.Bookings,
		Messages: services.Messages,
		Logger:   logger,
	}, host)
	registerUserRoutes(mux, &UserHandlers{Svc: services.Users, Logger: logger}, host, admin)

	if services.Translator != nil {
		dash, err := NewHostDashboard(HostDashboardOptions{
			Listings:     services.Listings,
			Bookings:     services.Bookings,
			Users:        services.Users,
			Translator:   services.Translator,
			CookieName:   services.LocaleCookie,
			CookieDomain: services.CookieDomain,
			Logger:       logger,
		})
		if err != nil {
			return nil, err
		}
		registerHostPageRoutes(mux, dash, host, csrf)
	}

	var h http.Handler = mux
	h = ResolveIdentity(services.Resolver)(h)
	h = Locale(services.LocaleCookie)(h)
	h = Logging(logger)(h)
	h = Recover(logger)(h)
	return h, nil
}

type middleware = func(http.Handler) http.Handler

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, host, csrf middleware) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/password", h.Password)
	mux.HandleFunc("POST /auth/register", h.Register)
	mux.Handle("POST /auth/logout", csrf(http.HandlerFunc(h.Logout)))
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.Handle("POST /auth/token", host(http.HandlerFunc(h.Token)))
}

func registerListingRoutes(mux *http.ServeMux, h *ListingHandlers, host, admin middleware) {
	mux.HandleFunc("GET /api/listings", h.Search)
	mux.HandleFunc("GET /api/listings/{id}", h.Get)

	mux.Handle("GET /api/host/listings", host(http.HandlerFunc(h.HostList)))
	mux.Handle("POST /api/host/listings", host(http.HandlerFunc(h.Create)))
	mux.Handle("PATCH /api/host/listings/{id}", host(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/host/listings/{id}", host(http.HandlerFunc(h.Delete)))

	mux.Handle("GET /api/admin/listings", admin(http.HandlerFunc(h.ReviewQueue)))
	mux.Handle("POST /api/admin/listings/{id}/approve", admin(http.HandlerFunc(h.Approve)))
	mux.Handle("POST /api/admin/listings/{id}/reject", admin(http.HandlerFunc(h.Reject)))
}

func registerBookingRoutes(mux *http.ServeMux, h *BookingHandlers, host middleware) {
	mux.Handle("GET /api/bookings", host(http.HandlerFunc(h.GuestList)))
	mux.Handle("POST /api/bookings", host(http.HandlerFunc(h.Request)))
	mux.Handle("GET /api/bookings/{id}", host(http.HandlerFunc(h.Get)))
	mux.Handle("POST /api/bookings/{id}/cancel", host(http.HandlerFunc(h.Cancel)))
	mux.Handle("GET /api/bookings/{id}/messages", host(http.HandlerFunc(h.ListMessages)))
	mux.Handle("POST /api/bookings/{id}/messages", host(http.HandlerFunc(h.SendMessage)))

	mux.Handle("GET /api/host/bookings", host(http.HandlerFunc(h.HostList)))
	mux.Handle("POST /api/host/bookings/{id}/confirm", host(http.HandlerFunc(h.Confirm)))
	mux.Handle("POST /api/host/bookings/{id}/decline", host(http.HandlerFunc(h.Decline)))
}

func registerUserRoutes(mux *http.ServeMux, h *UserHandlers, host, admin middleware) {
	mux.Handle("GET /api/me", host(http.HandlerFunc(h.Me)))
	mux.HandleFunc("GET /api/users/{id}", h.Public)
	mux.Handle("GET /api/admin/users/{id}", admin(http.HandlerFunc(h.AdminLookup)))
}

func registerHostPageRoutes(mux *http.ServeMux, d *HostDashboard, host, csrf middleware) {
	mux.Handle("GET /host", csrf(host(http.HandlerFunc(d.Show))))
	mux.Handle("POST /host/locale", csrf(http.HandlerFunc(d.SetLocale)))
	mux.Handle("POST /host/bookings/{id}/confirm", csrf(host(http.HandlerFunc(d.ConfirmBooking))))
	mux.Handle("POST /host/bookings/{id}/decline", csrf(host(http.HandlerFunc(d.DeclineBooking))))
}
