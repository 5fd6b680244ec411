package httpx

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/minbak/minbak-web/internal/domain/model"
	apperrors "github.com/minbak/minbak-web/internal/errors"
	"github.com/minbak/minbak-web/internal/i18n"
	"github.com/minbak/minbak-web/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	hostDashboardPath    = "/host"
	dashboardListLimit   = 50
	localeCookieMaxAge   = 365 * 24 * 60 * 60
	hostDashboardTmplKey = "host_dashboard.html"
)

// HostDashboardOptions groups dependencies for HostDashboard.
type HostDashboardOptions struct {
	Listings     *service.ListingService
	Bookings     *service.BookingService
	Users        *service.UserService
	Translator   *i18n.Translator
	CookieName   string
	CookieDomain string
	Logger       *slog.Logger
}

// HostDashboard renders the translated host page and handles its form posts.
type HostDashboard struct {
	listings     *service.ListingService
	bookings     *service.BookingService
	users        *service.UserService
	tr           *i18n.Translator
	tmpl         *template.Template
	cookieName   string
	cookieDomain string
	logger       *slog.Logger
}

// NewHostDashboard parses the embedded page template.
func NewHostDashboard(opts HostDashboardOptions) (*HostDashboard, error) {
	if opts.Translator == nil {
		return nil, fmt.Errorf("translator is required")
	}
	tmpl, err := template.ParseFS(templateFS, "templates/"+hostDashboardTmplKey)
	if err != nil {
		return nil, fmt.Errorf("parse host dashboard template: %w", err)
	}
	cookieName := opts.CookieName
	if cookieName == "" {
		cookieName = i18n.DefaultCookieName
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &HostDashboard{
		listings:     opts.Listings,
		bookings:     opts.Bookings,
		users:        opts.Users,
		tr:           opts.Translator,
		tmpl:         tmpl,
		cookieName:   cookieName,
		cookieDomain: opts.CookieDomain,
		logger:       logger.With("component", "host_dashboard"),
	}, nil
}

// listingRow flattens the optional rejection reason for the template.
type listingRow struct {
	*model.Listing
	Reason string
}

type hostDashboardView struct {
	Locale    i18n.Locale
	SwitchTo  i18n.Locale
	CSRFToken string
	User      *model.User
	Listings  []listingRow
	Bookings  []*model.HostBooking

	tr *i18n.Translator
}

// T translates key for the page locale. kv alternates placeholder names and values.
func (v hostDashboardView) T(key string, kv ...any) string {
	var params i18n.Params
	if len(kv) > 1 {
		params = make(i18n.Params, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			params[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return v.tr.Translate(v.Locale, key, params)
}

// Price groups the digits of a nightly price for the page locale.
func (v hostDashboardView) Price(n int64) string { return v.tr.FormatNumber(v.Locale, n) }

// Date renders a stay date.
func (v hostDashboardView) Date(t time.Time) string { return t.Format(model.DateLayout) }

// Show renders the dashboard for the signed-in host.
// GET /host.
func (d *HostDashboard) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hostID := IdentityFromContext(ctx).UserID
	loc := LocaleFromContext(ctx)

	view := hostDashboardView{Locale: loc, SwitchTo: i18n.Alternate, CSRFToken: CSRFToken(ctx), tr: d.tr}
	if loc.IsAlternate() {
		view.SwitchTo = i18n.Primary
	}

	var listings []*model.Listing
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := d.users.Me(gctx, hostID)
		view.User = u
		return err
	})
	g.Go(func() error {
		var err error
		listings, err = d.listings.ListForHost(gctx, hostID, dashboardListLimit, 0)
		return err
	})
	g.Go(func() error {
		var err error
		view.Bookings, err = d.bookings.ListForHost(gctx, hostID, dashboardListLimit, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		d.fail(w, r, err)
		return
	}

	view.Listings = make([]listingRow, 0, len(listings))
	for _, l := range listings {
		row := listingRow{Listing: l}
		if l.RejectionReason != nil {
			row.Reason = *l.RejectionReason
		}
		view.Listings = append(view.Listings, row)
	}

	var buf bytes.Buffer
	if err := d.tmpl.ExecuteTemplate(&buf, hostDashboardTmplKey, view); err != nil {
		d.logger.ErrorContext(ctx, "render host dashboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", loc.String())
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// SetLocale stores the locale preference cookie and sends the browser back.
// POST /host/locale.
func (d *HostDashboard) SetLocale(w http.ResponseWriter, r *http.Request) {
	loc := i18n.ParseLocale(r.FormValue("locale"))
	http.SetCookie(w, &http.Cookie{
		Name:     d.cookieName,
		Value:    loc.String(),
		Path:     "/",
		Domain:   d.cookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   localeCookieMaxAge,
	})

	next := r.FormValue("redirect_uri")
	if next == "" {
		next = safeRedirectFromURL(r.Referer())
	}
	if next == "" {
		next = hostDashboardPath
	}
	http.Redirect(w, r, safeRedirectPath(next), http.StatusSeeOther)
}

// ConfirmBooking handles the confirm button on the dashboard.
// POST /host/bookings/{id}/confirm.
func (d *HostDashboard) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	d.decide(w, r, d.bookings.Confirm)
}

// DeclineBooking handles the decline button on the dashboard.
// POST /host/bookings/{id}/decline.
func (d *HostDashboard) DeclineBooking(w http.ResponseWriter, r *http.Request) {
	d.decide(w, r, d.bookings.Decline)
}

func (d *HostDashboard) decide(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, hostID, id string) (*model.Booking, error),
) {
	if _, err := fn(r.Context(), IdentityFromContext(r.Context()).UserID, r.PathValue("id")); err != nil {
		d.fail(w, r, err)
		return
	}
	http.Redirect(w, r, hostDashboardPath, http.StatusSeeOther)
}

func (d *HostDashboard) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := classifyError(err)
	if status == http.StatusInternalServerError {
		d.logger.ErrorContext(r.Context(), "host dashboard request failed",
			"path", r.URL.Path,
			"error", err)
	}
	http.Error(w, apperrors.PublicMessage(err), status)
}
