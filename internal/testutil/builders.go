package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/minbak/minbak-web/internal/domain/model"
)

// ListingRequestBuilder provides a fluent interface for building CreateListingRequest objects for testing.
type ListingRequestBuilder struct {
	req *model.CreateListingRequest
}

// NewListingRequest creates a new ListingRequestBuilder with sensible defaults.
func NewListingRequest() *ListingRequestBuilder {
	return &ListingRequestBuilder{
		req: &model.CreateListingRequest{
			Title:         "Hanok stay near Bukchon",
			Description:   "Quiet room with a courtyard view.",
			City:          "Seoul",
			Address:       "37 Gyedong-gil, Jongno-gu",
			PricePerNight: 120000,
			MaxGuests:     4,
		},
	}
}

// WithTitle sets the listing title.
func (b *ListingRequestBuilder) WithTitle(title string) *ListingRequestBuilder {
	b.req.Title = title
	return b
}

// WithCity sets the listing city.
func (b *ListingRequestBuilder) WithCity(city string) *ListingRequestBuilder {
	b.req.City = city
	return b
}

// WithPrice sets the nightly price in won.
func (b *ListingRequestBuilder) WithPrice(price int64) *ListingRequestBuilder {
	b.req.PricePerNight = price
	return b
}

// WithMaxGuests sets the guest capacity.
func (b *ListingRequestBuilder) WithMaxGuests(n int) *ListingRequestBuilder {
	b.req.MaxGuests = n
	return b
}

// Build returns the constructed request.
func (b *ListingRequestBuilder) Build() *model.CreateListingRequest {
	return b.req
}

// BookingRequestBuilder provides a fluent interface for building CreateBookingRequest objects for testing.
type BookingRequestBuilder struct {
	req *model.CreateBookingRequest
}

// NewBookingRequest creates a two-night booking request for listingID.
func NewBookingRequest(listingID string) *BookingRequestBuilder {
	return &BookingRequestBuilder{
		req: &model.CreateBookingRequest{
			ListingID: listingID,
			CheckIn:   "2024-03-01",
			CheckOut:  "2024-03-03",
			Guests:    2,
		},
	}
}

// WithDates sets check-in and check-out dates (YYYY-MM-DD).
func (b *BookingRequestBuilder) WithDates(checkIn, checkOut string) *BookingRequestBuilder {
	b.req.CheckIn = checkIn
	b.req.CheckOut = checkOut
	return b
}

// WithGuests sets the party size.
func (b *BookingRequestBuilder) WithGuests(n int) *BookingRequestBuilder {
	b.req.Guests = n
	return b
}

// Build returns the constructed request.
func (b *BookingRequestBuilder) Build() *model.CreateBookingRequest {
	return b.req
}

// SeedUser inserts a password-less user with role and returns its ID.
func SeedUser(t TestingTB, db *sql.DB, role domainauth.Role) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	email := fmt.Sprintf("%s-%s@example.com", role, uuid.NewString()[:8])
	var id string
	err := db.QueryRowContext(ctx,
		`INSERT INTO users (email, name, role) VALUES ($1, $2, $3) RETURNING id`,
		email, "Test "+string(role), string(role)).Scan(&id)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

// SeedListing inserts a listing owned by hostID in the given status and returns its ID.
func SeedListing(t TestingTB, db *sql.DB, hostID string, status model.ListingStatus) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req := NewListingRequest().Build()
	var id string
	err := db.QueryRowContext(ctx, `
		INSERT INTO listings (host_id, title, description, city, address, price_per_night, max_guests, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		hostID, req.Title, req.Description, req.City, req.Address, req.PricePerNight, req.MaxGuests,
		string(status)).Scan(&id)
	if err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	return id
}
