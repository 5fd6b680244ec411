package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxListingTitleLen = 200
	maxListingTextLen  = 5000
	maxListingGuests   = 50
)

// ListingStatus tracks a listing through the admin approval workflow.
type ListingStatus string

const (
	ListingStatusPending  ListingStatus = "pending"
	ListingStatusApproved ListingStatus = "approved"
	ListingStatusRejected ListingStatus = "rejected"
)

// Valid reports whether the listing status is supported.
func (s ListingStatus) Valid() bool {
	switch s {
	case ListingStatusPending, ListingStatusApproved, ListingStatusRejected:
		return true
	default:
		return false
	}
}

// ParseListingStatus normalizes a status string and reports whether it is supported.
func ParseListingStatus(value string) (ListingStatus, bool) {
	s := ListingStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// Listing is a minbak property offered by a host.
type Listing struct {
	ID              string        `json:"id"                         db:"id"`
	HostID          string        `json:"host_id"                    db:"host_id"`
	Title           string        `json:"title"                      db:"title"`
	Description     string        `json:"description"                db:"description"`
	City            string        `json:"city"                       db:"city"`
	Address         string        `json:"address"                    db:"address"`
	PricePerNight   int64         `json:"price_per_night"            db:"price_per_night"`
	MaxGuests       int           `json:"max_guests"                 db:"max_guests"`
	Status          ListingStatus `json:"status"                     db:"status"`
	RejectionReason *string       `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time     `json:"created_at"                 db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"                 db:"updated_at"`
}

// ListingSearchOptions filters the public listing browse.
// City matches case-insensitively; Guests keeps listings with max_guests >= Guests.
type ListingSearchOptions struct {
	City   *string
	Guests *int
	Limit  int
	Offset int
}

// ListingListOptions filters listings for hosts and administrators.
type ListingListOptions struct {
	HostID *string
	Status *ListingStatus
	Limit  int
	Offset int
}

// CreateListingRequest represents parameters to create a Listing.
type CreateListingRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	City          string `json:"city"`
	Address       string `json:"address"`
	PricePerNight int64  `json:"price_per_night"`
	MaxGuests     int    `json:"max_guests"`
}

// Validate validates CreateListingRequest.
func (r *CreateListingRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.City = strings.TrimSpace(r.City)
	r.Address = strings.TrimSpace(r.Address)
	if err := validateListingTitle(r.Title); err != nil {
		return err
	}
	if utf8.RuneCountInString(r.Description) > maxListingTextLen {
		return errors.New("description cannot exceed 5000 characters")
	}
	if r.City == "" {
		return errors.New("city is required")
	}
	if r.Address == "" {
		return errors.New("address is required")
	}
	if r.PricePerNight <= 0 {
		return errors.New("price_per_night must be > 0")
	}
	return validateMaxGuests(r.MaxGuests)
}

// UpdateListingRequest represents parameters to update a Listing.
type UpdateListingRequest struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	City          *string `json:"city,omitempty"`
	Address       *string `json:"address,omitempty"`
	PricePerNight *int64  `json:"price_per_night,omitempty"`
	MaxGuests     *int    `json:"max_guests,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateListingRequest.
func (r *UpdateListingRequest) HasUpdates() bool {
	return r.Title != nil || r.Description != nil || r.City != nil || r.Address != nil ||
		r.PricePerNight != nil || r.MaxGuests != nil
}

// Validate validates UpdateListingRequest, ensuring at least one field is set and values are sane.
func (r *UpdateListingRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Title != nil {
		if err := validateListingTitle(strings.TrimSpace(*r.Title)); err != nil {
			return err
		}
	}
	if r.Description != nil && utf8.RuneCountInString(*r.Description) > maxListingTextLen {
		return errors.New("description cannot exceed 5000 characters")
	}
	if r.City != nil && strings.TrimSpace(*r.City) == "" {
		return errors.New("city cannot be empty")
	}
	if r.Address != nil && strings.TrimSpace(*r.Address) == "" {
		return errors.New("address cannot be empty")
	}
	if r.PricePerNight != nil && *r.PricePerNight <= 0 {
		return errors.New("price_per_night must be > 0")
	}
	if r.MaxGuests != nil {
		return validateMaxGuests(*r.MaxGuests)
	}
	return nil
}

// ReviewListingRequest carries an administrator's decision on a pending listing.
type ReviewListingRequest struct {
	Reason string `json:"reason"`
}

func validateListingTitle(title string) error {
	if title == "" {
		return errors.New("title is required and cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxListingTitleLen {
		return errors.New("title cannot exceed 200 characters")
	}
	return nil
}

func validateMaxGuests(n int) error {
	if n < 1 {
		return errors.New("max_guests must be >= 1")
	}
	if n > maxListingGuests {
		return errors.New("max_guests cannot exceed 50")
	}
	return nil
}
