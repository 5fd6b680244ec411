package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxMessageLen = 2000

// DateLayout is the wire format for check-in and check-out dates.
const DateLayout = "2006-01-02"

// BookingStatus is the lifecycle status of a booking request.
type BookingStatus string

const (
	BookingStatusRequested BookingStatus = "requested"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusDeclined  BookingStatus = "declined"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a guest's stay request against a listing.
type Booking struct {
	ID        string        `json:"id"         db:"id"`
	ListingID string        `json:"listing_id" db:"listing_id"`
	GuestID   string        `json:"guest_id"   db:"guest_id"`
	CheckIn   time.Time     `json:"check_in"   db:"check_in"`
	CheckOut  time.Time     `json:"check_out"  db:"check_out"`
	Guests    int           `json:"guests"     db:"guests"`
	Status    BookingStatus `json:"status"     db:"status"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// HostBooking is a booking joined with the listing it belongs to, as shown to hosts.
type HostBooking struct {
	Booking
	ListingTitle string `json:"listing_title" db:"listing_title"`
	HostID       string `json:"host_id"       db:"host_id"`
}

// CreateBookingRequest represents parameters to request a booking.
type CreateBookingRequest struct {
	ListingID string `json:"listing_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Guests    int    `json:"guests"`
}

// Dates parses and validates the requested stay dates.
func (r *CreateBookingRequest) Dates() (time.Time, time.Time, error) {
	in, err := time.Parse(DateLayout, strings.TrimSpace(r.CheckIn))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("check_in must be YYYY-MM-DD")
	}
	out, err := time.Parse(DateLayout, strings.TrimSpace(r.CheckOut))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("check_out must be YYYY-MM-DD")
	}
	if !out.After(in) {
		return time.Time{}, time.Time{}, errors.New("check_out must be after check_in")
	}
	return in, out, nil
}

// Validate validates CreateBookingRequest.
func (r *CreateBookingRequest) Validate() error {
	r.ListingID = strings.TrimSpace(r.ListingID)
	if r.ListingID == "" {
		return errors.New("listing_id is required")
	}
	if r.Guests < 1 {
		return errors.New("guests must be >= 1")
	}
	_, _, err := r.Dates()
	return err
}

// Message is a note exchanged between a guest and a host about a booking.
type Message struct {
	ID        string    `json:"id"         db:"id"`
	BookingID string    `json:"booking_id" db:"booking_id"`
	SenderID  string    `json:"sender_id"  db:"sender_id"`
	Body      string    `json:"body"       db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SendMessageRequest represents a new message body.
type SendMessageRequest struct {
	Body string `json:"body"`
}

// Validate validates SendMessageRequest.
func (r *SendMessageRequest) Validate() error {
	r.Body = strings.TrimSpace(r.Body)
	if r.Body == "" {
		return errors.New("body is required")
	}
	if utf8.RuneCountInString(r.Body) > maxMessageLen {
		return errors.New("body cannot exceed 2000 characters")
	}
	return nil
}
