package data

import (
	"errors"

	domainauth "github.com/minbak/minbak-web/internal/domain/auth"
	"github.com/minbak/minbak-web/internal/domain/model"
)

// Shared sentinel errors for data-layer repositories.
// Not-found sentinels are re-exported from the domain so callers can match either name.
var (
	ErrUserNotFound    = domainauth.ErrUserNotFound
	ErrListingNotFound = model.ErrListingNotFound
	ErrBookingNotFound = model.ErrBookingNotFound

	ErrRequestRequired = errors.New("request is required")
	ErrIDRequired      = errors.New("id is required")
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// clampPage normalizes pagination arguments.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
