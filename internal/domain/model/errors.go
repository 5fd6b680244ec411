package model

import apperrors "github.com/minbak/minbak-web/internal/errors"

// Sentinel errors shared by repositories and services.
// They are AppErrors so the HTTP layer can map them by code.
var (
	ErrListingNotFound       = apperrors.NotFound("listing not found")
	ErrBookingNotFound       = apperrors.NotFound("booking not found")
	ErrEmailExists           = apperrors.Conflict("an account with this email already exists")
	ErrBookingStatusConflict = apperrors.Conflict("booking cannot change to that status")
	ErrListingNotBookable    = apperrors.Validation("listing is not open for booking")
	ErrNotParticipant        = apperrors.Forbidden("only the guest and the host can access this booking")
	ErrNotListingOwner       = apperrors.Forbidden("listing belongs to another host")
	ErrInvalidCredentials    = apperrors.Unauthorized("invalid email or password")
)
