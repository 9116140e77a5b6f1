package ticketing

import "errors"

var (
	// ErrDuplicateTicket is returned when the user already has a ticket channel in the guild.
	ErrDuplicateTicket = errors.New("user already has an open ticket")

	// ErrNotConfigured is returned when the guild has no configuration or its category is gone.
	ErrNotConfigured = errors.New("ticket system not configured")

	// ErrColorParse is returned when a color is not a valid hex value.
	ErrColorParse = errors.New("invalid hex color")

	// ErrUnauthorized is returned when the member is neither staff nor an administrator.
	ErrUnauthorized = errors.New("member is not allowed to manage tickets")

	// ErrSetupExpired is returned when a role selection has no matching setup in progress.
	ErrSetupExpired = errors.New("setup session expired")

	// ErrInvalidRoleCount is returned when the number of selected staff roles is out of range.
	ErrInvalidRoleCount = errors.New("invalid number of staff roles")

	// ErrCloseInProgress is returned when the ticket is already counting down.
	ErrCloseInProgress = errors.New("ticket is already closing")

	// ErrNoCountdown is returned when cancelling a ticket that is not counting down.
	ErrNoCountdown = errors.New("ticket is not closing")

	// ErrDeletionStarted is returned when cancelling a countdown that already reached deletion.
	ErrDeletionStarted = errors.New("ticket deletion already started")
)
