package messages

// User facing replies. Anything sent ephemerally lives here so the wording stays in one place.
const (
	// ErrUserErrorProcessing is the generic reply when an interaction fails unexpectedly.
	ErrUserErrorProcessing = "There was an error processing your request. Please try again later."

	// ErrAdminOnly is sent when a non administrator invokes the setup command.
	ErrAdminOnly = "You must be an administrator to use this command."

	// ErrDuplicateTicket is sent when the user already has an open ticket.
	ErrDuplicateTicket = "You already have an open ticket!"

	// ErrNotConfigured is sent when the guild has no usable ticket configuration.
	ErrNotConfigured = "Ticket system not configured properly."

	// ErrUnauthorized is sent when a non staff member tries to close a ticket.
	ErrUnauthorized = "Only staff can close tickets!"

	// ErrSetupExpired is sent when a role selection is used after it expired or was replaced.
	ErrSetupExpired = "This setup session has expired. Please run /setup again."

	// ErrInvalidRoleCount is sent when the role selection is outside of the allowed range.
	ErrInvalidRoleCount = "Please select between 1 and 10 staff roles."

	// ErrCloseInProgress is sent when a ticket is already counting down.
	ErrCloseInProgress = "This ticket is already closing."

	// ErrNoCountdown is sent when there is nothing to cancel.
	ErrNoCountdown = "This ticket is not closing."

	// ErrDeletionStarted is sent when a cancel arrives after the channel deletion was requested.
	ErrDeletionStarted = "This ticket is already being deleted."

	// ErrSlowDown is sent when a user clicks buttons too quickly.
	ErrSlowDown = "You're doing that too fast. Please wait a moment."
)

const (
	// SetupCategoryCreated asks the administrator to pick the staff roles.
	SetupCategoryCreated = "Category created! Now select the staff roles that can manage tickets:"

	// SetupRolesSaved confirms the staff roles and announces the panel.
	SetupRolesSaved = "Staff roles saved! Creating ticket panel..."

	// TicketCreatedFmt confirms a new ticket. Takes the channel mention.
	TicketCreatedFmt = "Ticket created! %s"

	// TicketClosing is the public acknowledgement before the countdown.
	TicketClosing = "Closing ticket in 5 seconds..."

	// CountdownFmt is a single countdown step. Takes the remaining seconds.
	CountdownFmt = "Deleting in %d..."

	// TicketCloseCancelled confirms a cancelled countdown.
	TicketCloseCancelled = "Ticket closing cancelled."
)
