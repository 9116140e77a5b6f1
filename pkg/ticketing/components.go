package ticketing

// Custom IDs of the persistent controls. These are baked into messages that have already been
// sent, so they must never change or be reused.
const (
	// CreateTicketButtonID is the ID of the panel button that opens a ticket.
	CreateTicketButtonID = "create_ticket_btn"

	// CloseTicketButtonID is the ID of the button that closes a ticket.
	CloseTicketButtonID = "close_ticket_btn"

	// CancelCloseButtonID is the ID of the button that stops a closing countdown.
	CancelCloseButtonID = "cancel_close_ticket_btn"
)

// Custom IDs of the setup flow.
const (
	// SetupModalID is the ID of the setup modal.
	SetupModalID = "ticket_setup_modal"

	// RoleSelectIDPrefix prefixes the per-session ID of the staff role select.
	RoleSelectIDPrefix = "ticket_setup_roles:"
)

const (
	// TicketEmoji is shown on the create ticket button. (Ticket)
	TicketEmoji = "\U0001F3AB"

	// CloseEmoji is shown on the close ticket button. (Lock)
	CloseEmoji = "\U0001F512"

	// CancelEmoji is shown on the cancel close button. (Cross)
	CancelEmoji = "❌"
)

// PersistentControls are the custom IDs that must be routed again every time the bot connects.
func PersistentControls() []string {
	return []string{
		CreateTicketButtonID,
		CloseTicketButtonID,
		CancelCloseButtonID,
	}
}
