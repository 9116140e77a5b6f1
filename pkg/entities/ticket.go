package entities

import "strings"

// ticketPrefix is prepended to the owner's username to build the channel name.
const ticketPrefix = "ticket-"

// Ticket is an open ticket. Tickets are not stored anywhere, a ticket exists as long as its channel does.
type Ticket struct {
	// GuildID is the ID of the guild that the ticket is in.
	GuildID string

	// OwnerID is the ID of the user that created the ticket.
	OwnerID string

	// OwnerName is the username of the user that created the ticket.
	OwnerName string
}

// Name is the name the ticket channel is created with. The owner's username keeps its case.
func (t *Ticket) Name() string {
	return ticketPrefix + t.OwnerName
}

// CollisionName is the name used to look for an existing ticket of the same owner.
func (t *Ticket) CollisionName() string {
	return ticketPrefix + strings.ToLower(t.OwnerName)
}
