package main

import (
	"errors"

	"github.com/Jacobbrewer1/ticketbot/pkg/messages"
	"github.com/Jacobbrewer1/ticketbot/pkg/ticketing"
)

// errAdminOnly is returned by handlers that need the administrator permission.
var errAdminOnly = errors.New("administrator permission required")

// userReplies maps errors the user caused to the reply they get.
var userReplies = []struct {
	err   error
	reply string
}{
	{errAdminOnly, messages.ErrAdminOnly},
	{ticketing.ErrDuplicateTicket, messages.ErrDuplicateTicket},
	{ticketing.ErrNotConfigured, messages.ErrNotConfigured},
	{ticketing.ErrUnauthorized, messages.ErrUnauthorized},
	{ticketing.ErrSetupExpired, messages.ErrSetupExpired},
	{ticketing.ErrInvalidRoleCount, messages.ErrInvalidRoleCount},
	{ticketing.ErrCloseInProgress, messages.ErrCloseInProgress},
	{ticketing.ErrNoCountdown, messages.ErrNoCountdown},
	{ticketing.ErrDeletionStarted, messages.ErrDeletionStarted},
}

// userMessage returns the reply for err. The second value is false for unexpected errors, which
// get the generic reply.
func userMessage(err error) (string, bool) {
	for _, r := range userReplies {
		if errors.Is(err, r.err) {
			return r.reply, true
		}
	}
	return messages.ErrUserErrorProcessing, false
}
