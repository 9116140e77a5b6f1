package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/ticketbot/pkg/messages"
	"github.com/Jacobbrewer1/ticketbot/pkg/ticketing"
)

// Ticket events counted by monitoring.TotalTickets.
const (
	ticketEventCreated   = "created"
	ticketEventDenied    = "denied"
	ticketEventClosing   = "closing"
	ticketEventClosed    = "closed"
	ticketEventCancelled = "cancelled"
)

// ticketControls are the processors of the persistent ticket buttons.
var ticketControls = map[string]interactionProcessor{
	ticketing.CreateTicketButtonID: createTicketHandler,
	ticketing.CloseTicketButtonID:  closeTicketHandler,
	ticketing.CancelCloseButtonID:  cancelCloseHandler,
}

// createTicketHandler opens a ticket for the member that clicked the panel. Rejections are answered
// straight away, an accepted request is deferred before the channel is created.
func createTicketHandler(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error {
	member := ticketing.MemberFromInteraction(i.Interaction)

	ack := func() error {
		return deferEphemeral(a, i)
	}

	ch, err := a.Tickets().Create(ctx, i.GuildID, member, ack)
	if err != nil {
		if errors.Is(err, ticketing.ErrDuplicateTicket) || errors.Is(err, ticketing.ErrNotConfigured) {
			monitoring.TotalTickets.WithLabelValues(ticketEventDenied).Inc()
		}
		return err
	}
	monitoring.TotalTickets.WithLabelValues(ticketEventCreated).Inc()

	return followupEphemeral(a, i, &discordgo.WebhookParams{
		Content: fmt.Sprintf(messages.TicketCreatedFmt, channelMention(ch.ID)),
	})
}

// closeTicketHandler starts the deletion countdown of the ticket the button was clicked in.
func closeTicketHandler(_ context.Context, a IApp, i *discordgo.InteractionCreate) error {
	member := ticketing.MemberFromInteraction(i.Interaction)

	ack := func() error {
		return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: messages.TicketClosing,
				Components: []discordgo.MessageComponent{
					discordgo.ActionsRow{
						Components: []discordgo.MessageComponent{
							ticketing.CancelCloseButton(),
						},
					},
				},
			},
		})
	}

	// The countdown outlives the interaction, so it is not bound to the interaction's context.
	cd, err := a.Tickets().Close(context.Background(), i.GuildID, i.ChannelID, member, ack)
	if err != nil {
		return err
	}
	monitoring.TotalTickets.WithLabelValues(ticketEventClosing).Inc()

	go func() {
		<-cd.Done()
		if cd.Err() == nil {
			monitoring.TotalTickets.WithLabelValues(ticketEventClosed).Inc()
		}
	}()
	return nil
}

// cancelCloseHandler stops a running countdown and clears the cancel button.
func cancelCloseHandler(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error {
	member := ticketing.MemberFromInteraction(i.Interaction)

	if err := a.Tickets().CancelClose(ctx, i.GuildID, i.ChannelID, member); err != nil {
		return err
	}
	monitoring.TotalTickets.WithLabelValues(ticketEventCancelled).Inc()

	if err := a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    messages.TicketCloseCancelled,
			Components: []discordgo.MessageComponent{},
		},
	}); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}
