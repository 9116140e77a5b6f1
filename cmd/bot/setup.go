package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"github.com/Jacobbrewer1/ticketbot/pkg/messages"
	"github.com/Jacobbrewer1/ticketbot/pkg/ticketing"
)

const (
	// setupCmdName is the command that configures the ticket system.
	setupCmdName = "setup"
)

// adminPermission hides the setup command from members without the administrator permission.
var adminPermission int64 = discordgo.PermissionAdministrator

var (
	// setupCmd is the command for configuring the ticket system.
	setupCmd = &discordgo.ApplicationCommand{
		Name:                     setupCmdName,
		Type:                     discordgo.ChatApplicationCommand,
		Description:              "Setup the ticket system",
		DefaultMemberPermissions: &adminPermission,
	}
)

// requireAdmin rejects members without the administrator permission. The command is already hidden
// from them, but permissions can be overridden per guild.
func requireAdmin(i *discordgo.InteractionCreate) (ticketing.Member, error) {
	member := ticketing.MemberFromInteraction(i.Interaction)
	if i.GuildID == "" || !member.IsAdmin() {
		return member, errAdminOnly
	}
	return member, nil
}

// setupCmdHandler opens the setup modal.
func setupCmdHandler(_ context.Context, a IApp, i *discordgo.InteractionCreate) error {
	if _, err := requireAdmin(i); err != nil {
		return err
	}

	if err := a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: ticketing.SetupModal(),
	}); err != nil {
		return fmt.Errorf("error opening setup modal: %w", err)
	}
	return nil
}

// setupModalHandler creates the ticket category and asks for the staff roles.
func setupModalHandler(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error {
	if _, err := requireAdmin(i); err != nil {
		return err
	}

	// Creating the category can outlast the response deadline.
	if err := deferEphemeral(a, i); err != nil {
		return fmt.Errorf("error deferring setup response: %w", err)
	}

	in := ticketing.ParseSetupModal(i.ModalSubmitData())
	customID, err := a.Setup().Submit(ctx, i.GuildID, i.ChannelID, in)
	if err != nil {
		return err
	}

	return followupEphemeral(a, i, &discordgo.WebhookParams{
		Content:    messages.SetupCategoryCreated,
		Components: ticketing.RoleSelectMenu(customID),
	})
}

// roleSelectHandler saves the staff roles and publishes the panel.
func roleSelectHandler(ctx context.Context, a IApp, i *discordgo.InteractionCreate) error {
	if _, err := requireAdmin(i); err != nil {
		return err
	}

	name, err := guildName(a, i.GuildID)
	if err != nil {
		return err
	}

	data := i.MessageComponentData()

	// The select is replaced by the confirmation so it cannot be used again.
	ack := func() error {
		return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Content:    messages.SetupRolesSaved,
				Components: []discordgo.MessageComponent{},
			},
		})
	}

	msg, err := a.Setup().SelectRoles(ctx, i.GuildID, data.CustomID, data.Values, name, ack)
	if err != nil {
		return err
	}

	a.Log().Info("Ticket system configured",
		slog.String(logging.KeyGuild, i.GuildID),
		slog.String(logging.KeyChannel, msg.ChannelID),
	)
	return nil
}
