package main

import (
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
)

func respondEphemeral(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// deferEphemeral acknowledges the interaction with a private "thinking" state. The reply follows
// with followupEphemeral.
func deferEphemeral(a IApp, i *discordgo.InteractionCreate) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

// followupEphemeral sends a private message after the interaction has been acknowledged.
func followupEphemeral(a IApp, i *discordgo.InteractionCreate, params *discordgo.WebhookParams) error {
	params.Flags |= discordgo.MessageFlagsEphemeral
	if _, err := a.Session().FollowupMessageCreate(i.Interaction, true, params); err != nil {
		return fmt.Errorf("error sending followup: %w", err)
	}
	return nil
}

// respondError replies privately, falling back to a followup when the interaction was already
// acknowledged.
func respondError(a IApp, i *discordgo.InteractionCreate, content string) error {
	if err := respondEphemeral(a, i, content); err == nil {
		return nil
	}
	return followupEphemeral(a, i, &discordgo.WebhookParams{Content: content})
}

// guildName resolves the guild's name from the state cache, then from the API.
func guildName(a IApp, guildID string) (string, error) {
	if a.Session().State != nil {
		if g, err := a.Session().State.Guild(guildID); err == nil && g.Name != "" {
			return g.Name, nil
		}
	}

	g, err := a.Session().Guild(guildID)
	if err != nil {
		return "", fmt.Errorf("error getting guild: %w", err)
	}
	return g.Name, nil
}

func channelMention(channelID string) string {
	return fmt.Sprintf("<#%s>", channelID)
}
