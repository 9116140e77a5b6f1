package ticketing

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"github.com/Jacobbrewer1/ticketbot/pkg/platform"
)

const (
	// DefaultColor is used whenever a configured color cannot be parsed. (Blurple)
	DefaultColor = 0x5865F2

	// maxColor is the largest color an embed accepts.
	maxColor = 0xFFFFFF

	// defaultButtonLabel is used when the configuration has no label.
	defaultButtonLabel = "Create Ticket"
)

// ParseColor parses a hex color such as "0x5865F2" or "5865f2".
func ParseColor(s string) (int, error) {
	hex := strings.TrimSpace(s)
	hex = strings.TrimPrefix(strings.TrimPrefix(hex, "0x"), "0X")
	if hex == "" {
		return 0, fmt.Errorf("%w: %q", ErrColorParse, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || v > maxColor {
		return 0, fmt.Errorf("%w: %q", ErrColorParse, s)
	}
	return int(v), nil
}

// EmbedColor parses the color, silently falling back to DefaultColor.
func EmbedColor(s string) int {
	c, err := ParseColor(s)
	if err != nil {
		return DefaultColor
	}
	return c
}

// CreateTicketButton builds the panel button. The label is fixed once the button is built.
func CreateTicketButton(label string) discordgo.Button {
	if label == "" {
		label = defaultButtonLabel
	}
	return discordgo.Button{
		Label:    label,
		Style:    discordgo.SuccessButton,
		Emoji:    discordgo.ComponentEmoji{Name: TicketEmoji},
		CustomID: CreateTicketButtonID,
	}
}

// CloseTicketButton builds the button placed in every ticket channel.
func CloseTicketButton() discordgo.Button {
	return discordgo.Button{
		Label:    "Close Ticket",
		Style:    discordgo.DangerButton,
		Emoji:    discordgo.ComponentEmoji{Name: CloseEmoji},
		CustomID: CloseTicketButtonID,
	}
}

// CancelCloseButton builds the button that stops a closing countdown.
func CancelCloseButton() discordgo.Button {
	return discordgo.Button{
		Label:    "Cancel",
		Style:    discordgo.SecondaryButton,
		Emoji:    discordgo.ComponentEmoji{Name: CancelEmoji},
		CustomID: CancelCloseButtonID,
	}
}

// BuildPanelMessage renders the panel for a guild's configuration.
func BuildPanelMessage(cfg *entities.GuildTicketConfig, guildName string) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       cfg.EmbedTitle,
				Description: cfg.EmbedDescription,
				Color:       EmbedColor(cfg.EmbedColor),
				Footer: &discordgo.MessageEmbedFooter{
					Text: fmt.Sprintf("%s Support System", guildName),
				},
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					CreateTicketButton(cfg.ButtonLabel),
				},
			},
		},
	}
}

// Panel publishes the message members use to open tickets.
type Panel struct {
	platform platform.Adapter
}

// NewPanel creates a new panel controller.
func NewPanel(p platform.Adapter) *Panel {
	return &Panel{platform: p}
}

// Publish sends the panel to the channel. The message is never tracked; its button keeps working
// for as long as the bot routes CreateTicketButtonID.
func (p *Panel) Publish(ctx context.Context, channelID string, cfg *entities.GuildTicketConfig, guildName string) (*discordgo.Message, error) {
	msg, err := p.platform.SendMessage(ctx, channelID, BuildPanelMessage(cfg, guildName))
	if err != nil {
		return nil, fmt.Errorf("error publishing panel: %w", err)
	}
	return msg, nil
}
