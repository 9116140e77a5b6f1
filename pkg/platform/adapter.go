package platform

import (
	"context"
	"errors"

	"github.com/Jacobbrewer1/discordgo"
)

// ErrNotFound is returned when the platform does not know the requested object.
var ErrNotFound = errors.New("not found")

// Adapter is everything the ticket workflow needs from the messaging platform.
type Adapter interface {
	// CreateCategory creates a new channel category in the guild.
	CreateCategory(ctx context.Context, guildID, name string) (*discordgo.Channel, error)

	// Channel resolves a channel by ID. Returns ErrNotFound if the channel no longer exists.
	Channel(ctx context.Context, channelID string) (*discordgo.Channel, error)

	// GuildChannels lists every channel of the guild.
	GuildChannels(ctx context.Context, guildID string) ([]*discordgo.Channel, error)

	// GuildRoles lists every role of the guild.
	GuildRoles(ctx context.Context, guildID string) ([]*discordgo.Role, error)

	// CreateTextChannel creates a text channel under parentID with the given overwrites.
	CreateTextChannel(ctx context.Context, guildID, parentID, name string, overwrites []*discordgo.PermissionOverwrite) (*discordgo.Channel, error)

	// SendMessage sends a message to a channel.
	SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)

	// DeleteChannel permanently deletes a channel.
	DeleteChannel(ctx context.Context, channelID string) error

	// BotUserID is the user ID of the bot itself.
	BotUserID() string
}

var _ Adapter = (*Discord)(nil)
