package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Jacobbrewer1/discordgo"
)

// Discord implements Adapter on top of a discordgo session.
type Discord struct {
	s *discordgo.Session
}

// NewDiscord creates a new Discord adapter.
func NewDiscord(s *discordgo.Session) *Discord {
	return &Discord{s: s}
}

func (d *Discord) CreateCategory(ctx context.Context, guildID, name string) (*discordgo.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	category, err := d.s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name: name,
		Type: discordgo.ChannelTypeGuildCategory,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating category: %w", err)
	}
	return category, nil
}

func (d *Discord) Channel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Prefer the gateway cache, the category is usually in it.
	if d.s.State != nil {
		if ch, err := d.s.State.Channel(channelID); err == nil {
			return ch, nil
		}
	}

	ch, err := d.s.Channel(channelID)
	if err != nil {
		if isUnknownChannel(err) {
			return nil, fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
		}
		return nil, fmt.Errorf("error getting channel: %w", err)
	}
	return ch, nil
}

func (d *Discord) GuildChannels(ctx context.Context, guildID string) ([]*discordgo.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	channels, err := d.s.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("error getting guild channels: %w", err)
	}
	return channels, nil
}

func (d *Discord) GuildRoles(ctx context.Context, guildID string) ([]*discordgo.Role, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	roles, err := d.s.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("error getting guild roles: %w", err)
	}
	return roles, nil
}

func (d *Discord) CreateTextChannel(ctx context.Context, guildID, parentID, name string, overwrites []*discordgo.PermissionOverwrite) (*discordgo.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch, err := d.s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		PermissionOverwrites: overwrites,
		ParentID:             parentID,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating channel: %w", err)
	}
	return ch, nil
}

func (d *Discord) SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, err := d.s.ChannelMessageSendComplex(channelID, msg)
	if err != nil {
		return nil, fmt.Errorf("error sending message: %w", err)
	}
	return m, nil
}

func (d *Discord) DeleteChannel(ctx context.Context, channelID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := d.s.ChannelDelete(channelID); err != nil {
		if isUnknownChannel(err) {
			return fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
		}
		return fmt.Errorf("error deleting channel: %w", err)
	}
	return nil
}

func (d *Discord) BotUserID() string {
	if d.s.State == nil || d.s.State.User == nil {
		return ""
	}
	return d.s.State.User.ID
}

func isUnknownChannel(err error) bool {
	restErr := new(discordgo.RESTError)
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownChannel {
		return true
	}
	// A bare 404 comes back without a JSON body.
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
