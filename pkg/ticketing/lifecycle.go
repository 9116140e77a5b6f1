package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"github.com/Jacobbrewer1/ticketbot/pkg/platform"
)

// ticketColor is the accent of the message posted in new tickets. It does not follow the panel color.
const ticketColor = 0x5865F2

const (
	memberAllow = discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionAttachFiles
	staffAllow  = discordgo.PermissionViewChannel | discordgo.PermissionSendMessages
)

// ManagerOption configures a Manager.
type ManagerOption func(m *Manager)

// WithCountdownInterval sets the spacing between countdown messages.
func WithCountdownInterval(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.interval = d
	}
}

// WithClock sets the clock used for ticket timestamps.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// Manager opens and closes tickets.
type Manager struct {
	l        *slog.Logger
	store    dataaccess.ConfigStore
	platform platform.Adapter

	interval time.Duration
	now      func() time.Time

	// names serialises the duplicate check and channel creation per guild and ticket name.
	names *keyedMutex

	// ctx is the parent of every countdown, cancelled on Shutdown.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mtx        sync.Mutex
	countdowns map[string]*Countdown
}

// NewManager creates a new ticket manager.
func NewManager(l *slog.Logger, store dataaccess.ConfigStore, p platform.Adapter, opts ...ManagerOption) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		l:          l.With(slog.String("component", "ticket_manager")),
		store:      store,
		platform:   p,
		interval:   DefaultCountdownInterval,
		now:        time.Now,
		names:      newKeyedMutex(),
		ctx:        ctx,
		cancel:     cancel,
		countdowns: make(map[string]*Countdown),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create opens a ticket for the member and returns the new channel. ack is called once the member
// is known to get a ticket, before the channel is created.
//
// Any channel in the guild named like the member's ticket blocks creation, not only channels in
// the ticket category. Within this process the check and the creation happen under a lock per
// guild and name; another process creating the same channel is not guarded against.
func (m *Manager) Create(ctx context.Context, guildID string, member Member, ack func() error) (*discordgo.Channel, error) {
	ticket := &entities.Ticket{
		GuildID:   guildID,
		OwnerID:   member.ID,
		OwnerName: member.Username,
	}

	unlock := m.names.Lock(guildID + "/" + ticket.CollisionName())
	defer unlock()

	channels, err := m.platform.GuildChannels(ctx, guildID)
	if err != nil {
		return nil, err
	}
	for _, ch := range channels {
		if ch.Name == ticket.CollisionName() {
			return nil, ErrDuplicateTicket
		}
	}

	cfg, ok := m.store.Get(guildID)
	if !ok || cfg.CategoryID.IsZero() {
		return nil, ErrNotConfigured
	}

	category, err := m.platform.Channel(ctx, cfg.CategoryID.String())
	if errors.Is(err, platform.ErrNotFound) {
		return nil, ErrNotConfigured
	} else if err != nil {
		return nil, err
	}
	if category.Type != discordgo.ChannelTypeGuildCategory {
		return nil, ErrNotConfigured
	}

	if ack != nil {
		if err := ack(); err != nil {
			return nil, fmt.Errorf("error acknowledging ticket request: %w", err)
		}
	}

	roles, err := m.platform.GuildRoles(ctx, guildID)
	if err != nil {
		return nil, err
	}

	ch, err := m.platform.CreateTextChannel(ctx, guildID, category.ID, ticket.Name(),
		m.ticketOverwrites(guildID, member, cfg, roles))
	if err != nil {
		return nil, err
	}

	if _, err := m.platform.SendMessage(ctx, ch.ID, m.ticketInfoMessage(member)); err != nil {
		return nil, fmt.Errorf("error sending ticket message: %w", err)
	}

	m.l.Info("Ticket created",
		slog.String(logging.KeyGuild, guildID),
		slog.String(logging.KeyUser, member.ID),
		slog.String(logging.KeyChannel, ch.ID),
	)
	return ch, nil
}

// ticketOverwrites hides the channel from everyone except the member, the bot and the staff
// roles that still exist in the guild.
func (m *Manager) ticketOverwrites(guildID string, member Member, cfg *entities.GuildTicketConfig, roles []*discordgo.Role) []*discordgo.PermissionOverwrite {
	overwrites := []*discordgo.PermissionOverwrite{
		// The @everyone role shares the guild's ID.
		{
			ID:   guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		{
			ID:    member.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: memberAllow,
		},
	}

	if botID := m.platform.BotUserID(); botID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    botID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: staffAllow,
		})
	}

	existing := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		existing[r.ID] = struct{}{}
	}

	for _, roleID := range cfg.StaffRoles {
		if _, ok := existing[roleID.String()]; !ok {
			m.l.Debug("Skipping deleted staff role",
				slog.String(logging.KeyGuild, guildID),
				slog.String("role_id", roleID.String()),
			)
			continue
		}
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    roleID.String(),
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: staffAllow,
		})
	}
	return overwrites
}

func (m *Manager) ticketInfoMessage(member Member) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: member.Mention(),
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       fmt.Sprintf("Ticket from %s", member.Username),
				Description: fmt.Sprintf("%s has created a ticket. Staff will be with you shortly.", member.Mention()),
				Color:       ticketColor,
				Timestamp:   m.now().UTC().Format(time.RFC3339),
				Fields: []*discordgo.MessageEmbedField{
					{
						Name:   "User",
						Value:  member.Mention(),
						Inline: true,
					},
					{
						Name:   "User ID",
						Value:  member.ID,
						Inline: true,
					},
				},
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					CloseTicketButton(),
				},
			},
		},
	}
}

// Close starts the deletion countdown of a ticket channel. The member is checked against the
// guild's current configuration on every call. ack is called once the member is authorised and
// before the first countdown message. The countdown runs on its own and is returned so callers
// can wait on it.
func (m *Manager) Close(ctx context.Context, guildID, channelID string, member Member, ack func() error) (*Countdown, error) {
	if !m.authorised(guildID, member) {
		return nil, ErrUnauthorized
	}

	cd := newCountdown(m.ctx, channelID, m.interval)

	m.mtx.Lock()
	if _, ok := m.countdowns[channelID]; ok {
		m.mtx.Unlock()
		return nil, ErrCloseInProgress
	}
	m.countdowns[channelID] = cd
	m.mtx.Unlock()

	if ack != nil {
		if err := ack(); err != nil {
			m.forget(cd)
			cd.cancel()
			return nil, fmt.Errorf("error acknowledging close: %w", err)
		}
	}

	m.l.Info("Ticket closing",
		slog.String(logging.KeyGuild, guildID),
		slog.String(logging.KeyChannel, channelID),
		slog.String(logging.KeyUser, member.ID),
	)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer m.forget(cd)

		cd.run(m.platform)

		switch err := cd.Err(); {
		case err == nil:
			m.l.Info("Ticket deleted", slog.String(logging.KeyChannel, channelID))
		case errors.Is(err, ErrCountdownCancelled):
			m.l.Info("Ticket close cancelled", slog.String(logging.KeyChannel, channelID))
		default:
			m.l.Error("Error closing ticket",
				slog.String(logging.KeyChannel, channelID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	}()

	return cd, nil
}

// CancelClose stops the countdown of a ticket channel. It needs the same rights as Close.
func (m *Manager) CancelClose(_ context.Context, guildID, channelID string, member Member) error {
	if !m.authorised(guildID, member) {
		return ErrUnauthorized
	}

	m.mtx.Lock()
	cd, ok := m.countdowns[channelID]
	m.mtx.Unlock()
	if !ok {
		return ErrNoCountdown
	}

	if !cd.Cancel() {
		return ErrDeletionStarted
	}
	<-cd.Done()
	return nil
}

// Closing reports whether the channel is counting down.
func (m *Manager) Closing(channelID string) bool {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	_, ok := m.countdowns[channelID]
	return ok
}

// Shutdown cancels every countdown that has not reached deletion and waits for them to stop.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) authorised(guildID string, member Member) bool {
	cfg, _ := m.store.Get(guildID)
	return CanClose(member, cfg)
}

func (m *Manager) forget(cd *Countdown) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.countdowns[cd.channelID] == cd {
		delete(m.countdowns, cd.channelID)
	}
}
