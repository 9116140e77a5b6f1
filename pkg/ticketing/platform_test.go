package ticketing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketbot/pkg/platform"
	"github.com/stretchr/testify/require"
)

const (
	testGuildID = "700000000000000001"
	testBotID   = "700000000000000002"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *dataaccess.Store {
	t.Helper()
	s := dataaccess.NewStore(testLogger(), dataaccess.NewFileBackend(filepath.Join(t.TempDir(), "ticket_config.json")))
	_, err := s.Load(context.Background())
	require.NoError(t, err)
	return s
}

// fakePlatform records every call made against it and keeps an in-memory guild.
type fakePlatform struct {
	mtx sync.Mutex

	nextID   int64
	channels map[string]*discordgo.Channel
	roles    []*discordgo.Role

	events  []string
	sent    map[string][]*discordgo.MessageSend
	deleted []string

	// deleteStarted, when set, receives the channel ID as deletion begins.
	deleteStarted chan string

	// releaseDelete, when set, blocks deletion until it is closed.
	releaseDelete chan struct{}

	// sendErr, when set, fails every message send.
	sendErr error
}

var _ platform.Adapter = (*fakePlatform)(nil)

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		nextID:   900000000000000000,
		channels: make(map[string]*discordgo.Channel),
		sent:     make(map[string][]*discordgo.MessageSend),
	}
}

func (f *fakePlatform) id() string {
	f.nextID++
	return strconv.FormatInt(f.nextID, 10)
}

func (f *fakePlatform) record(format string, args ...any) {
	f.events = append(f.events, fmt.Sprintf(format, args...))
}

func (f *fakePlatform) addChannel(name string, typ discordgo.ChannelType) *discordgo.Channel {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	ch := &discordgo.Channel{
		ID:      f.id(),
		GuildID: testGuildID,
		Name:    name,
		Type:    typ,
	}
	f.channels[ch.ID] = ch
	return ch
}

func (f *fakePlatform) addRoles(ids ...string) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	for _, id := range ids {
		f.roles = append(f.roles, &discordgo.Role{ID: id})
	}
}

func (f *fakePlatform) CreateCategory(_ context.Context, guildID, name string) (*discordgo.Channel, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	ch := &discordgo.Channel{
		ID:      f.id(),
		GuildID: guildID,
		Name:    name,
		Type:    discordgo.ChannelTypeGuildCategory,
	}
	f.channels[ch.ID] = ch
	f.record("create_category:%s", name)
	return ch, nil
}

func (f *fakePlatform) Channel(_ context.Context, channelID string) (*discordgo.Channel, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	ch, ok := f.channels[channelID]
	if !ok {
		return nil, platform.ErrNotFound
	}
	return ch, nil
}

func (f *fakePlatform) GuildChannels(_ context.Context, guildID string) ([]*discordgo.Channel, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	channels := make([]*discordgo.Channel, 0, len(f.channels))
	for _, ch := range f.channels {
		if ch.GuildID == guildID {
			channels = append(channels, ch)
		}
	}
	return channels, nil
}

func (f *fakePlatform) GuildRoles(_ context.Context, _ string) ([]*discordgo.Role, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.roles, nil
}

func (f *fakePlatform) CreateTextChannel(_ context.Context, guildID, parentID, name string, overwrites []*discordgo.PermissionOverwrite) (*discordgo.Channel, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	ch := &discordgo.Channel{
		ID:                   f.id(),
		GuildID:              guildID,
		ParentID:             parentID,
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		PermissionOverwrites: overwrites,
	}
	f.channels[ch.ID] = ch
	f.record("create_channel:%s", name)
	return ch, nil
}

func (f *fakePlatform) SendMessage(_ context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent[channelID] = append(f.sent[channelID], msg)
	f.record("send:%s", msg.Content)
	return &discordgo.Message{ID: f.id(), ChannelID: channelID, Content: msg.Content}, nil
}

func (f *fakePlatform) DeleteChannel(_ context.Context, channelID string) error {
	if f.deleteStarted != nil {
		f.deleteStarted <- channelID
	}
	if f.releaseDelete != nil {
		<-f.releaseDelete
	}

	f.mtx.Lock()
	defer f.mtx.Unlock()

	delete(f.channels, channelID)
	f.deleted = append(f.deleted, channelID)
	f.record("delete:%s", channelID)
	return nil
}

func (f *fakePlatform) BotUserID() string {
	return testBotID
}

func (f *fakePlatform) ack() error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.record("ack")
	return nil
}

func (f *fakePlatform) failSends(err error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.sendErr = err
}

func (f *fakePlatform) Events() []string {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return append([]string(nil), f.events...)
}

func (f *fakePlatform) Sent(channelID string) []*discordgo.MessageSend {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return append([]*discordgo.MessageSend(nil), f.sent[channelID]...)
}

func (f *fakePlatform) Deleted() []string {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return append([]string(nil), f.deleted...)
}
