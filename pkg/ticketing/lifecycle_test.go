package ticketing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/custom"
	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var (
	alice = Member{ID: "800000000000000001", Username: "Alice"}
	admin = Member{ID: "800000000000000002", Username: "boss", Permissions: discordgo.PermissionAdministrator}
	staff = Member{ID: "800000000000000003", Username: "helper", Roles: []string{"5"}}
)

type lifecycleSuite struct {
	suite.Suite

	ctx      context.Context
	store    *dataaccess.Store
	platform *fakePlatform
	manager  *Manager
	category *discordgo.Channel
}

func TestLifecycle(t *testing.T) {
	suite.Run(t, new(lifecycleSuite))
}

func (s *lifecycleSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = newTestStore(s.T())
	s.platform = newFakePlatform()
	s.manager = NewManager(testLogger(), s.store, s.platform,
		WithCountdownInterval(time.Millisecond),
		WithClock(func() time.Time {
			return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		}),
	)
	s.category = s.platform.addChannel("Tickets", discordgo.ChannelTypeGuildCategory)
}

func (s *lifecycleSuite) TearDownTest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Require().NoError(s.manager.Shutdown(ctx))
}

func (s *lifecycleSuite) configure(staffRoles ...custom.Snowflake) {
	categoryID, err := custom.ParseSnowflake(s.category.ID)
	s.Require().NoError(err)

	_, err = s.store.Set(s.ctx, testGuildID, func(cfg *entities.GuildTicketConfig) {
		cfg.EmbedTitle = "Help"
		cfg.CategoryID = categoryID
		cfg.StaffRoles = staffRoles
	})
	s.Require().NoError(err)
}

func (s *lifecycleSuite) TestCreate_NotConfigured() {
	_, err := s.manager.Create(s.ctx, testGuildID, alice, nil)
	s.Require().ErrorIs(err, ErrNotConfigured)
	s.Require().Empty(s.platform.Events())
}

func (s *lifecycleSuite) TestCreate_CategoryDeleted() {
	s.configure(5)
	_, err := s.platform.Channel(s.ctx, s.category.ID)
	s.Require().NoError(err)
	s.Require().NoError(s.platform.DeleteChannel(s.ctx, s.category.ID))

	_, err = s.manager.Create(s.ctx, testGuildID, alice, nil)
	s.Require().ErrorIs(err, ErrNotConfigured)
}

func (s *lifecycleSuite) TestCreate_CategoryIsNotACategory() {
	text := s.platform.addChannel("general", discordgo.ChannelTypeGuildText)
	id, err := custom.ParseSnowflake(text.ID)
	s.Require().NoError(err)

	_, err = s.store.Set(s.ctx, testGuildID, func(cfg *entities.GuildTicketConfig) {
		cfg.CategoryID = id
	})
	s.Require().NoError(err)

	_, err = s.manager.Create(s.ctx, testGuildID, alice, nil)
	s.Require().ErrorIs(err, ErrNotConfigured)
}

func (s *lifecycleSuite) TestCreate_Success() {
	s.configure(5, 6)
	s.platform.addRoles(testGuildID, "5", "6")

	ch, err := s.manager.Create(s.ctx, testGuildID, alice, nil)
	s.Require().NoError(err)
	s.Require().Equal("ticket-Alice", ch.Name)
	s.Require().Equal(s.category.ID, ch.ParentID)

	sent := s.platform.Sent(ch.ID)
	s.Require().Len(sent, 1)

	msg := sent[0]
	s.Require().Equal("<@800000000000000001>", msg.Content)
	s.Require().Len(msg.Embeds, 1)
	s.Require().Equal("Ticket from Alice", msg.Embeds[0].Title)
	s.Require().Equal("<@800000000000000001> has created a ticket. Staff will be with you shortly.", msg.Embeds[0].Description)
	s.Require().Equal(0x5865F2, msg.Embeds[0].Color)
	s.Require().Equal("2024-03-01T12:00:00Z", msg.Embeds[0].Timestamp)
	s.Require().Len(msg.Embeds[0].Fields, 2)
	s.Require().Equal(alice.ID, msg.Embeds[0].Fields[1].Value)

	row, ok := msg.Components[0].(discordgo.ActionsRow)
	s.Require().True(ok)
	btn, ok := row.Components[0].(discordgo.Button)
	s.Require().True(ok)
	s.Require().Equal(CloseTicketButtonID, btn.CustomID)
}

func (s *lifecycleSuite) TestCreate_AcksBeforeCreatingChannel() {
	s.configure(5)

	ch, err := s.manager.Create(s.ctx, testGuildID, alice, s.platform.ack)
	s.Require().NoError(err)

	s.Require().Equal([]string{
		"ack",
		"create_channel:ticket-Alice",
		"send:<@800000000000000001>",
	}, s.platform.Events())
	s.Require().Len(s.platform.Sent(ch.ID), 1)
}

func (s *lifecycleSuite) TestCreate_RejectedWithoutAck() {
	acked := false
	ack := func() error {
		acked = true
		return nil
	}

	_, err := s.manager.Create(s.ctx, testGuildID, alice, ack)
	s.Require().ErrorIs(err, ErrNotConfigured)

	s.configure(5)
	s.platform.addChannel("ticket-alice", discordgo.ChannelTypeGuildText)
	_, err = s.manager.Create(s.ctx, testGuildID, alice, ack)
	s.Require().ErrorIs(err, ErrDuplicateTicket)

	s.Require().False(acked)
}

func (s *lifecycleSuite) TestCreate_AckFails() {
	s.configure(5)
	ackErr := errors.New("unknown interaction")

	_, err := s.manager.Create(s.ctx, testGuildID, alice, func() error { return ackErr })
	s.Require().ErrorIs(err, ackErr)
	s.Require().Empty(s.platform.Events())
}

func (s *lifecycleSuite) TestCreate_Overwrites() {
	s.configure(5, 6)
	// Role 6 has since been deleted from the guild.
	s.platform.addRoles(testGuildID, "5")

	ch, err := s.manager.Create(s.ctx, testGuildID, alice, nil)
	s.Require().NoError(err)

	want := []*discordgo.PermissionOverwrite{
		{ID: testGuildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
		{ID: alice.ID, Type: discordgo.PermissionOverwriteTypeMember, Allow: memberAllow},
		{ID: testBotID, Type: discordgo.PermissionOverwriteTypeMember, Allow: staffAllow},
		{ID: "5", Type: discordgo.PermissionOverwriteTypeRole, Allow: staffAllow},
	}
	s.Require().Equal(want, ch.PermissionOverwrites)
}

func (s *lifecycleSuite) TestCreate_Duplicate() {
	s.configure(5)

	_, err := s.manager.Create(s.ctx, testGuildID, alice, nil)
	s.Require().NoError(err)

	// Only a lower-cased channel name collides. Discord lower-cases names itself, this fake does not.
	_, err = s.manager.Create(s.ctx, testGuildID, alice, nil)
	s.Require().NoError(err)

	s.platform.addChannel("ticket-alice", discordgo.ChannelTypeGuildText)
	_, err = s.manager.Create(s.ctx, testGuildID, alice, nil)
	s.Require().ErrorIs(err, ErrDuplicateTicket)
}

func (s *lifecycleSuite) TestCreate_DuplicateOutsideCategory() {
	s.configure(5)
	s.platform.addChannel("ticket-bob", discordgo.ChannelTypeGuildText)

	_, err := s.manager.Create(s.ctx, testGuildID, Member{ID: "1", Username: "bob"}, nil)
	s.Require().ErrorIs(err, ErrDuplicateTicket)
}

func (s *lifecycleSuite) TestCreate_ConcurrentClicks() {
	s.configure(5)
	bob := Member{ID: "800000000000000009", Username: "bob"}

	var (
		wg      sync.WaitGroup
		mtx     sync.Mutex
		created int
		dupes   int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.manager.Create(s.ctx, testGuildID, bob, nil)

			mtx.Lock()
			defer mtx.Unlock()
			if err == nil {
				created++
			} else if err == ErrDuplicateTicket {
				dupes++
			}
		}()
	}
	wg.Wait()

	s.Require().Equal(1, created)
	s.Require().Equal(4, dupes)
}

func (s *lifecycleSuite) TestClose_Unauthorized() {
	s.configure(5)

	_, err := s.manager.Close(s.ctx, testGuildID, "42", alice, s.platform.ack)
	s.Require().ErrorIs(err, ErrUnauthorized)
	s.Require().Empty(s.platform.Events())
}

func (s *lifecycleSuite) TestClose_Countdown() {
	s.configure(5)
	ch := s.platform.addChannel("ticket-Alice", discordgo.ChannelTypeGuildText)

	cd, err := s.manager.Close(s.ctx, testGuildID, ch.ID, staff, s.platform.ack)
	s.Require().NoError(err)
	<-cd.Done()
	s.Require().NoError(cd.Err())

	want := []string{"ack"}
	for i := CountdownSteps; i > 0; i-- {
		want = append(want, fmt.Sprintf("send:Deleting in %d...", i))
	}
	want = append(want, "delete:"+ch.ID)
	s.Require().Equal(want, s.platform.Events())

	s.Require().Eventually(func() bool {
		return !s.manager.Closing(ch.ID)
	}, time.Second, time.Millisecond)
}

func (s *lifecycleSuite) TestClose_AdminWithoutConfig() {
	ch := s.platform.addChannel("ticket-Alice", discordgo.ChannelTypeGuildText)

	cd, err := s.manager.Close(s.ctx, testGuildID, ch.ID, admin, nil)
	s.Require().NoError(err)
	<-cd.Done()
	s.Require().Equal([]string{ch.ID}, s.platform.Deleted())
}

func (s *lifecycleSuite) TestClose_AlreadyClosing() {
	s.configure(5)
	s.manager.interval = time.Hour

	cd, err := s.manager.Close(s.ctx, testGuildID, "42", staff, nil)
	s.Require().NoError(err)

	_, err = s.manager.Close(s.ctx, testGuildID, "42", admin, nil)
	s.Require().ErrorIs(err, ErrCloseInProgress)

	s.Require().NoError(s.manager.CancelClose(s.ctx, testGuildID, "42", staff))
	s.Require().ErrorIs(cd.Err(), ErrCountdownCancelled)
}

func (s *lifecycleSuite) TestClose_AckFails() {
	s.configure(5)

	_, err := s.manager.Close(s.ctx, testGuildID, "42", staff, func() error {
		return fmt.Errorf("interaction expired")
	})
	s.Require().Error(err)
	s.Require().False(s.manager.Closing("42"))
	s.Require().Empty(s.platform.Events())
}

func (s *lifecycleSuite) TestCancelClose() {
	s.configure(5)
	s.manager.interval = time.Hour
	ch := s.platform.addChannel("ticket-Alice", discordgo.ChannelTypeGuildText)

	s.Require().ErrorIs(s.manager.CancelClose(s.ctx, testGuildID, ch.ID, staff), ErrNoCountdown)

	cd, err := s.manager.Close(s.ctx, testGuildID, ch.ID, staff, nil)
	s.Require().NoError(err)

	s.Require().ErrorIs(s.manager.CancelClose(s.ctx, testGuildID, ch.ID, alice), ErrUnauthorized)
	s.Require().NoError(s.manager.CancelClose(s.ctx, testGuildID, ch.ID, admin))

	<-cd.Done()
	s.Require().ErrorIs(cd.Err(), ErrCountdownCancelled)
	s.Require().Empty(s.platform.Deleted())

	s.Require().Eventually(func() bool {
		return !s.manager.Closing(ch.ID)
	}, time.Second, time.Millisecond)

	// The ticket can be closed again once the countdown is gone.
	s.manager.interval = time.Millisecond
	cd, err = s.manager.Close(s.ctx, testGuildID, ch.ID, staff, nil)
	s.Require().NoError(err)
	<-cd.Done()
	s.Require().Equal([]string{ch.ID}, s.platform.Deleted())
}

func (s *lifecycleSuite) TestCancelClose_DeletionStarted() {
	s.configure(5)
	s.platform.deleteStarted = make(chan string, 1)
	s.platform.releaseDelete = make(chan struct{})

	cd, err := s.manager.Close(s.ctx, testGuildID, "42", staff, nil)
	s.Require().NoError(err)

	s.Require().Equal("42", <-s.platform.deleteStarted)
	s.Require().ErrorIs(s.manager.CancelClose(s.ctx, testGuildID, "42", staff), ErrDeletionStarted)

	close(s.platform.releaseDelete)
	<-cd.Done()
	s.Require().NoError(cd.Err())
	s.Require().Equal([]string{"42"}, s.platform.Deleted())
}

func (s *lifecycleSuite) TestShutdown_CancelsCountdowns() {
	s.configure(5)
	s.manager.interval = time.Hour

	cd, err := s.manager.Close(s.ctx, testGuildID, "42", staff, nil)
	s.Require().NoError(err)

	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()
	s.Require().NoError(s.manager.Shutdown(ctx))

	s.Require().ErrorIs(cd.Err(), ErrCountdownCancelled)
	s.Require().Empty(s.platform.Deleted())
}

func TestCanClose(t *testing.T) {
	cfg := &entities.GuildTicketConfig{StaffRoles: []custom.Snowflake{5, 6}}
	empty := &entities.GuildTicketConfig{StaffRoles: []custom.Snowflake{}}

	tests := []struct {
		name   string
		member Member
		cfg    *entities.GuildTicketConfig
		want   bool
	}{
		{name: "admin without config", member: admin, cfg: nil, want: true},
		{name: "admin without staff roles", member: admin, cfg: empty, want: true},
		{name: "staff role", member: Member{Roles: []string{"1", "6"}}, cfg: cfg, want: true},
		{name: "no staff role", member: Member{Roles: []string{"1", "2"}}, cfg: cfg, want: false},
		{name: "no roles", member: alice, cfg: cfg, want: false},
		{name: "no staff configured", member: staff, cfg: empty, want: false},
		{name: "no config", member: staff, cfg: nil, want: false},
		{name: "manage guild is not enough", member: Member{Permissions: discordgo.PermissionManageServer}, cfg: cfg, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CanClose(tt.member, tt.cfg))
		})
	}
}
