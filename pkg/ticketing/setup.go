package ticketing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/custom"
	"github.com/Jacobbrewer1/ticketbot/pkg/dataaccess"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"github.com/Jacobbrewer1/ticketbot/pkg/platform"
	"github.com/google/uuid"
)

// Field IDs of the setup modal.
const (
	fieldEmbedTitle       = "embed_title"
	fieldEmbedDescription = "embed_description"
	fieldEmbedColor       = "embed_color"
	fieldButtonLabel      = "button_label"
	fieldCategoryName     = "category_name"
)

const (
	// RoleSelectTimeout is how long the staff role select stays usable.
	RoleSelectTimeout = 180 * time.Second

	minStaffRoles = 1
	maxStaffRoles = 10
)

// SetupState is the step a guild is at in the setup flow.
type SetupState int

const (
	// SetupIdle means no setup has run since the process started.
	SetupIdle SetupState = iota

	// SetupAwaitingRoles means the category exists and the staff roles are being selected.
	SetupAwaitingRoles

	// SetupPublished means the roles were saved and the panel was sent.
	SetupPublished
)

func (s SetupState) String() string {
	switch s {
	case SetupIdle:
		return "idle"
	case SetupAwaitingRoles:
		return "awaiting_roles"
	case SetupPublished:
		return "published"
	default:
		return fmt.Sprintf("SetupState(%d)", int(s))
	}
}

// SetupInput is what the administrator typed into the setup modal.
type SetupInput struct {
	EmbedTitle       string
	EmbedDescription string
	EmbedColor       string
	ButtonLabel      string
	CategoryName     string
}

// SetupModal builds the modal opened by the setup command.
func SetupModal() *discordgo.InteractionResponseData {
	row := func(input discordgo.TextInput) discordgo.ActionsRow {
		return discordgo.ActionsRow{Components: []discordgo.MessageComponent{input}}
	}

	return &discordgo.InteractionResponseData{
		CustomID: SetupModalID,
		Title:    "Ticket System Setup",
		Components: []discordgo.MessageComponent{
			row(discordgo.TextInput{
				CustomID:    fieldEmbedTitle,
				Label:       "Embed Title",
				Style:       discordgo.TextInputShort,
				Placeholder: "Support Tickets",
				Value:       "Support Tickets",
				Required:    true,
				MaxLength:   256,
			}),
			row(discordgo.TextInput{
				CustomID:    fieldEmbedDescription,
				Label:       "Embed Description",
				Style:       discordgo.TextInputParagraph,
				Placeholder: "Click the button below to create a ticket",
				Value:       "Click the button below to create a support ticket. Our staff will assist you shortly.",
				Required:    true,
				MaxLength:   4000,
			}),
			row(discordgo.TextInput{
				CustomID:    fieldEmbedColor,
				Label:       "Embed Color (Hex)",
				Style:       discordgo.TextInputShort,
				Placeholder: "0x5865F2",
				Value:       "0x5865F2",
				Required:    true,
				MaxLength:   10,
			}),
			row(discordgo.TextInput{
				CustomID:    fieldButtonLabel,
				Label:       "Button Label",
				Style:       discordgo.TextInputShort,
				Placeholder: "Create Ticket",
				Value:       "Create Ticket",
				Required:    true,
				MaxLength:   80,
			}),
			row(discordgo.TextInput{
				CustomID:    fieldCategoryName,
				Label:       "Ticket Category Name",
				Style:       discordgo.TextInputShort,
				Placeholder: "Tickets",
				Value:       "Tickets",
				Required:    true,
				MaxLength:   100,
			}),
		},
	}
}

// ParseSetupModal reads the submitted setup modal.
func ParseSetupModal(data discordgo.ModalSubmitInteractionData) SetupInput {
	values := make(map[string]string)
	for _, comp := range data.Components {
		row, ok := comp.(*discordgo.ActionsRow)
		if !ok || row == nil {
			continue
		}
		for _, c := range row.Components {
			if ti, ok := c.(*discordgo.TextInput); ok && ti != nil {
				values[ti.CustomID] = ti.Value
			}
		}
	}

	return SetupInput{
		EmbedTitle:       values[fieldEmbedTitle],
		EmbedDescription: values[fieldEmbedDescription],
		EmbedColor:       values[fieldEmbedColor],
		ButtonLabel:      values[fieldButtonLabel],
		CategoryName:     values[fieldCategoryName],
	}
}

// RoleSelectMenu builds the staff role select for a setup session.
func RoleSelectMenu(customID string) []discordgo.MessageComponent {
	minValues := minStaffRoles
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.RoleSelectMenu,
					CustomID:    customID,
					Placeholder: "Select staff roles",
					MinValues:   &minValues,
					MaxValues:   maxStaffRoles,
				},
			},
		},
	}
}

// IsRoleSelect reports whether the custom ID belongs to a staff role select.
func IsRoleSelect(customID string) bool {
	return strings.HasPrefix(customID, RoleSelectIDPrefix)
}

type setupSession struct {
	state     SetupState
	channelID string
	token     string
	expiresAt time.Time

	// reserved is set while a role selection is being saved and published.
	reserved bool
}

// SetupFlow walks an administrator through configuring tickets for a guild:
// modal submit, staff role selection, then panel publication.
//
// Running setup again while a role selection is pending replaces that selection; the old select
// stops working.
type SetupFlow struct {
	l        *slog.Logger
	store    dataaccess.ConfigStore
	platform platform.Adapter
	panel    *Panel

	now     func() time.Time
	timeout time.Duration

	mtx      sync.Mutex
	sessions map[string]*setupSession
}

// NewSetupFlow creates a new setup flow.
func NewSetupFlow(l *slog.Logger, store dataaccess.ConfigStore, p platform.Adapter, panel *Panel) *SetupFlow {
	return &SetupFlow{
		l:        l.With(slog.String("component", "setup_flow")),
		store:    store,
		platform: p,
		panel:    panel,
		now:      time.Now,
		timeout:  RoleSelectTimeout,
		sessions: make(map[string]*setupSession),
	}
}

// State returns the step the guild is at.
func (f *SetupFlow) State(guildID string) SetupState {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	sess, ok := f.sessions[guildID]
	if !ok {
		return SetupIdle
	}
	if sess.state == SetupAwaitingRoles && f.now().After(sess.expiresAt) {
		return SetupIdle
	}
	return sess.state
}

// Submit handles the setup modal. It creates a new category (an earlier one is left alone),
// overwrites the guild's configuration with the staff roles reset, and returns the custom ID of
// the role select to show the administrator.
func (f *SetupFlow) Submit(ctx context.Context, guildID, channelID string, in SetupInput) (string, error) {
	category, err := f.platform.CreateCategory(ctx, guildID, in.CategoryName)
	if err != nil {
		return "", fmt.Errorf("error creating ticket category: %w", err)
	}

	categoryID, err := custom.ParseSnowflake(category.ID)
	if err != nil {
		return "", fmt.Errorf("error parsing category id: %w", err)
	}

	if _, err := f.store.Set(ctx, guildID, func(cfg *entities.GuildTicketConfig) {
		cfg.EmbedTitle = in.EmbedTitle
		cfg.EmbedDescription = in.EmbedDescription
		cfg.EmbedColor = in.EmbedColor
		cfg.ButtonLabel = in.ButtonLabel
		cfg.CategoryID = categoryID
		cfg.StaffRoles = make([]custom.Snowflake, 0)
	}); err != nil {
		return "", fmt.Errorf("error saving ticket config: %w", err)
	}

	token := uuid.NewString()

	f.mtx.Lock()
	f.sessions[guildID] = &setupSession{
		state:     SetupAwaitingRoles,
		channelID: channelID,
		token:     token,
		expiresAt: f.now().Add(f.timeout),
	}
	f.mtx.Unlock()

	f.l.Info("Ticket category created, awaiting staff roles",
		slog.String(logging.KeyGuild, guildID),
		slog.String(logging.KeyChannel, category.ID),
	)
	return RoleSelectIDPrefix + token, nil
}

// SelectRoles handles the staff role select. The selection is single use: once the roles are
// saved and the panel is published the select stops working. If saving or publishing fails the
// select can be used again until it expires. ack is called after the roles are saved and before
// the panel is published.
func (f *SetupFlow) SelectRoles(ctx context.Context, guildID, customID string, roleIDs []string, guildName string, ack func() error) (*discordgo.Message, error) {
	if len(roleIDs) < minStaffRoles || len(roleIDs) > maxStaffRoles {
		return nil, ErrInvalidRoleCount
	}

	ids, err := custom.ParseSnowflakes(roleIDs)
	if err != nil {
		return nil, fmt.Errorf("error parsing staff roles: %w", err)
	}

	sess, err := f.reserve(guildID, strings.TrimPrefix(customID, RoleSelectIDPrefix))
	if err != nil {
		return nil, err
	}

	published := false
	defer func() {
		f.release(sess, published)
	}()

	cfg, err := f.store.Set(ctx, guildID, func(cfg *entities.GuildTicketConfig) {
		cfg.StaffRoles = ids
	})
	if err != nil {
		return nil, fmt.Errorf("error saving staff roles: %w", err)
	}

	if ack != nil {
		if err := ack(); err != nil {
			return nil, fmt.Errorf("error acknowledging role selection: %w", err)
		}
	}

	msg, err := f.panel.Publish(ctx, sess.channelID, cfg, guildName)
	if err != nil {
		return nil, err
	}
	published = true

	f.l.Info("Ticket panel published",
		slog.String(logging.KeyGuild, guildID),
		slog.String(logging.KeyChannel, sess.channelID),
		slog.Int("staff_roles", len(ids)),
	)
	return msg, nil
}

// reserve takes the guild's pending session if token still matches it and no other selection
// holds it.
func (f *SetupFlow) reserve(guildID, token string) (*setupSession, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	sess, ok := f.sessions[guildID]
	if !ok || sess.state != SetupAwaitingRoles || sess.reserved || sess.token != token || f.now().After(sess.expiresAt) {
		return nil, ErrSetupExpired
	}

	sess.reserved = true
	return sess, nil
}

// release hands a reserved session back, marking it published when the selection went through.
// A session replaced by a newer setup in the meantime is left alone.
func (f *SetupFlow) release(sess *setupSession, published bool) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	sess.reserved = false
	if published {
		sess.state = SetupPublished
	}
}
