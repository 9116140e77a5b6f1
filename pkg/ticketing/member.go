package ticketing

import (
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
)

// Member is the user acting on an interaction.
type Member struct {
	// ID is the user ID.
	ID string

	// Username is the user's name, used to derive the ticket channel name.
	Username string

	// Roles are the IDs of the roles the member holds in the guild.
	Roles []string

	// Permissions are the member's computed guild permissions.
	Permissions int64
}

// MemberFromInteraction extracts the acting member from an interaction.
func MemberFromInteraction(i *discordgo.Interaction) Member {
	if i.Member == nil {
		m := Member{}
		if i.User != nil {
			m.ID = i.User.ID
			m.Username = i.User.Username
		}
		return m
	}

	m := Member{
		Roles:       i.Member.Roles,
		Permissions: i.Member.Permissions,
	}
	if i.Member.User != nil {
		m.ID = i.Member.User.ID
		m.Username = i.Member.User.Username
	}
	return m
}

// IsAdmin reports whether the member has the administrator permission.
func (m Member) IsAdmin() bool {
	return m.Permissions&discordgo.PermissionAdministrator == discordgo.PermissionAdministrator
}

// Mention is the mention string of the member.
func (m Member) Mention() string {
	return fmt.Sprintf("<@%s>", m.ID)
}
