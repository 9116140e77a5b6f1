package entities

import "github.com/Jacobbrewer1/ticketbot/pkg/custom"

// GuildTicketConfig is the ticket configuration of a single guild.
type GuildTicketConfig struct {
	// EmbedTitle is the title of the panel embed.
	EmbedTitle string `json:"embed_title" bson:"embed_title"`

	// EmbedDescription is the description of the panel embed.
	EmbedDescription string `json:"embed_description" bson:"embed_description"`

	// EmbedColor is the hex color of the panel embed. It is only parsed when the panel is rendered.
	EmbedColor string `json:"embed_color" bson:"embed_color"`

	// ButtonLabel is the label of the create ticket button.
	ButtonLabel string `json:"button_label" bson:"button_label"`

	// CategoryID is the ID of the category that ticket channels are created in.
	CategoryID custom.Snowflake `json:"category_id" bson:"category_id"`

	// StaffRoles are the roles that can manage tickets. Empty means no staff has been selected yet.
	StaffRoles []custom.Snowflake `json:"staff_roles" bson:"staff_roles"`
}

// Clone returns a deep copy of the configuration.
func (c *GuildTicketConfig) Clone() *GuildTicketConfig {
	if c == nil {
		return nil
	}
	cp := *c
	cp.StaffRoles = make([]custom.Snowflake, len(c.StaffRoles))
	copy(cp.StaffRoles, c.StaffRoles)
	return &cp
}

// HasStaffRole reports whether the given role is one of the staff roles.
func (c *GuildTicketConfig) HasStaffRole(roleID custom.Snowflake) bool {
	if c == nil {
		return false
	}
	for _, r := range c.StaffRoles {
		if r == roleID {
			return true
		}
	}
	return false
}
