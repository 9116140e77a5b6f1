package ticketing

import (
	"github.com/Jacobbrewer1/ticketbot/pkg/custom"
	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
)

// CanClose reports whether the member may close tickets in a guild with the given configuration.
// Administrators always can. Anyone else needs at least one of the configured staff roles, so a
// guild without staff roles (or without a configuration) only lets administrators close.
func CanClose(m Member, cfg *entities.GuildTicketConfig) bool {
	if m.IsAdmin() {
		return true
	}
	if cfg == nil || len(cfg.StaffRoles) == 0 {
		return false
	}

	for _, r := range m.Roles {
		id, err := custom.ParseSnowflake(r)
		if err != nil {
			continue
		}
		if cfg.HasStaffRole(id) {
			return true
		}
	}
	return false
}
