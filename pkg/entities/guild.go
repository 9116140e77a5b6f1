package entities

// Guild is the stored form of a guild and its ticket configuration.
type Guild struct {
	// ID is the ID of the guild.
	ID string `json:"id" bson:"guild_id"`

	// Ticketing is the ticketing configuration.
	Ticketing GuildTicketConfig `json:"ticketing" bson:"ticketing"`
}
