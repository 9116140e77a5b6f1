package config

const (
	// AppName is the name of the application.
	AppName = "ticketbot"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`

	// EnvStoreKind is the environment variable selecting the config store backend.
	EnvStoreKind = `STORE_KIND`

	// EnvTicketConfigPath is the environment variable for the JSON config document.
	EnvTicketConfigPath = `TICKET_CONFIG_PATH`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`

	// EnvMongoDatabase is the environment variable for the MongoDB database.
	EnvMongoDatabase = `MONGO_DATABASE`

	// EnvSQLitePath is the environment variable for the SQLite database file.
	EnvSQLitePath = `SQLITE_PATH`
)

// Store backends.
const (
	StoreKindJSON   = "json"
	StoreKindMongo  = "mongo"
	StoreKindSQLite = "sqlite"
)

const (
	defaultMonitoringPort = "8080"
	defaultSQLitePath     = "ticketbot.db"
)

// Config is the configuration of the bot.
type Config struct {
	// BotToken is the token for the bot.
	BotToken string `yaml:"bot_token"`

	// ApplicationId is the ID of the application.
	ApplicationId string `yaml:"application_id"`

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string `yaml:"monitoring_port"`

	// Store configures where guild ticket configurations are kept.
	Store Store `yaml:"store"`
}

// Store is the configuration of the config store backend.
type Store struct {
	// Kind is one of StoreKindJSON, StoreKindMongo or StoreKindSQLite.
	Kind string `yaml:"kind"`

	// Path is the JSON document used by the json backend.
	Path string `yaml:"path"`

	// MongoUri is the URI for the MongoDB database.
	MongoUri string `yaml:"mongo_uri"`

	// MongoDatabase is the MongoDB database name.
	MongoDatabase string `yaml:"mongo_database"`

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `yaml:"sqlite_path"`
}
