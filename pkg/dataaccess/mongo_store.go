package dataaccess

import (
	"context"
	"fmt"

	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoBackendName = "mongo"

	// DefaultMongoDatabase is the database used when none is configured.
	DefaultMongoDatabase = "ticketbot"

	guildsCollection = "ticket_configs"
)

type mongoBackend struct {
	// client is the database. This is a connection pool.
	client *mongo.Client

	// database is the name of the database holding the guild collection.
	database string
}

// NewMongoBackend creates a backend that stores one document per guild.
func NewMongoBackend(client *mongo.Client, database string) Backend {
	if database == "" {
		database = DefaultMongoDatabase
	}
	return &mongoBackend{
		client:   client,
		database: database,
	}
}

func (m *mongoBackend) Name() string {
	return mongoBackendName
}

func (m *mongoBackend) collection() *mongo.Collection {
	return m.client.Database(m.database).Collection(guildsCollection)
}

func (m *mongoBackend) ReadAll(ctx context.Context) (map[string]*entities.GuildTicketConfig, error) {
	cur, err := m.collection().Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error finding guilds: %w", err)
	}

	guilds := make([]*entities.Guild, 0)
	if err := cur.All(ctx, &guilds); err != nil {
		return nil, fmt.Errorf("error decoding guilds: %w", err)
	}

	configs := make(map[string]*entities.GuildTicketConfig, len(guilds))
	for _, g := range guilds {
		cfg := g.Ticketing
		configs[g.ID] = &cfg
	}
	return configs, nil
}

// WriteAll upserts every guild in a single ordered bulk write. Guild documents are never removed,
// the store has no delete operation.
func (m *mongoBackend) WriteAll(ctx context.Context, configs map[string]*entities.GuildTicketConfig) error {
	if len(configs) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(configs))
	for id, cfg := range configs {
		guild := &entities.Guild{
			ID:        id,
			Ticketing: *cfg,
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"guild_id": id}).
			SetUpdate(bson.M{"$set": guild}).
			SetUpsert(true),
		)
	}

	opts := options.BulkWrite().SetOrdered(true)
	if _, err := m.collection().BulkWrite(ctx, models, opts); err != nil {
		return fmt.Errorf("error saving guilds: %w", err)
	}
	return nil
}

func (m *mongoBackend) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return nil
}

func (m *mongoBackend) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
