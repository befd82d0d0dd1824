// Package mongo implements the storage ports on top of a MongoDB database.
// Identifiers cross this boundary as hex strings; ObjectID conversion never
// leaks above the adapter.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"facilitae/internal/core"
)

const (
	collGroups   = "grupos"
	collUsers    = "usuarios"
	collExpenses = "despesas"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB, verifies the connection and runs the embedded
// index migrations before returning the store.
func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	if err := RunMigrations(client, database); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{
		client: client,
		db:     client.Database(database),
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) groups() *mongo.Collection   { return s.db.Collection(collGroups) }
func (s *Store) users() *mongo.Collection    { return s.db.Collection(collUsers) }
func (s *Store) expenses() *mongo.Collection { return s.db.Collection(collExpenses) }

// oid parses a canonical string identifier into an ObjectID.
func oid(id string) (primitive.ObjectID, error) {
	parsed, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", core.ErrMalformedID, id)
	}
	return parsed, nil
}

// oids converts a batch of string ids, skipping malformed entries.
func oids(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		parsed, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		out = append(out, parsed)
	}
	return out
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
