package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"facilitae/internal/core"
)

type userDoc struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Name    string             `bson:"nome"`
	Email   string             `bson:"email"`
	GroupID *string            `bson:"grupo_id"`
}

func (d userDoc) toCore() core.User {
	return core.User{
		ID:      d.ID.Hex(),
		Name:    d.Name,
		Email:   d.Email,
		GroupID: d.GroupID,
	}
}

func (s *Store) CreateUser(ctx context.Context, u *core.User) error {
	doc := userDoc{
		Name:    u.Name,
		Email:   u.Email,
		GroupID: u.GroupID,
	}

	res, err := s.users().InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	u.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*core.User, error) {
	uid, err := oid(id)
	if err != nil {
		return nil, err
	}

	var doc userDoc
	if err := s.users().FindOne(ctx, bson.M{"_id": uid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &core.NotFoundError{Message: "Usuário não encontrado"}
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	u := doc.toCore()
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *core.User) error {
	uid, err := oid(u.ID)
	if err != nil {
		return err
	}

	doc := userDoc{
		ID:      uid,
		Name:    u.Name,
		Email:   u.Email,
		GroupID: u.GroupID,
	}

	res, err := s.users().ReplaceOne(ctx, bson.M{"_id": uid}, doc)
	if err != nil {
		return fmt.Errorf("replace user: %w", err)
	}
	if res.MatchedCount == 0 {
		return &core.NotFoundError{Message: "Usuário não encontrado"}
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	uid, err := oid(id)
	if err != nil {
		return err
	}

	res, err := s.users().DeleteOne(ctx, bson.M{"_id": uid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return &core.NotFoundError{Message: "Usuário não encontrado"}
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context, skip, limit int64) ([]core.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "nome", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)
	return s.findUsers(ctx, bson.M{}, opts)
}

func (s *Store) SearchUsersByName(ctx context.Context, query string) ([]core.User, error) {
	filter := bson.M{"nome": primitive.Regex{Pattern: query, Options: "i"}}
	return s.findUsers(ctx, filter, nil)
}

func (s *Store) GetUsersByIDs(ctx context.Context, ids []string) ([]core.User, error) {
	if len(ids) == 0 {
		return []core.User{}, nil
	}
	filter := bson.M{"_id": bson.M{"$in": oids(ids)}}
	return s.findUsers(ctx, filter, nil)
}

func (s *Store) findUsers(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]core.User, error) {
	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = s.users().Find(ctx, filter, opts)
	} else {
		cur, err = s.users().Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make([]core.User, len(docs))
	for i, d := range docs {
		out[i] = d.toCore()
	}
	return out, nil
}
