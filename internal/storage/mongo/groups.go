package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"facilitae/internal/core"
)

type groupDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"nome"`
	UserIDs    []string           `bson:"usuarios"`
	ExpenseIDs []string           `bson:"despesas"`
	CreatedAt  time.Time          `bson:"data_criacao"`
}

func (d groupDoc) toCore() core.Group {
	return core.Group{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		UserIDs:    nonNil(d.UserIDs),
		ExpenseIDs: nonNil(d.ExpenseIDs),
		CreatedAt:  d.CreatedAt,
	}
}

func (s *Store) CreateGroup(ctx context.Context, g *core.Group) error {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	doc := groupDoc{
		Name:       g.Name,
		UserIDs:    nonNil(g.UserIDs),
		ExpenseIDs: nonNil(g.ExpenseIDs),
		CreatedAt:  g.CreatedAt,
	}

	res, err := s.groups().InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert group: %w", err)
	}

	g.ID = res.InsertedID.(primitive.ObjectID).Hex()
	g.UserIDs = doc.UserIDs
	g.ExpenseIDs = doc.ExpenseIDs
	return nil
}

func (s *Store) GetGroup(ctx context.Context, id string) (*core.Group, error) {
	gid, err := oid(id)
	if err != nil {
		return nil, err
	}

	var doc groupDoc
	if err := s.groups().FindOne(ctx, bson.M{"_id": gid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &core.NotFoundError{Message: "Grupo não encontrado"}
		}
		return nil, fmt.Errorf("find group: %w", err)
	}

	g := doc.toCore()
	return &g, nil
}

func (s *Store) UpdateGroup(ctx context.Context, g *core.Group) error {
	gid, err := oid(g.ID)
	if err != nil {
		return err
	}

	doc := groupDoc{
		ID:         gid,
		Name:       g.Name,
		UserIDs:    nonNil(g.UserIDs),
		ExpenseIDs: nonNil(g.ExpenseIDs),
		CreatedAt:  g.CreatedAt,
	}

	res, err := s.groups().ReplaceOne(ctx, bson.M{"_id": gid}, doc)
	if err != nil {
		return fmt.Errorf("replace group: %w", err)
	}
	if res.MatchedCount == 0 {
		return &core.NotFoundError{Message: "Grupo não encontrado"}
	}
	return nil
}

func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	gid, err := oid(id)
	if err != nil {
		return err
	}

	res, err := s.groups().DeleteOne(ctx, bson.M{"_id": gid})
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if res.DeletedCount == 0 {
		return &core.NotFoundError{Message: "Grupo não encontrado"}
	}
	return nil
}

func (s *Store) ListGroups(ctx context.Context) ([]core.Group, error) {
	return s.findGroups(ctx, bson.M{}, nil)
}

func (s *Store) ListGroupsByName(ctx context.Context) ([]core.Group, error) {
	opts := options.Find().SetSort(bson.D{{Key: "nome", Value: 1}})
	return s.findGroups(ctx, bson.M{}, opts)
}

func (s *Store) SearchGroupsByName(ctx context.Context, query string) ([]core.Group, error) {
	filter := bson.M{"nome": primitive.Regex{Pattern: query, Options: "i"}}
	return s.findGroups(ctx, filter, nil)
}

func (s *Store) ListGroupsWithUser(ctx context.Context, userID string) ([]core.Group, error) {
	return s.findGroups(ctx, bson.M{"usuarios": userID}, nil)
}

func (s *Store) findGroups(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]core.Group, error) {
	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = s.groups().Find(ctx, filter, opts)
	} else {
		cur, err = s.groups().Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("find groups: %w", err)
	}

	var docs []groupDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode groups: %w", err)
	}

	out := make([]core.Group, len(docs))
	for i, d := range docs {
		out[i] = d.toCore()
	}
	return out, nil
}

// addGroupRef appends an id to one of the group's embedded sets with a single
// guarded update: the filter excludes groups already containing the id, so a
// concurrent duplicate add cannot slip through.
func (s *Store) addGroupRef(ctx context.Context, groupID, field, refID, conflictMsg string) error {
	gid, err := oid(groupID)
	if err != nil {
		return err
	}

	res, err := s.groups().UpdateOne(ctx,
		bson.M{"_id": gid, field: bson.M{"$ne": refID}},
		bson.M{"$addToSet": bson.M{field: refID}},
	)
	if err != nil {
		return fmt.Errorf("add group %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		count, err := s.groups().CountDocuments(ctx, bson.M{"_id": gid})
		if err != nil {
			return fmt.Errorf("count group: %w", err)
		}
		if count == 0 {
			return &core.NotFoundError{Message: "Grupo não encontrado"}
		}
		return &core.ConflictError{Message: conflictMsg}
	}
	return nil
}

// removeGroupRef removes an id from one of the group's embedded sets.
func (s *Store) removeGroupRef(ctx context.Context, groupID, field, refID, absentMsg string) error {
	gid, err := oid(groupID)
	if err != nil {
		return err
	}

	res, err := s.groups().UpdateOne(ctx,
		bson.M{"_id": gid},
		bson.M{"$pull": bson.M{field: refID}},
	)
	if err != nil {
		return fmt.Errorf("remove group %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return &core.NotFoundError{Message: "Grupo não encontrado"}
	}
	if res.ModifiedCount == 0 {
		return &core.NotFoundError{Message: absentMsg}
	}
	return nil
}

func (s *Store) AddGroupUser(ctx context.Context, groupID, userID string) error {
	return s.addGroupRef(ctx, groupID, "usuarios", userID, "Usuário já está no grupo")
}

func (s *Store) RemoveGroupUser(ctx context.Context, groupID, userID string) error {
	return s.removeGroupRef(ctx, groupID, "usuarios", userID, "Usuário não encontrado no grupo")
}

func (s *Store) AddGroupExpense(ctx context.Context, groupID, expenseID string) error {
	return s.addGroupRef(ctx, groupID, "despesas", expenseID, "Despesa já adicionada ao grupo")
}

func (s *Store) RemoveGroupExpense(ctx context.Context, groupID, expenseID string) error {
	return s.removeGroupRef(ctx, groupID, "despesas", expenseID, "Despesa não encontrada no grupo")
}
