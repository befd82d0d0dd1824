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

// expenseDoc stores grupo_id as a plain string equal to the group's hex id.
// Every query against it compares string forms; the store-native id type is
// never written into this field.
type expenseDoc struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Title   string             `bson:"titulo"`
	Amount  float64            `bson:"valor"`
	Date    time.Time          `bson:"data"`
	GroupID string             `bson:"grupo_id"`
	UserIDs []string           `bson:"usuarios_ids"`
}

func (d expenseDoc) toCore() core.Expense {
	return core.Expense{
		ID:      d.ID.Hex(),
		Title:   d.Title,
		Amount:  d.Amount,
		Date:    d.Date,
		GroupID: d.GroupID,
		UserIDs: nonNil(d.UserIDs),
	}
}

func (s *Store) CreateExpense(ctx context.Context, e *core.Expense) error {
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	doc := expenseDoc{
		Title:   e.Title,
		Amount:  e.Amount,
		Date:    e.Date,
		GroupID: e.GroupID,
		UserIDs: nonNil(e.UserIDs),
	}

	res, err := s.expenses().InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	e.ID = res.InsertedID.(primitive.ObjectID).Hex()
	e.UserIDs = doc.UserIDs
	return nil
}

func (s *Store) GetExpense(ctx context.Context, id string) (*core.Expense, error) {
	eid, err := oid(id)
	if err != nil {
		return nil, err
	}

	var doc expenseDoc
	if err := s.expenses().FindOne(ctx, bson.M{"_id": eid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &core.NotFoundError{Message: "Despesa não encontrada"}
		}
		return nil, fmt.Errorf("find expense: %w", err)
	}

	e := doc.toCore()
	return &e, nil
}

func (s *Store) UpdateExpense(ctx context.Context, e *core.Expense) error {
	eid, err := oid(e.ID)
	if err != nil {
		return err
	}

	doc := expenseDoc{
		ID:      eid,
		Title:   e.Title,
		Amount:  e.Amount,
		Date:    e.Date,
		GroupID: e.GroupID,
		UserIDs: nonNil(e.UserIDs),
	}

	res, err := s.expenses().ReplaceOne(ctx, bson.M{"_id": eid}, doc)
	if err != nil {
		return fmt.Errorf("replace expense: %w", err)
	}
	if res.MatchedCount == 0 {
		return &core.NotFoundError{Message: "Despesa não encontrada"}
	}
	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	eid, err := oid(id)
	if err != nil {
		return err
	}

	res, err := s.expenses().DeleteOne(ctx, bson.M{"_id": eid})
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if res.DeletedCount == 0 {
		return &core.NotFoundError{Message: "Despesa não encontrada"}
	}
	return nil
}

func (s *Store) ListExpenses(ctx context.Context, skip, limit int64) ([]core.Expense, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "data", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)
	return s.findExpenses(ctx, bson.M{}, opts)
}

func (s *Store) ListExpensesByGroup(ctx context.Context, groupID string) ([]core.Expense, error) {
	return s.findExpenses(ctx, bson.M{"grupo_id": groupID}, nil)
}

func (s *Store) ListExpensesByUser(ctx context.Context, userID string) ([]core.Expense, error) {
	return s.findExpenses(ctx, bson.M{"usuarios_ids": userID}, nil)
}

func (s *Store) CountExpensesWithUser(ctx context.Context, userID string) (int64, error) {
	count, err := s.expenses().CountDocuments(ctx, bson.M{"usuarios_ids": userID})
	if err != nil {
		return 0, fmt.Errorf("count expenses with user: %w", err)
	}
	return count, nil
}

// GroupExpenseTotals runs a single $match + $group pipeline over despesas.
func (s *Store) GroupExpenseTotals(ctx context.Context, groupID string) (float64, int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "grupo_id", Value: groupID}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$grupo_id"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$valor"}}},
			{Key: "quantidade", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cur, err := s.expenses().Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate group totals: %w", err)
	}

	var rows []struct {
		Total float64 `bson:"total"`
		Count int64   `bson:"quantidade"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, 0, fmt.Errorf("decode group totals: %w", err)
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Total, rows[0].Count, nil
}

func (s *Store) findExpenses(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]core.Expense, error) {
	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = s.expenses().Find(ctx, filter, opts)
	} else {
		cur, err = s.expenses().Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("find expenses: %w", err)
	}

	var docs []expenseDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}

	out := make([]core.Expense, len(docs))
	for i, d := range docs {
		out[i] = d.toCore()
	}
	return out, nil
}
