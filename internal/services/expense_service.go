package services

import (
	"context"
	"fmt"

	"facilitae/internal/amqp"
	"facilitae/internal/core"
	"facilitae/internal/log"
	"facilitae/internal/storage"
)

// ExpenseService owns expense CRUD, paginated listing and the
// by-group/by-user filtered views.
type ExpenseService struct {
	expenses storage.ExpenseStore
	groups   storage.GroupStore
	users    storage.UserStore
	events   EventPublisher
	logger   *log.Logger
}

func NewExpenseService(store storage.Store, events EventPublisher, logger *log.Logger) *ExpenseService {
	return &ExpenseService{
		expenses: store,
		groups:   store,
		users:    store,
		events:   events,
		logger:   logger.WithComponent(log.ComponentExpense),
	}
}

func (s *ExpenseService) Create(ctx context.Context, e core.Expense) (*core.Expense, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	if err := s.expenses.CreateExpense(ctx, &e); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense created",
		log.FieldExpenseID, e.ID,
		log.FieldGroupID, e.GroupID,
		log.FieldAmount, e.Amount,
		log.FieldOperation, log.OpCreate)
	publishEvent(ctx, s.events, s.logger, amqp.EntityExpense, amqp.ActionCreated, e.ID, e.GroupID)
	return &e, nil
}

func (s *ExpenseService) Get(ctx context.Context, id string) (*core.Expense, error) {
	return s.expenses.GetExpense(ctx, id)
}

func (s *ExpenseService) Update(ctx context.Context, id string, payload core.Expense) (*core.Expense, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	e, err := s.expenses.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	e.Title = payload.Title
	e.Amount = payload.Amount
	e.Date = payload.Date
	e.GroupID = payload.GroupID
	e.UserIDs = payload.UserIDs
	if err := s.expenses.UpdateExpense(ctx, e); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}

	publishEvent(ctx, s.events, s.logger, amqp.EntityExpense, amqp.ActionUpdated, e.ID, e.GroupID)
	return e, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	// Resolve first so the deleted event can carry the group reference.
	e, err := s.expenses.GetExpense(ctx, id)
	if err != nil {
		return err
	}

	if err := s.expenses.DeleteExpense(ctx, e.ID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Expense deleted",
		log.FieldExpenseID, id,
		log.FieldGroupID, e.GroupID,
		log.FieldOperation, log.OpDelete)
	publishEvent(ctx, s.events, s.logger, amqp.EntityExpense, amqp.ActionDeleted, id, e.GroupID)
	return nil
}

// List returns expenses ordered by data, paginated via skip/limit.
func (s *ExpenseService) List(ctx context.Context, skip, limit int64) ([]core.Expense, error) {
	return s.expenses.ListExpenses(ctx, skip, limit)
}

func (s *ExpenseService) ByGroup(ctx context.Context, groupID string) ([]core.Expense, error) {
	g, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.expenses.ListExpensesByGroup(ctx, g.ID)
}

func (s *ExpenseService) ByUser(ctx context.Context, userID string) ([]core.Expense, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.expenses.ListExpensesByUser(ctx, u.ID)
}
