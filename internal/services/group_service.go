package services

import (
	"context"
	"fmt"

	"facilitae/internal/amqp"
	"facilitae/internal/core"
	"facilitae/internal/log"
	"facilitae/internal/storage"
)

// GroupService owns group CRUD, the group↔user and group↔expense
// relationships, and the per-group expense aggregation.
type GroupService struct {
	groups   storage.GroupStore
	users    storage.UserStore
	expenses storage.ExpenseStore
	events   EventPublisher
	logger   *log.Logger
}

func NewGroupService(store storage.Store, events EventPublisher, logger *log.Logger) *GroupService {
	return &GroupService{
		groups:   store,
		users:    store,
		expenses: store,
		events:   events,
		logger:   logger.WithComponent(log.ComponentGroup),
	}
}

func (s *GroupService) Create(ctx context.Context, g core.Group) (*core.Group, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	if err := s.groups.CreateGroup(ctx, &g); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	s.logger.InfoContext(ctx, "Group created", log.FieldGroupID, g.ID, log.FieldOperation, log.OpCreate)
	publishEvent(ctx, s.events, s.logger, amqp.EntityGroup, amqp.ActionCreated, g.ID, g.ID)
	return &g, nil
}

func (s *GroupService) Get(ctx context.Context, id string) (*core.Group, error) {
	return s.groups.GetGroup(ctx, id)
}

// Update overwrites every mutable field of the group with the payload's
// values. Callers must send the full document even for a one-field change.
func (s *GroupService) Update(ctx context.Context, id string, payload core.Group) (*core.Group, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	g, err := s.groups.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	g.Name = payload.Name
	g.UserIDs = payload.UserIDs
	g.ExpenseIDs = payload.ExpenseIDs
	if err := s.groups.UpdateGroup(ctx, g); err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}

	publishEvent(ctx, s.events, s.logger, amqp.EntityGroup, amqp.ActionUpdated, g.ID, g.ID)
	return g, nil
}

// Delete removes the group document only. Its expenses keep their grupo_id
// and users keep any grupo_id pointing at it; there is no cascade.
func (s *GroupService) Delete(ctx context.Context, id string) error {
	if err := s.groups.DeleteGroup(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Group deleted", log.FieldGroupID, id, log.FieldOperation, log.OpDelete)
	publishEvent(ctx, s.events, s.logger, amqp.EntityGroup, amqp.ActionDeleted, id, id)
	return nil
}

func (s *GroupService) List(ctx context.Context) ([]core.Group, error) {
	return s.groups.ListGroups(ctx)
}

// ListSorted returns every group in alphabetical order, unpaginated.
func (s *GroupService) ListSorted(ctx context.Context) ([]core.Group, error) {
	return s.groups.ListGroupsByName(ctx)
}

func (s *GroupService) SearchByName(ctx context.Context, query string) ([]core.Group, error) {
	return s.groups.SearchGroupsByName(ctx, query)
}

// AddUser resolves both entities before mutating, so a missing group or
// user surfaces as NotFound and never as a dangling reference.
func (s *GroupService) AddUser(ctx context.Context, groupID, userID string) error {
	if _, err := s.groups.GetGroup(ctx, groupID); err != nil {
		return err
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.groups.AddGroupUser(ctx, groupID, user.ID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "User added to group",
		log.FieldGroupID, groupID,
		log.FieldUserID, userID,
		log.FieldOperation, log.OpAddRef)
	publishEvent(ctx, s.events, s.logger, amqp.EntityUser, amqp.ActionMemberAdded, userID, groupID)
	return nil
}

func (s *GroupService) RemoveUser(ctx context.Context, groupID, userID string) error {
	if err := s.groups.RemoveGroupUser(ctx, groupID, userID); err != nil {
		return err
	}

	publishEvent(ctx, s.events, s.logger, amqp.EntityUser, amqp.ActionMemberRemoved, userID, groupID)
	return nil
}

func (s *GroupService) AddExpense(ctx context.Context, groupID, expenseID string) error {
	if _, err := s.groups.GetGroup(ctx, groupID); err != nil {
		return err
	}
	expense, err := s.expenses.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}

	if err := s.groups.AddGroupExpense(ctx, groupID, expense.ID); err != nil {
		return err
	}

	publishEvent(ctx, s.events, s.logger, amqp.EntityExpense, amqp.ActionMemberAdded, expenseID, groupID)
	return nil
}

func (s *GroupService) RemoveExpense(ctx context.Context, groupID, expenseID string) error {
	if err := s.groups.RemoveGroupExpense(ctx, groupID, expenseID); err != nil {
		return err
	}

	publishEvent(ctx, s.events, s.logger, amqp.EntityExpense, amqp.ActionMemberRemoved, expenseID, groupID)
	return nil
}

// ListUsers resolves the group, then batch-fetches its member set.
func (s *GroupService) ListUsers(ctx context.Context, groupID string) ([]core.User, error) {
	g, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.users.GetUsersByIDs(ctx, g.UserIDs)
}

// ListExpenses filters on the expenses' grupo_id field; the group's
// embedded despesas list is not consulted.
func (s *GroupService) ListExpenses(ctx context.Context, groupID string) ([]core.Expense, error) {
	g, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.expenses.ListExpensesByGroup(ctx, g.ID)
}

// Totals aggregates the group's expenses. A group with no expenses yields
// a zero total and count, not an error.
func (s *GroupService) Totals(ctx context.Context, groupID string) (*core.GroupTotals, error) {
	g, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	total, count, err := s.expenses.GroupExpenseTotals(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("group totals: %w", err)
	}

	return &core.GroupTotals{Group: g.Name, Total: total, Count: count}, nil
}
