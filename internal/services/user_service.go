package services

import (
	"context"
	"fmt"

	"facilitae/internal/amqp"
	"facilitae/internal/core"
	"facilitae/internal/log"
	"facilitae/internal/storage"
)

// UserService owns user CRUD, listing and search, the user-side relationship
// queries and the guarded self-delete.
type UserService struct {
	users    storage.UserStore
	groups   storage.GroupStore
	expenses storage.ExpenseStore
	events   EventPublisher
	logger   *log.Logger
}

func NewUserService(store storage.Store, events EventPublisher, logger *log.Logger) *UserService {
	return &UserService{
		users:    store,
		groups:   store,
		expenses: store,
		events:   events,
		logger:   logger.WithComponent(log.ComponentUser),
	}
}

// Create persists a user. Duplicate emails are allowed; there is no
// uniqueness constraint on any user field.
func (s *UserService) Create(ctx context.Context, u core.User) (*core.User, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	if err := s.users.CreateUser(ctx, &u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "User created", log.FieldUserID, u.ID, log.FieldOperation, log.OpCreate)
	publishEvent(ctx, s.events, s.logger, amqp.EntityUser, amqp.ActionCreated, u.ID, "")
	return &u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*core.User, error) {
	return s.users.GetUser(ctx, id)
}

func (s *UserService) Update(ctx context.Context, id string, payload core.User) (*core.User, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	u.Name = payload.Name
	u.Email = payload.Email
	u.GroupID = payload.GroupID
	if err := s.users.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	publishEvent(ctx, s.events, s.logger, amqp.EntityUser, amqp.ActionUpdated, u.ID, "")
	return u, nil
}

// Delete removes the user document. Groups keep the user's id in their
// member sets and expenses keep it in usuarios_ids; there is no cascade.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "User deleted", log.FieldUserID, id, log.FieldOperation, log.OpDelete)
	publishEvent(ctx, s.events, s.logger, amqp.EntityUser, amqp.ActionDeleted, id, "")
	return nil
}

// List returns users ordered by nome, paginated via skip/limit.
func (s *UserService) List(ctx context.Context, skip, limit int64) ([]core.User, error) {
	return s.users.ListUsers(ctx, skip, limit)
}

func (s *UserService) SearchByName(ctx context.Context, query string) ([]core.User, error) {
	return s.users.SearchUsersByName(ctx, query)
}

// Groups returns the groups whose member set contains the user.
func (s *UserService) Groups(ctx context.Context, userID string) ([]core.Group, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.groups.ListGroupsWithUser(ctx, u.ID)
}

// Expenses returns the expenses whose usuarios_ids contains the user.
func (s *UserService) Expenses(ctx context.Context, userID string) ([]core.Expense, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.expenses.ListExpensesByUser(ctx, u.ID)
}

// SelfDelete removes the user unless any expense still references them.
// Expenses never transition to a settled state, so a user who has ever
// been on an expense stays blocked until that expense is deleted.
func (s *UserService) SelfDelete(ctx context.Context, userID string) error {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	count, err := s.expenses.CountExpensesWithUser(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("count pending expenses: %w", err)
	}
	if count > 0 {
		return &core.ConflictError{Message: "Não é possível excluir enquanto houver despesas pendentes"}
	}

	if err := s.users.DeleteUser(ctx, u.ID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "User self-deleted", log.FieldUserID, userID, log.FieldOperation, log.OpDelete)
	publishEvent(ctx, s.events, s.logger, amqp.EntityUser, amqp.ActionDeleted, userID, "")
	return nil
}
