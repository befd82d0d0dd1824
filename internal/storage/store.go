// Package storage defines the persistence ports the services depend on.
// The concrete document-store adapter lives in storage/mongo; storage/memory
// holds an in-memory implementation used by tests.
package storage

import (
	"context"

	"facilitae/internal/core"
)

// GroupStore persists groups and their embedded membership sets.
//
// The membership mutations are atomic at the store level: add fails with a
// core.ConflictError when the id is already present, remove fails with a
// core.NotFoundError when it is absent. No caller runs a fetch-mutate-save
// cycle above the adapter.
type GroupStore interface {
	CreateGroup(ctx context.Context, g *core.Group) error
	GetGroup(ctx context.Context, id string) (*core.Group, error)
	// UpdateGroup overwrites every mutable field with g's values. Not a patch.
	UpdateGroup(ctx context.Context, g *core.Group) error
	DeleteGroup(ctx context.Context, id string) error
	ListGroups(ctx context.Context) ([]core.Group, error)
	// ListGroupsByName returns all groups ordered alphabetically by nome.
	ListGroupsByName(ctx context.Context) ([]core.Group, error)
	// SearchGroupsByName matches nome case-insensitively against the query.
	SearchGroupsByName(ctx context.Context, query string) ([]core.Group, error)
	// ListGroupsWithUser returns groups whose member set contains userID.
	ListGroupsWithUser(ctx context.Context, userID string) ([]core.Group, error)

	AddGroupUser(ctx context.Context, groupID, userID string) error
	RemoveGroupUser(ctx context.Context, groupID, userID string) error
	AddGroupExpense(ctx context.Context, groupID, expenseID string) error
	RemoveGroupExpense(ctx context.Context, groupID, expenseID string) error
}

// UserStore persists users. Listing is always ordered by nome.
type UserStore interface {
	CreateUser(ctx context.Context, u *core.User) error
	GetUser(ctx context.Context, id string) (*core.User, error)
	UpdateUser(ctx context.Context, u *core.User) error
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context, skip, limit int64) ([]core.User, error)
	SearchUsersByName(ctx context.Context, query string) ([]core.User, error)
	// GetUsersByIDs resolves a batch of user ids; unknown ids are skipped.
	GetUsersByIDs(ctx context.Context, ids []string) ([]core.User, error)
}

// ExpenseStore persists expenses. Listing is always ordered by data.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, e *core.Expense) error
	GetExpense(ctx context.Context, id string) (*core.Expense, error)
	UpdateExpense(ctx context.Context, e *core.Expense) error
	DeleteExpense(ctx context.Context, id string) error
	ListExpenses(ctx context.Context, skip, limit int64) ([]core.Expense, error)
	// ListExpensesByGroup filters on the denormalized grupo_id field. The
	// group's embedded despesas list is not consulted; grupo_id is the
	// source of truth for this query.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]core.Expense, error)
	ListExpensesByUser(ctx context.Context, userID string) ([]core.Expense, error)
	CountExpensesWithUser(ctx context.Context, userID string) (int64, error)
	// GroupExpenseTotals sums valor and counts expenses with the given
	// grupo_id via the store's aggregation pipeline. No matching documents
	// is a valid outcome and yields (0, 0, nil).
	GroupExpenseTotals(ctx context.Context, groupID string) (total float64, count int64, err error)
}

// Store is the full persistence surface of the application.
type Store interface {
	GroupStore
	UserStore
	ExpenseStore

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
