package core

import (
	"strings"
	"time"
)

type (
	// Group is a named collection of users sharing expenses. The embedded
	// id lists hold canonical string identifiers; the store never leaks
	// its native id type above the adapter boundary.
	Group struct {
		ID         string    `json:"id"`
		Name       string    `json:"nome"`
		UserIDs    []string  `json:"usuarios"`
		ExpenseIDs []string  `json:"despesas"`
		CreatedAt  time.Time `json:"data_criacao"`
	}

	// User may belong to at most one group via GroupID (nil when none).
	User struct {
		ID      string  `json:"id"`
		Name    string  `json:"nome"`
		Email   string  `json:"email"`
		GroupID *string `json:"grupo_id"`
	}

	// Expense is a charge attributed to a group and a subset of its users.
	// GroupID is a plain string equal to the group's id; all comparisons
	// against it are string comparisons.
	Expense struct {
		ID      string    `json:"id"`
		Title   string    `json:"titulo"`
		Amount  float64   `json:"valor"`
		Date    time.Time `json:"data"`
		GroupID string    `json:"grupo_id"`
		UserIDs []string  `json:"usuarios_ids"`
	}

	// GroupTotals is the aggregation result for a group's expenses.
	// Zero expenses yield {Total: 0, Count: 0}, not an error.
	GroupTotals struct {
		Group string  `json:"grupo"`
		Total float64 `json:"total"`
		Count int64   `json:"quantidade"`
	}
)

func (g Group) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return &ValidationError{Field: "nome", Message: "nome é obrigatório"}
	}
	return nil
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return &ValidationError{Field: "nome", Message: "nome é obrigatório"}
	}
	if strings.TrimSpace(u.Email) == "" {
		return &ValidationError{Field: "email", Message: "email é obrigatório"}
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return &ValidationError{Field: "titulo", Message: "titulo é obrigatório"}
	}
	if e.Amount < 0 {
		return &ValidationError{Field: "valor", Message: "valor não pode ser negativo"}
	}
	if strings.TrimSpace(e.GroupID) == "" {
		return &ValidationError{Field: "grupo_id", Message: "grupo_id é obrigatório"}
	}
	return nil
}

// HasUser reports whether the user id is in the group's member set.
func (g Group) HasUser(userID string) bool {
	return containsID(g.UserIDs, userID)
}

// HasExpense reports whether the expense id is in the group's expense set.
func (g Group) HasExpense(expenseID string) bool {
	return containsID(g.ExpenseIDs, expenseID)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
