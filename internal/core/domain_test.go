package core

import (
	"testing"
	"time"
)

func TestGroup_Validate(t *testing.T) {
	tests := []struct {
		name    string
		group   Group
		wantErr bool
	}{
		{
			name:    "valid group",
			group:   Group{Name: "Família", CreatedAt: time.Now()},
			wantErr: false,
		},
		{
			name:    "empty name",
			group:   Group{Name: ""},
			wantErr: true,
		},
		{
			name:    "whitespace-only name",
			group:   Group{Name: "   "},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.group.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidation(err) {
				t.Errorf("Validate() should return a ValidationError, got %T", err)
			}
		})
	}
}

func TestUser_Validate(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{
			name:    "valid user",
			user:    User{Name: "Maria", Email: "maria@example.com"},
			wantErr: false,
		},
		{
			name:    "missing email",
			user:    User{Name: "Maria"},
			wantErr: true,
		},
		{
			name:    "missing name",
			user:    User{Email: "maria@example.com"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.user.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpense_Validate(t *testing.T) {
	tests := []struct {
		name    string
		expense Expense
		wantErr bool
	}{
		{
			name:    "valid expense",
			expense: Expense{Title: "Mercado", Amount: 42.50, GroupID: "abc"},
			wantErr: false,
		},
		{
			name:    "zero amount is allowed",
			expense: Expense{Title: "Ajuste", Amount: 0, GroupID: "abc"},
			wantErr: false,
		},
		{
			name:    "negative amount",
			expense: Expense{Title: "Mercado", Amount: -1, GroupID: "abc"},
			wantErr: true,
		},
		{
			name:    "missing title",
			expense: Expense{Amount: 10, GroupID: "abc"},
			wantErr: true,
		},
		{
			name:    "missing group reference",
			expense: Expense{Title: "Mercado", Amount: 10},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.expense.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGroup_Membership(t *testing.T) {
	g := Group{
		Name:       "Viagem",
		UserIDs:    []string{"u1", "u2"},
		ExpenseIDs: []string{"e1"},
	}

	if !g.HasUser("u1") {
		t.Error("HasUser should find u1")
	}
	if g.HasUser("u3") {
		t.Error("HasUser should not find u3")
	}
	if !g.HasExpense("e1") {
		t.Error("HasExpense should find e1")
	}
	if g.HasExpense("e2") {
		t.Error("HasExpense should not find e2")
	}
}
