package services

import (
	"context"
	"fmt"
	"testing"

	"facilitae/internal/core"
)

func TestUserService_CreateGet(t *testing.T) {
	ctx := context.Background()
	_, users, _, _ := newGroupFixture(t)

	created, err := users.Create(ctx, core.User{Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create should assign an id")
	}

	got, err := users.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Ana" || got.Email != "ana@example.com" {
		t.Errorf("Get = %+v, want Ana/ana@example.com", got)
	}
}

func TestUserService_Create_DuplicateEmailAllowed(t *testing.T) {
	ctx := context.Background()
	_, users, _, _ := newGroupFixture(t)

	for i := 0; i < 2; i++ {
		if _, err := users.Create(ctx, core.User{Name: "Ana", Email: "ana@example.com"}); err != nil {
			t.Fatalf("Create #%d: %v", i+1, err)
		}
	}

	got, err := users.List(ctx, 0, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("List returned %d users, want 2", len(got))
	}
}

func TestUserService_Update_Overwrites(t *testing.T) {
	ctx := context.Background()
	groups, users, _, _ := newGroupFixture(t)

	g, _ := groups.Create(ctx, core.Group{Name: "Casa"})
	u, _ := users.Create(ctx, core.User{Name: "Bia", Email: "bia@example.com", GroupID: &g.ID})

	updated, err := users.Update(ctx, u.ID, core.User{Name: "Beatriz", Email: "bia@example.com"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Beatriz" {
		t.Errorf("name = %q, want Beatriz", updated.Name)
	}
	// The payload carried no grupo_id, so the stored one is cleared.
	if updated.GroupID != nil {
		t.Errorf("grupo_id = %v, want nil", *updated.GroupID)
	}
}

func TestUserService_List_Pagination(t *testing.T) {
	ctx := context.Background()
	_, users, _, _ := newGroupFixture(t)

	for i := 0; i < 7; i++ {
		if _, err := users.Create(ctx, core.User{
			Name:  fmt.Sprintf("Usuário %d", i),
			Email: fmt.Sprintf("u%d@example.com", i),
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	tests := []struct {
		name  string
		skip  int64
		limit int64
		want  int
	}{
		{"first page", 0, 5, 5},
		{"second page", 5, 5, 2},
		{"past the end", 10, 5, 0},
		{"zero limit means no cap", 0, 0, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := users.List(ctx, tt.skip, tt.limit)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("List(%d, %d) returned %d users, want %d", tt.skip, tt.limit, len(got), tt.want)
			}
		})
	}
}

func TestUserService_SelfDelete(t *testing.T) {
	ctx := context.Background()
	groups, users, expenses, _ := newGroupFixture(t)

	g, _ := groups.Create(ctx, core.Group{Name: "Casa"})
	u, _ := users.Create(ctx, core.User{Name: "Caio", Email: "caio@example.com"})

	e, err := expenses.Create(ctx, core.Expense{
		Title:   "Mercado",
		Amount:  120,
		GroupID: g.ID,
		UserIDs: []string{u.ID},
	})
	if err != nil {
		t.Fatalf("Create expense: %v", err)
	}

	err = users.SelfDelete(ctx, u.ID)
	if !core.IsConflict(err) {
		t.Fatalf("SelfDelete with pending expenses should conflict, got %v", err)
	}
	if got := err.Error(); got != "Não é possível excluir enquanto houver despesas pendentes" {
		t.Errorf("conflict message = %q", got)
	}

	if err := expenses.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete expense: %v", err)
	}
	if err := users.SelfDelete(ctx, u.ID); err != nil {
		t.Fatalf("SelfDelete after settling: %v", err)
	}
	if _, err := users.Get(ctx, u.ID); !core.IsNotFound(err) {
		t.Errorf("Get after SelfDelete should be NotFound, got %v", err)
	}
}

func TestUserService_Groups(t *testing.T) {
	ctx := context.Background()
	groups, users, _, _ := newGroupFixture(t)

	u, _ := users.Create(ctx, core.User{Name: "Davi", Email: "davi@example.com"})
	g1, _ := groups.Create(ctx, core.Group{Name: "Casa"})
	g2, _ := groups.Create(ctx, core.Group{Name: "Viagem"})
	if _, err := groups.Create(ctx, core.Group{Name: "Outro"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, gid := range []string{g1.ID, g2.ID} {
		if err := groups.AddUser(ctx, gid, u.ID); err != nil {
			t.Fatalf("AddUser: %v", err)
		}
	}

	got, err := users.Groups(ctx, u.ID)
	if err != nil {
		t.Fatalf("Groups: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Groups returned %d, want 2", len(got))
	}
}

func TestUserService_Get_NotFound(t *testing.T) {
	ctx := context.Background()
	_, users, _, _ := newGroupFixture(t)

	_, err := users.Get(ctx, "ffffffffffffffffffffffff")
	if !core.IsNotFound(err) {
		t.Fatalf("want NotFound, got %v", err)
	}
	if got := err.Error(); got != "Usuário não encontrado" {
		t.Errorf("message = %q, want Usuário não encontrado", got)
	}
}
