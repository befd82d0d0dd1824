package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"facilitae/internal/amqp"
	"facilitae/internal/core"
	"facilitae/internal/log"
	"facilitae/internal/storage/memory"
)

func newTestLogger() *log.Logger {
	return log.New(log.Config{
		Handler: slog.NewTextHandler(io.Discard, nil),
	})
}

// capturingPublisher records every published event.
type capturingPublisher struct {
	events []*amqp.EntityEvent
}

func (p *capturingPublisher) PublishEntityEvent(_ context.Context, event *amqp.EntityEvent) error {
	p.events = append(p.events, event)
	return nil
}

func newGroupFixture(t *testing.T) (*GroupService, *UserService, *ExpenseService, *capturingPublisher) {
	t.Helper()
	store := memory.New()
	pub := &capturingPublisher{}
	logger := newTestLogger()
	return NewGroupService(store, pub, logger),
		NewUserService(store, pub, logger),
		NewExpenseService(store, pub, logger),
		pub
}

func TestGroupService_AddUser(t *testing.T) {
	ctx := context.Background()
	groups, users, _, pub := newGroupFixture(t)

	g, err := groups.Create(ctx, core.Group{Name: "Família"})
	if err != nil {
		t.Fatalf("Create group: %v", err)
	}
	u, err := users.Create(ctx, core.User{Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}

	if err := groups.AddUser(ctx, g.ID, u.ID); err != nil {
		t.Fatalf("AddUser: %v", err)
	}

	members, err := groups.ListUsers(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	found := 0
	for _, m := range members {
		if m.ID == u.ID {
			found++
		}
	}
	if found != 1 {
		t.Errorf("member should appear exactly once, appeared %d times", found)
	}

	var sawMemberAdded bool
	for _, e := range pub.events {
		if e.Action == amqp.ActionMemberAdded && e.ID == u.ID && e.GroupID == g.ID {
			sawMemberAdded = true
		}
	}
	if !sawMemberAdded {
		t.Error("AddUser should publish a member_added event")
	}
}

func TestGroupService_AddUser_Duplicate(t *testing.T) {
	ctx := context.Background()
	groups, users, _, _ := newGroupFixture(t)

	g, _ := groups.Create(ctx, core.Group{Name: "Viagem"})
	u, _ := users.Create(ctx, core.User{Name: "Bia", Email: "bia@example.com"})

	if err := groups.AddUser(ctx, g.ID, u.ID); err != nil {
		t.Fatalf("first AddUser: %v", err)
	}

	err := groups.AddUser(ctx, g.ID, u.ID)
	if !core.IsConflict(err) {
		t.Fatalf("second AddUser should conflict, got %v", err)
	}

	got, err := groups.Get(ctx, g.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.UserIDs) != 1 {
		t.Errorf("membership set size = %d, want 1", len(got.UserIDs))
	}
}

func TestGroupService_AddUser_MissingEntities(t *testing.T) {
	ctx := context.Background()
	groups, users, _, _ := newGroupFixture(t)

	g, _ := groups.Create(ctx, core.Group{Name: "Casa"})
	u, _ := users.Create(ctx, core.User{Name: "Caio", Email: "caio@example.com"})

	missing := "ffffffffffffffffffffffff"

	if err := groups.AddUser(ctx, missing, u.ID); !core.IsNotFound(err) {
		t.Errorf("AddUser with missing group should be NotFound, got %v", err)
	}
	if err := groups.AddUser(ctx, g.ID, missing); !core.IsNotFound(err) {
		t.Errorf("AddUser with missing user should be NotFound, got %v", err)
	}
}

func TestGroupService_RemoveUser_Absent(t *testing.T) {
	ctx := context.Background()
	groups, users, _, _ := newGroupFixture(t)

	g, _ := groups.Create(ctx, core.Group{Name: "Casa"})
	u, _ := users.Create(ctx, core.User{Name: "Davi", Email: "davi@example.com"})

	if err := groups.RemoveUser(ctx, g.ID, u.ID); !core.IsNotFound(err) {
		t.Errorf("RemoveUser of non-member should be NotFound, got %v", err)
	}
}

func TestGroupService_RemoveUser(t *testing.T) {
	ctx := context.Background()
	groups, users, _, _ := newGroupFixture(t)

	g, _ := groups.Create(ctx, core.Group{Name: "Casa"})
	u, _ := users.Create(ctx, core.User{Name: "Eva", Email: "eva@example.com"})

	if err := groups.AddUser(ctx, g.ID, u.ID); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if err := groups.RemoveUser(ctx, g.ID, u.ID); err != nil {
		t.Fatalf("RemoveUser: %v", err)
	}

	got, _ := groups.Get(ctx, g.ID)
	if len(got.UserIDs) != 0 {
		t.Errorf("membership set should be empty after remove, has %d", len(got.UserIDs))
	}
}

func TestGroupService_Totals(t *testing.T) {
	ctx := context.Background()
	groups, _, expenses, _ := newGroupFixture(t)

	g, _ := groups.Create(ctx, core.Group{Name: "Família"})

	t.Run("no expenses", func(t *testing.T) {
		totals, err := groups.Totals(ctx, g.ID)
		if err != nil {
			t.Fatalf("Totals: %v", err)
		}
		if totals.Total != 0 || totals.Count != 0 {
			t.Errorf("empty group totals = {%v, %d}, want {0, 0}", totals.Total, totals.Count)
		}
		if totals.Group != "Família" {
			t.Errorf("totals group name = %q, want Família", totals.Group)
		}
	})

	t.Run("two expenses", func(t *testing.T) {
		for _, amount := range []float64{10.5, 20.25} {
			if _, err := expenses.Create(ctx, core.Expense{
				Title:   "Compra",
				Amount:  amount,
				GroupID: g.ID,
			}); err != nil {
				t.Fatalf("Create expense: %v", err)
			}
		}

		totals, err := groups.Totals(ctx, g.ID)
		if err != nil {
			t.Fatalf("Totals: %v", err)
		}
		if totals.Total != 30.75 {
			t.Errorf("total = %v, want 30.75", totals.Total)
		}
		if totals.Count != 2 {
			t.Errorf("count = %d, want 2", totals.Count)
		}
	})

	t.Run("missing group", func(t *testing.T) {
		if _, err := groups.Totals(ctx, "ffffffffffffffffffffffff"); !core.IsNotFound(err) {
			t.Errorf("Totals of missing group should be NotFound, got %v", err)
		}
	})
}

func TestGroupService_ListExpenses_FiltersByGroupReference(t *testing.T) {
	ctx := context.Background()
	groups, _, expenses, _ := newGroupFixture(t)

	g, _ := groups.Create(ctx, core.Group{Name: "Sítio"})
	other, _ := groups.Create(ctx, core.Group{Name: "Outro"})

	mine, _ := expenses.Create(ctx, core.Expense{Title: "Luz", Amount: 80, GroupID: g.ID})
	if _, err := expenses.Create(ctx, core.Expense{Title: "Gás", Amount: 40, GroupID: other.ID}); err != nil {
		t.Fatalf("Create expense: %v", err)
	}

	// The expense was never added to the group's embedded list; the
	// grupo_id reference alone must drive the result.
	got, err := groups.ListExpenses(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(got) != 1 || got[0].ID != mine.ID {
		t.Errorf("ListExpenses = %v, want only %s", got, mine.ID)
	}
}

func TestGroupService_SearchByName(t *testing.T) {
	ctx := context.Background()
	groups, _, _, _ := newGroupFixture(t)

	if _, err := groups.Create(ctx, core.Group{Name: "Família"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := groups.Create(ctx, core.Group{Name: "Trabalho"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := groups.SearchByName(ctx, "fam")
	if err != nil {
		t.Fatalf("SearchByName: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Família" {
		t.Errorf("SearchByName(fam) = %v, want [Família]", got)
	}

	// The query is a regex pattern, not a literal substring.
	got, err = groups.SearchByName(ctx, "fam.lia")
	if err != nil {
		t.Fatalf("SearchByName: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Família" {
		t.Errorf("SearchByName(fam.lia) = %v, want [Família]", got)
	}

	got, err = groups.SearchByName(ctx, "famx+")
	if err != nil {
		t.Fatalf("SearchByName: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("SearchByName(famx+) = %v, want []", got)
	}
}

func TestGroupService_ListSorted(t *testing.T) {
	ctx := context.Background()
	groups, _, _, _ := newGroupFixture(t)

	for _, name := range []string{"Viagem", "Academia", "Mercado"} {
		if _, err := groups.Create(ctx, core.Group{Name: name}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := groups.ListSorted(ctx)
	if err != nil {
		t.Fatalf("ListSorted: %v", err)
	}
	want := []string{"Academia", "Mercado", "Viagem"}
	if len(got) != len(want) {
		t.Fatalf("ListSorted returned %d groups, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("ListSorted[%d] = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestGroupService_Create_Invalid(t *testing.T) {
	ctx := context.Background()
	groups, _, _, _ := newGroupFixture(t)

	if _, err := groups.Create(ctx, core.Group{}); !core.IsValidation(err) {
		t.Errorf("Create without nome should be a validation error, got %v", err)
	}
}
