// Package memory holds an in-memory Store used by tests and local runs
// without a MongoDB instance. It mirrors the mongo adapter's semantics:
// canonical string ids, atomic membership mutations, fixed sort orders.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	"facilitae/internal/core"
	"facilitae/internal/storage"
)

type Store struct {
	mu       sync.Mutex
	groups   map[string]core.Group
	users    map[string]core.User
	expenses map[string]core.Expense
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		groups:   make(map[string]core.Group),
		users:    make(map[string]core.User),
		expenses: make(map[string]core.Expense),
	}
}

func newID() string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// validID enforces the same well-formedness rule as the mongo adapter:
// 24 hexadecimal characters.
func validID(id string) error {
	if len(id) != 24 {
		return core.ErrMalformedID
	}
	if _, err := hex.DecodeString(id); err != nil {
		return core.ErrMalformedID
	}
	return nil
}

func cloneIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// nameMatcher compiles the query with the same semantics the mongo adapter
// gets from primitive.Regex with the "i" option.
func nameMatcher(query string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + query)
	if err != nil {
		return nil, fmt.Errorf("compile name query: %w", err)
	}
	return re, nil
}

// --- Groups ---

func (s *Store) CreateGroup(_ context.Context, g *core.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.CreatedAt.IsZero() {
		g.CreatedAt = nowUTC()
	}
	g.ID = newID()
	if g.UserIDs == nil {
		g.UserIDs = []string{}
	}
	if g.ExpenseIDs == nil {
		g.ExpenseIDs = []string{}
	}
	s.groups[g.ID] = cloneGroup(*g)
	return nil
}

func (s *Store) GetGroup(_ context.Context, id string) (*core.Group, error) {
	if err := validID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[id]
	if !ok {
		return nil, &core.NotFoundError{Message: "Grupo não encontrado"}
	}
	g = cloneGroup(g)
	return &g, nil
}

func (s *Store) UpdateGroup(_ context.Context, g *core.Group) error {
	if err := validID(g.ID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[g.ID]; !ok {
		return &core.NotFoundError{Message: "Grupo não encontrado"}
	}
	s.groups[g.ID] = cloneGroup(*g)
	return nil
}

func (s *Store) DeleteGroup(_ context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[id]; !ok {
		return &core.NotFoundError{Message: "Grupo não encontrado"}
	}
	delete(s.groups, id)
	return nil
}

func (s *Store) ListGroups(_ context.Context) ([]core.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectGroups(func(core.Group) bool { return true }, false), nil
}

func (s *Store) ListGroupsByName(_ context.Context) ([]core.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectGroups(func(core.Group) bool { return true }, true), nil
}

func (s *Store) SearchGroupsByName(_ context.Context, query string) ([]core.Group, error) {
	re, err := nameMatcher(query)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectGroups(func(g core.Group) bool {
		return re.MatchString(g.Name)
	}, false), nil
}

func (s *Store) ListGroupsWithUser(_ context.Context, userID string) ([]core.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectGroups(func(g core.Group) bool {
		return containsID(g.UserIDs, userID)
	}, false), nil
}

func (s *Store) collectGroups(keep func(core.Group) bool, sortByName bool) []core.Group {
	out := make([]core.Group, 0, len(s.groups))
	for _, g := range s.groups {
		if keep(g) {
			out = append(out, cloneGroup(g))
		}
	}
	if sortByName {
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	}
	return out
}

func (s *Store) AddGroupUser(_ context.Context, groupID, userID string) error {
	return s.addGroupRef(groupID, userID, "Usuário já está no grupo", userRefs)
}

func (s *Store) RemoveGroupUser(_ context.Context, groupID, userID string) error {
	return s.removeGroupRef(groupID, userID, "Usuário não encontrado no grupo", userRefs)
}

func (s *Store) AddGroupExpense(_ context.Context, groupID, expenseID string) error {
	return s.addGroupRef(groupID, expenseID, "Despesa já adicionada ao grupo", expenseRefs)
}

func (s *Store) RemoveGroupExpense(_ context.Context, groupID, expenseID string) error {
	return s.removeGroupRef(groupID, expenseID, "Despesa não encontrada no grupo", expenseRefs)
}

// ref set selectors, so add/remove logic is written once for both sets.
func userRefs(g *core.Group) *[]string    { return &g.UserIDs }
func expenseRefs(g *core.Group) *[]string { return &g.ExpenseIDs }

func (s *Store) addGroupRef(groupID, refID, conflictMsg string, refs func(*core.Group) *[]string) error {
	if err := validID(groupID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return &core.NotFoundError{Message: "Grupo não encontrado"}
	}
	set := refs(&g)
	if containsID(*set, refID) {
		return &core.ConflictError{Message: conflictMsg}
	}
	*set = append(*set, refID)
	s.groups[groupID] = g
	return nil
}

func (s *Store) removeGroupRef(groupID, refID, absentMsg string, refs func(*core.Group) *[]string) error {
	if err := validID(groupID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return &core.NotFoundError{Message: "Grupo não encontrado"}
	}
	set := refs(&g)
	if !containsID(*set, refID) {
		return &core.NotFoundError{Message: absentMsg}
	}
	kept := make([]string, 0, len(*set)-1)
	for _, v := range *set {
		if v != refID {
			kept = append(kept, v)
		}
	}
	*set = kept
	s.groups[groupID] = g
	return nil
}

// --- Users ---

func (s *Store) CreateUser(_ context.Context, u *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.ID = newID()
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUser(_ context.Context, id string) (*core.User, error) {
	if err := validID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, &core.NotFoundError{Message: "Usuário não encontrado"}
	}
	return &u, nil
}

func (s *Store) UpdateUser(_ context.Context, u *core.User) error {
	if err := validID(u.ID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return &core.NotFoundError{Message: "Usuário não encontrado"}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return &core.NotFoundError{Message: "Usuário não encontrado"}
	}
	delete(s.users, id)
	return nil
}

func (s *Store) ListUsers(_ context.Context, skip, limit int64) ([]core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]core.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, skip, limit), nil
}

func (s *Store) SearchUsersByName(_ context.Context, query string) ([]core.User, error) {
	re, err := nameMatcher(query)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []core.User{}
	for _, u := range s.users {
		if re.MatchString(u.Name) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetUsersByIDs(_ context.Context, ids []string) ([]core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []core.User{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// --- Expenses ---

func (s *Store) CreateExpense(_ context.Context, e *core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Date.IsZero() {
		e.Date = nowUTC()
	}
	e.ID = newID()
	if e.UserIDs == nil {
		e.UserIDs = []string{}
	}
	s.expenses[e.ID] = cloneExpense(*e)
	return nil
}

func (s *Store) GetExpense(_ context.Context, id string) (*core.Expense, error) {
	if err := validID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.expenses[id]
	if !ok {
		return nil, &core.NotFoundError{Message: "Despesa não encontrada"}
	}
	e = cloneExpense(e)
	return &e, nil
}

func (s *Store) UpdateExpense(_ context.Context, e *core.Expense) error {
	if err := validID(e.ID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.expenses[e.ID]; !ok {
		return &core.NotFoundError{Message: "Despesa não encontrada"}
	}
	s.expenses[e.ID] = cloneExpense(*e)
	return nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.expenses[id]; !ok {
		return &core.NotFoundError{Message: "Despesa não encontrada"}
	}
	delete(s.expenses, id)
	return nil
}

func (s *Store) ListExpenses(_ context.Context, skip, limit int64) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]core.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		all = append(all, cloneExpense(e))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })
	return paginate(all, skip, limit), nil
}

func (s *Store) ListExpensesByGroup(_ context.Context, groupID string) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectExpenses(func(e core.Expense) bool { return e.GroupID == groupID }), nil
}

func (s *Store) ListExpensesByUser(_ context.Context, userID string) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectExpenses(func(e core.Expense) bool { return containsID(e.UserIDs, userID) }), nil
}

func (s *Store) CountExpensesWithUser(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, e := range s.expenses {
		if containsID(e.UserIDs, userID) {
			count++
		}
	}
	return count, nil
}

func (s *Store) GroupExpenseTotals(_ context.Context, groupID string) (float64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	var count int64
	for _, e := range s.expenses {
		if e.GroupID == groupID {
			total += e.Amount
			count++
		}
	}
	return total, count, nil
}

func (s *Store) collectExpenses(keep func(core.Expense) bool) []core.Expense {
	out := []core.Expense{}
	for _, e := range s.expenses {
		if keep(e) {
			out = append(out, cloneExpense(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// --- Lifecycle ---

func (s *Store) Ping(context.Context) error  { return nil }
func (s *Store) Close(context.Context) error { return nil }

func nowUTC() time.Time { return time.Now().UTC() }

func cloneGroup(g core.Group) core.Group {
	g.UserIDs = cloneIDs(g.UserIDs)
	g.ExpenseIDs = cloneIDs(g.ExpenseIDs)
	return g
}

func cloneExpense(e core.Expense) core.Expense {
	e.UserIDs = cloneIDs(e.UserIDs)
	return e
}

func paginate[T any](all []T, skip, limit int64) []T {
	if skip >= int64(len(all)) {
		return []T{}
	}
	all = all[skip:]
	if limit > 0 && limit < int64(len(all)) {
		all = all[:limit]
	}
	return all
}
