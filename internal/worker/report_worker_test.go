package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"facilitae/internal/amqp"
	"facilitae/internal/core"
	"facilitae/internal/log"
	sheetsmem "facilitae/internal/sheets/memory"
	storagemem "facilitae/internal/storage/memory"
)

func newWorkerFixture(t *testing.T) (*ReportWorker, *storagemem.Store, *sheetsmem.Store) {
	t.Helper()
	store := storagemem.New()
	writer := sheetsmem.New()
	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	return NewReportWorker(store, writer, logger), store, writer
}

func TestReportWorker_HandleEntityEvent(t *testing.T) {
	ctx := context.Background()
	w, store, writer := newWorkerFixture(t)

	g := &core.Group{Name: "Família"}
	if err := store.CreateGroup(ctx, g); err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	for _, amount := range []float64{10.5, 20.25} {
		e := &core.Expense{Title: "Compra", Amount: amount, GroupID: g.ID}
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense: %v", err)
		}
	}

	event := amqp.NewEntityEvent(amqp.EntityExpense, amqp.ActionCreated, "x", g.ID)
	if err := w.HandleEntityEvent(ctx, event); err != nil {
		t.Fatalf("HandleEntityEvent: %v", err)
	}

	rows := writer.Rows()
	if len(rows) != 1 {
		t.Fatalf("wrote %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.GroupID != g.ID || row.GroupName != "Família" {
		t.Errorf("row group = %q/%q", row.GroupID, row.GroupName)
	}
	if row.Total != 30.75 || row.Count != 2 {
		t.Errorf("row totals = {%v, %d}, want {30.75, 2}", row.Total, row.Count)
	}
}

func TestReportWorker_SkipsUnreportableEvents(t *testing.T) {
	ctx := context.Background()
	w, _, writer := newWorkerFixture(t)

	tests := []struct {
		name  string
		event *amqp.EntityEvent
	}{
		{"no group reference", amqp.NewEntityEvent(amqp.EntityUser, amqp.ActionCreated, "u", "")},
		{"group deleted", amqp.NewEntityEvent(amqp.EntityGroup, amqp.ActionDeleted, "g", "g")},
		{"group vanished", amqp.NewEntityEvent(amqp.EntityExpense, amqp.ActionCreated, "x", "ffffffffffffffffffffffff")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := w.HandleEntityEvent(ctx, tt.event); err != nil {
				t.Fatalf("HandleEntityEvent: %v", err)
			}
		})
	}

	if rows := writer.Rows(); len(rows) != 0 {
		t.Errorf("wrote %d rows, want 0", len(rows))
	}
}
