package worker

import (
	"context"
	"fmt"
	"time"

	"facilitae/internal/amqp"
	"facilitae/internal/core"
	"facilitae/internal/log"
	"facilitae/internal/sheets"
	"facilitae/internal/storage"
)

// ReportWorker consumes entity-change events and keeps an external report
// of per-group spending up to date. Every event that references a group
// triggers a recomputation of that group's totals and an appended row.
type ReportWorker struct {
	groups   storage.GroupStore
	expenses storage.ExpenseStore
	writer   sheets.ReportWriter
	logger   *log.Logger
}

func NewReportWorker(store storage.Store, writer sheets.ReportWriter, logger *log.Logger) *ReportWorker {
	return &ReportWorker{
		groups:   store,
		expenses: store,
		writer:   writer,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEntityEvent processes one event from the queue. Events without a
// group reference, and deletions of the group itself, are skipped.
func (w *ReportWorker) HandleEntityEvent(ctx context.Context, event *amqp.EntityEvent) error {
	if event.GroupID == "" {
		w.logger.DebugContext(ctx, "Skipping event without group reference",
			"entity", event.Entity, "action", event.Action, "id", event.ID)
		return nil
	}
	if event.Entity == amqp.EntityGroup && event.Action == amqp.ActionDeleted {
		w.logger.DebugContext(ctx, "Skipping deleted group", log.FieldGroupID, event.GroupID)
		return nil
	}

	g, err := w.groups.GetGroup(ctx, event.GroupID)
	if err != nil {
		if core.IsNotFound(err) {
			// Group vanished between the event and now, nothing to report.
			w.logger.WarnContext(ctx, "Group no longer exists, skipping report",
				log.FieldGroupID, event.GroupID)
			return nil
		}
		return fmt.Errorf("get group: %w", err)
	}

	total, count, err := w.expenses.GroupExpenseTotals(ctx, g.ID)
	if err != nil {
		return fmt.Errorf("group expense totals: %w", err)
	}

	ref, err := w.writer.AppendReportRow(ctx, sheets.ReportRow{
		Timestamp: time.Now().UTC(),
		GroupID:   g.ID,
		GroupName: g.Name,
		Total:     total,
		Count:     count,
	})
	if err != nil {
		return fmt.Errorf("append report row: %w", err)
	}

	w.logger.InfoContext(ctx, "Report row appended",
		log.FieldGroupID, g.ID,
		log.FieldTotal, total,
		log.FieldCount, count,
		"row_ref", ref)
	return nil
}

// Run consumes entity events until the context is cancelled.
func (w *ReportWorker) Run(ctx context.Context, consumer EventConsumer) error {
	w.logger.Info("Report worker started")
	return consumer.ConsumeEntityEvents(ctx, w.HandleEntityEvent)
}

// EventConsumer delivers entity events to a handler until the context ends.
type EventConsumer interface {
	ConsumeEntityEvents(ctx context.Context, handler func(context.Context, *amqp.EntityEvent) error) error
}
