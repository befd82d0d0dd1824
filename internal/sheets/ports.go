package sheets

import (
	"context"
	"time"
)

// ReportRow is one exported line of the group spending report.
type ReportRow struct {
	Timestamp time.Time
	GroupID   string
	GroupName string
	Total     float64
	Count     int64
}

// ReportWriter appends report rows to an outbound destination.
type ReportWriter interface {
	AppendReportRow(ctx context.Context, row ReportRow) (rowRef string, err error)
}
