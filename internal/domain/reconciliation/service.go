package reconciliation

import (
	"context"
)

// Service defines attendance/timesheet reconciliation operations. The
// detection itself is pure; these operations only add data access around it.
type Service interface {
	// Reconcile loads both daily trails for the requested employee/range and
	// returns the detected discrepancies, sorted by severity descending.
	Reconcile(ctx context.Context, req ReconcileRequest) (ReconciliationReport, error)

	// AutoResolve creates or adjusts timesheet entries from attendance data
	// for the mechanically resolvable discrepancies in the range.
	AutoResolve(ctx context.Context, req ReconcileRequest) (AutoResolveResult, error)

	// ExportCSV renders the report as CSV with columns
	// Date, Type, Severity, Description, Suggested Action.
	ExportCSV(ctx context.Context, req ReconcileRequest) ([]byte, error)

	// ExportXLSX renders the report as an Excel workbook.
	ExportXLSX(ctx context.Context, req ReconcileRequest) ([]byte, error)
}
