package ports

import (
	"context"
	"time"
)

// Report is the already-validated, already-aggregated payload handed to the
// export boundary: formatted cells only, no billing logic.
type Report struct {
	Title       string
	GeneratedAt time.Time
	FileName    string
	Columns     []string
	Rows        [][]string
	Footer      []string
}

// ReportExporter renders a report into a downloadable artifact and returns
// the path it was written to.
type ReportExporter interface {
	Export(ctx context.Context, report Report) (string, error)
}
