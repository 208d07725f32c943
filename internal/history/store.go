// Package history persists audit runs so results can be listed, reopened and
// compared later.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/fortiaudit/fortiaudit/internal/compliance"
)

// ErrNotFound is returned when a run ID does not exist.
var ErrNotFound = errors.New("run not found")

// Run is one stored audit.
type Run struct {
	ID        string                       `json:"id"`
	Dialect   string                       `json:"dialect"`
	Source    string                       `json:"source"`
	CreatedAt time.Time                    `json:"created_at"`
	Total     int                          `json:"total"`
	Passed    int                          `json:"passed"`
	Failed    int                          `json:"failed"`
	Ratio     float64                      `json:"ratio"`
	Report    *compliance.ComplianceReport `json:"report,omitempty"`
}

// RunFilter narrows ListRuns.
type RunFilter struct {
	Dialect string
	Source  string
	Limit   int
}

// Store defines the persistence interface for audit runs.
// The implementation in sql.go speaks SQLite and PostgreSQL.
type Store interface {
	SaveRun(ctx context.Context, report *compliance.ComplianceReport) (*Run, error)
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)
	DeleteRun(ctx context.Context, id string) error
	Close() error
}
