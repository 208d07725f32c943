package viewer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fortiaudit/fortiaudit/internal/audit"
	"github.com/fortiaudit/fortiaudit/internal/compliance"
	"github.com/fortiaudit/fortiaudit/internal/history"
	"github.com/fortiaudit/fortiaudit/pkg/fortiparse"
)

// Loader produces the report to display. It is called once at start and
// again on every refresh.
type Loader struct {
	// Describe names the source in the footer.
	Describe string
	Load     func(ctx context.Context) (*compliance.ComplianceReport, error)
}

// FileLoader audits a configuration file on disk. Refreshing re-reads the
// file, so edits show up without restarting.
func FileLoader(a *audit.Auditor, d fortiparse.Dialect, path string) Loader {
	return Loader{
		Describe: fmt.Sprintf("%s (%s)", path, d),
		Load: func(ctx context.Context) (*compliance.ComplianceReport, error) {
			res, err := a.RunFile(ctx, d, path)
			if err != nil {
				return nil, err
			}
			return res.Report, nil
		},
	}
}

// ReportLoader displays a report that is already in memory.
func ReportLoader(r *compliance.ComplianceReport) Loader {
	return Loader{
		Describe: r.Source,
		Load: func(context.Context) (*compliance.ComplianceReport, error) {
			return r, nil
		},
	}
}

// RemoteLoader fetches a stored run from the dashboard API.
func RemoteLoader(addr, runID string) Loader {
	return Loader{
		Describe: fmt.Sprintf("%s run %s", addr, runID),
		Load: func(ctx context.Context) (*compliance.ComplianceReport, error) {
			return fetchRun(ctx, addr, runID)
		},
	}
}

func fetchRun(ctx context.Context, addr, runID string) (*compliance.ComplianceReport, error) {
	url := fmt.Sprintf("http://%s/api/v1/runs/%s", addr, runID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned %d: %s", resp.StatusCode, string(body))
	}

	var run history.Run
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if run.Report == nil {
		return nil, fmt.Errorf("run %s has no report", runID)
	}
	return run.Report, nil
}
