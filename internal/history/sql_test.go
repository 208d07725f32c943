package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/fortiaudit/fortiaudit/internal/compliance"
)

func tempDB(t *testing.T) *SQLStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test-history.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// steppingClock returns a clock that advances one minute per call.
func steppingClock() func() time.Time {
	t := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func testReport(dialect, source string, passed, failed int) *compliance.ComplianceReport {
	return &compliance.ComplianceReport{
		Timestamp: "2026-05-01T09:00:00Z",
		Dialect:   dialect,
		Source:    source,
		Sections: []compliance.Section{{
			ID:   "vlan",
			Name: "VLAN",
			Items: []compliance.ChecklistItem{{
				ID:       dialect + ".vlan",
				Name:     "VLANs configuradas",
				Status:   compliance.StatusFail,
				Findings: []string{"VLAN default em uso (Bloco #1)"},
			}},
		}},
		Summary: compliance.Summary{
			Total:      passed + failed,
			Passed:     passed,
			Failed:     failed,
			Ratio:      compliance.RoundRatio(float64(passed) / float64(passed+failed) * 100),
			RatioValid: true,
		},
	}
}

func TestSQLStore_SaveAndGetRun(t *testing.T) {
	store := tempDB(t)
	ctx := context.Background()

	saved, err := store.SaveRun(ctx, testReport("switch", "sw01.conf", 5, 2))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("SaveRun returned empty ID")
	}

	got, err := store.GetRun(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Dialect != "switch" {
		t.Errorf("Dialect = %q, want %q", got.Dialect, "switch")
	}
	if got.Source != "sw01.conf" {
		t.Errorf("Source = %q, want %q", got.Source, "sw01.conf")
	}
	if got.Passed != 5 || got.Failed != 2 || got.Total != 7 {
		t.Errorf("counts = %d/%d/%d, want 5/2/7", got.Passed, got.Failed, got.Total)
	}
	if got.Ratio != 71.4 {
		t.Errorf("Ratio = %v, want 71.4", got.Ratio)
	}
	if !got.CreatedAt.Equal(saved.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, saved.CreatedAt)
	}
	if got.Report == nil || len(got.Report.Sections) != 1 {
		t.Fatalf("report not restored: %+v", got.Report)
	}
	if f := got.Report.Sections[0].Items[0].Findings; len(f) != 1 || f[0] != "VLAN default em uso (Bloco #1)" {
		t.Errorf("findings = %v", f)
	}
}

func TestSQLStore_GetRun_NotFound(t *testing.T) {
	store := tempDB(t)

	_, err := store.GetRun(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLStore_SaveRun_NilReport(t *testing.T) {
	store := tempDB(t)

	if _, err := store.SaveRun(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil report")
	}
}

func TestSQLStore_ListRuns_Filter(t *testing.T) {
	store := tempDB(t)
	store.now = steppingClock()
	ctx := context.Background()

	reports := []*compliance.ComplianceReport{
		testReport("switch", "sw01.conf", 7, 0),
		testReport("wireless", "ap01.conf", 3, 4),
		testReport("switch", "sw02.conf", 6, 1),
		testReport("switch", "sw01.conf", 5, 2),
	}
	for _, r := range reports {
		if _, err := store.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	all, err := store.ListRuns(ctx, RunFilter{})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 runs, got %d", len(all))
	}
	if all[0].Source != "sw01.conf" || all[0].Passed != 5 {
		t.Errorf("newest run first: got %s with %d passed", all[0].Source, all[0].Passed)
	}
	if all[0].Report != nil {
		t.Error("ListRuns should not load reports")
	}

	switches, err := store.ListRuns(ctx, RunFilter{Dialect: "switch"})
	if err != nil {
		t.Fatalf("ListRuns(switch): %v", err)
	}
	if len(switches) != 3 {
		t.Errorf("expected 3 switch runs, got %d", len(switches))
	}

	sw01, err := store.ListRuns(ctx, RunFilter{Source: "sw01.conf", Limit: 1})
	if err != nil {
		t.Fatalf("ListRuns(sw01): %v", err)
	}
	if len(sw01) != 1 || sw01[0].Passed != 5 {
		t.Errorf("expected latest sw01 run, got %+v", sw01)
	}
}

func TestSQLStore_DeleteRun(t *testing.T) {
	store := tempDB(t)
	ctx := context.Background()

	run, err := store.SaveRun(ctx, testReport("switch", "sw01.conf", 1, 1))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := store.DeleteRun(ctx, run.ID); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	if _, err := store.GetRun(ctx, run.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteRun(ctx, run.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := Open("mysql", "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestRebind(t *testing.T) {
	pg := &SQLStore{driver: DriverPostgres}
	got := pg.rebind("SELECT * FROM t WHERE a = ? AND b = ? LIMIT ?")
	want := "SELECT * FROM t WHERE a = $1 AND b = $2 LIMIT $3"
	if got != want {
		t.Errorf("rebind = %q, want %q", got, want)
	}

	lite := &SQLStore{driver: DriverSQLite}
	if q := lite.rebind("a = ?"); q != "a = ?" {
		t.Errorf("sqlite rebind changed query: %q", q)
	}
}
