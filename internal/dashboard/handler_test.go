package dashboard

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fortiaudit/fortiaudit/internal/audit"
	"github.com/fortiaudit/fortiaudit/internal/history"
	"github.com/fortiaudit/fortiaudit/internal/metrics"
)

const switchConfig = `config vlan 10
set description default
end
config port 1
set mode trunk
end
`

func testServer(t *testing.T, withStore bool, maxUpload int64) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	reg := metrics.New()

	cfg := HandlerConfig{
		Auditor: audit.New(audit.Options{
			Logger:  logger,
			Metrics: reg,
			Now:     func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		}),
		Metrics:        reg,
		Logger:         logger,
		MaxUploadBytes: maxUpload,
	}
	if withStore {
		store, err := history.NewSQLiteStore(filepath.Join(t.TempDir(), "dash.db"))
		if err != nil {
			t.Fatalf("NewSQLiteStore: %v", err)
		}
		t.Cleanup(func() { store.Close() })
		cfg.Store = store
	}

	h := NewHandler(cfg)
	mux := http.NewServeMux()
	RegisterRoutes(mux, h)
	srv := httptest.NewServer(LogRequests(h, mux))
	t.Cleanup(srv.Close)
	return srv
}

func postAudit(t *testing.T, srv *httptest.Server, query, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/v1/audit"+query, "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST audit: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(t, false, 0)

	resp, err := http.Get(srv.URL + "/api/v1/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	var body map[string]any
	decode(t, resp, &body)
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
	if body["history"] != false {
		t.Errorf("history should be reported disabled, got %v", body["history"])
	}
}

func TestHandleAudit_StoresRun(t *testing.T) {
	srv := testServer(t, true, 0)

	resp := postAudit(t, srv, "?dialect=switch&source=sw01.conf", switchConfig)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out AuditResponse
	decode(t, resp, &out)

	if out.RunID == "" {
		t.Fatal("expected a run id")
	}
	if out.Report.Source != "sw01.conf" || out.Report.Dialect != "switch" {
		t.Errorf("source/dialect = %q/%q", out.Report.Source, out.Report.Dialect)
	}
	if out.Report.Summary.Total != 7 || out.Report.Summary.Passed != 1 {
		t.Errorf("summary = %+v, want 1/7", out.Report.Summary)
	}

	get, err := http.Get(srv.URL + "/api/v1/runs/" + out.RunID)
	if err != nil {
		t.Fatal(err)
	}
	defer get.Body.Close()
	if get.StatusCode != http.StatusOK {
		t.Fatalf("GET run: expected 200, got %d", get.StatusCode)
	}
	var run history.Run
	decode(t, get, &run)
	if run.ID != out.RunID || run.Report == nil {
		t.Errorf("stored run = %+v", run)
	}
}

func TestHandleAudit_WirelessAlias(t *testing.T) {
	srv := testServer(t, false, 0)

	resp := postAudit(t, srv, "?dialect=wifi", "config wireless-controller vap\nset security open\nend\n")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out AuditResponse
	decode(t, resp, &out)
	if out.RunID != "" {
		t.Errorf("no store configured, got run id %q", out.RunID)
	}
	if out.Report.Dialect != "wireless" {
		t.Errorf("dialect = %q, want wireless", out.Report.Dialect)
	}
	if got := out.Report.Details()["SSIDs configurados"]; len(got) != 1 || got[0] != "SSID aberto detectado (Bloco #1)" {
		t.Errorf("ssid findings = %v", got)
	}
}

func TestHandleAudit_UnknownDialect(t *testing.T) {
	srv := testServer(t, false, 0)

	resp := postAudit(t, srv, "?dialect=router", switchConfig)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHandleAudit_TooLarge(t *testing.T) {
	srv := testServer(t, false, 16)

	resp := postAudit(t, srv, "", switchConfig)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", resp.StatusCode)
	}
}

func TestHandleRuns(t *testing.T) {
	srv := testServer(t, true, 0)
	postAudit(t, srv, "?source=a.conf", switchConfig)
	postAudit(t, srv, "?source=b.conf", switchConfig)

	resp, err := http.Get(srv.URL + "/api/v1/runs?limit=1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var runs []history.Run
	decode(t, resp, &runs)
	if len(runs) != 1 {
		t.Fatalf("expected 1 run with limit=1, got %d", len(runs))
	}
	if runs[0].Report != nil {
		t.Error("listing should not include reports")
	}

	bad, err := http.Get(srv.URL + "/api/v1/runs?limit=x")
	if err != nil {
		t.Fatal(err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid limit: expected 400, got %d", bad.StatusCode)
	}
}

func TestHandleRuns_NoStore(t *testing.T) {
	srv := testServer(t, false, 0)

	resp, err := http.Get(srv.URL + "/api/v1/runs")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", resp.StatusCode)
	}
}

func TestHandleRun_NotFound(t *testing.T) {
	srv := testServer(t, true, 0)

	resp, err := http.Get(srv.URL + "/api/v1/runs/does-not-exist")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestHandleRunReport(t *testing.T) {
	srv := testServer(t, true, 0)
	var out AuditResponse
	decode(t, postAudit(t, srv, "", switchConfig), &out)

	resp, err := http.Get(srv.URL + "/api/v1/runs/" + out.RunID + "/report")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q, want text/html", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Blocos Principais de Configuração") {
		t.Error("html report missing blocks section")
	}

	csvResp, err := http.Get(srv.URL + "/api/v1/runs/" + out.RunID + "/report?format=csv")
	if err != nil {
		t.Fatal(err)
	}
	defer csvResp.Body.Close()
	body, _ = io.ReadAll(csvResp.Body)
	if !strings.HasPrefix(string(body), "Validação,Detalhe") {
		t.Errorf("csv report = %q", body)
	}

	bad, err := http.Get(srv.URL + "/api/v1/runs/" + out.RunID + "/report?format=pdf")
	if err != nil {
		t.Fatal(err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("pdf: expected 400, got %d", bad.StatusCode)
	}
}

func TestHandleDeleteRun(t *testing.T) {
	srv := testServer(t, true, 0)
	var out AuditResponse
	decode(t, postAudit(t, srv, "", switchConfig), &out)

	del := func() int {
		req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/runs/"+out.RunID, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}
	if got := del(); got != http.StatusOK {
		t.Fatalf("first delete: expected 200, got %d", got)
	}
	if got := del(); got != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", got)
	}
}

func TestHandleChecks(t *testing.T) {
	srv := testServer(t, false, 0)

	resp, err := http.Get(srv.URL + "/api/v1/checks?dialect=wireless")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var checks []CheckInfo
	decode(t, resp, &checks)
	if len(checks) != 7 {
		t.Fatalf("expected 7 wireless checks, got %d", len(checks))
	}
	if checks[0].ID != "wireless.ssid" {
		t.Errorf("first check = %q, want wireless.ssid", checks[0].ID)
	}
	for _, c := range checks {
		if c.Remediation == "" {
			t.Errorf("check %s has no remediation", c.ID)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(t, false, 0)
	postAudit(t, srv, "?dialect=switch", switchConfig)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `fortiaudit_audits_total{dialect="switch"} 1`) {
		t.Errorf("metrics missing audit counter:\n%s", body)
	}
}
