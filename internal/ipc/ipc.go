// Package ipc provides a Unix domain socket server for local tooling such as
// editor plugins and commit hooks.
//
// Clients send newline-terminated JSON requests and receive one
// newline-terminated JSON response per request. This avoids HTTP overhead and
// needs no TCP port.
//
// Request format:
//
//	{"method": "audit.run", "id": 1, "params": {"dialect": "switch", "source": "sw01.conf", "config": "..."}}
//	{"method": "checks.list", "id": 2, "params": {"dialect": "wireless"}}
//	{"method": "runs.list", "id": 3, "params": {"dialect": "switch", "limit": 10}}
//	{"method": "ping", "id": 4}
//
// Response format:
//
//	{"id": 1, "result": {...}, "error": null}
package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fortiaudit/fortiaudit/internal/audit"
	"github.com/fortiaudit/fortiaudit/internal/history"
	"github.com/fortiaudit/fortiaudit/internal/rules"
	"github.com/fortiaudit/fortiaudit/pkg/buildinfo"
	"github.com/fortiaudit/fortiaudit/pkg/fortiparse"
)

// DefaultSocketPath is the default Unix socket path.
const DefaultSocketPath = "/var/run/fortiaudit/fortiaudit.sock"

// maxMessageBytes bounds one request line, configuration text included.
const maxMessageBytes = 4 << 20

// Request represents a JSON-RPC style request.
type Request struct {
	Method string          `json:"method"`
	ID     int             `json:"id"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response represents a JSON-RPC style response.
type Response struct {
	ID     int         `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  *string     `json:"error"`
}

// AuditParams are the parameters of audit.run.
type AuditParams struct {
	Dialect string `json:"dialect"`
	Source  string `json:"source"`
	Config  string `json:"config"`
	Save    bool   `json:"save"` // record the run when a store is configured
}

// AuditResult is returned by audit.run.
type AuditResult struct {
	RunID  string      `json:"run_id,omitempty"`
	Report interface{} `json:"report"`
}

// ServerConfig holds the server's dependencies.
type ServerConfig struct {
	SocketPath string
	Auditor    *audit.Auditor
	Store      history.Store // optional
	Logger     *log.Logger
}

// Server is the IPC Unix socket server.
type Server struct {
	socketPath string
	auditor    *audit.Auditor
	store      history.Store
	logger     *log.Logger
	listener   net.Listener
	mu         sync.Mutex
	clients    map[net.Conn]struct{}
}

// NewServer creates a new IPC server.
func NewServer(cfg ServerConfig) *Server {
	if cfg.SocketPath == "" {
		cfg.SocketPath = DefaultSocketPath
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Auditor == nil {
		cfg.Auditor = audit.New(audit.Options{Logger: cfg.Logger})
	}
	return &Server{
		socketPath: cfg.SocketPath,
		auditor:    cfg.Auditor,
		store:      cfg.Store,
		logger:     cfg.Logger,
		clients:    make(map[net.Conn]struct{}),
	}
}

// Start begins listening on the Unix socket. Blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	dir := filepath.Dir(s.socketPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create socket dir: %w", err)
	}

	// Remove stale socket file
	os.Remove(s.socketPath)

	var err error
	s.listener, err = net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.socketPath, err)
	}

	// Owner + group only
	os.Chmod(s.socketPath, 0660)

	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("accept: %w", err)
			}
		}

		s.mu.Lock()
		s.clients[conn] = struct{}{}
		s.mu.Unlock()

		go s.handleConn(ctx, conn)
	}
}

// SocketPath returns the configured socket path.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// ActiveConnections returns the number of active client connections.
func (s *Server) ActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer func() {
		conn.Close()
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), maxMessageBytes)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var req Request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			errMsg := fmt.Sprintf("invalid request: %v", err)
			writeResponse(conn, Response{Error: &errMsg})
			continue
		}

		writeResponse(conn, s.dispatch(ctx, req))
	}
}

func (s *Server) dispatch(ctx context.Context, req Request) Response {
	resp := Response{ID: req.ID}

	var (
		result interface{}
		err    error
	)
	switch req.Method {
	case "audit.run":
		result, err = s.runAudit(ctx, req.Params)
	case "checks.list":
		result, err = s.listChecks(req.Params)
	case "runs.list":
		result, err = s.listRuns(ctx, req.Params)
	case "ping":
		result = map[string]string{
			"status":  "ok",
			"version": buildinfo.Version,
		}
	default:
		err = fmt.Errorf("unknown method: %s", req.Method)
	}

	if err != nil {
		errMsg := err.Error()
		resp.Error = &errMsg
		return resp
	}
	resp.Result = result
	return resp
}

func (s *Server) runAudit(ctx context.Context, raw json.RawMessage) (interface{}, error) {
	var p AuditParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	d, err := fortiparse.ParseDialect(p.Dialect)
	if err != nil {
		return nil, err
	}
	if p.Source == "" {
		p.Source = "ipc"
	}

	res, err := s.auditor.Run(ctx, d, p.Source, strings.NewReader(p.Config))
	if err != nil {
		return nil, err
	}

	out := AuditResult{Report: res.Report}
	if p.Save && s.store != nil {
		run, err := s.store.SaveRun(ctx, res.Report)
		if err != nil {
			s.logger.Printf("ipc: save run for %s: %v", p.Source, err)
			return nil, fmt.Errorf("failed to store run")
		}
		out.RunID = run.ID
	}
	return out, nil
}

func (s *Server) listChecks(raw json.RawMessage) (interface{}, error) {
	var p struct {
		Dialect string `json:"dialect"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	d, err := fortiparse.ParseDialect(p.Dialect)
	if err != nil {
		return nil, err
	}
	reg, err := rules.RegistryFor(d)
	if err != nil {
		return nil, err
	}

	type check struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Kind     string `json:"kind"`
		Severity string `json:"severity"`
	}
	checks := make([]check, 0, reg.Len())
	for _, r := range reg.Rules() {
		checks = append(checks, check{r.ID, r.Name, string(r.Kind), string(r.Severity)})
	}
	return checks, nil
}

func (s *Server) listRuns(ctx context.Context, raw json.RawMessage) (interface{}, error) {
	if s.store == nil {
		return nil, fmt.Errorf("history is disabled")
	}
	var p struct {
		Dialect string `json:"dialect"`
		Source  string `json:"source"`
		Limit   int    `json:"limit"`
	}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	runs, err := s.store.ListRuns(ctx, history.RunFilter{Dialect: p.Dialect, Source: p.Source, Limit: p.Limit})
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []history.Run{}
	}
	return runs, nil
}

func decodeParams(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}

func writeResponse(conn net.Conn, resp Response) {
	data, _ := json.Marshal(resp)
	data = append(data, '\n')
	conn.Write(data)
}
