// Command dashboard starts the fortiaudit HTTP API.
//
// Configurations are submitted with POST /api/v1/audit and every run is
// recorded in the history database, which the remaining endpoints browse.
//
// By default, the server binds to localhost only (127.0.0.1:8080) and is
// not exposed to the network.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortiaudit/fortiaudit/internal/audit"
	"github.com/fortiaudit/fortiaudit/internal/config"
	"github.com/fortiaudit/fortiaudit/internal/dashboard"
	"github.com/fortiaudit/fortiaudit/internal/history"
	"github.com/fortiaudit/fortiaudit/internal/ipc"
	"github.com/fortiaudit/fortiaudit/internal/metrics"
	"github.com/fortiaudit/fortiaudit/pkg/buildinfo"
	"github.com/fortiaudit/fortiaudit/pkg/fortiparse"
)

func main() {
	addr := flag.String("addr", "", "listen address (or set FORTIAUDIT_ADDR; default from config)")
	configPath := flag.String("config", "", "config file (or set FORTIAUDIT_CONFIG; default fortiaudit.yaml)")
	noHistory := flag.Bool("no-history", false, "do not record runs")
	socketPath := flag.String("socket", "", "also serve the IPC protocol on this Unix socket")
	flag.Parse()

	logger := log.New(os.Stderr, "[dashboard] ", log.LstdFlags)

	cfg, err := config.LoadOrDefault(envOrFlag(*configPath, "FORTIAUDIT_CONFIG"))
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if a := envOrFlag(*addr, "FORTIAUDIT_ADDR"); a != "" {
		cfg.Dashboard.Listen = a
	}
	cfg.NoHistory = *noHistory
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config:\n%v", err)
	}

	logger.Printf("%s", buildinfo.String())

	reg := metrics.New()
	hcfg := dashboard.HandlerConfig{
		Auditor:        audit.New(audit.Options{Logger: logger, Metrics: reg}),
		Metrics:        reg,
		Logger:         logger,
		MaxUploadBytes: cfg.Dashboard.MaxUploadBytes,
	}
	if d, err := fortiparse.ParseDialect(cfg.Dialect); err == nil {
		hcfg.DefaultDialect = d
	}

	if !cfg.NoHistory {
		store, err := history.Open(cfg.History.Driver, cfg.History.DSN)
		if err != nil {
			logger.Fatalf("open history: %v", err)
		}
		defer store.Close()
		hcfg.Store = store
		logger.Printf("History: %s %s", cfg.History.Driver, cfg.History.DSN)
	}

	handler := dashboard.NewHandler(hcfg)
	mux := http.NewServeMux()
	dashboard.RegisterRoutes(mux, handler)

	srv := &http.Server{
		Addr:              cfg.Dashboard.Listen,
		Handler:           dashboard.LogRequests(handler, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *socketPath != "" {
		ipcServer := ipc.NewServer(ipc.ServerConfig{
			SocketPath: *socketPath,
			Auditor:    hcfg.Auditor,
			Store:      hcfg.Store,
			Logger:     logger,
		})
		go func() {
			if err := ipcServer.Start(ctx); err != nil {
				logger.Printf("ipc: %v", err)
			}
		}()
		logger.Printf("IPC socket: %s", ipcServer.SocketPath())
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Printf("Listening on %s", cfg.Dashboard.Listen)
	fmt.Fprintf(os.Stderr, "Dashboard is localhost-only by default. Use -addr 0.0.0.0:8080 to expose.\n")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Printf("server error: %v", err)
		os.Exit(1)
	}
	logger.Printf("Stopped")
}

func envOrFlag(flagVal, envKey string) string {
	if flagVal != "" {
		return flagVal
	}
	return os.Getenv(envKey)
}
