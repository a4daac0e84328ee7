// Package health serves liveness probes and the latest run report for
// long-running pipeline processes.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

var (
	reportMu   sync.RWMutex
	lastReport any
	lastRunAt  time.Time
)

// SetReport stores the most recent run report for the /report endpoint.
func SetReport(report any) {
	reportMu.Lock()
	defer reportMu.Unlock()
	lastReport = report
	lastRunAt = time.Now().UTC()
}

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("pong\n"))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func handleReport(w http.ResponseWriter, r *http.Request) {
	reportMu.RLock()
	report := lastReport
	runAt := lastRunAt
	reportMu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if report == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"run_at": runAt,
		"report": report,
	})
}

// Run starts the health server in the background and shuts it down when ctx
// is cancelled.
func Run(ctx context.Context, addr, service string, readHeaderTimeout time.Duration) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", handlePing)
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/report", handleReport)

	if readHeaderTimeout <= 0 {
		readHeaderTimeout = 5 * time.Second
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		slog.Info("Health server listening", "service", service, "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Health server error", "service", service, "error", err)
		}
	}()
}

func AddrFor(port int) string {
	return fmt.Sprintf(":%d", port)
}
