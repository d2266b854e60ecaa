package health

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"elekable/internal/httputil"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	pool        *pgxpool.Pool
	startedAt   time.Time
	httpAddr    string
	internalTok string
}

func NewHandler(pool *pgxpool.Pool, startedAt time.Time, httpAddr, internalToken string) *Handler {
	start := startedAt.UTC()
	if start.IsZero() {
		start = time.Now().UTC()
	}
	return &Handler{
		pool:        pool,
		startedAt:   start,
		httpAddr:    strings.TrimSpace(httpAddr),
		internalTok: strings.TrimSpace(internalToken),
	}
}

type dbStatus struct {
	Reachable bool   `json:"reachable"`
	PingMs    int64  `json:"ping_ms"`
	Error     string `json:"error,omitempty"`
	CheckedAt string `json:"checked_at"`
}

type liveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	UptimeSec int64  `json:"uptime_sec"`
}

type readinessResponse struct {
	Status    string   `json:"status"`
	Timestamp string   `json:"timestamp"`
	UptimeSec int64    `json:"uptime_sec"`
	Database  dbStatus `json:"database"`
}

type fullResponse struct {
	Status     string    `json:"status"`
	Timestamp  string    `json:"timestamp"`
	UptimeSec  int64     `json:"uptime_sec"`
	HTTPAddr   string    `json:"http_addr"`
	PID        int       `json:"pid"`
	Hostname   string    `json:"hostname"`
	GoVersion  string    `json:"go_version"`
	Goroutines int       `json:"goroutines"`
	AllocBytes uint64    `json:"alloc_bytes"`
	NumGC      uint32    `json:"num_gc"`
	Database   dbStatus  `json:"database"`
	Pool       poolStats `json:"pool"`
}

type poolStats struct {
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	MaxConns      int32 `json:"max_conns"`
}

func (h *Handler) uptime(now time.Time) int64 {
	uptime := now.Sub(h.startedAt)
	if uptime < 0 {
		return 0
	}
	return int64(uptime.Seconds())
}

func (h *Handler) requireInternalToken(w http.ResponseWriter, r *http.Request) bool {
	if h.internalTok == "" {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.ErrorResponse{Error: "internal token is not configured"})
		return false
	}
	provided := strings.TrimSpace(r.Header.Get("X-Internal-Token"))
	if len(provided) != len(h.internalTok) || subtle.ConstantTimeCompare([]byte(provided), []byte(h.internalTok)) != 1 {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "invalid internal token"})
		return false
	}
	return true
}

func (h *Handler) checkDB(ctx context.Context) dbStatus {
	status := dbStatus{CheckedAt: time.Now().UTC().Format(time.RFC3339)}
	if h.pool == nil {
		status.Error = "pool is not configured"
		return status
	}
	pingCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	start := time.Now()
	err := h.pool.Ping(pingCtx)
	status.PingMs = time.Since(start).Milliseconds()
	status.CheckedAt = time.Now().UTC().Format(time.RFC3339)
	if err != nil {
		status.Error = err.Error()
	} else {
		status.Reachable = true
	}
	return status
}

// Live does not touch the database.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	httputil.WriteJSON(w, http.StatusOK, liveResponse{
		Status:    "ok",
		Timestamp: now.Format(time.RFC3339),
		UptimeSec: h.uptime(now),
	})
}

// Ready checks the database and returns 503 when it is unreachable.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	db := h.checkDB(r.Context())
	status, httpStatus := "ok", http.StatusOK
	if !db.Reachable {
		status, httpStatus = "degraded", http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, httpStatus, readinessResponse{
		Status:    status,
		Timestamp: now.Format(time.RFC3339),
		UptimeSec: h.uptime(now),
		Database:  db,
	})
}

// Full returns process diagnostics and is protected by X-Internal-Token.
func (h *Handler) Full(w http.ResponseWriter, r *http.Request) {
	if !h.requireInternalToken(w, r) {
		return
	}
	now := time.Now().UTC()
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	db := h.checkDB(r.Context())
	pool := poolStats{}
	if h.pool != nil {
		stat := h.pool.Stat()
		pool = poolStats{
			TotalConns:    stat.TotalConns(),
			IdleConns:     stat.IdleConns(),
			AcquiredConns: stat.AcquiredConns(),
			MaxConns:      stat.MaxConns(),
		}
	}
	host, _ := os.Hostname()
	status, httpStatus := "ok", http.StatusOK
	if !db.Reachable {
		status, httpStatus = "degraded", http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, httpStatus, fullResponse{
		Status:     status,
		Timestamp:  now.Format(time.RFC3339),
		UptimeSec:  h.uptime(now),
		HTTPAddr:   h.httpAddr,
		PID:        os.Getpid(),
		Hostname:   host,
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
		AllocBytes: mem.Alloc,
		NumGC:      mem.NumGC,
		Database:   db,
		Pool:       pool,
	})
}

// Metrics serves plaintext gauges and is protected by X-Internal-Token.
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	if !h.requireInternalToken(w, r) {
		return
	}
	now := time.Now().UTC()
	db := h.checkDB(r.Context())
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	dbUp := 0
	if db.Reachable {
		dbUp = 1
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "elekable_up 1\n")
	_, _ = fmt.Fprintf(w, "elekable_uptime_seconds %d\n", h.uptime(now))
	_, _ = fmt.Fprintf(w, "elekable_db_up %d\n", dbUp)
	_, _ = fmt.Fprintf(w, "elekable_db_ping_milliseconds %d\n", db.PingMs)
	_, _ = fmt.Fprintf(w, "elekable_go_goroutines %d\n", runtime.NumGoroutine())
	_, _ = fmt.Fprintf(w, "elekable_go_mem_alloc_bytes %d\n", mem.Alloc)
	_, _ = fmt.Fprintf(w, "elekable_go_gc_count %d\n", mem.NumGC)
	if h.pool != nil {
		stat := h.pool.Stat()
		_, _ = fmt.Fprintf(w, "elekable_db_pool_total_conns %d\n", stat.TotalConns())
		_, _ = fmt.Fprintf(w, "elekable_db_pool_idle_conns %d\n", stat.IdleConns())
		_, _ = fmt.Fprintf(w, "elekable_db_pool_acquired_conns %d\n", stat.AcquiredConns())
		_, _ = fmt.Fprintf(w, "elekable_db_pool_max_conns %d\n", stat.MaxConns())
	}
}
