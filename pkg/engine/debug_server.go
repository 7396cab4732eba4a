package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/fiber/pkg/core"
)

const debugQueryTimeout = 2 * time.Second

// DebugServer serves engine state as JSON:
//
//	/health   liveness
//	/tree     committed fiber tree and, when configured, the output tree
//	/cycles   recent render cycle statistics
//	/runtime  Go heap and GC counters
type DebugServer struct {
	runner *Runner
	output func() any

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// TreeResponse is the /tree response shape.
type TreeResponse struct {
	Fibers core.FiberInfo `json:"fibers"`
	Output any            `json:"output,omitempty"`
}

// RuntimeSample captures runtime memory and GC stats.
type RuntimeSample struct {
	Timestamp    int64  `json:"ts"`
	Goroutines   int    `json:"goroutines"`
	HeapAlloc    uint64 `json:"heapAlloc"`
	HeapInuse    uint64 `json:"heapInuse"`
	NumGC        uint32 `json:"numGC"`
	PauseTotalNs uint64 `json:"pauseTotalNs"`
}

// NewDebugServer creates a server for r. output, if non-nil, is called on
// the loop goroutine and its result is served under "output" in /tree.
func NewDebugServer(r *Runner, output func() any) *DebugServer {
	return &DebugServer{runner: r, output: output}
}

// Start listens on localhost:port and serves in the background. It returns
// the bound port, which is useful when port is 0.
func (s *DebugServer) Start(port int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return s.listener.Addr().(*net.TCPAddr).Port, nil
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return 0, fmt.Errorf("debug server listen: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /tree", s.handleTree)
	mux.HandleFunc("GET /cycles", s.handleCycles)
	mux.HandleFunc("GET /runtime", s.handleRuntime)

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	s.server = server
	s.listener = listener

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.mu.Lock()
			s.server = nil
			s.listener = nil
			s.mu.Unlock()
			Logger().Error("debug server failed", zap.Error(err))
		}
	}()

	actual := listener.Addr().(*net.TCPAddr).Port
	Logger().Info("debug server listening", zap.Int("port", actual))
	return actual, nil
}

// Stop shuts the server down gracefully.
func (s *DebugServer) Stop() {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		Logger().Warn("debug server shutdown", zap.Error(err))
	}
}

func (s *DebugServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *DebugServer) handleTree(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), debugQueryTimeout)
	defer cancel()

	var (
		resp TreeResponse
		ok   bool
	)
	err := s.runner.Query(ctx, func(e *core.Engine) {
		resp.Fibers, ok = e.Inspect()
		if ok && s.output != nil {
			resp.Output = s.output()
		}
	})
	if err != nil {
		http.Error(w, fmt.Sprintf("query engine: %v", err), http.StatusServiceUnavailable)
		return
	}
	if !ok {
		http.Error(w, "no committed tree", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, resp)
}

func (s *DebugServer) handleCycles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.runner.Engine().Trace().Snapshot())
}

func (s *DebugServer) handleRuntime(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, readRuntimeSample())
}

func readRuntimeSample() RuntimeSample {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return RuntimeSample{
		Timestamp:    time.Now().UnixMilli(),
		Goroutines:   runtime.NumGoroutine(),
		HeapAlloc:    stats.HeapAlloc,
		HeapInuse:    stats.HeapInuse,
		NumGC:        stats.NumGC,
		PauseTotalNs: stats.PauseTotalNs,
	}
}

// writeJSON encodes to a buffer first so encoding errors become a 500.
func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
