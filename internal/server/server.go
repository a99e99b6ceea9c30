package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/minio/highwayhash"

	"github.com/spektr-org/spektr-viz/engine"
	"github.com/spektr-org/spektr-viz/internal/config"
	"github.com/spektr-org/spektr-viz/internal/logging"
	"github.com/spektr-org/spektr-viz/internal/telemetry"
)

// ============================================================================
// HTTP SERVER — JSON front for the engine
// ============================================================================
//   POST /v1/charts            {dataset, config} → engine.Result
//   POST /v1/charts/default    {dataset}         → engine.ChartConfig
//   POST /v1/dimension-values  {dataset, key}    → [values]
//   GET  /v1/healthz
//   GET  /metrics              (server.metrics = true)
// ============================================================================

const maxBodyBytes = 10 << 20

// etagKey seeds the response fingerprint; highwayhash needs exactly 32 bytes.
var etagKey = func() []byte {
	k := make([]byte, highwayhash.Size)
	copy(k, "spektr-viz response etag")
	return k
}()

// Server serves chart requests.
type Server struct {
	cfg     config.Config
	metrics *telemetry.Metrics
	mux     *http.ServeMux
}

// New wires the routes. metrics may be nil.
func New(cfg config.Config, metrics *telemetry.Metrics) *Server {
	s := &Server{cfg: cfg, metrics: metrics, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /v1/charts", s.handleChart)
	s.mux.HandleFunc("POST /v1/charts/default", s.handleDefault)
	s.mux.HandleFunc("POST /v1/dimension-values", s.handleDimensionValues)
	s.mux.HandleFunc("GET /v1/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Server.Metrics && metrics != nil {
		s.mux.Handle("GET /metrics", metrics.Handler())
	}
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logging.L().Info("🌐 spektr-viz: listening", "addr", srv.Addr, "metrics", s.cfg.Server.Metrics)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// ============================================================================
// HANDLERS
// ============================================================================

type chartRequest struct {
	Dataset json.RawMessage    `json:"dataset"`
	Config  engine.ChartConfig `json:"config"`
	Key     string             `json:"key,omitempty"`
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ds, err := s.decode(w, r)
	if err != nil {
		if errors.Is(err, engine.ErrValidation) {
			s.metrics.Observe(req.Config.ChartType, start, err)
		}
		return
	}

	chart := s.cfg.Chart.ApplyTo(req.Config)
	result, err := engine.Execute(ds, chart, s.cfg.Chart.EngineOptions()...)
	s.metrics.Observe(chart.ChartType, start, err)
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		writeError(w, fmt.Errorf("encode result: %w", err))
		return
	}
	etag := `"` + strconv.FormatUint(highwayhash.Sum64(body, etagKey), 16) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	_, ds, err := s.decode(w, r)
	if err != nil {
		return
	}
	chart, err := engine.DefaultChartConfig(ds.Headers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.cfg.Chart.ApplyTo(chart))
}

func (s *Server) handleDimensionValues(w http.ResponseWriter, r *http.Request) {
	req, ds, err := s.decode(w, r)
	if err != nil {
		return
	}
	if req.Key == "" {
		writeError(w, &engine.ConfigError{Field: "key", Reason: "a field key is required"})
		return
	}
	writeJSON(w, http.StatusOK, engine.DimensionValues(ds, req.Key))
}

// decode reads the request body and runs the dataset shape check. On error
// the response has already been written.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (chartRequest, *engine.Dataset, error) {
	var req chartRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request: " + err.Error(), Kind: "request"})
		return req, nil, err
	}
	ds, err := engine.ParseDataset(req.Dataset)
	if err != nil {
		writeError(w, err)
		return req, nil, err
	}
	return req, ds, nil
}

// ============================================================================
// RESPONSES
// ============================================================================

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// writeError maps engine errors to status codes and surfaces the message verbatim.
func writeError(w http.ResponseWriter, err error) {
	kind := telemetry.ErrorKind(err)
	status := http.StatusInternalServerError
	switch kind {
	case "validation":
		status = http.StatusBadRequest
	case "config":
		status = http.StatusUnprocessableEntity
	default:
		logging.L().Error("❌ spektr-viz: request failed", "err", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error(), Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
