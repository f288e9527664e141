package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/logger"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

// API paths served by the bundler backend.
const (
	pathAnalytics       = "/api/analytics"
	pathExport          = "/api/analytics/export"
	pathMonitoringStart = "/api/monitoring/start"
	pathMonitoringStop  = "/api/monitoring/stop"
)

// maxResponseBytes caps what is read from the backend.
const maxResponseBytes = 32 << 20

// APIError is a failure reported by the backend, either through a non-2xx
// status or an envelope with success=false.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 && e.StatusCode != http.StatusOK {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return "backend error: " + e.Message
}

// HTTP fetches snapshots from the bundler backend's REST API. Responses use
// the envelope {"success": bool, "data": ..., "error": string}.
type HTTP struct {
	client  *http.Client
	baseURL string
	headers map[string]string
}

// HTTPOption configures an HTTP provider.
type HTTPOption func(*HTTP)

// WithHTTPTimeout sets the per-request timeout.
func WithHTTPTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) { h.client.Timeout = d }
}

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTP) { h.client = c }
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) HTTPOption {
	return func(h *HTTP) { h.headers[key] = value }
}

// NewHTTP creates a provider for the backend at baseURL.
func NewHTTP(baseURL string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GetMetrics requests the snapshot for r.
func (h *HTTP) GetMetrics(ctx context.Context, r metrics.TimeRange) (*metrics.Snapshot, error) {
	q := url.Values{}
	q.Set("period", string(r.Period))
	q.Set("start", r.Start.UTC().Format(time.RFC3339))
	q.Set("end", r.End.UTC().Format(time.RFC3339))
	q.Set("granularity", r.Granularity.String())

	data, err := h.call(ctx, http.MethodGet, pathAnalytics+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var snap metrics.Snapshot
	if err := json.Unmarshal([]byte(data.Raw), &snap); err != nil {
		return nil, fmt.Errorf("decode analytics: %w", err)
	}
	if snap.Range.Start.IsZero() {
		snap.Range = r
	}
	return &snap, nil
}

type exportRequest struct {
	Format  analytics.ExportFormat `json:"format"`
	Period  metrics.Period         `json:"period"`
	Start   time.Time              `json:"start"`
	End     time.Time              `json:"end"`
	Metrics []analytics.Category   `json:"metrics"`
}

// ExportMetrics asks the backend to serialize the selection. A string payload
// is returned as-is; an object payload is returned as its JSON text.
func (h *HTTP) ExportMetrics(ctx context.Context, opts analytics.ExportOptions) ([]byte, error) {
	body, err := json.Marshal(exportRequest{
		Format:  opts.Format,
		Period:  opts.Range.Period,
		Start:   opts.Range.Start.UTC(),
		End:     opts.Range.End.UTC(),
		Metrics: opts.Metrics,
	})
	if err != nil {
		return nil, err
	}

	data, err := h.call(ctx, http.MethodPost, pathExport, body)
	if err != nil {
		return nil, err
	}
	if data.Type == gjson.String {
		return []byte(data.Str), nil
	}
	return []byte(data.Raw), nil
}

// StartMonitoring asks the backend to begin live monitoring. Failures are
// logged; monitoring is best effort.
func (h *HTTP) StartMonitoring(ctx context.Context) {
	if _, err := h.call(ctx, http.MethodPost, pathMonitoringStart, nil); err != nil {
		logger.Warn("Failed to start backend monitoring", "error", err)
	}
}

// StopMonitoring asks the backend to stop live monitoring.
func (h *HTTP) StopMonitoring() {
	ctx, cancel := context.WithTimeout(context.Background(), h.client.Timeout)
	defer cancel()
	if _, err := h.call(ctx, http.MethodPost, pathMonitoringStop, nil); err != nil {
		logger.Warn("Failed to stop backend monitoring", "error", err)
	}
}

// call performs a request and unwraps the envelope, returning its data field.
func (h *HTTP) call(ctx context.Context, method, path string, body []byte) (gjson.Result, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range h.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("read response: %w", err)
	}
	logger.Debug("Backend request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	return unwrapEnvelope(resp.StatusCode, raw)
}

func unwrapEnvelope(status int, raw []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(raw) {
		if status < 200 || status >= 300 {
			return gjson.Result{}, &APIError{StatusCode: status, Message: strings.TrimSpace(string(raw))}
		}
		return gjson.Result{}, fmt.Errorf("invalid JSON response")
	}

	env := gjson.ParseBytes(raw)
	success := env.Get("success")
	if status < 200 || status >= 300 || (success.Exists() && !success.Bool()) {
		msg := env.Get("error").String()
		if msg == "" {
			msg = http.StatusText(status)
		}
		return gjson.Result{}, &APIError{StatusCode: status, Message: msg}
	}
	if !success.Exists() {
		return env, nil
	}
	return env.Get("data"), nil
}

var _ analytics.Provider = (*HTTP)(nil)
