// Package api implements the HTTP client for the dashboard backend.
// All methods are context-aware and respect the shared rate limiter.
// Requests are attempted once; every failure, whether the transport broke or
// the server refused, comes back as a *Failure carrying a user-facing message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/derickschaefer/bidash/internal/model"
	"github.com/derickschaefer/bidash/internal/util"
)

const (
	// DefaultBaseURL is where the development backend listens.
	DefaultBaseURL = "http://localhost:5000/api"

	// GenericMessage is shown when the server did not explain a failure.
	GenericMessage = "An error occurred"
)

// Failure is the single error shape returned by Client.
// Status is the HTTP status, or 0 when no response was received.
type Failure struct {
	Status  int
	Message string
	Err     error
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Err }

// Message returns the user-facing text for err: the Failure message when err
// is (or wraps) a *Failure, GenericMessage otherwise.
func Message(err error) string {
	var f *Failure
	if errors.As(err, &f) && f.Message != "" {
		return f.Message
	}
	return GenericMessage
}

// Client is the dashboard backend HTTP client.
type Client struct {
	baseURL    string
	sessionID  string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	debug      bool
}

// NewClient creates a Client. A ratePerSec of zero or less disables limiting.
func NewClient(baseURL, sessionID string, timeout time.Duration, ratePerSec float64, debug bool) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limit := rate.Inf
	burst := 1
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
		if b := int(ratePerSec); b > 1 {
			burst = b
		}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		sessionID:  sessionID,
		userAgent:  "bidash-cli/1.0",
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		debug:      debug,
	}
}

// SetUserAgent overrides the User-Agent header sent with every request.
func (c *Client) SetUserAgent(ua string) {
	c.userAgent = ua
}

// BaseURL returns the normalised backend root (no trailing slash).
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ─── Endpoints ────────────────────────────────────────────────────────────────

// FetchKpis retrieves the KPI summary from GET /kpis.
func (c *Client) FetchKpis(ctx context.Context) (model.KpiSnapshot, error) {
	var k model.KpiSnapshot
	if err := c.do(ctx, http.MethodGet, "kpis", nil, &k); err != nil {
		return model.KpiSnapshot{}, err
	}
	return k, nil
}

// FetchChart retrieves the series for kind from GET /chart/{kind}.
func (c *Client) FetchChart(ctx context.Context, kind model.ChartKind) (model.ChartDataset, error) {
	var points []model.Row
	if err := c.do(ctx, http.MethodGet, "chart/"+kind.String(), nil, &points); err != nil {
		return model.ChartDataset{}, err
	}
	if points == nil {
		points = []model.Row{}
	}
	return model.ChartDataset{
		Kind:      kind,
		Points:    points,
		FetchedAt: time.Now(),
	}, nil
}

// ExecuteQuery sends a natural-language question to POST /query and returns
// the generated SQL with its rows.
func (c *Client) ExecuteQuery(ctx context.Context, text string) (model.QueryResult, error) {
	body := struct {
		Query string `json:"query"`
	}{text}

	var res model.QueryResult
	if err := c.do(ctx, http.MethodPost, "query", body, &res); err != nil {
		return model.QueryResult{}, err
	}
	if res.Rows == nil {
		res.Rows = []model.Row{}
	}
	return res, nil
}

// ─── Low-level HTTP ───────────────────────────────────────────────────────────

// do performs one request against endpoint, decoding a 2xx body into out.
func (c *Client) do(ctx context.Context, method, endpoint string, in, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &Failure{Message: GenericMessage, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	reqURL := c.baseURL + "/" + endpoint

	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &Failure{Message: GenericMessage, Err: fmt.Errorf("encoding request: %w", err)}
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return &Failure{Message: GenericMessage, Err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sessionID != "" {
		req.Header.Set("X-Session-ID", c.sessionID)
	}

	if c.debug {
		slog.Debug("backend request", "method", method, "url", reqURL, "session_id", c.sessionID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Failure{Message: GenericMessage, Err: fmt.Errorf("http: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Failure{Status: resp.StatusCode, Message: GenericMessage, Err: fmt.Errorf("reading body: %w", err)}
	}

	if c.debug {
		slog.Debug("backend response",
			"status", resp.StatusCode,
			"bytes", len(body),
			"elapsed_ms", time.Since(start).Milliseconds(),
			"session_id", c.sessionID,
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Failure{
			Status:  resp.StatusCode,
			Message: serverMessage(body),
			Err:     fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet(body)),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &Failure{Status: resp.StatusCode, Message: GenericMessage, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// serverMessage extracts the backend's explanation from an error body.
// It prefers "error", then "message", then GenericMessage.
func serverMessage(body []byte) string {
	var apiErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &apiErr); err != nil {
		return GenericMessage
	}
	if s := strings.TrimSpace(apiErr.Error); s != "" {
		return s
	}
	if s := strings.TrimSpace(apiErr.Message); s != "" {
		return s
	}
	return GenericMessage
}

func snippet(body []byte) string {
	return util.Truncate(strings.TrimSpace(string(body)), 200)
}
