// Package postgrest provides an rpc adapter that calls database functions
// through a PostgREST endpoint, as exposed by Supabase at /rest/v1/rpc.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/leapstack-labs/gestcom/pkg/rpc"
)

// rpcPath is appended to the project URL to reach the function endpoint.
var rpcPath = []string{"rest", "v1", "rpc"}

// Adapter implements rpc.Adapter over HTTP.
type Adapter struct {
	Client *retryablehttp.Client
	Cfg    rpc.Config
	Logger *slog.Logger
}

// New creates a new PostgREST adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{Logger: logger}
}

// Name returns the registry name of the adapter.
func (a *Adapter) Name() string {
	return "postgrest"
}

// Connect validates the endpoint and builds the HTTP client.
// No request is sent until the first Invoke.
func (a *Adapter) Connect(_ context.Context, cfg rpc.Config) error {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return fmt.Errorf("invalid endpoint URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint URL %q: scheme must be http or https", cfg.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint URL %q: missing host", cfg.URL)
	}

	client := retryablehttp.NewClient()
	client.RetryMax = cfg.RetryMax
	client.Logger = a.Logger
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.HTTPClient.Timeout = cfg.Timeout

	a.Logger.Debug("postgrest endpoint configured",
		slog.String("host", u.Host),
		slog.Int("retry_max", cfg.RetryMax),
		slog.Duration("timeout", cfg.Timeout))

	a.Client = client
	a.Cfg = cfg
	return nil
}

// Close releases idle connections held by the client.
func (a *Adapter) Close() error {
	if a.Client != nil {
		a.Client.HTTPClient.CloseIdleConnections()
	}
	return nil
}

// Invoke posts params to the procedure endpoint and returns the response body.
func (a *Adapter) Invoke(ctx context.Context, procedure string, params rpc.Params) (json.RawMessage, error) {
	if a.Client == nil {
		return nil, rpc.ErrNotConnected
	}
	if params == nil {
		params = rpc.Params{}
	}

	endpoint, err := url.JoinPath(a.Cfg.URL, append(rpcPath, procedure)...)
	if err != nil {
		return nil, fmt.Errorf("failed to build endpoint for %s: %w", procedure, err)
	}

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode parameters for %s: %w", procedure, err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", procedure, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", a.Cfg.Key)
	req.Header.Set("Authorization", "Bearer "+a.Cfg.Key)
	req.Header.Set("X-Request-Id", requestID)
	if a.Cfg.Schema != "" {
		req.Header.Set("Content-Profile", a.Cfg.Schema)
		req.Header.Set("Accept-Profile", a.Cfg.Schema)
	}

	a.Logger.Debug("invoking procedure",
		slog.String("procedure", procedure),
		slog.String("request_id", requestID),
		slog.Any("params", params))

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, rpc.TransportError(procedure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, rpc.TransportError(procedure, fmt.Errorf("failed to read response: %w", err))
	}

	a.Logger.Debug("procedure returned",
		slog.String("procedure", procedure),
		slog.String("request_id", requestID),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(data)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseRemoteError(procedure, resp.StatusCode, data)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(data) {
		return nil, rpc.TransportError(procedure, fmt.Errorf("response is not valid JSON"))
	}
	return json.RawMessage(data), nil
}

// errorBody is the PostgREST error document.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func parseRemoteError(procedure string, status int, data []byte) error {
	remote := &rpc.RemoteError{Procedure: procedure, Status: status}

	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		remote.Code = body.Code
		remote.Message = body.Message
		remote.Details = body.Details
		remote.Hint = body.Hint
		return remote
	}

	if text := bytes.TrimSpace(data); len(text) > 0 {
		remote.Message = string(text)
	} else {
		remote.Message = http.StatusText(status)
	}
	return remote
}
