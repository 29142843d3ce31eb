package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/chicbot/chicbot/internal/telemetry"
)

// maxResponseBytes bounds how much of a response body is read. Backend
// replies are small; anything larger is malformed.
const maxResponseBytes = 1 << 20

// ServerError is a well-formed backend response flagged as an error, as
// opposed to a transport-level failure. Keeping the two distinct lets
// failures be attributed during diagnosis.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("assistant backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("assistant backend returned status %d: %s", e.StatusCode, e.Message)
}

// HTTPClient implements Client against the ChicBot HTTP API.
type HTTPClient struct {
	baseURL string
	httpc   *http.Client
	tracer  trace.Tracer
}

func NewHTTPClient(baseURL string, httpc *http.Client) *HTTPClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
		tracer:  telemetry.Tracer("assistant"),
	}
}

// Chat sends one message to the backend. Transport failures are returned
// wrapped; backend rejections (non-2xx status or a populated error field) are
// returned as *ServerError.
func (c *HTTPClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	ctx, span := c.tracer.Start(ctx, "assistant.chat")
	defer span.End()

	status, body, err := c.post(ctx, "/api/chat", req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("chat request failed: %w", err)
	}

	var resp ChatResponse
	decodeErr := json.Unmarshal(body, &resp)

	if status != http.StatusOK {
		msg := resp.Error
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return nil, &ServerError{StatusCode: status, Message: msg}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", decodeErr)
	}
	if resp.Error != "" {
		return nil, &ServerError{StatusCode: status, Message: resp.Error}
	}

	span.SetAttributes(attribute.Int("chat.results", len(resp.Results)))
	return &resp, nil
}

// Reset asks the backend to discard the server-side context associated with
// the given session token. The response body carries no payload.
func (c *HTTPClient) Reset(ctx context.Context, sessionToken string) error {
	ctx, span := c.tracer.Start(ctx, "assistant.reset")
	defer span.End()

	status, body, err := c.post(ctx, "/api/reset", resetRequest{SessionToken: sessionToken})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("reset request failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return &ServerError{StatusCode: status, Message: strings.TrimSpace(string(body))}
	}
	return nil
}

// Health probes the backend's health endpoint. Failures are informational
// only; callers use this to warn about an unreachable backend up front.
func (c *HTTPClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return &ServerError{StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}
