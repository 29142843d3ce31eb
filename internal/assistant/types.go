// Package assistant defines the ChicBot backend contract and an HTTP client for it.
package assistant

import (
	"context"

	"github.com/shopspring/decimal"
)

// Client is the outbound contract to the assistant backend. Chat performs a
// single attempt; callers must not assume the operation is idempotent.
type Client interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Reset(ctx context.Context, sessionToken string) error
}

// ChatRequest carries one user message. SessionToken, when present, lets the
// backend retain multi-turn context across requests.
type ChatRequest struct {
	Message      string `json:"message"`
	SessionToken string `json:"sessionToken,omitempty"`
}

// ChatResponse is a successful backend reply. SessionToken is absent when the
// server-side session is unchanged. Error is populated when the backend
// rejected the request despite responding with a well-formed body.
type ChatResponse struct {
	Reply        string       `json:"reply"`
	SessionToken string       `json:"sessionToken,omitempty"`
	Results      []ResultItem `json:"results,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// ResultItem is a product match returned alongside a reply. The session core
// passes these through to presentation untouched.
type ResultItem struct {
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Color     string          `json:"color"`
	ImageURLs []string        `json:"imageUrls,omitempty"`
	DetailURL string          `json:"detailUrl"`
}

type resetRequest struct {
	SessionToken string `json:"sessionToken,omitempty"`
}
