package session

import (
	"context"
	"log"
	"sync"

	"github.com/chicbot/chicbot/internal/assistant"
)

// Correlator owns the opaque session token the backend uses to retain
// multi-turn context. The token survives conversation switches; only Reset
// clears it.
type Correlator struct {
	client assistant.Client

	mu    sync.Mutex
	token string
}

func NewCorrelator(client assistant.Client) *Correlator {
	return &Correlator{client: client}
}

// Token returns the current session token, or "" before the first successful
// exchange.
func (c *Correlator) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Adopt records a token returned by a successful backend exchange. An empty
// token means the server-side session is unchanged and is ignored.
func (c *Correlator) Adopt(token string) {
	if token == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Reset asks the backend to discard server-side context, then clears the
// local token unconditionally. Local state never depends on network
// reachability to reset cleanly.
func (c *Correlator) Reset(ctx context.Context) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	if err := c.client.Reset(ctx, token); err != nil {
		log.Printf("Warning: backend session reset failed: %v", err)
	}

	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}
