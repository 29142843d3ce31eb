package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_Success(t *testing.T) {
	var gotReq ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"reply": "Here are some options",
			"sessionToken": "sess-1",
			"results": [{
				"name": "Midi Dress",
				"price": 49.99,
				"currency": "EUR",
				"color": "black",
				"imageUrls": ["https://img.example/1.jpg"],
				"detailUrl": "https://shop.example/midi"
			}]
		}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, nil)
	resp, err := client.Chat(context.Background(), ChatRequest{Message: "black dress", SessionToken: "prev"})
	require.NoError(t, err)

	assert.Equal(t, "black dress", gotReq.Message)
	assert.Equal(t, "prev", gotReq.SessionToken)

	assert.Equal(t, "Here are some options", resp.Reply)
	assert.Equal(t, "sess-1", resp.SessionToken)
	require.Len(t, resp.Results, 1)
	item := resp.Results[0]
	assert.Equal(t, "Midi Dress", item.Name)
	assert.True(t, item.Price.Equal(decimal.RequireFromString("49.99")), "price %s", item.Price)
	assert.Equal(t, "EUR", item.Currency)
	assert.Equal(t, "black", item.Color)
	assert.Equal(t, "https://shop.example/midi", item.DetailURL)
}

func TestChat_OmitsAbsentSessionToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, present := raw["sessionToken"]
		assert.False(t, present, "sessionToken should be omitted before the first exchange")
		_, _ = w.Write([]byte(`{"reply": "hi"}`))
	}))
	defer server.Close()

	_, err := NewHTTPClient(server.URL, nil).Chat(context.Background(), ChatRequest{Message: "hello"})
	require.NoError(t, err)
}

func TestChat_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "pipeline exploded"}`))
	}))
	defer server.Close()

	_, err := NewHTTPClient(server.URL, nil).Chat(context.Background(), ChatRequest{Message: "hello"})

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusInternalServerError, serverErr.StatusCode)
	assert.Equal(t, "pipeline exploded", serverErr.Message)
}

func TestChat_ErrorFieldInSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "message cannot be empty"}`))
	}))
	defer server.Close()

	_, err := NewHTTPClient(server.URL, nil).Chat(context.Background(), ChatRequest{Message: "hello"})

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "message cannot be empty", serverErr.Message)
}

func TestChat_TransportFailureIsNotServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // Refuse connections

	_, err := NewHTTPClient(server.URL, nil).Chat(context.Background(), ChatRequest{Message: "hello"})

	require.Error(t, err)
	var serverErr *ServerError
	assert.False(t, errors.As(err, &serverErr))
}

func TestChat_MalformedSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{truncated`))
	}))
	defer server.Close()

	_, err := NewHTTPClient(server.URL, nil).Chat(context.Background(), ChatRequest{Message: "hello"})
	require.Error(t, err)
	var serverErr *ServerError
	assert.False(t, errors.As(err, &serverErr))
}

func TestReset(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/reset", r.URL.Path)
		var raw map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		gotToken = raw["sessionToken"]
	}))
	defer server.Close()

	err := NewHTTPClient(server.URL, nil).Reset(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", gotToken)
}

func TestReset_FailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewHTTPClient(server.URL, nil).Reset(context.Background(), "sess-1")

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, http.StatusBadGateway, serverErr.StatusCode)
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	}))
	defer server.Close()

	assert.NoError(t, NewHTTPClient(server.URL, nil).Health(context.Background()))
}

func TestHealth_Unhealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	assert.Error(t, NewHTTPClient(server.URL, nil).Health(context.Background()))
}
