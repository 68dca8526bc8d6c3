// Package backend is the HTTP client for the document-search service. The
// service itself is opaque to this program: it returns a text result or an
// error, and exposes its conversation history as a flat append-only log.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"kb-console/internal/app"
	"kb-console/internal/chat"

	"github.com/google/uuid"
)

// Client holds the collaborator endpoints. The underlying HTTP client has no
// timeout: a hung send keeps the send control disabled until it resolves,
// which is the accepted behavior.
type Client struct {
	ServerURL   string
	HistoryPath string
	SearchPath  string
	ClearPath   string
	HTTP        *http.Client
	Log         *app.Logger
}

func NewClient(cfg app.Config, log *app.Logger) *Client {
	return &Client{
		ServerURL:   strings.TrimRight(cfg.ServerURL, "/"),
		HistoryPath: cfg.HistoryPath,
		SearchPath:  cfg.SearchPath,
		ClearPath:   cfg.ClearPath,
		HTTP:        &http.Client{},
		Log:         log,
	}
}

// APIError carries the error text the service returned with a non-2xx
// status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error: status %d: %s", e.Status, e.Message)
}

// UserMessage returns text safe to show verbatim in the transcript.
func (e *APIError) UserMessage() string {
	return e.Message
}

type searchRequest struct {
	Query  string `json:"query"`
	ChatID string `json:"chat_id"`
}

type searchResponse struct {
	Result string `json:"result"`
	Error  string `json:"error"`
}

// History fetches the full conversation log. Callers treat any failure as
// "no history": the sidebar degrades to empty rather than blocking the UI.
func (c *Client) History(ctx context.Context) ([]chat.Message, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ServerURL+c.HistoryPath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("history request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode}
	}

	var log []chat.Message
	if err := json.NewDecoder(resp.Body).Decode(&log); err != nil {
		return nil, fmt.Errorf("malformed history body: %w", err)
	}
	return log, nil
}

// Search sends one user query tagged with its chat id and returns the
// service's text result. A non-2xx response surfaces the service's error
// field through APIError; an empty result with a 2xx status is returned
// as-is for the caller to treat as a successful-but-empty outcome.
func (c *Client) Search(ctx context.Context, query, chatID string) (string, error) {
	requestID := uuid.NewString()

	payload, err := json.Marshal(searchRequest{Query: query, ChatID: chatID})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ServerURL+c.SearchPath, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	c.Log.Info("backend", "search request", map[string]interface{}{
		"request_id": requestID,
		"chat_id":    chatID,
	})

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Log.Error("backend", "search transport failure", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read search response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var er searchResponse
		_ = json.Unmarshal(body, &er)
		c.Log.Error("backend", "search rejected", map[string]interface{}{
			"request_id": requestID,
			"status":     resp.StatusCode,
			"error":      er.Error,
		})
		return "", &APIError{Status: resp.StatusCode, Message: er.Error}
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return "", fmt.Errorf("malformed search response: %w", err)
	}
	return sr.Result, nil
}

// ClearHistory asks the service to drop its conversational context. Failures
// are the caller's to log; they never surface as user-facing errors.
func (c *Client) ClearHistory(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ServerURL+c.ClearPath, nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("clear request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode}
	}
	return nil
}
