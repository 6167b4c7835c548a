package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Client talks to the remote sync endpoints over HTTP with a bearer token.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the sync server at baseURL. The HTTP
// timeout also bounds how long a sync operation can hold the single-flight
// lock on a hung connection.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Push implements Remote.Push via POST /sync/push.
func (c *Client) Push(ctx context.Context, token string, pushReq *PushRequest) (*PushResponse, error) {
	data, err := json.Marshal(pushReq)
	if err != nil {
		return nil, &PushError{Err: fmt.Errorf("failed to marshal request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sync/push", bytes.NewReader(data))
	if err != nil {
		return nil, &PushError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &PushError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &PushError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out PushResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &PushError{Err: fmt.Errorf("failed to decode response: %v", err)}
	}
	return &out, nil
}

// Pull implements Remote.Pull via GET /sync/pull?lastSyncedAt=.
func (c *Client) Pull(ctx context.Context, token string, since int64) (*PullResponse, error) {
	url := c.baseURL + "/sync/pull?lastSyncedAt=" + strconv.FormatInt(since, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &PullError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &PullError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &PullError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out PullResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &PullError{Err: fmt.Errorf("failed to decode response: %v", err)}
	}
	return &out, nil
}
