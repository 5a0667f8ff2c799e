// Package client is a Go client for the Job Tracker API.
package client

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

	"job-tracker-backend/internal/domain"
)

const maxResponseBytes = 4 << 20 // 4 MiB

// APIError is any non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client calls the API with the shared secret. It never retries.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client. A nil httpClient gets a 15 second timeout.
func New(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id"`
}

func (c *Client) ListAll(ctx context.Context) ([]domain.Application, error) {
	var apps []domain.Application
	err := c.do(ctx, http.MethodGet, "/application/all", nil, &apps)
	return apps, err
}

func (c *Client) Get(ctx context.Context, applicationID string) (*domain.Application, error) {
	var app domain.Application
	if err := c.do(ctx, http.MethodGet, "/application/"+url.PathEscape(applicationID), nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *Client) ListByUser(ctx context.Context, userID string) ([]domain.Application, error) {
	var apps []domain.Application
	err := c.do(ctx, http.MethodGet, "/application/user/"+url.PathEscape(userID), nil, &apps)
	return apps, err
}

func (c *Client) Create(ctx context.Context, input domain.ApplicationInput) (*domain.Application, error) {
	var app domain.Application
	if err := c.do(ctx, http.MethodPost, "/application/", input, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// Update sends a merge-patch; nil fields are omitted from the body.
func (c *Client) Update(ctx context.Context, applicationID string, patch domain.ApplicationPatch) (*domain.Application, error) {
	var app domain.Application
	if err := c.do(ctx, http.MethodPut, "/application/"+url.PathEscape(applicationID), patch.Columns(), &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *Client) Delete(ctx context.Context, applicationID string) error {
	return c.do(ctx, http.MethodDelete, "/application/"+url.PathEscape(applicationID), nil, nil)
}

// DeleteByUser returns how many applications were removed.
func (c *Client) DeleteByUser(ctx context.Context, userID string) (int, error) {
	var res struct {
		Deleted int `json:"deleted"`
	}
	err := c.do(ctx, http.MethodDelete, "/application/user/"+url.PathEscape(userID), nil, &res)
	return res.Deleted, err
}

func (c *Client) Health(ctx context.Context) (*domain.HealthStatus, error) {
	var status domain.HealthStatus
	if err := c.do(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) Version(ctx context.Context) (string, error) {
	var v struct {
		Version string `json:"version"`
	}
	err := c.do(ctx, http.MethodGet, "/version", nil, &v)
	return v.Version, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(raw) > maxResponseBytes {
		return fmt.Errorf("response exceeds %d bytes", maxResponseBytes)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: env.Message, RequestID: env.RequestID}
		if decodeErr != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
