// Package client is a Go client for the task API plus an explicit state
// store that front ends hold instead of a global.
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
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/services"
	"github.com/google/uuid"
)

// APIError is a failure envelope returned by the server.
type APIError struct {
	Status  int
	Message string
	Fields  []apperr.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a client for baseURL (e.g. http://localhost:8080). A nil
// httpClient gets a 15s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env struct {
		Data    json.RawMessage     `json:"data"`
		Error   string              `json:"error"`
		Errors  []apperr.FieldError `json:"errors"`
		Success bool                `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{Status: resp.StatusCode, Message: "malformed response: " + err.Error()}
	}
	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		return &APIError{Status: resp.StatusCode, Message: env.Error, Fields: env.Errors}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// Signup registers and keeps the access token for later calls.
func (c *Client) Signup(ctx context.Context, req dto.SignupRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", req, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.AccessToken)
	return &out, nil
}

// Login signs in and keeps the access token for later calls.
func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.AccessToken)
	return &out, nil
}

func (c *Client) ListTasks(ctx context.Context, query url.Values) ([]dto.TaskView, error) {
	path := "/api/tasks"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var out struct {
		Tasks []dto.TaskView `json:"tasks"`
	}
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out.Tasks, err
}

func (c *Client) CreateTask(ctx context.Context, req dto.TaskRequest) (*dto.TaskView, error) {
	var out struct {
		Task dto.TaskView `json:"task"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/tasks", req, &out); err != nil {
		return nil, err
	}
	return &out.Task, nil
}

func (c *Client) PatchTask(ctx context.Context, id uuid.UUID, req dto.TaskPatchRequest) (*services.TaskResult, error) {
	var out services.TaskResult
	if err := c.do(ctx, http.MethodPatch, "/api/tasks/"+id.String(), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+id.String(), nil, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out struct {
		Categories []models.Category `json:"categories"`
	}
	err := c.do(ctx, http.MethodGet, "/api/categories", nil, &out)
	return out.Categories, err
}

func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/user", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) SaveSettings(ctx context.Context, req dto.SettingsRequest) (*models.UserSettings, error) {
	var out struct {
		Settings models.UserSettings `json:"settings"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/user/settings", req, &out); err != nil {
		return nil, err
	}
	return &out.Settings, nil
}

func (c *Client) Activity(ctx context.Context, days int) (*dto.ActivityResponse, error) {
	var out dto.ActivityResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/user/activity?days=%d", days), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
