package api

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

	"github.com/taskdeck/taskdeck/internal/model"
)

// Client talks to the task backend. Mutating and listing calls attach the
// bearer token set after login; auth calls go out bare.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) Login(ctx context.Context, email, password string) (model.Session, error) {
	resp, err := c.send(ctx, http.MethodPost, "/login", loginRequest{Email: email, Password: password}, false)
	if err != nil {
		return model.Session{}, fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Session{}, decodeError(resp, "Failed to login")
	}

	var session model.Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return model.Session{}, fmt.Errorf("parse login response: %w", err)
	}
	return session, nil
}

func (c *Client) Signup(ctx context.Context, username, email, password string) error {
	if err := validateSignup(username, email, password); err != nil {
		return err
	}

	resp, err := c.send(ctx, http.MethodPost, "/signup", signupRequest{UserName: username, Email: email, Password: password}, false)
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, "Failed to sign up")
	}
	return nil
}

func (c *Client) ResetPassword(ctx context.Context, email, newPassword, confirmPassword string) error {
	if err := validateReset(newPassword, confirmPassword); err != nil {
		return err
	}

	resp, err := c.send(ctx, http.MethodPut, "/reset-password", resetRequest{Email: email, NewPassword: newPassword}, false)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, "Failed to reset password")
	}
	return nil
}

func (c *Client) ListTasks(ctx context.Context, filter model.Filter) ([]model.Task, error) {
	path := "/tasks"
	if query := encodeFilter(filter); query != "" {
		path += "?" + query
	}

	resp, err := c.send(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp, "Failed to fetch tasks")
	}

	var tasks []model.Task
	if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, input model.TaskInput) (model.Task, error) {
	if err := validateTaskName(input.Name); err != nil {
		return model.Task{}, err
	}

	resp, err := c.send(ctx, http.MethodPost, "/tasks", input, true)
	if err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.Task{}, decodeError(resp, "Failed to save task")
	}

	var task model.Task
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return model.Task{}, fmt.Errorf("parse created task: %w", err)
	}
	return task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int64, input model.TaskInput) (model.Task, error) {
	if err := validateTaskName(input.Name); err != nil {
		return model.Task{}, err
	}

	resp, err := c.send(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), input, true)
	if err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.Task{}, decodeError(resp, "Failed to save task")
	}

	var task model.Task
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return model.Task{}, fmt.Errorf("parse updated task: %w", err)
	}
	return task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	resp, err := c.send(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, true)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, "Failed to delete task")
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload any, authed bool) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.httpClient.Do(req)
}

// encodeFilter produces at most one of task_name/task_date. An empty value
// means no filter at all.
func encodeFilter(filter model.Filter) string {
	if filter.Empty() {
		return ""
	}

	params := url.Values{}
	switch filter.Mode {
	case model.FilterByDate:
		params.Set("task_date", filter.Value)
	default:
		params.Set("task_name", filter.Value)
	}
	return params.Encode()
}

func decodeError(resp *http.Response, fallback string) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Status: resp.StatusCode, Message: fallback}
	}

	var parsed errorBody
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Error != "" {
		return &RequestError{Status: resp.StatusCode, Message: parsed.Error}
	}
	return &RequestError{Status: resp.StatusCode, Message: fmt.Sprintf("%s (status %d)", fallback, resp.StatusCode)}
}
