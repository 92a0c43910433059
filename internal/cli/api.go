package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/unitechhub/examhub/internal/model"
	"github.com/unitechhub/examhub/internal/response"
)

// requestTimeout bounds every API call so a dead server cannot hang the
// client with the submit guard held.
const requestTimeout = 30 * time.Second

// excerptLimit caps how much of an unparseable body is shown.
const excerptLimit = 120

// APIError is a structured error from the server's response envelope.
type APIError struct {
	StatusCode int
	Code       response.ErrCode
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsCode reports whether err is an APIError carrying the given code.
func IsCode(err error, code response.ErrCode) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == code
}

// Client talks to the portal API. Every response flows through the same
// decode path so the error taxonomy is uniform: empty body, unparseable
// body (with a truncated excerpt), envelope error, bare non-2xx.
type Client struct {
	BaseURL string
	Token   string
	http    *http.Client
}

// NewClient creates an API client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// do runs one request and decodes the envelope into out (which may be
// nil when the caller only cares about success).
func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp, out)
}

// decodeEnvelope applies the error taxonomy to one HTTP response.
func decodeEnvelope(resp *http.Response, out interface{}) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("empty response from server (HTTP %d)", resp.StatusCode)
	}

	var envelope struct {
		Data  json.RawMessage     `json:"data"`
		Error *response.ErrorBody `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("unexpected response (HTTP %d): %s", resp.StatusCode, excerpt(raw))
	}

	if envelope.Error != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       envelope.Error.Code,
			Message:    envelope.Error.Message,
			Fields:     envelope.Error.Fields,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("server returned HTTP %d", resp.StatusCode)
	}

	if out != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

// excerpt truncates an unparseable body for display.
func excerpt(raw []byte) string {
	s := string(bytes.TrimSpace(raw))
	if len(s) > excerptLimit {
		return s[:excerptLimit] + "..."
	}
	return s
}

// ─── Auth ──────────────────────────────────────────────────────────────

// Login authenticates and stores the token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var data struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login",
		model.LoginRequest{Email: email, Password: password}, &data)
	if err != nil {
		return "", err
	}
	c.Token = data.Token
	return data.Token, nil
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/signup",
		model.SignupRequest{Name: name, Email: email, Password: password}, nil)
}

// ─── Catalog ───────────────────────────────────────────────────────────

// Courses lists enabled courses.
func (c *Client) Courses(ctx context.Context) ([]model.Course, error) {
	var data struct {
		Courses []model.Course `json:"courses"`
	}
	err := c.do(ctx, http.MethodGet, "/api/v1/courses", nil, &data)
	return data.Courses, err
}

// Topics lists a course's enabled topics.
func (c *Client) Topics(ctx context.Context, courseID int) ([]model.Topic, error) {
	var data struct {
		Topics []model.Topic `json:"topics"`
	}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/courses/%d/topics", courseID), nil, &data)
	return data.Topics, err
}

// ─── Practice ──────────────────────────────────────────────────────────

// StartPractice starts a timed session.
func (c *Client) StartPractice(ctx context.Context, req *model.StartPracticeRequest) (*model.StartPracticeResponse, error) {
	var data model.StartPracticeResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/practices", req, &data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// SaveAnswer autosaves one selection.
func (c *Client) SaveAnswer(ctx context.Context, sessionID uuid.UUID, questionID uuid.UUID, answer string) error {
	return c.do(ctx, http.MethodPut,
		fmt.Sprintf("/api/v1/practices/%s/answers", sessionID),
		model.SaveAnswerRequest{QuestionID: questionID, Answer: answer}, nil)
}

// SubmitPractice submits the answer map and returns the graded result.
func (c *Client) SubmitPractice(ctx context.Context, sessionID uuid.UUID, answers map[string]string) (*model.PracticeResult, error) {
	var data model.PracticeResult
	err := c.do(ctx, http.MethodPost,
		fmt.Sprintf("/api/v1/practices/%s/submit", sessionID),
		model.SubmitRequest{Answers: answers}, &data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// SessionState fetches reload-recovery state for an active session.
func (c *Client) SessionState(ctx context.Context, sessionID uuid.UUID) (*model.SessionState, error) {
	var data model.SessionState
	err := c.do(ctx, http.MethodGet,
		fmt.Sprintf("/api/v1/practices/%s/state", sessionID), nil, &data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// History lists the account's finished sessions.
func (c *Client) History(ctx context.Context) ([]model.HistoryRow, error) {
	var data struct {
		History []model.HistoryRow `json:"history"`
	}
	err := c.do(ctx, http.MethodGet, "/api/v1/practices/history", nil, &data)
	return data.History, err
}

// Leaderboard fetches the ranked averages.
func (c *Client) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardRow, error) {
	var data struct {
		Leaderboard []model.LeaderboardRow `json:"leaderboard"`
	}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/leaderboard?limit=%d", limit), nil, &data)
	return data.Leaderboard, err
}

// ComputeCGPA runs the CGPA calculator server-side.
func (c *Client) ComputeCGPA(ctx context.Context, req *model.CGPARequest) (*model.CGPAResponse, error) {
	var data model.CGPAResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/cgpa", req, &data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}
