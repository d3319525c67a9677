package api

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

type RegisterResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	UserID   string `json:"user_id"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
}

type Goal struct {
	GoalID    string         `json:"goal_id"`
	GoalText  string         `json:"goal_text"`
	Context   map[string]any `json:"context"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

type Plan struct {
	PlanID    string         `json:"plan_id"`
	GoalID    string         `json:"goal_id"`
	Plan      map[string]any `json:"plan"`
	CreatedAt time.Time      `json:"created_at"`
}

type Session struct {
	SessionID string    `json:"session_id"`
	PlanID    string    `json:"plan_id"`
	Completed bool      `json:"completed"`
	Notes     string    `json:"notes,omitempty"`
	Date      time.Time `json:"date"`
}

type Export struct {
	PlanID    string    `json:"plan_id"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Status returns the liveness message of the server.
func (c *Client) Status(ctx context.Context) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, "/", nil, nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) Register(ctx context.Context, username, password string) (*RegisterResponse, error) {
	out := &RegisterResponse{}
	if err := c.do(ctx, http.MethodPost, "/register", nil, credentials{username, password}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	out := &LoginResponse{}
	if err := c.do(ctx, http.MethodPost, "/login", nil, credentials{username, password}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SaveGoal(ctx context.Context, goalText string, goalContext map[string]any) (string, error) {
	if goalContext == nil {
		goalContext = map[string]any{}
	}
	in := map[string]any{"goal_text": goalText, "context": goalContext}

	var out struct {
		GoalID string `json:"goal_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/save_goal", nil, in, &out); err != nil {
		return "", err
	}
	return out.GoalID, nil
}

func (c *Client) ListGoals(ctx context.Context) ([]Goal, error) {
	var out struct {
		Goals []Goal `json:"goals"`
	}
	if err := c.do(ctx, http.MethodGet, "/goals", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Goals, nil
}

// GeneratePlan asks the server for a new plan. goalID may be empty.
func (c *Client) GeneratePlan(ctx context.Context, userInput, goalID string) (*Plan, error) {
	in := map[string]string{"user_input": userInput}
	if goalID != "" {
		in["goal_id"] = goalID
	}

	var out struct {
		Plan   map[string]any `json:"plan"`
		PlanID string         `json:"plan_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/generate_plan", nil, in, &out); err != nil {
		return nil, err
	}
	return c.GetPlan(ctx, out.PlanID)
}

func (c *Client) ListPlans(ctx context.Context, goalID string) ([]Plan, error) {
	q := url.Values{}
	if goalID != "" {
		q.Set("goal_id", goalID)
	}

	var out struct {
		Plans []Plan `json:"plans"`
	}
	if err := c.do(ctx, http.MethodGet, "/plans", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Plans, nil
}

func (c *Client) GetPlan(ctx context.Context, id string) (*Plan, error) {
	out := &Plan{}
	if err := c.do(ctx, http.MethodGet, "/plans/"+url.PathEscape(id), nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ExportPlan(ctx context.Context, id string) (*Export, error) {
	out := &Export{}
	if err := c.do(ctx, http.MethodGet, "/plans/"+url.PathEscape(id)+"/export", nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) LogSession(ctx context.Context, planID string, completed bool, notes string) (string, error) {
	in := map[string]any{"plan_id": planID, "completed": completed, "notes": notes}

	var out struct {
		SessionID string `json:"session_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/log_session", nil, in, &out); err != nil {
		return "", err
	}
	return out.SessionID, nil
}

func (c *Client) ListSessions(ctx context.Context, planID string) ([]Session, error) {
	q := url.Values{}
	if planID != "" {
		q.Set("plan_id", planID)
	}

	var out struct {
		Sessions []Session `json:"sessions"`
	}
	if err := c.do(ctx, http.MethodGet, "/sessions", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}
