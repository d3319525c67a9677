package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/fitplan/internal/common"
	"github.com/dmitrijs2005/fitplan/internal/server/models"
	"github.com/gorilla/mux"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type goalRequest struct {
	GoalText string         `json:"goal_text"`
	Context  map[string]any `json:"context"`
}

type generatePlanRequest struct {
	UserInput string `json:"user_input"`
	GoalID    string `json:"goal_id,omitempty"`
}

type logSessionRequest struct {
	PlanID    string `json:"plan_id"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes,omitempty"`
}

type goalView struct {
	GoalID    string         `json:"goal_id"`
	GoalText  string         `json:"goal_text"`
	Context   map[string]any `json:"context"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

type planView struct {
	PlanID    string         `json:"plan_id"`
	GoalID    string         `json:"goal_id"`
	Plan      map[string]any `json:"plan"`
	CreatedAt time.Time      `json:"created_at"`
}

type sessionView struct {
	SessionID string    `json:"session_id"`
	PlanID    string    `json:"plan_id"`
	Completed bool      `json:"completed"`
	Notes     string    `json:"notes,omitempty"`
	Date      time.Time `json:"date"`
}

func toGoalView(g *models.Goal) goalView {
	return goalView{GoalID: g.ID, GoalText: g.GoalText, Context: g.Context, Status: string(g.Status), CreatedAt: g.CreatedAt}
}

func toPlanView(p *models.WorkoutPlan) planView {
	return planView{PlanID: p.ID, GoalID: p.GoalID, Plan: p.Plan, CreatedAt: p.CreatedAt}
}

func toSessionView(l *models.SessionLog) sessionView {
	return sessionView{SessionID: l.ID, PlanID: l.PlanID, Completed: l.Completed, Notes: l.Notes, Date: l.Date}
}

const maxBodyBytes = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", common.ErrValidation, err)
	}
	return nil
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Workout API is running! 💪"})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, "Registration failed", err)
		return
	}

	u, err := s.deps.Users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(w, r, "Registration failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message":  "User created successfully",
		"username": u.Username,
		"user_id":  u.ID,
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, "Login failed", err)
		return
	}

	res, err := s.deps.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(w, r, "Login failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": res.AccessToken,
		"token_type":   res.TokenType,
		"user_id":      res.UserID,
		"username":     res.Username,
	})
}

func (s *Server) saveGoal(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var req goalRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, "Failed to save goal", err)
		return
	}

	goalID, err := s.deps.Goals.Save(r.Context(), id.UserID, req.GoalText, req.Context)
	if err != nil {
		s.fail(w, r, "Failed to save goal", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Goal saved successfully",
		"goal_id": goalID,
	})
}

func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	goals, err := s.deps.Goals.List(r.Context(), id.UserID)
	if err != nil {
		s.fail(w, r, "Failed to list goals", err)
		return
	}

	out := make([]goalView, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalView(g))
	}
	writeJSON(w, http.StatusOK, map[string]any{"goals": out})
}

func (s *Server) getGoal(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	g, err := s.deps.Goals.Get(r.Context(), id.UserID, mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, "Failed to load goal", err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalView(g))
}

func (s *Server) generatePlan(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var req generatePlanRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, "Failed to generate plan", err)
		return
	}

	plan, err := s.deps.Plans.Generate(r.Context(), id.UserID, req.UserInput, req.GoalID)
	if err != nil {
		s.fail(w, r, "Failed to generate plan", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"plan":    plan.Plan,
		"plan_id": plan.ID,
	})
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	plans, err := s.deps.Plans.List(r.Context(), id.UserID, r.URL.Query().Get("goal_id"))
	if err != nil {
		s.fail(w, r, "Failed to list plans", err)
		return
	}

	out := make([]planView, 0, len(plans))
	for _, p := range plans {
		out = append(out, toPlanView(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": out})
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	p, err := s.deps.Plans.Get(r.Context(), id.UserID, mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, "Failed to load plan", err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanView(p))
}

func (s *Server) exportPlan(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())
	planID := mux.Vars(r)["id"]

	res, err := s.deps.Export.Export(r.Context(), id.UserID, planID)
	if err != nil {
		s.fail(w, r, "Failed to export plan", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"plan_id":    planID,
		"key":        res.Key,
		"url":        res.URL,
		"expires_at": res.ExpiresAt,
	})
}

func (s *Server) logSession(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var req logSessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, "Failed to log session", err)
		return
	}

	sessionID, err := s.deps.Sessions.Log(r.Context(), id.UserID, req.PlanID, req.Completed, req.Notes)
	if err != nil {
		s.fail(w, r, "Failed to log session", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":    "Session logged successfully",
		"session_id": sessionID,
	})
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	logs, err := s.deps.Sessions.List(r.Context(), id.UserID, r.URL.Query().Get("plan_id"))
	if err != nil {
		s.fail(w, r, "Failed to list sessions", err)
		return
	}

	out := make([]sessionView, 0, len(logs))
	for _, l := range logs {
		out = append(out, toSessionView(l))
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": out})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	l, err := s.deps.Sessions.Get(r.Context(), id.UserID, mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, "Failed to load session", err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionView(l))
}
