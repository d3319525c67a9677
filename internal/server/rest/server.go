// Package rest exposes the workout API over HTTP/JSON. Every route is served
// both at the root and under /api.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/fitplan/internal/logging"
	"github.com/dmitrijs2005/fitplan/internal/server/auth"
	"github.com/dmitrijs2005/fitplan/internal/server/models"
	"github.com/dmitrijs2005/fitplan/internal/server/services"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
}

type GoalService interface {
	Save(ctx context.Context, userID, goalText string, goalContext map[string]any) (string, error)
	List(ctx context.Context, userID string) ([]*models.Goal, error)
	Get(ctx context.Context, userID, id string) (*models.Goal, error)
}

type PlanService interface {
	Generate(ctx context.Context, userID, userInput, goalID string) (*models.WorkoutPlan, error)
	List(ctx context.Context, userID, goalID string) ([]*models.WorkoutPlan, error)
	Get(ctx context.Context, userID, id string) (*models.WorkoutPlan, error)
}

type SessionService interface {
	Log(ctx context.Context, userID, planID string, completed bool, notes string) (string, error)
	List(ctx context.Context, userID, planID string) ([]*models.SessionLog, error)
	Get(ctx context.Context, userID, id string) (*models.SessionLog, error)
}

type ExportService interface {
	Export(ctx context.Context, userID, planID string) (*services.ExportResult, error)
}

type TokenValidator interface {
	Validate(token string) (auth.Identity, error)
}

// Dependencies are the collaborators of the handlers.
type Dependencies struct {
	Users    UserService
	Goals    GoalService
	Plans    PlanService
	Sessions SessionService
	Export   ExportService
	Tokens   TokenValidator
}

type Server struct {
	address         string
	logger          logging.Logger
	deps            Dependencies
	handler         http.Handler
	shutdownTimeout time.Duration
}

func NewServer(address string, l logging.Logger, deps Dependencies, shutdownTimeout time.Duration) *Server {
	s := &Server{
		address:         address,
		logger:          l.With("module", "rest_server"),
		deps:            deps,
		shutdownTimeout: shutdownTimeout,
	}
	s.handler = s.buildHandler()
	return s
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) buildHandler() http.Handler {
	r := mux.NewRouter()
	s.routes(r.PathPrefix("/api").Subrouter())
	s.routes(r)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	var h http.Handler = r
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", requestIDHeader}),
	)(h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{s.logger}))(h)
	h = s.logRequests(h)
	return h
}

func (s *Server) routes(r *mux.Router) {
	r.HandleFunc("/", s.root).Methods(http.MethodGet)

	r.HandleFunc("/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/login", s.login).Methods(http.MethodPost)

	r.HandleFunc("/save_goal", s.authenticated(s.saveGoal)).Methods(http.MethodPost)
	r.HandleFunc("/goals", s.authenticated(s.listGoals)).Methods(http.MethodGet)
	r.HandleFunc("/goals/{id}", s.authenticated(s.getGoal)).Methods(http.MethodGet)

	r.HandleFunc("/generate_plan", s.authenticated(s.generatePlan)).Methods(http.MethodPost)
	r.HandleFunc("/plans", s.authenticated(s.listPlans)).Methods(http.MethodGet)
	r.HandleFunc("/plans/{id}", s.authenticated(s.getPlan)).Methods(http.MethodGet)
	r.HandleFunc("/plans/{id}/export", s.authenticated(s.exportPlan)).Methods(http.MethodGet)

	r.HandleFunc("/log_session", s.authenticated(s.logSession)).Methods(http.MethodPost)
	r.HandleFunc("/sessions", s.authenticated(s.listSessions)).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}", s.authenticated(s.getSession)).Methods(http.MethodGet)
}

// Run serves until ctx is cancelled and then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}
