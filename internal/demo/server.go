// Package demo exposes chart interaction sessions and a shared progress
// controller over HTTP.
package demo

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/alexisbeaulieu97/crosshair/internal/chart"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/interaction"
	"github.com/alexisbeaulieu97/crosshair/internal/clock"
	"github.com/alexisbeaulieu97/crosshair/internal/logger"
	"github.com/alexisbeaulieu97/crosshair/internal/progress"
)

// Options configures a Server.
type Options struct {
	Logger *logger.Logger
	Clock  clock.Clock
	// BaseDir resolves relative workbook paths of posted documents.
	BaseDir string
}

// Server owns the sessions and the progress controller behind the router.
type Server struct {
	log      *logger.Logger
	clock    clock.Clock
	baseDir  string
	sessions *sessions
	progress *progress.Controller
}

// NewServer creates an empty server.
func NewServer(opts Options) *Server {
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = "."
	}
	return &Server{
		log:      opts.Logger.With("component", "demo"),
		clock:    clk,
		baseDir:  baseDir,
		sessions: newSessions(),
		progress: progress.New(progress.Options{Clock: clk, Logger: opts.Logger}),
	}
}

// Progress returns the shared progress controller.
func (s *Server) Progress() *progress.Controller {
	return s.progress
}

// AddChart registers a new session for c and returns it.
func (s *Server) AddChart(c *chart.Chart) (*Session, error) {
	ctx, err := c.NewContext(interaction.Options{Logger: s.log, Clock: s.clock})
	if err != nil {
		return nil, err
	}
	sess := &Session{
		ID:      ctx.ID(),
		Chart:   c,
		Context: ctx,
		Created: s.clock.Now(),
	}
	s.sessions.add(sess)
	s.log.Info("session created", "session_id", sess.ID, "chart", c.Name)
	return sess, nil
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/charts", s.handleListCharts).Methods("GET")
	r.HandleFunc("/charts", s.handleCreateChart).Methods("POST")
	r.HandleFunc("/charts/{id}", s.handleGetChart).Methods("GET")
	r.HandleFunc("/charts/{id}/layout", s.handleLayout).Methods("POST")
	r.HandleFunc("/charts/{id}/pointer", s.handlePointer).Methods("POST")
	r.HandleFunc("/progress", s.handleGetProgress).Methods("GET")
	r.HandleFunc("/progress/{op}", s.handleProgressOp).Methods("POST")
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.clock.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", s.clock.Now().Sub(start).Round(time.Microsecond).String(),
		)
	})
}
