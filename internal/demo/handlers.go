package demo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/alexisbeaulieu97/crosshair/internal/chart"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/geometry"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/interaction"
	"github.com/alexisbeaulieu97/crosshair/internal/config"
	crosserrors "github.com/alexisbeaulieu97/crosshair/pkg/errors"
)

const maxDocumentBytes = 1 << 20

// LayoutRequest sets a session's plot bounds and page offset.
type LayoutRequest struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// ProgressRequest carries the optional operand of a progress operation.
type ProgressRequest struct {
	Value *float64 `json:"value"`
}

// CreateChartResponse is returned when a session is created.
type CreateChartResponse struct {
	Session  SessionInfo          `json:"session"`
	Snapshot interaction.Snapshot `json:"snapshot"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListCharts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.list())
}

// handleCreateChart accepts a chart document as YAML or JSON.
func (s *Server) handleCreateChart(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read body: %w", err))
		return
	}

	doc, err := config.ParseDocument(body, "request")
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	c, err := chart.Build(doc, s.baseDir, chart.WithLogger(s.log), chart.WithProgress(s.progress))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	sess, err := s.AddChart(c)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateChartResponse{
		Session:  sess.info(),
		Snapshot: sess.Context.Snapshot(),
	})
}

func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Context.Snapshot())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req LayoutRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Width < 0 || req.Height < 0 {
		writeError(w, http.StatusBadRequest, errors.New("width and height must not be negative"))
		return
	}

	sess.Context.SetLayout(
		geometry.PlotBounds{Width: req.Width, Height: req.Height},
		geometry.RootOffset{X: req.OffsetX, Y: req.OffsetY},
	)
	writeJSON(w, http.StatusOK, sess.Context.Snapshot())
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Kind  string  `json:"kind"`
		PageX float64 `json:"page_x"`
		PageY float64 `json:"page_y"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	kind, err := interaction.ParseEventKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	snap := sess.Context.Handle(interaction.PointerEvent{Kind: kind, PageX: req.PageX, PageY: req.PageY})
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.progress.State())
}

func (s *Server) handleProgressOp(w http.ResponseWriter, r *http.Request) {
	var req ProgressRequest
	if r.ContentLength != 0 {
		if err := decode(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	var delta []float64
	if req.Value != nil {
		delta = append(delta, *req.Value)
	}

	switch op := mux.Vars(r)["op"]; op {
	case "start":
		s.progress.Start()
	case "stop":
		s.progress.Stop()
	case "increment":
		s.progress.Increment(delta...)
	case "decrement":
		s.progress.Decrement(delta...)
	case "set":
		if req.Value == nil {
			writeError(w, http.StatusBadRequest, errors.New("set requires a value"))
			return
		}
		s.progress.Set(*req.Value)
	case "reset":
		s.progress.Reset()
	case "complete":
		s.progress.Complete()
	default:
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown progress operation %q", op))
		return
	}
	writeJSON(w, http.StatusOK, s.progress.State())
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := mux.Vars(r)["id"]
	sess, ok := s.sessions.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("chart %q not found", id))
		return nil, false
	}
	return sess, true
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxDocumentBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

// statusFor maps document and loader errors to client errors.
func statusFor(err error) int {
	var (
		parseErr  *crosserrors.ParseError
		validErr  *crosserrors.ValidationError
		sourceErr *crosserrors.SourceError
	)
	switch {
	case errors.As(err, &parseErr), errors.As(err, &validErr):
		return http.StatusBadRequest
	case errors.As(err, &sourceErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
