package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	log "github.com/sirupsen/logrus"

	"StrikeZones/internal/model"
	"StrikeZones/internal/notifier"
	"StrikeZones/internal/refresh"
	"StrikeZones/internal/session"
)

// Pipeline is the refresh orchestrator as seen by the HTTP layer.
type Pipeline interface {
	Refresh(ctx context.Context, c model.Controls) refresh.Result
	RefreshCurrent(ctx context.Context) (refresh.Result, bool)
	Panel(ctx context.Context) []model.ChartDescription
}

// Server exposes the pipeline to the presentation layer.
type Server struct {
	Pipeline Pipeline
	Session  *session.Store
	Hub      *notifier.Hub
	// ScaleButtons gates the scale endpoints.
	ScaleButtons bool

	decoder *schema.Decoder
}

// New creates a Server.
func New(p Pipeline, store *session.Store, hub *notifier.Hub, scaleButtons bool) *Server {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return &Server{
		Pipeline:     p,
		Session:      store,
		Hub:          hub,
		ScaleButtons: scaleButtons,
		decoder:      dec,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/chart", s.chart).Methods(http.MethodGet)
	api.HandleFunc("/chart/latest", s.latest).Methods(http.MethodGet)
	api.HandleFunc("/scale", s.scale).Methods(http.MethodGet)
	api.HandleFunc("/scale/{direction:up|down}", s.scaleClick).Methods(http.MethodPost)
	api.HandleFunc("/panel", s.panel).Methods(http.MethodGet)
	api.HandleFunc("/stream", s.Hub.ServeWS(s.onControls))
	return r
}

// HTTPServer wraps the router with timeouts.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	var controls model.Controls
	if err := s.decoder.Decode(&controls, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := s.Pipeline.Refresh(r.Context(), controls)
	s.Hub.Publish(res)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) latest(w http.ResponseWriter, _ *http.Request) {
	res, ok := s.Hub.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "no refresh yet")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) scale(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Session.Scale())
}

func (s *Server) scaleClick(w http.ResponseWriter, r *http.Request) {
	if !s.ScaleButtons {
		writeError(w, http.StatusNotFound, "scale buttons disabled")
		return
	}
	var state model.ScaleState
	switch mux.Vars(r)["direction"] {
	case "up":
		state = s.Session.ScaleUp()
	default:
		state = s.Session.ScaleDown()
	}
	// A click is a control change: redraw with the new padding.
	if res, ok := s.Pipeline.RefreshCurrent(r.Context()); ok {
		s.Hub.Publish(res)
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) panel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Pipeline.Panel(r.Context()))
}

func (s *Server) onControls(ctx context.Context, controls model.Controls) {
	s.Hub.Publish(s.Pipeline.Refresh(ctx, controls))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
