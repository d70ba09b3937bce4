package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/outreach-forge/internal/ingestion"
	"github.com/jonathan/outreach-forge/internal/llm"
	"github.com/jonathan/outreach-forge/internal/outreach"
	"github.com/jonathan/outreach-forge/internal/rendering"
	"github.com/jonathan/outreach-forge/internal/server/middleware"
	"github.com/jonathan/outreach-forge/internal/types"
)

// keepAliveInterval is how often an idle event stream receives a comment.
const keepAliveInterval = 15 * time.Second

// generateRequest is the body of POST /generate. JobURL may replace JobDescription.
type generateRequest struct {
	JobDescription string `json:"jobDescription"`
	JobURL         string `json:"jobUrl,omitempty"`
	Profile        string `json:"profile"`
	Tone           string `json:"tone,omitempty"`
}

type sessionResponse struct {
	SessionID uuid.UUID `json:"sessionId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.len(),
	})
}

// handleCreateSession creates a controller and returns a token bound to it.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	client, err := s.newClient(r.Context())
	if err != nil {
		log.Printf("[session] Model client unavailable: %v", err)
		client = nil // generations fail with a transport error
	}

	controller := outreach.NewController(client,
		outreach.WithObserver(s.observer),
		outreach.WithTimeout(s.timeout()),
	)
	id := controller.ID()

	token, expiresAt, err := s.jwtService.GenerateToken(id)
	if err != nil {
		_ = controller.Close()
		s.errorResponse(w, err)
		return
	}
	s.sessions.add(id, controller, expiresAt)

	s.jsonResponse(w, http.StatusCreated, sessionResponse{SessionID: id, Token: token, ExpiresAt: expiresAt})
}

// handleDeleteSession closes the caller's session.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.SessionID(r)
	if err != nil || !s.sessions.remove(id) {
		s.errorResponse(w, ErrSessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGenerate starts a generation. It answers 202 immediately; progress is
// observed through /state or /events.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	controller, ok := s.controller(w, r)
	if !ok {
		return
	}

	var body generateRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	tone, err := types.ParseTone(body.Tone)
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "tone", Message: err.Error()})
		return
	}

	if controller.State().Generating() {
		s.errorResponse(w, outreach.ErrAlreadyGenerating)
		return
	}

	jobDescription := body.JobDescription
	if body.JobURL != "" {
		src := ingestion.Source{Text: body.JobDescription, URL: body.JobURL}
		jobDescription, _, err = ingestion.Resolve(r.Context(), src, s.loader)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
	}

	req := types.GenerationRequest{JobDescription: jobDescription, Profile: body.Profile, Tone: tone}
	if err := controller.Generate(r.Context(), req); err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusAccepted, controller.State())
}

// handleState returns the session's current state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	controller, ok := s.controller(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, controller.State())
}

// handleEvents streams state snapshots as "state" events until the client
// disconnects or the session closes. With ?until=done the stream ends after
// the first terminal state.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	controller, ok := s.controller(w, r)
	if !ok {
		return
	}
	untilDone := r.URL.Query().Get("until") == "done"

	updates, unsubscribe := controller.Subscribe()
	defer unsubscribe()
	current := controller.State()

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	if err := sse.WriteEvent("state", current); err != nil {
		return
	}
	if untilDone && current.Terminal() {
		return
	}

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			if err := sse.WriteComment("keep-alive"); err != nil {
				return
			}
		case state, open := <-updates:
			if !open {
				sse.WriteError(outreach.ErrClosed.Error())
				return
			}
			if err := sse.WriteEvent("state", state); err != nil {
				return
			}
			if untilDone && state.Terminal() {
				return
			}
		}
	}
}

// handleResultHTML renders the latest result as an HTML page.
func (s *Server) handleResultHTML(w http.ResponseWriter, r *http.Request) {
	result, ok := s.result(w, r)
	if !ok {
		return
	}
	page, err := rendering.HTML(result)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// handleResultMarkdown renders the latest result as Markdown.
func (s *Server) handleResultMarkdown(w http.ResponseWriter, r *http.Request) {
	result, ok := s.result(w, r)
	if !ok {
		return
	}
	doc, err := rendering.Markdown(result)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = io.WriteString(w, doc)
}

func (s *Server) controller(w http.ResponseWriter, r *http.Request) (*outreach.Controller, bool) {
	id, err := middleware.SessionID(r)
	if err != nil {
		s.errorResponse(w, ErrSessionNotFound)
		return nil, false
	}
	controller, ok := s.sessions.get(id)
	if !ok {
		s.errorResponse(w, ErrSessionNotFound)
		return nil, false
	}
	return controller, true
}

func (s *Server) result(w http.ResponseWriter, r *http.Request) (*types.GenerationResult, bool) {
	controller, ok := s.controller(w, r)
	if !ok {
		return nil, false
	}
	state := controller.State()
	if state.Kind != outreach.StateSucceeded || state.Result == nil {
		s.errorResponse(w, ErrNoResult)
		return nil, false
	}
	return state.Result, true
}

func (s *Server) timeout() time.Duration {
	if s.cfg.Timeout > 0 {
		return s.cfg.Timeout
	}
	return llm.DefaultTimeout
}
