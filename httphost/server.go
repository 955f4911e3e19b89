// Package httphost exposes a navi.Router over HTTP for clients whose
// session history lives elsewhere, typically a browser talking to a
// server-driven UI.
//
// Endpoints:
//
//	GET  /state     current navigation state
//	POST /navigate  {"url": "...", "replace": false}
//	POST /replace   {"url": "..."}
//	POST /back
//	POST /forward
//	GET  /ws        websocket carrying history commands and change events
package httphost

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/lestrrat-go/navi"
	"github.com/lestrrat-go/navi/middleware"
)

// StateView is the JSON form of a navi.NavigateState.
type StateView struct {
	URL       string              `json:"url"`
	Route     string              `json:"route"`
	Component string              `json:"component,omitempty"`
	Params    map[string]string   `json:"params,omitempty"`
	Search    map[string][]string `json:"search,omitempty"`
}

func viewOf(s *navi.NavigateState) *StateView {
	if s == nil {
		return nil
	}
	v := &StateView{URL: s.URL}
	if s.State != nil {
		v.Route = s.State.Path
	}
	if c := s.Component(); c != nil {
		v.Component = fmt.Sprint(c)
	}
	if len(s.Params) > 0 {
		v.Params = make(map[string]string, len(s.Params))
		for _, p := range s.Params {
			v.Params[p.Param] = p.Value
		}
	}
	if len(s.Search) > 0 {
		v.Search = s.Search
	}
	return v
}

type NavigateRequest struct {
	URL     string `json:"url"`
	Replace bool   `json:"replace,omitempty"`
}

type NavigateResponse struct {
	Outcome string     `json:"outcome"`
	Error   string     `json:"error,omitempty"`
	State   *StateView `json:"state,omitempty"`
}

type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMiddleware wraps every endpoint with the given middlewares, the
// first one outermost.
func WithMiddleware(mws ...middleware.Interface) Option {
	return func(s *Server) {
		s.middlewares = append(s.middlewares, mws...)
	}
}

// WithCheckOrigin overrides the websocket origin check.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = fn
	}
}

// Server serves a router whose history is an httphost History.
type Server struct {
	router      *navi.Router
	history     *History
	logger      *slog.Logger
	middlewares []middleware.Interface
	upgrader    websocket.Upgrader
	handler     http.Handler
	unlisten    func()
}

// New builds the server. The router must have been created with
// navi.WithHistory(h).
func New(r *navi.Router, h *History, opts ...Option) *Server {
	s := &Server{
		router:  r,
		history: h,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := chi.NewRouter()
	mux.Get("/state", s.getState)
	mux.Post("/navigate", s.postNavigate)
	mux.Post("/replace", s.postReplace)
	mux.Post("/back", s.postBack)
	mux.Post("/forward", s.postForward)
	mux.Handle("/ws", middleware.RestrictMethod(http.MethodGet).Wrap(http.HandlerFunc(s.serveWS)))
	s.handler = middleware.Chain(mux, s.middlewares...)

	s.unlisten = r.On(navi.EventChange, func(ev navi.Event) {
		h.broadcast(Message{Type: TypeChange, URL: ev.Data.To.URL, State: viewOf(ev.Data.To)})
	})
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close stops forwarding router events to clients.
func (s *Server) Close() error {
	s.unlisten()
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) getState(w http.ResponseWriter, _ *http.Request) {
	state := s.router.CurrentState()
	if state == nil {
		http.Error(w, "no navigation committed", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(state))
}

func statusOf(outcome navi.Outcome) int {
	switch outcome {
	case navi.OutcomeCommitted, navi.OutcomeUnchanged:
		return http.StatusOK
	case navi.OutcomeNotFound:
		return http.StatusNotFound
	case navi.OutcomeDenied:
		return http.StatusForbidden
	case navi.OutcomeCanceled:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) postNavigate(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, false)
}

func (s *Server) postReplace(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, true)
}

func (s *Server) navigate(w http.ResponseWriter, r *http.Request, replace bool) {
	var req NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request: %s", err), http.StatusBadRequest)
		return
	}
	if replace {
		req.Replace = true
	}

	var nav *navi.Navigation
	if req.Replace {
		nav = s.router.Replace(req.URL)
	} else {
		nav = s.router.Navigate(req.URL)
	}

	outcome, err := nav.Wait(r.Context())
	if r.Context().Err() != nil {
		s.logger.Debug("client went away before navigation settled", slog.String("url", req.URL))
		return
	}

	res := NavigateResponse{
		Outcome: outcome.String(),
		State:   viewOf(s.router.CurrentState()),
	}
	if err != nil {
		res.Error = err.Error()
	}
	writeJSON(w, statusOf(outcome), res)
}

func (s *Server) postBack(w http.ResponseWriter, _ *http.Request) {
	s.router.Back()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) postForward(w http.ResponseWriter, _ *http.Request) {
	s.router.Forward()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", slog.Any("error", err))
		return
	}

	c := newClient(conn, s.logger)
	s.history.attach(c)
	go c.writeLoop()
	c.send(Message{Type: TypeState, URL: s.history.Location(), State: viewOf(s.router.CurrentState())})

	defer func() {
		s.history.detach(c)
		c.close()
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket read failed", slog.Any("error", err))
			}
			return
		}

		switch msg.Type {
		case TypePopState:
			s.history.Report(msg.URL)
		case TypeNavigate:
			s.router.Navigate(msg.URL)
		default:
			c.send(Message{Type: TypeError, Error: fmt.Sprintf("unknown message type %q", msg.Type)})
		}
	}
}
