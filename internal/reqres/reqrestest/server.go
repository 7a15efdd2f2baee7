// Package reqrestest provides an in-process stand-in for the reqres.in API
// so the client and the contract suite can run without the network.
package reqrestest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"calc-harness/internal/handlers"
	"calc-harness/internal/observability"
	"calc-harness/internal/reqres"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// updatedAtLayout matches the millisecond UTC timestamps of the service.
const updatedAtLayout = "2006-01-02T15:04:05.000Z"

// MsgMissingAPIKey is returned when an API key is required and absent.
const MsgMissingAPIKey = "Missing API key"

type handler struct {
	store   *Store
	support reqres.Support
	apiKey  string
	now     func() time.Time
}

type Option func(*handler)

// WithAPIKey rejects requests whose x-api-key header differs from key.
func WithAPIKey(key string) Option {
	return func(h *handler) { h.apiKey = key }
}

// WithClock fixes the time reported in updatedAt.
func WithClock(now func() time.Time) Option {
	return func(h *handler) { h.now = now }
}

// NewHandler serves the API under /api.
func NewHandler(store *Store, opts ...Option) http.Handler {
	h := &handler{
		store:   store,
		support: DefaultSupport,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.requireAPIKey)
		r.Get("/users/{id}", h.getUser)
		r.Patch("/users/{id}", h.updateUser)
		r.Put("/users/{id}", h.updateUser)
		r.Post("/register", h.register)
		r.Post("/login", h.login)
	})

	return r
}

// Server is a running stand-in. BaseURL points at its /api prefix.
type Server struct {
	*httptest.Server
	store *Store
}

// NewServer starts a stand-in seeded with DefaultUsers.
func NewServer(opts ...Option) (*Server, error) {
	store, err := OpenStore(DefaultUsers)
	if err != nil {
		return nil, err
	}
	return &Server{
		Server: httptest.NewServer(NewHandler(store, opts...)),
		store:  store,
	}, nil
}

func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

func (s *Server) Close() {
	s.Server.Close()
	if err := s.store.Close(); err != nil {
		observability.Logger.Warn("closing stand-in store", zap.Error(err))
	}
}

func (h *handler) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.apiKey != "" && r.Header.Get(reqres.APIKeyHeader) != h.apiKey {
			handlers.WriteError(w, http.StatusUnauthorized, MsgMissingAPIKey)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		handlers.WriteJSON(w, http.StatusNotFound, struct{}{})
		return
	}

	user, err := h.store.UserByID(r.Context(), id)
	if errors.Is(err, errNoUser) {
		handlers.WriteJSON(w, http.StatusNotFound, struct{}{})
		return
	}
	if err != nil {
		handlers.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	handlers.WriteJSON(w, http.StatusOK, reqres.SingleUserResponse{
		Data:    user,
		Support: h.support,
	})
}

func (h *handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req reqres.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		handlers.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	handlers.WriteJSON(w, http.StatusOK, reqres.UpdateUserResponse{
		Name:      req.Name,
		Job:       req.Job,
		UpdatedAt: h.now().UTC().Format(updatedAtLayout),
	})
}

// credentials accepts "username" as an alias for "email".
type credentials struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c credentials) identifier() string {
	if c.Email != "" {
		return c.Email
	}
	return c.Username
}

// decodeCredentials writes the 400 response itself and reports false when
// the request is rejected.
func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return c, false
	}
	if strings.TrimSpace(c.identifier()) == "" {
		handlers.WriteError(w, http.StatusBadRequest, reqres.MsgMissingEmailOrUsername)
		return c, false
	}
	if c.Password == "" {
		handlers.WriteError(w, http.StatusBadRequest, reqres.MsgMissingPassword)
		return c, false
	}
	return c, true
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.store.UserByEmail(r.Context(), c.identifier())
	if errors.Is(err, errNoUser) {
		handlers.WriteError(w, http.StatusBadRequest, MsgUndefinedUser)
		return
	}
	if err != nil {
		handlers.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	handlers.WriteJSON(w, http.StatusOK, reqres.RegisterResponse{ID: user.ID, Token: Token})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	_, err := h.store.UserByEmail(r.Context(), c.identifier())
	if errors.Is(err, errNoUser) {
		handlers.WriteError(w, http.StatusBadRequest, reqres.MsgUserNotFound)
		return
	}
	if err != nil {
		handlers.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	handlers.WriteJSON(w, http.StatusOK, reqres.LoginResponse{Token: Token})
}
