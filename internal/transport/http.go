package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MCPHandler handles MCP method dispatch.
type MCPHandler interface {
	Handle(ctx context.Context, owner, method string, params json.RawMessage) (any, error)
}

// CodedError is an application error carrying a stable code.
type CodedError interface {
	error
	CodeValue() string
}

// Server wires HTTP handlers.
type Server struct {
	handler MCPHandler
}

// NewServer creates an HTTP server router with middleware.
func NewServer(handler MCPHandler, ownerMiddleware func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	srv := &Server{handler: handler}

	r.Get("/health", srv.handleHealth)
	r.Group(func(r chi.Router) {
		if ownerMiddleware != nil {
			r.Use(ownerMiddleware)
		}
		r.Post("/rpc", srv.handleRPC)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		WriteError(w, req.ID, errorCode(err), err.Error(), nil)
		return
	}

	owner, ok := OwnerFromContext(r.Context())
	if !ok || owner == "" {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}

	result, err := s.handler.Handle(r.Context(), owner, req.Method, req.Params)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var coded CodedError
		if errors.As(err, &coded) {
			WriteError(w, req.ID, ErrApplication, err.Error(), coded)
			return
		}
		WriteError(w, req.ID, errorCode(err), err.Error(), nil)
		return
	}

	WriteResult(w, req.ID, result)
}
