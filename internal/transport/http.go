package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/timeharbor/timeharbor/internal/domain/correction"
	"github.com/timeharbor/timeharbor/internal/domain/session"
	"github.com/timeharbor/timeharbor/internal/rpc"
)

// MethodHandler dispatches engine method calls.
type MethodHandler interface {
	Handle(ctx context.Context, actorID, method string, params json.RawMessage) (any, error)
}

// Server wires HTTP handlers.
type Server struct {
	handler MethodHandler
}

// NewServer creates an HTTP router. The middleware guards the RPC
// endpoint only; health stays open and other handlers mounted on the
// returned router bring their own auth.
func NewServer(handler MethodHandler, middleware func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	srv := &Server{handler: handler}

	if middleware != nil {
		r.With(middleware).Post("/rpc", srv.handleRPC)
	} else {
		r.Post("/rpc", srv.handleRPC)
	}
	r.Get("/health", srv.handleHealth)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		WriteError(w, nil, ErrInvalidReq, "invalid request", nil)
		return
	}

	actorID, _ := ActorFromContext(r.Context())

	result, err := s.handler.Handle(r.Context(), actorID, req.Method, req.Params)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		WriteError(w, req.ID, errorCode(err), err.Error(), nil)
		return
	}

	WriteResult(w, req.ID, result)
}

// errorCode maps engine errors onto JSON-RPC codes. Lifecycle errors
// use application codes so clients can distinguish conflicts and
// invalid states from plain failures.
func errorCode(err error) int {
	switch {
	case errors.Is(err, rpc.ErrMethodNotFound):
		return ErrMethodNotFound
	case errors.Is(err, rpc.ErrInvalidParams),
		errors.Is(err, session.ErrInvalidInput),
		errors.Is(err, correction.ErrInvalidInput):
		return ErrInvalidParams
	case errors.Is(err, session.ErrSessionActive):
		return -32009 // conflict
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, correction.ErrSessionNotFound):
		return -32004 // not found
	case errors.Is(err, session.ErrSessionNotActive):
		return -32005 // invalid state
	default:
		return ErrInternal
	}
}
