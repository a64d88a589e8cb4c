package transport_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timeharbor/timeharbor/internal/domain/session"
	"github.com/timeharbor/timeharbor/internal/rpc"
	"github.com/timeharbor/timeharbor/internal/transport"
)

type stubHandler struct {
	actorID string
	method  string
	result  any
	err     error
}

func (h *stubHandler) Handle(_ context.Context, actorID, method string, _ json.RawMessage) (any, error) {
	h.actorID = actorID
	h.method = method
	return h.result, h.err
}

type stubResolver struct {
	actors map[string]string
}

func (r *stubResolver) ResolveActor(_ context.Context, token string) (string, error) {
	if actorID, ok := r.actors[token]; ok {
		return actorID, nil
	}
	return "", transport.ErrUnauthorized
}

func post(t *testing.T, srv http.Handler, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/rpc", strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) transport.Response {
	t.Helper()
	var resp transport.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestServer_Health(t *testing.T) {
	srv := transport.NewServer(&stubHandler{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestServer_RPC_Success(t *testing.T) {
	handler := &stubHandler{result: map[string]string{"id": "s1"}}
	srv := transport.NewServer(handler, transport.DefaultActorMiddleware("w1"))

	rec := post(t, srv, `{"jsonrpc":"2.0","id":1,"method":"clock_in","params":{}}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode(t, rec)
	require.Nil(t, resp.Error)
	require.Equal(t, "w1", handler.actorID, "default actor flows to the handler")
	require.Equal(t, "clock_in", handler.method)
}

func TestServer_RPC_InvalidBody(t *testing.T) {
	srv := transport.NewServer(&stubHandler{}, nil)

	rec := post(t, srv, `{"method":"clock_in"}`, nil) // missing jsonrpc version
	resp := decode(t, rec)
	require.NotNil(t, resp.Error)
	require.Equal(t, transport.ErrInvalidReq, resp.Error.Code)

	rec = post(t, srv, `not json`, nil)
	resp = decode(t, rec)
	require.NotNil(t, resp.Error)
}

func TestServer_RPC_ErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"unknown method", rpc.ErrMethodNotFound, transport.ErrMethodNotFound},
		{"invalid params", rpc.ErrInvalidParams, transport.ErrInvalidParams},
		{"invalid input", session.ErrInvalidInput, transport.ErrInvalidParams},
		{"already active", session.ErrSessionActive, -32009},
		{"not found", session.ErrSessionNotFound, -32004},
		{"not active", session.ErrSessionNotActive, -32005},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := transport.NewServer(&stubHandler{err: tt.err}, nil)
			rec := post(t, srv, `{"jsonrpc":"2.0","id":1,"method":"clock_in"}`, nil)
			resp := decode(t, rec)
			require.NotNil(t, resp.Error)
			require.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestServer_Auth(t *testing.T) {
	handler := &stubHandler{result: "ok"}
	resolver := &stubResolver{actors: map[string]string{"secret": "w1"}}
	srv := transport.NewServer(handler, transport.AuthMiddleware(resolver))

	body := `{"jsonrpc":"2.0","id":1,"method":"get_active_session"}`

	rec := post(t, srv, body, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code, "missing token rejected")

	rec = post(t, srv, body, map[string]string{"Authorization": "Bearer wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code, "unknown token rejected")

	rec = post(t, srv, body, map[string]string{"Authorization": "Bearer secret"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "w1", handler.actorID)

	// Health stays open even with auth enabled.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	healthRec := httptest.NewRecorder()
	srv.ServeHTTP(healthRec, req)
	require.Equal(t, http.StatusOK, healthRec.Code)
}
