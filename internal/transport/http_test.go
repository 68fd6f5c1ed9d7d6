package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/bidboard/internal/domain/account"
	"github.com/stretchr/testify/require"
)

type testHandler struct {
	method string
	err    error
}

func (h *testHandler) Handle(_ context.Context, owner, method string, _ json.RawMessage) (any, error) {
	h.method = method
	if h.err != nil {
		return nil, h.err
	}
	return map[string]string{"owner": owner}, nil
}

type codedErr struct{ code string }

func (e codedErr) Error() string     { return e.code + ": failed" }
func (e codedErr) CodeValue() string { return e.code }

func postRPC(t *testing.T, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/rpc", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHTTPServer_RPC(t *testing.T) {
	handler := &testHandler{}
	resolver := &testResolver{tokenToOwner: map[string]account.Identity{"token": clientIdentity("0xclient")}}
	server := httptest.NewServer(NewServer(handler, AuthMiddleware(resolver)))
	t.Cleanup(server.Close)

	resp := postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"list_projects","id":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "list_projects", handler.method)

	var decoded struct {
		Result map[string]string `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.Equal(t, "0xclient", decoded.Result["owner"])
}

func TestHTTPServer_CodedError(t *testing.T) {
	handler := &testHandler{err: codedErr{code: "PROJECT_NOT_FOUND"}}
	server := httptest.NewServer(NewServer(handler, DefaultOwnerMiddleware(clientIdentity("local"))))
	t.Cleanup(server.Close)

	resp := postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"get_project","params":{"project_id":9},"id":2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.NotNil(t, decoded.Error)
	require.Equal(t, ErrApplication, decoded.Error.Code)
}

func TestHTTPServer_Unauthorized(t *testing.T) {
	handler := &testHandler{err: ErrUnauthorized}
	server := httptest.NewServer(NewServer(handler, DefaultOwnerMiddleware(clientIdentity("local"))))
	t.Cleanup(server.Close)

	resp := postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"get_project","id":3}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	handler.err = errors.New("boom")
	resp = postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"get_project","id":4}`)
	var decoded Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.Equal(t, ErrInternal, decoded.Error.Code)
}

func TestHTTPServer_ProtocolErrorCodes(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		code   int
		called bool
	}{
		{name: "malformed json", body: `{not json`, code: ErrParseCode},
		{name: "missing method", body: `{"jsonrpc":"2.0","id":1}`, code: ErrInvalidReq},
		{name: "unknown method", body: `{"jsonrpc":"2.0","method":"nope","id":1}`,
			err: fmt.Errorf("%w: nope", ErrUnknownMethod), code: ErrMethodNotFound, called: true},
		{name: "bad params", body: `{"jsonrpc":"2.0","method":"get_project","params":{"project_id":"x"},"id":1}`,
			err: fmt.Errorf("%w: project_id", ErrBadParams), code: ErrInvalidParams, called: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := &testHandler{err: tc.err}
			server := httptest.NewServer(NewServer(handler, DefaultOwnerMiddleware(clientIdentity("local"))))
			t.Cleanup(server.Close)

			resp := postRPC(t, server.URL, tc.body)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var decoded Response
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
			require.NotNil(t, decoded.Error)
			require.Equal(t, tc.code, decoded.Error.Code)
			require.Equal(t, tc.called, handler.method != "")
		})
	}
}

func TestHTTPServer_MissingOwner(t *testing.T) {
	server := httptest.NewServer(NewServer(&testHandler{}, nil))
	t.Cleanup(server.Close)

	resp := postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"list_projects","id":1}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHTTPServer_Health(t *testing.T) {
	handler := &testHandler{}
	server := httptest.NewServer(NewServer(handler, nil))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
