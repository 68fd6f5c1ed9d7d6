// Package testserver runs the full HTTP stack over an in-memory database for
// end-to-end tests.
package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/bidboard/internal/deploy"
	"github.com/rpggio/bidboard/internal/domain/account"
	"github.com/rpggio/bidboard/internal/domain/history"
	"github.com/rpggio/bidboard/internal/eventbus"
	"github.com/rpggio/bidboard/internal/mcp"
	"github.com/rpggio/bidboard/internal/sqlite"
	"github.com/rpggio/bidboard/internal/transport"
	"github.com/stretchr/testify/require"
	"gocloud.dev/pubsub"
	_ "gocloud.dev/pubsub/mempubsub"
)

// Now is the fixed clock every test server runs on: 2020-09-01T00:00:00Z.
var Now = time.Unix(1598918400, 0).UTC()

type TestServer struct {
	Server     *httptest.Server
	DB         *sqlite.DB
	Deployment *deploy.Deployment
	History    *history.Service
	Token      string
	Owner      string
}

// New starts a server authenticated by API keys, with token registered for
// owner as a client account.
func New(t *testing.T, token, owner string) *TestServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	topicURL := "mem://" + strings.ReplaceAll(t.Name(), "/", "_")
	topic, err := pubsub.OpenTopic(ctx, topicURL)
	require.NoError(t, err)
	sub, err := pubsub.OpenSubscription(ctx, topicURL)
	require.NoError(t, err)
	publisher, err := eventbus.NewPublisher(topic)
	require.NoError(t, err)

	historySvc := history.NewService(sqlite.NewHistoryRepository(db), nil)
	ingestDone := make(chan struct{})
	go func() {
		defer close(ingestDone)
		_ = eventbus.NewIngestor(sub, historySvc, nil).Run(ctx)
	}()

	d, err := deploy.Deploy(ctx, deploy.Components{
		Addresses: sqlite.NewComponentRepository(db),
		Projects:  sqlite.NewProjectRepository(db),
		Publisher: publisher,
		Clock:     func() time.Time { return Now },
	})
	require.NoError(t, err)

	apiKeys := sqlite.NewAPIKeyRepository(db)
	require.NoError(t, apiKeys.Add(ctx, token, account.Identity{Owner: owner, Kind: account.KindClient}, "test"))

	handler := mcp.NewHandler(d.Projects, d.Bids, historySvc)
	server := httptest.NewServer(transport.NewServer(handler, transport.AuthMiddleware(apiKeys)))

	t.Cleanup(func() {
		server.Close()
		cancel()
		<-ingestDone
		_ = sub.Shutdown(context.Background())
		_ = topic.Shutdown(context.Background())
		_ = db.Close()
	})

	return &TestServer{
		Server:     server,
		DB:         db,
		Deployment: d,
		History:    historySvc,
		Token:      token,
		Owner:      owner,
	}
}

// AddAPIKey registers another token.
func (ts *TestServer) AddAPIKey(token, owner string, kind account.Kind) error {
	id := account.Identity{Owner: owner, Kind: kind}
	return sqlite.NewAPIKeyRepository(ts.DB).Add(context.Background(), token, id, "test")
}

// Call posts a JSON-RPC request with the server's token.
func (ts *TestServer) Call(t *testing.T, method string, params any) transport.Response {
	t.Helper()
	return ts.CallAs(t, ts.Token, method, params)
}

// CallAs posts a JSON-RPC request with token and decodes the response.
func (ts *TestServer) CallAs(t *testing.T, token, method string, params any) transport.Response {
	t.Helper()

	payload := map[string]any{"jsonrpc": "2.0", "id": 1, "method": method}
	if params != nil {
		payload["params"] = params
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return ts.Post(t, token, body)
}

// Post sends body to the JSON-RPC endpoint as is and decodes the response.
func (ts *TestServer) Post(t *testing.T, token string, body []byte) transport.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded transport.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded
}

// Decode converts a JSON-RPC result into out.
func Decode(t *testing.T, result any, out any) {
	t.Helper()
	data, err := json.Marshal(result)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

// ErrorCode returns the application error code carried by resp, if any.
func ErrorCode(t *testing.T, resp transport.Response) string {
	t.Helper()
	require.NotNil(t, resp.Error, "expected an error response")
	var apiErr mcp.APIError
	Decode(t, resp.Error.Data, &apiErr)
	return apiErr.Code
}
