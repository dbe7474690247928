package gatedchat_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	gatedchat "github.com/putto11262002/gatedchat/app"
	"github.com/putto11262002/gatedchat/core"
	"github.com/putto11262002/gatedchat/pkg/router"
)

const testAppKey = "test-app-key"

type UserClient struct {
	Server *httptest.Server
	UserID string
	AppKey string
	Token  string
}

func NewUserClient(server *httptest.Server, userID string) *UserClient {
	return &UserClient{Server: server, UserID: userID, AppKey: testAppKey}
}

func (u *UserClient) Do(t *testing.T, method, path string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, u.Server.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if u.AppKey != "" {
		req.Header.Set(gatedchat.AppKeyHeader, u.AppKey)
	}
	if u.UserID != "" {
		req.Header.Set(gatedchat.UserIDHeader, u.UserID)
	}
	if u.Token != "" {
		req.Header.Set("Authorization", "Bearer "+u.Token)
	}

	res, err := u.Server.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func (u *UserClient) Get(t *testing.T, path string) *http.Response {
	return u.Do(t, http.MethodGet, path, nil)
}

func (u *UserClient) Post(t *testing.T, path string, payload any) *http.Response {
	return u.Do(t, http.MethodPost, path, encodeJsonBody(t, payload))
}

func newTestConfig() *gatedchat.Config {
	config := &gatedchat.Config{
		Port:           8787,
		Hostname:       "127.0.0.1",
		Mode:           gatedchat.DevMode,
		Rooms:          core.DefaultRooms,
		Theme:          core.DefaultTheme,
		AllowedOrigins: []string{"*"},
	}
	config.Auth.AppKey = testAppKey
	config.Auth.TokenSecret = []byte("secret")
	config.Auth.TokenTTL = time.Hour
	config.Limits.MaxBodyBytes = 4 << 10
	config.Log.Level = "error"
	return config
}

func setUpTestServer(t *testing.T) (*httptest.Server, func()) {
	ctx, cancel := context.WithCancel(context.Background())

	app, err := gatedchat.New(ctx, newTestConfig(),
		gatedchat.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(app.Handler())
	return server, func() {
		server.Close()
		cancel()
	}
}

func encodeJsonBody(t *testing.T, body any) io.Reader {
	buf := bytes.NewBuffer(nil)
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		t.Fatal(err)
	}
	return buf
}

func decodeJsonBody(t *testing.T, res *http.Response, v any) {
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

func decodeError(t *testing.T, res *http.Response) router.JsonError {
	defer res.Body.Close()
	body, err := router.DecodeJsonError(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func threadsPath(selfAlias string) string {
	return "/v1/dms/threads?" + url.Values{"selfAlias": {selfAlias}}.Encode()
}
