package gatedchat_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gatedchat "github.com/putto11262002/gatedchat/app"
	"github.com/putto11262002/gatedchat/core"
)

func Test_AppKeyMiddleware(t *testing.T) {
	server, close := setUpTestServer(t)
	defer close()

	tests := []struct {
		name           string
		appKey         string
		expectedStatus int
	}{
		{name: "valid key", appKey: testAppKey, expectedStatus: http.StatusOK},
		{name: "missing key", appKey: "", expectedStatus: http.StatusUnauthorized},
		{name: "wrong key", appKey: "nope", expectedStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			uc := NewUserClient(server, "user-1")
			uc.AppKey = tc.appKey

			res := uc.Get(t, "/v1/rooms")
			assert.Equal(t, tc.expectedStatus, res.StatusCode)
			if res.StatusCode == http.StatusUnauthorized {
				assert.Equal(t, "Unauthorized app key", decodeError(t, res).Err)
			} else {
				res.Body.Close()
			}
		})
	}
}

func Test_CallerIdentity(t *testing.T) {
	server, close := setUpTestServer(t)
	defer close()

	t.Run("anonymous by default", func(t *testing.T) {
		res := NewUserClient(server, "").Get(t, "/v1/me")
		require.Equal(t, http.StatusOK, res.StatusCode)
		var profile core.Profile
		decodeJsonBody(t, res, &profile)
		assert.Equal(t, gatedchat.AnonymousUserID, profile.UserID)
	})

	t.Run("token overrides the header", func(t *testing.T) {
		uc := NewUserClient(server, "user-1")
		res := uc.Post(t, "/v1/session", struct{}{})
		require.Equal(t, http.StatusCreated, res.StatusCode)
		var session gatedchat.SessionResponse
		decodeJsonBody(t, res, &session)
		assert.Equal(t, "user-1", session.UserID)
		require.NotEmpty(t, session.Token)

		impostor := NewUserClient(server, "user-2")
		impostor.Token = session.Token
		res = impostor.Get(t, "/v1/me")
		require.Equal(t, http.StatusOK, res.StatusCode)
		var profile core.Profile
		decodeJsonBody(t, res, &profile)
		assert.Equal(t, "user-1", profile.UserID)
	})

	t.Run("invalid token", func(t *testing.T) {
		uc := NewUserClient(server, "user-1")
		uc.Token = "garbage"
		res := uc.Get(t, "/v1/me")
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
		res.Body.Close()
	})
}

func Test_Preflight(t *testing.T) {
	server, close := setUpTestServer(t)
	defer close()

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/v1/rooms", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type,x-staticplay-app-key")

	res, err := server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, res.Header.Get("Access-Control-Allow-Methods"), http.MethodPost)

	// a bare OPTIONS without the app key is answered the same way
	req, err = http.NewRequest(http.MethodOptions, server.URL+"/v1/theme", nil)
	require.NoError(t, err)
	bare, err := server.Client().Do(req)
	require.NoError(t, err)
	defer bare.Body.Close()
	assert.Equal(t, http.StatusNoContent, bare.StatusCode)
}
