package gatedchat_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gatedchat "github.com/putto11262002/gatedchat/app"
	"github.com/putto11262002/gatedchat/core"
)

func Test_HealthHandler(t *testing.T) {
	server, close := setUpTestServer(t)
	defer close()

	res := NewUserClient(server, "").Get(t, "/v1/health")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var body gatedchat.HealthResponse
	decodeJsonBody(t, res, &body)
	assert.True(t, body.OK)
	assert.Equal(t, gatedchat.ServiceName, body.Service)
	assert.False(t, body.Timestamp.IsZero())
}

func Test_MockVerifyHandler(t *testing.T) {
	server, close := setUpTestServer(t)
	defer close()
	uc := NewUserClient(server, "user-1")

	getProfile := func(t *testing.T, uc *UserClient) core.Profile {
		res := uc.Get(t, "/v1/me")
		require.Equal(t, http.StatusOK, res.StatusCode)
		var profile core.Profile
		decodeJsonBody(t, res, &profile)
		return profile
	}

	assert.Equal(t, core.Profile{UserID: "user-1"}, getProfile(t, uc))

	res := uc.Post(t, "/v1/verify18/mock-complete", struct{}{})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var body gatedchat.VerifyResponse
	decodeJsonBody(t, res, &body)
	assert.True(t, body.Is18Verified)
	assert.Equal(t, "sumsub-mock", body.Provider)

	assert.Equal(t, core.Profile{UserID: "user-1", Is18Verified: true}, getProfile(t, uc))
	assert.False(t, getProfile(t, NewUserClient(server, "user-2")).Is18Verified)
}

func Test_UnknownRoute(t *testing.T) {
	server, close := setUpTestServer(t)
	defer close()

	res := NewUserClient(server, "user-1").Get(t, "/v1/nope")
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "route not found", decodeError(t, res).Err)
}
