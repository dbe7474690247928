package gatedchat

import (
	"net/http"
	"time"

	"github.com/putto11262002/gatedchat/core"
)

// ServiceName is reported by the health check.
const ServiceName = "staticplay-chat-server"

type ProfileHandler struct {
	profileStore core.ProfileStore
	now          func() time.Time
}

func NewProfileHandler(profileStore core.ProfileStore) *ProfileHandler {
	return &ProfileHandler{profileStore: profileStore, now: time.Now}
}

type HealthResponse struct {
	OK        bool      `json:"ok"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

type VerifyResponse struct {
	Is18Verified bool   `json:"is18Verified"`
	Provider     string `json:"provider"`
}

func (h *ProfileHandler) HealthHandler(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, HealthResponse{OK: true, Service: ServiceName, Timestamp: h.now().UTC()})
}

func (h *ProfileHandler) MeHandler(w http.ResponseWriter, r *http.Request) error {
	caller := CallerFromRequest(r)
	return writeJSON(w, h.profileStore.Profile(r.Context(), caller.UserID))
}

// MockVerifyHandler completes age verification without a provider round trip.
func (h *ProfileHandler) MockVerifyHandler(w http.ResponseWriter, r *http.Request) error {
	caller := CallerFromRequest(r)
	profile := h.profileStore.MarkVerified(r.Context(), caller.UserID)
	return writeJSON(w, VerifyResponse{Is18Verified: profile.Is18Verified, Provider: "sumsub-mock"})
}
