package gatedchat

import (
	"net/http"

	"github.com/putto11262002/gatedchat/core"
)

type ThemeHandler struct {
	themeStore core.ThemeStore
}

func NewThemeHandler(themeStore core.ThemeStore) *ThemeHandler {
	return &ThemeHandler{themeStore: themeStore}
}

// SaveThemePayload replaces the caller's theme. Both colors are required.
type SaveThemePayload struct {
	MessageBoxColor  string `json:"messageBoxColor" validate:"required,themecolor"`
	MessageTextColor string `json:"messageTextColor" validate:"required,themecolor"`
}

type ThemeResponse struct {
	Theme core.ThemePreference `json:"theme"`
}

func (h *ThemeHandler) GetThemeHandler(w http.ResponseWriter, r *http.Request) error {
	caller := CallerFromRequest(r)
	return writeJSON(w, ThemeResponse{Theme: h.themeStore.GetTheme(r.Context(), caller.UserID)})
}

func (h *ThemeHandler) SaveThemeHandler(w http.ResponseWriter, r *http.Request) error {
	caller := CallerFromRequest(r)

	var payload SaveThemePayload
	if err := decodeBody(r, &payload); err != nil {
		return err
	}
	if err := validate.Struct(payload); err != nil {
		return core.ErrInvalidColor
	}

	theme, err := h.themeStore.SaveTheme(r.Context(), caller.UserID, payload.MessageBoxColor, payload.MessageTextColor)
	if err != nil {
		return err
	}
	return writeJSON(w, ThemeResponse{Theme: theme})
}
