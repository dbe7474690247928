package core

import (
	"context"
	"regexp"
	"strings"
)

// ThemePreference is a user's message rendering colors.
// Both colors are 6-digit hexadecimal strings such as "#101a2c".
type ThemePreference struct {
	MessageBoxColor  string `json:"messageBoxColor" mapstructure:"messageBoxColor" validate:"required,themecolor"`
	MessageTextColor string `json:"messageTextColor" mapstructure:"messageTextColor" validate:"required,themecolor"`
}

// DefaultTheme is returned for users that never saved a theme.
var DefaultTheme = ThemePreference{
	MessageBoxColor:  "#101a2c",
	MessageTextColor: "#e9f1ff",
}

// ErrInvalidColor is returned when a theme color is not a 6-digit hex color.
var ErrInvalidColor = NewInvalidInputError("Theme colors must be HEX like #101a2c")

var themeColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// IsThemeColor reports whether s is a 6-digit hex color with a leading "#".
func IsThemeColor(s string) bool {
	return themeColorPattern.MatchString(s)
}

type ThemeStore interface {
	// GetTheme returns the theme saved by the user or the default theme.
	GetTheme(ctx context.Context, userID string) ThemePreference

	// SaveTheme replaces the user's theme with the two colors and returns the stored theme.
	// Colors are stored lowercased.
	// If either color is not a 6-digit hex color, it returns ErrInvalidColor
	// and the previously saved theme is kept.
	SaveTheme(ctx context.Context, userID, boxColor, textColor string) (ThemePreference, error)
}

type MemoryThemeStore struct {
	themes   *SyncMap[string, ThemePreference]
	defaults ThemePreference
}

// NewMemoryThemeStore creates a theme store that falls back to defaults.
func NewMemoryThemeStore(defaults ThemePreference) *MemoryThemeStore {
	return &MemoryThemeStore{
		themes:   NewSyncMap[string, ThemePreference](),
		defaults: defaults,
	}
}

func (s *MemoryThemeStore) GetTheme(ctx context.Context, userID string) ThemePreference {
	if theme, ok := s.themes.Load(userID); ok {
		return theme
	}
	return s.defaults
}

func (s *MemoryThemeStore) SaveTheme(ctx context.Context, userID, boxColor, textColor string) (ThemePreference, error) {
	boxColor, textColor = strings.TrimSpace(boxColor), strings.TrimSpace(textColor)
	if !IsThemeColor(boxColor) || !IsThemeColor(textColor) {
		return ThemePreference{}, ErrInvalidColor
	}

	theme := ThemePreference{
		MessageBoxColor:  strings.ToLower(boxColor),
		MessageTextColor: strings.ToLower(textColor),
	}
	s.themes.Store(userID, theme)
	return theme, nil
}
