package gatedchat

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/putto11262002/gatedchat/core"
	"github.com/putto11262002/gatedchat/pkg/router"
)

const (
	AppKeyHeader = "X-Staticplay-App-Key"
	UserIDHeader = "X-Staticplay-User-Id"
	// AnonymousUserID is used when a caller does not declare a user ID.
	AnonymousUserID = "anonymous"
)

// Caller is the user a request claims to come from.
// UserID is self-reported by the client; TokenBound is true when it was
// taken from a token issued by this server rather than from a header.
type Caller struct {
	UserID     string
	TokenBound bool
}

type callerKey struct{}

func contextWithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

func callerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(Caller)
	return caller, ok
}

// CallerFromRequest extracts the caller from the request context.
// It must be called in handlers that are protected by the AppKeyMiddleware.
// It panics if the caller is not found in the request context.
func CallerFromRequest(r *http.Request) Caller {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		panic("caller not found in request context: call this function in handlers that are protected by AppKeyMiddleware")
	}
	return caller
}

// AppKeyMiddleware rejects requests that do not present the shared app key and
// attaches the caller to the request context.
// A valid bearer token takes precedence over the user ID header.
func AppKeyMiddleware(appKey string, tokenSecret []byte) router.Middleware {
	return func(next http.Handler) router.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) error {
			key := r.Header.Get(AppKeyHeader)
			if subtle.ConstantTimeCompare([]byte(key), []byte(appKey)) != 1 {
				return core.ErrUnauthorized
			}

			caller := Caller{UserID: strings.TrimSpace(r.Header.Get(UserIDHeader))}
			if token, ok := bearerToken(r); ok {
				claims, err := core.VerifyToken(token, tokenSecret)
				if err != nil {
					return router.NewJsonError(http.StatusUnauthorized, err.Error())
				}
				caller = Caller{UserID: claims.UserID, TokenBound: true}
			}
			if caller.UserID == "" {
				caller.UserID = AnonymousUserID
			}

			next.ServeHTTP(w, r.WithContext(contextWithCaller(r.Context(), caller)))
			return nil
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

type AuthHandler struct {
	secret []byte
	ttl    time.Duration
}

func NewAuthHandler(secret []byte, ttl time.Duration) *AuthHandler {
	return &AuthHandler{secret: secret, ttl: ttl}
}

type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    string    `json:"userId"`
}

// SessionHandler issues a token bound to the caller's user ID.
// Later requests can present it as a bearer token instead of the user ID header.
func (h *AuthHandler) SessionHandler(w http.ResponseWriter, r *http.Request) error {
	caller := CallerFromRequest(r)

	token, exp, err := core.NewToken(caller.UserID, h.ttl, h.secret)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	return writeJSONWithStatusCode(w, SessionResponse{
		Token:     token,
		ExpiresAt: exp.UTC(),
		UserID:    caller.UserID,
	}, http.StatusCreated)
}
