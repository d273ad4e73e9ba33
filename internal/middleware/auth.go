package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hongminglow/kitchen-guide/internal/auth"
)

// CookieName is the session cookie that carries the identity token for
// browser clients. Programmatic clients use the Authorization header instead.
const CookieName = "auth_token"

const bearerPrefix = "Bearer "

// Identity is the per-request caller identity reconstructed from token claims.
// It lives only for the request and is never persisted.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

type contextKey struct{}

var identityKey contextKey

// IdentityFrom returns the identity attached by RequireAuth. Handlers behind
// the middleware can rely on ok being true; elsewhere ok is false.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// WithIdentity attaches an identity to the context. Exported for handler tests.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// UnauthorizedWriter renders the 401 response body. Implemented by the HTML
// renderer; falls back to plain text when rendering fails.
type UnauthorizedWriter interface {
	Unauthorized(w http.ResponseWriter)
}

// Auth is the access-control gate: it resolves a caller's identity from a
// bearer token or session cookie and exposes required and optional extraction
// to downstream handlers.
type Auth struct {
	tokens   *auth.TokenManager
	unauthed UnauthorizedWriter
	logger   zerolog.Logger
}

// NewAuth creates the gate around a token manager.
func NewAuth(tokens *auth.TokenManager, unauthed UnauthorizedWriter, logger zerolog.Logger) *Auth {
	return &Auth{tokens: tokens, unauthed: unauthed, logger: logger}
}

// RequireAuth gates a route: without a valid token the handler never runs and
// the caller gets a 401 page. With one, the decoded identity is attached to
// the request context for IdentityFrom.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			a.unauthed.Unauthorized(w)
			return
		}

		claims, err := a.tokens.Validate(token)
		if err != nil {
			a.logger.Debug().Err(err).Msg("rejected token on protected route")
			a.unauthed.Unauthorized(w)
			return
		}
		id, err := identityFromClaims(claims)
		if err != nil {
			a.logger.Debug().Err(err).Msg("token subject is not a user id")
			a.unauthed.Unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// OptionalIdentity resolves the caller's identity if one can be established,
// and nil otherwise. It never fails: context first (set by RequireAuth), then
// a fresh validation of the session cookie, with every error swallowed.
func (a *Auth) OptionalIdentity(r *http.Request) *Identity {
	if id, ok := IdentityFrom(r.Context()); ok {
		return &id
	}

	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims, err := a.tokens.Validate(cookie.Value)
	if err != nil {
		return nil
	}
	id, err := identityFromClaims(claims)
	if err != nil {
		return nil
	}
	return &id
}

// tokenFromRequest prefers the Authorization header with the literal
// "Bearer " prefix, then falls back to the session cookie.
func tokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, bearerPrefix) {
		return header[len(bearerPrefix):]
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func identityFromClaims(claims *auth.Claims) (Identity, error) {
	userID, err := claims.UserID()
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: userID, Username: claims.Username}, nil
}
