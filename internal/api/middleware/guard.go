package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/userdesk/user-management/internal/core/domain"
)

// SessionCookie is the cookie the login handler sets; the guard accepts it as
// an alternative to the Authorization header.
const SessionCookie = "session"

const claimsKey = "session_claims"

// RevocationChecker reports whether a token id has been revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// GuardConfig configures the access guard.
type GuardConfig struct {
	JWTSecret string
	// PublicPaths are allowed without a session. Matching is exact —
	// "/login/extra" is NOT public unless listed (fail closed).
	PublicPaths []string
	// PublicPrefixes cover asset-style surfaces such as /swagger/.
	PublicPrefixes []string
	// Revoked is optional; when set, tokens revoked by logout are rejected.
	Revoked RevocationChecker
}

// Guard is the request-time access gate. Public paths pass through untouched;
// every other path requires a valid, unrevoked session token, presented either
// as a bearer header or as the session cookie. On success the parsed claims
// are injected into the request context for downstream handlers. The guard
// never mutates session state or persistence.
func Guard(cfg GuardConfig) echo.MiddlewareFunc {
	public := make(map[string]struct{}, len(cfg.PublicPaths))
	for _, p := range cfg.PublicPaths {
		public[p] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if _, ok := public[path]; ok {
				return next(c)
			}
			for _, prefix := range cfg.PublicPrefixes {
				if strings.HasPrefix(path, prefix) {
					return next(c)
				}
			}

			raw := extractToken(c)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			claims, err := parseClaims(raw, cfg.JWTSecret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			if cfg.Revoked != nil && claims.TokenID != "" {
				revoked, err := cfg.Revoked.IsRevoked(c.Request().Context(), claims.TokenID)
				if err == nil && revoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "session has been revoked")
				}
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// SessionFromContext returns the claims the guard injected, if any.
func SessionFromContext(c echo.Context) (domain.SessionClaims, bool) {
	claims, ok := c.Get(claimsKey).(domain.SessionClaims)
	return claims, ok
}

// extractToken reads the token from the Authorization header, falling back to
// the session cookie set at login.
func extractToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}

	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func parseClaims(raw, secret string) (domain.SessionClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return domain.SessionClaims{}, jwt.ErrTokenUnverifiable
	}

	sc := domain.SessionClaims{}
	sc.UserID, _ = claims["sub"].(string)
	sc.Email, _ = claims["email"].(string)
	sc.Name, _ = claims["name"].(string)
	sc.Role, _ = claims["role"].(string)
	sc.TokenID, _ = claims["jti"].(string)
	if exp, ok := claims["exp"].(float64); ok {
		sc.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return sc, nil
}
