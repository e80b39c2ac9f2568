package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wanderlust-tours/wanderlust/internal/access"
	"github.com/wanderlust-tours/wanderlust/internal/auth"
	"github.com/wanderlust-tours/wanderlust/internal/metrics"
	"github.com/wanderlust-tours/wanderlust/internal/models"
)

const (
	bearerPrefix = "Bearer "

	sessionKey = "session"
	visitorKey = "visitor_id"

	visitorCookie    = "wanderlust_visitor"
	visitorCookieAge = 365 * 24 * 60 * 60
)

var (
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrEmptyToken        = errors.New("empty token")
)

// paths that stay reachable whatever the gate configuration says
var ungatedPrefixes = []string{"/health", "/metrics", "/api/setup", "/api/auth/"}

func setSession(c *gin.Context, session access.Session) {
	c.Set(sessionKey, session)
}

// GetSession returns the session resolved for the request. Requests that
// did not pass SessionMiddleware are anonymous.
func GetSession(c *gin.Context) access.Session {
	if v, ok := c.Get(sessionKey); ok {
		if session, ok := v.(access.Session); ok {
			return session
		}
	}
	return access.Anonymous()
}

// extractToken reads the session token from the Authorization header,
// falling back to the session cookie
func extractToken(c *gin.Context, cookieName string) (string, error) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			return "", ErrInvalidAuthFormat
		}
		token := strings.TrimPrefix(authHeader, bearerPrefix)
		if token == "" {
			return "", ErrEmptyToken
		}
		return token, nil
	}

	token, err := c.Cookie(cookieName)
	if err != nil {
		return "", nil
	}
	return token, nil
}

// SessionMiddleware resolves the request's session from its token. Invalid
// tokens and deleted users degrade to an anonymous session; the role always
// comes from the user record.
func SessionMiddleware(provider *auth.Provider, db *gorm.DB, cookieName string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c, cookieName)
		if err != nil {
			log.Debug().Err(err).Msg("Ignoring malformed authorization header")
		}

		session, claims, err := provider.Resolve(token)
		if err != nil {
			log.Warn().Err(err).Msg("Rejected session token")
		}

		if session.Status == access.StatusAuthenticated {
			var user models.User
			if err := models.FindByID(db.WithContext(c.Request.Context()), claims.UserID, &user); err != nil {
				log.Warn().Err(err).Str("user_id", claims.UserID).Msg("Session user not found")
				session = access.Anonymous()
			} else {
				session.Role = access.Role(user.Role)
				session.DisplayName = user.Name
			}
		}

		setSession(c, session)
		c.Next()
	}
}

// AccessGateMiddleware applies the gate's decision to every guarded path.
// The admin and worker login entry points themselves are never gated.
func AccessGateMiddleware(gate *access.Gate, m *metrics.Metrics, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if isUngated(path) || !gate.Guards(path) {
			c.Next()
			return
		}

		session := GetSession(c)
		decision := gate.Evaluate(path, session)
		m.ObserveDecision(path, decision)

		switch decision.Outcome {
		case access.OutcomePending:
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": string(access.StatusLoading)})
		case access.OutcomeRedirect:
			log.Debug().
				Str("path", path).
				Str("status", string(session.Status)).
				Str("role", string(session.Role)).
				Str("target", decision.Target).
				Msg("Access gate redirect")
			c.Redirect(http.StatusFound, decision.Target)
			c.Abort()
		default:
			c.Next()
		}
	}
}

func isUngated(path string) bool {
	if path == access.AdminLoginPath || path == access.WorkerLoginPath {
		return true
	}
	for _, prefix := range ungatedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// VisitorMiddleware assigns every visitor a stable id cookie that scopes
// their wishlist
func VisitorMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(visitorCookie)
		if err == nil {
			if _, parseErr := ulid.ParseStrict(id); parseErr != nil {
				log.Debug().Err(parseErr).Msg("Replacing invalid visitor cookie")
				err = parseErr
			}
		}
		if err != nil {
			id = ulid.Make().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(visitorCookie, id, visitorCookieAge, "/", "", isSecure(c), true)
		}

		c.Set(visitorKey, id)
		c.Next()
	}
}

// GetVisitorID returns the id assigned by VisitorMiddleware
func GetVisitorID(c *gin.Context) string {
	return c.GetString(visitorKey)
}

func isSecure(c *gin.Context) bool {
	return c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}

func setSessionCookie(c *gin.Context, name, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, token, int(ttl.Seconds()), "/", "", isSecure(c), true)
}

func clearSessionCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", isSecure(c), true)
}
