package middleware

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"portfolio/internal/models"
	"portfolio/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	// SessionCookie holds the signed session token.
	SessionCookie = "session"

	identityKey = "identity"
)

// LoadIdentity resolves the session cookie into the current user. Requests
// without a valid session continue anonymously. The cookie is only cleared
// when the token itself is bad, not when the user store is unreachable.
func LoadIdentity(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token == "" {
			return c.Next()
		}

		user, err := authService.ResolveSession(c.UserContext(), token)
		if err != nil {
			if !errors.Is(err, services.ErrSessionUnavailable) {
				ClearSession(c)
			}
			return c.Next()
		}

		c.Locals(identityKey, user)
		return c.Next()
	}
}

// RequireAuth redirects anonymous callers to the login page, remembering
// where they were going.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return c.Redirect("/login?next=" + url.QueryEscape(c.OriginalURL()))
		}
		return c.Next()
	}
}

// RedirectIfAuthenticated sends signed-in callers to their dashboard.
func RedirectIfAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) != nil {
			return c.Redirect("/dashboard")
		}
		return c.Next()
	}
}

// CurrentUser returns the signed-in user, or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(identityKey).(*models.User)
	return user
}

// StartSession stores a signed session token in the session cookie.
func StartSession(c *fiber.Ctx, token string, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:        SessionCookie,
		Value:       token,
		Path:        "/",
		HTTPOnly:    true,
		Secure:      secure,
		SameSite:    fiber.CookieSameSiteLaxMode,
		SessionOnly: true,
	})
}

// ClearSession expires the session cookie.
func ClearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// SafeNext returns next if it is a local path, otherwise fallback.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}
