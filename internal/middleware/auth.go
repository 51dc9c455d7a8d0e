package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"searchbar/internal/config"
)

// Session keys written by the OIDC callback.
const (
	SessionUserEmail    = "user_email"
	SessionUserName     = "user_name"
	SessionRedirectPath = "redirect_after_login"
)

// AuthMiddleware guards the admin interface using the session set at login.
type AuthMiddleware struct {
	cfg *config.Config
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

// RequireAdmin ensures the session belongs to an email listed in ADMIN_EMAILS.
// Anonymous visitors are sent to /auth/login, or get 401 when OIDC is not configured.
func (m *AuthMiddleware) RequireAdmin(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	email, _ := sess.Get(SessionUserEmail).(string)
	if email == "" {
		if !m.cfg.IsOIDCEnabled() {
			return fiber.NewError(fiber.StatusUnauthorized, "Sign-in is not configured")
		}
		if c.Method() == fiber.MethodGet {
			sess.Set(SessionRedirectPath, m.cfg.BasePath+c.OriginalURL())
		}
		return c.Redirect().To(m.cfg.BasePath + "/auth/login")
	}

	if !m.cfg.IsAdminEmail(email) {
		return fiber.NewError(fiber.StatusForbidden, "Admin access required")
	}

	c.Locals("admin_email", email)
	return c.Next()
}

// AdminEmail returns the email of the admin authorized for this request.
func AdminEmail(c fiber.Ctx) string {
	email, _ := c.Locals("admin_email").(string)
	return email
}
