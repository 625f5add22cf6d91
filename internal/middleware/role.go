package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// RequireRole rejects with 403 unless the role stored by StaffAuth is one
// of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, ok := c.Get(ctxRole).(string)
            if !ok || !allowed[role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "message": "insufficient role"})
            }
            return next(c)
        }
    }
}
