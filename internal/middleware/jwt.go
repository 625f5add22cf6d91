package middleware

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/sakila-rental-service/internal/utils"
)

// Context keys set by StaffAuth.
const (
    ctxStaff = "staff"
    ctxRole  = "role"
)

// StaffAuth validates a Bearer access token and stores its subject and
// role in the request context.  Requests without a valid token get 401.
func StaffAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get(echo.HeaderAuthorization)
            raw, ok := strings.CutPrefix(auth, "Bearer ")
            if !ok || strings.TrimSpace(raw) == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "missing bearer token"})
            }
            claims, err := utils.ParseAccessToken(secret, strings.TrimSpace(raw))
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "invalid token"})
            }
            c.Set(ctxStaff, claims.Subject)
            c.Set(ctxRole, claims.Role)
            return next(c)
        }
    }
}

// StaffSubject returns the authenticated staff login, or "" when the
// request carried no valid token.
func StaffSubject(c echo.Context) string {
    s, _ := c.Get(ctxStaff).(string)
    return s
}
