package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
)

// Pinger is satisfied by the database store.
type Pinger interface {
    Ping(ctx context.Context) error
}

// Health reports liveness without touching dependencies.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Ready reports whether the database answers a ping within two seconds.
func Ready(db Pinger) echo.HandlerFunc {
    return func(c echo.Context) error {
        ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
        defer cancel()
        if err := db.Ping(ctx); err != nil {
            return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
        }
        return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
    }
}
