package middleware

import (
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/sakila-rental-service/internal/logger"
)

// RequestID reuses an inbound X-Request-ID or assigns a new one and echoes
// it on the response.
func RequestID() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            id := c.Request().Header.Get(echo.HeaderXRequestID)
            if id == "" {
                id = uuid.NewString()
            }
            c.Response().Header().Set(echo.HeaderXRequestID, id)
            c.Set("request_id", id)
            return next(c)
        }
    }
}

// AccessLog writes one line per request once the handler has finished.
func AccessLog(log *logger.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                c.Error(err)
            }
            req, res := c.Request(), c.Response()
            kv := []interface{}{
                "method", req.Method,
                "path", req.URL.Path,
                "route", c.Path(),
                "status", res.Status,
                "latency_ms", time.Since(start).Milliseconds(),
                "request_id", res.Header().Get(echo.HeaderXRequestID),
            }
            if s := StaffSubject(c); s != "" {
                kv = append(kv, "staff", s)
            }
            switch {
            case res.Status >= 500:
                log.Error("request", kv...)
            case res.Status >= 400:
                log.Warn("request", kv...)
            default:
                log.Info("request", kv...)
            }
            return nil
        }
    }
}
