package handler

import (
    "errors"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/sakila-rental-service/internal/apperr"
    "github.com/iliyamo/sakila-rental-service/internal/logger"
)

// respondError writes the stable error body {"error": code, "message": msg}
// for err.  Causes are logged for server errors and never rendered.
func respondError(c echo.Context, log *logger.Logger, err error) error {
    var he *echo.HTTPError
    if errors.As(err, &he) {
        msg, _ := he.Message.(string)
        code := "validation_error"
        if he.Code >= 500 {
            code = "transaction_error"
        }
        return c.JSON(he.Code, echo.Map{"error": code, "message": msg})
    }
    ae := apperr.As(err)
    status := ae.Kind.Status()
    if status >= 500 {
        log.Error("request failed", "path", c.Path(), "error", err)
        return c.JSON(status, echo.Map{"error": ae.Kind.Code(), "message": "storage operation failed, safe to retry"})
    }
    return c.JSON(status, echo.Map{"error": ae.Kind.Code(), "message": ae.Message})
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
    id, err := strconv.ParseInt(c.Param(name), 10, 64)
    if err != nil || id <= 0 {
        return 0, apperr.Validation("%s must be a positive integer", name)
    }
    return id, nil
}

// queryInt parses an optional integer query parameter; absent means 0.
func queryInt(c echo.Context, name string) (int, error) {
    raw := strings.TrimSpace(c.QueryParam(name))
    if raw == "" {
        return 0, nil
    }
    n, err := strconv.Atoi(raw)
    if err != nil {
        return 0, apperr.Validation("%s must be an integer", name)
    }
    return n, nil
}

// bindBody decodes the request body only, so path and query parameters
// never leak into it.
func bindBody(c echo.Context, v interface{}) error {
    if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
        return apperr.Validation("invalid request body")
    }
    return nil
}
