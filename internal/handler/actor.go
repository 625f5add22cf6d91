package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/sakila-rental-service/internal/logger"
    "github.com/iliyamo/sakila-rental-service/internal/service"
)

type ActorHandler struct {
    Catalog *service.Catalog
    Log     *logger.Logger
}

// Top returns the ?n= actors with the most films (default 5).
func (h *ActorHandler) Top(c echo.Context) error {
    n, err := queryInt(c, "n")
    if err != nil {
        return respondError(c, h.Log, err)
    }
    rows, err := h.Catalog.TopActors(c.Request().Context(), n)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"actor": rows})
}

// Details returns up to ?limit= of the actor's most rented films.
func (h *ActorHandler) Details(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return respondError(c, h.Log, err)
    }
    limit, err := queryInt(c, "limit")
    if err != nil {
        return respondError(c, h.Log, err)
    }
    rows, err := h.Catalog.ActorDetails(c.Request().Context(), id, limit)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"actor_details": rows})
}
