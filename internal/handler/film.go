package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/sakila-rental-service/internal/apperr"
    "github.com/iliyamo/sakila-rental-service/internal/logger"
    "github.com/iliyamo/sakila-rental-service/internal/service"
)

// FilmHandler serves the film searches, the rental ranking and film
// details.
type FilmHandler struct {
    Catalog *service.Catalog
    Log     *logger.Logger
}

// SearchByTitle matches the exact title unless ?partial=true.
func (h *FilmHandler) SearchByTitle(c echo.Context) error {
    partial := false
    if raw := c.QueryParam("partial"); raw != "" {
        v, err := strconv.ParseBool(raw)
        if err != nil {
            return respondError(c, h.Log, apperr.Validation("partial must be true or false"))
        }
        partial = v
    }
    rows, err := h.Catalog.SearchFilmsByTitle(c.Request().Context(), c.Param("title"), !partial)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"film": rows})
}

func (h *FilmHandler) SearchByCategory(c echo.Context) error {
    rows, err := h.Catalog.SearchFilmsByCategory(c.Request().Context(), c.Param("category"))
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"category": rows})
}

func (h *FilmHandler) SearchByActor(c echo.Context) error {
    rows, err := h.Catalog.SearchFilmsByActor(c.Request().Context(), c.Param("name"))
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"name": rows})
}

// Top returns the ?n= most rented films (default 5).
func (h *FilmHandler) Top(c echo.Context) error {
    n, err := queryInt(c, "n")
    if err != nil {
        return respondError(c, h.Log, err)
    }
    rows, err := h.Catalog.TopFilms(c.Request().Context(), n)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"film": rows})
}

func (h *FilmHandler) Details(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return respondError(c, h.Log, err)
    }
    rows, err := h.Catalog.FilmDetails(c.Request().Context(), id)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"film_details": rows})
}
