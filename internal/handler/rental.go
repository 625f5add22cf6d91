package handler

import (
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/sakila-rental-service/internal/logger"
    "github.com/iliyamo/sakila-rental-service/internal/projection"
    "github.com/iliyamo/sakila-rental-service/internal/service"
)

type RentalHandler struct {
    Lifecycle *service.Lifecycle
    Log       *logger.Logger
}

// Return closes an open rental.
func (h *RentalHandler) Return(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return respondError(c, h.Log, err)
    }
    res, err := h.Lifecycle.ReturnRental(c.Request().Context(), id)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message":     fmt.Sprintf("rental %d returned", id),
        "rental_id":   res.RentalID,
        "return_date": projection.Timestamp(res.ReturnDate),
    })
}

// Validate checks a prospective rental's required fields.
func (h *RentalHandler) Validate(c echo.Context) error {
    var in service.RentalInput
    if err := bindBody(c, &in); err != nil {
        return respondError(c, h.Log, err)
    }
    if err := h.Lifecycle.ValidateRental(in); err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "rental is valid"})
}
