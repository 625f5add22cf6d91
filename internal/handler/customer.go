package handler

import (
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/sakila-rental-service/internal/logger"
    "github.com/iliyamo/sakila-rental-service/internal/projection"
    "github.com/iliyamo/sakila-rental-service/internal/service"
)

// CustomerHandler serves customer reads and the staff-only mutations.
type CustomerHandler struct {
    Catalog   *service.Catalog
    Lifecycle *service.Lifecycle
    Log       *logger.Logger
}

// List returns every customer, or those matching ?q=.
func (h *CustomerHandler) List(c echo.Context) error {
    rows, err := h.Catalog.SearchCustomers(c.Request().Context(), c.QueryParam("q"))
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"customers": rows})
}

func (h *CustomerHandler) Details(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return respondError(c, h.Log, err)
    }
    rows, err := h.Catalog.CustomerDetails(c.Request().Context(), id)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"customer_details": rows})
}

func (h *CustomerHandler) Create(c echo.Context) error {
    var in service.NewCustomer
    if err := bindBody(c, &in); err != nil {
        return respondError(c, h.Log, err)
    }
    created, err := h.Lifecycle.CreateCustomer(c.Request().Context(), in)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "customer_id": created.ID,
        "message":     "customer created",
        "customer":    projection.Customer(created),
    })
}

// Update applies a partial update.  Keys outside the mutable set are
// rejected; empty values are ignored.
func (h *CustomerHandler) Update(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return respondError(c, h.Log, err)
    }
    fields := map[string]any{}
    if err := bindBody(c, &fields); err != nil {
        return respondError(c, h.Log, err)
    }
    applied, err := h.Lifecycle.UpdateCustomer(c.Request().Context(), id, fields)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message":        fmt.Sprintf("customer %d updated", id),
        "updated_fields": applied,
    })
}

func (h *CustomerHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return respondError(c, h.Log, err)
    }
    if err := h.Lifecycle.DeleteCustomer(c.Request().Context(), id); err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": fmt.Sprintf("customer %d deleted", id)})
}
