package employee

import (
	"errors"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
)

// Handler exposes the roster over HTTP for the UI layer.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// List returns all records, optionally sorted by ?sort=name|costCenter
// and ?order=asc|desc. Sorting is a display concern; storage order is
// not meaningful.
func (h *Handler) List(c echo.Context) error {
	employees := h.store.Load()

	field := c.QueryParam("sort")
	if field == "name" || field == "costCenter" {
		desc := c.QueryParam("order") == "desc"
		sort.SliceStable(employees, func(i, j int) bool {
			var less bool
			if field == "name" {
				less = employees[i].Name < employees[j].Name
			} else {
				less = employees[i].CostCenter < employees[j].CostCenter
			}
			if desc {
				return !less
			}
			return less
		})
	}
	return c.JSON(http.StatusOK, employees)
}

func (h *Handler) Create(c echo.Context) error {
	var draft Draft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	emp, err := h.store.Add(draft)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": verr.Error()})
		}
		// Record is kept in memory; the write failed.
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":    "failed to persist employee",
			"employee": emp,
		})
	}
	return c.JSON(http.StatusCreated, emp)
}

func (h *Handler) Update(c echo.Context) error {
	var patch Patch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.store.Update(c.Param("id"), patch); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": verr.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to persist employee"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "employee updated"})
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.store.Delete(c.Param("id")); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to persist roster"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "employee removed"})
}

func (h *Handler) CostCenters(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.CostCenters())
}

func (h *Handler) ByCostCenter(c echo.Context) error {
	employees := h.store.ByCostCenter(c.Param("code"))
	if employees == nil {
		employees = []Employee{}
	}
	return c.JSON(http.StatusOK, employees)
}
