package settings

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes the notification configuration over HTTP.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Get())
}

func (h *Handler) Put(c echo.Context) error {
	var settings Settings
	if err := c.Bind(&settings); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.store.Save(settings); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to persist settings"})
	}
	return c.JSON(http.StatusOK, h.store.Get())
}

type gfRequest struct {
	Index int    `json:"index"`
	Email string `json:"email"`
}

func (h *Handler) PutGF(c echo.Context) error {
	var req gfRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.store.UpdateGF(req.Index, req.Email); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, h.store.Get())
}

type departmentEmailRequest struct {
	CostCenter string `json:"costCenter"`
	Email      string `json:"email"`
}

func (h *Handler) PutDepartmentEmail(c echo.Context) error {
	var req departmentEmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.CostCenter == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "costCenter is required"})
	}
	if err := h.store.UpsertDepartmentEmail(req.CostCenter, req.Email); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to persist settings"})
	}
	return c.JSON(http.StatusOK, h.store.Get())
}

func (h *Handler) DeleteDepartmentEmail(c echo.Context) error {
	if err := h.store.RemoveDepartmentEmail(c.Param("costCenter")); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to persist settings"})
	}
	return c.JSON(http.StatusOK, h.store.Get())
}
