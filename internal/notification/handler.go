package notification

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Handler exposes the on-demand birthday check.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RunCheck triggers a sweep right now and reports whether it fired.
func (h *Handler) RunCheck(c echo.Context) error {
	fired, err := h.service.RunCheck(c.Request().Context(), time.Now())
	if err != nil {
		if errors.Is(err, ErrAllDispatchesFailed) {
			return c.JSON(http.StatusBadGateway, map[string]interface{}{
				"fired": false,
				"error": err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "birthday check failed"})
	}
	return c.JSON(http.StatusOK, map[string]bool{"fired": fired})
}
