package analytics

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	grp := api.Group("/analytics")
	grp.GET("/doctor-patient-insights", h.GetInsights)
	// Legacy route kept for older dashboard builds.
	grp.GET("/dashboard", h.GetInsights)
}

// GetInsights returns the full ordered insight list as a JSON array.
func (h *Handler) GetInsights(c echo.Context) error {
	insights, err := h.svc.Insights(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, insights)
}
