package advisory

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vitallink/vitallink/internal/domain/patient"
	"github.com/vitallink/vitallink/internal/domain/vitals"
)

// historyPage bounds how many readings are sent for analysis.
const historyPage = 200

type Handler struct {
	client   *Client
	patients patient.Repository
	readings vitals.Repository
}

func NewHandler(client *Client, patients patient.Repository, readings vitals.Repository) *Handler {
	return &Handler{client: client, patients: patients, readings: readings}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patients/:id/analysis", h.Analyze)
	api.GET("/medication-suggestions", h.Suggest)
}

func (h *Handler) Analyze(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := h.patients.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	history, _, err := h.readings.ListByPatient(ctx, p.ID, historyPage, 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	analysis, err := h.client.AnalyzeVitals(ctx, p, history)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "advisory service unavailable: "+err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"analysis": analysis})
}

func (h *Handler) Suggest(c echo.Context) error {
	diagnosis := strings.TrimSpace(c.QueryParam("diagnosis"))
	if diagnosis == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "diagnosis query parameter is required")
	}
	suggestions, err := h.client.SuggestMedications(c.Request().Context(), diagnosis)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "advisory service unavailable: "+err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}
