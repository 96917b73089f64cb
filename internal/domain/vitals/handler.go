package vitals

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitallink/vitallink/internal/domain/patient"
	"github.com/vitallink/vitallink/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard", h.Dashboard)
	api.GET("/patients/:id/vitals", h.ListReadings)
	api.POST("/patients/:id/vitals", h.CommitReading)
	api.GET("/patients/:id/vitals/status", h.Status)
}

func (h *Handler) CommitReading(c echo.Context) error {
	var v VitalReading
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v.PatientID = c.Param("id")
	res, err := h.svc.CommitReading(c.Request().Context(), &v)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *Handler) ListReadings(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListReadings(c.Request().Context(), c.Param("id"), pg.Limit, pg.Offset)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Status(c echo.Context) error {
	st, err := h.svc.Status(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) Dashboard(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.Dashboard(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
