package orders

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
	api.GET("/patients/:id/orders", h.List)
	api.POST("/patients/:id/orders", h.Create)
	api.POST("/patients/:id/orders/sync", h.Sync)
	api.PUT("/patients/:id/orders/:orderID/status", h.UpdateStatus)
	api.DELETE("/patients/:id/orders/:orderID", h.Delete)
}

// createResponse carries the stored order plus the non-blocking dosage
// warning for the entry form.
type createResponse struct {
	Order         *MedicalOrder `json:"order"`
	DosageWarning bool          `json:"dosage_warning"`
}

func (h *Handler) Create(c echo.Context) error {
	var o MedicalOrder
	if err := c.Bind(&o); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o.PatientID = c.Param("id")
	warning, err := h.svc.Create(c.Request().Context(), &o)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, createResponse{Order: &o, DosageWarning: warning})
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), c.Param("id"), pg.Limit, pg.Offset)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Sync(c echo.Context) error {
	added, err := h.svc.SyncRemote(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		// The operator must learn the refresh did not happen; prior
		// state is intact.
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"added": added, "count": len(added)})
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	var body struct {
		Status OrderStatus `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o, err := h.svc.UpdateStatus(c.Request().Context(), c.Param("id"), c.Param("orderID"), body.Status)
	if err != nil {
		switch {
		case errors.Is(err, patient.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) Delete(c echo.Context) error {
	err := h.svc.Delete(c.Request().Context(), c.Param("id"), c.Param("orderID"))
	if err != nil {
		switch {
		case errors.Is(err, patient.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
