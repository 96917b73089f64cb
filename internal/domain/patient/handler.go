package patient

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitallink/vitallink/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.List)
	api.POST("/patients", h.Admit)
	api.GET("/patients/:id", h.Get)
	api.PUT("/patients/:id", h.Update)
	api.PUT("/patients/:id/thresholds", h.UpdateThresholds)
	api.PUT("/patients/:id/risk", h.UpdateRiskTier)
	api.PUT("/patients/:id/anamnesis", h.UpdateAnamnesis)
	api.GET("/patients/:id/fluids", h.ListFluids)
	api.POST("/patients/:id/fluids", h.RecordFluid)
}

func (h *Handler) Admit(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Admit(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return notFoundOr500(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	var upd Patient
	if err := c.Bind(&upd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.UpdateDemographics(c.Request().Context(), c.Param("id"), &upd)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdateThresholds(c echo.Context) error {
	var t ThresholdSet
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.UpdateThresholds(c.Request().Context(), c.Param("id"), t)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdateRiskTier(c echo.Context) error {
	var body struct {
		RiskTier RiskTier `json:"risk_tier"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.UpdateRiskTier(c.Request().Context(), c.Param("id"), body.RiskTier)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdateAnamnesis(c echo.Context) error {
	var a Anamnesis
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.UpdateAnamnesis(c.Request().Context(), c.Param("id"), a)
	if err != nil {
		return notFoundOr500(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) RecordFluid(c echo.Context) error {
	var rec FluidRecord
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec.PatientID = c.Param("id")
	if err := h.svc.RecordFluid(c.Request().Context(), &rec); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) ListFluids(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListFluids(c.Request().Context(), c.Param("id"), pg.Limit, pg.Offset)
	if err != nil {
		return notFoundOr500(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func notFoundOr500(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
