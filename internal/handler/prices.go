package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightfinder/internal/pricecalendar"
)

type PriceHandler struct {
	calendar *pricecalendar.Service
}

func NewPriceHandler(cal *pricecalendar.Service) *PriceHandler {
	return &PriceHandler{calendar: cal}
}

func (h *PriceHandler) Calendar(c echo.Context) error {
	route := c.QueryParam("route")
	start := c.QueryParam("start")
	end := c.QueryParam("end")
	if route == "" || start == "" || end == "" {
		return errorJSON(c, http.StatusBadRequest, "validation_error", "route, start and end are required")
	}

	prices, err := h.calendar.Prices(c.Request().Context(), route, start, end)
	switch {
	case errors.Is(err, pricecalendar.ErrInvalidRange):
		return errorJSON(c, http.StatusBadRequest, "validation_error", err.Error())
	case err != nil:
		return errorJSON(c, http.StatusInternalServerError, "calendar_error", err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"route":  route,
		"prices": prices,
	})
}

func (h *PriceHandler) Trends(c echo.Context) error {
	route := c.QueryParam("route")
	if route == "" {
		return errorJSON(c, http.StatusBadRequest, "validation_error", "route is required")
	}
	return c.JSON(http.StatusOK, h.calendar.Trends(route))
}

func (h *PriceHandler) AddAlert(c echo.Context) error {
	var alert pricecalendar.Alert
	if err := c.Bind(&alert); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse alert: "+err.Error())
	}

	created, err := h.calendar.AddAlert(c.Request().Context(), alert)
	switch {
	case errors.Is(err, pricecalendar.ErrInvalidAlert):
		return errorJSON(c, http.StatusBadRequest, "validation_error", err.Error())
	case err != nil:
		return errorJSON(c, http.StatusInternalServerError, "storage_error", err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *PriceHandler) Alerts(c echo.Context) error {
	alerts, err := h.calendar.Alerts(c.Request().Context())
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "storage_error", err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"alerts": alerts,
	})
}

// CheckAlerts takes current prices keyed by route then date.
func (h *PriceHandler) CheckAlerts(c echo.Context) error {
	var current map[string]map[string]pricecalendar.DayPrice
	if err := c.Bind(&current); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse prices: "+err.Error())
	}

	triggered, err := h.calendar.CheckAlerts(c.Request().Context(), current)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "storage_error", err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"triggered": triggered,
	})
}
