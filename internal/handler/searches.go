package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightfinder/internal/recent"
)

type RecentHandler struct {
	recent *recent.Service
	now    func() time.Time
}

func NewRecentHandler(rs *recent.Service) *RecentHandler {
	return &RecentHandler{recent: rs, now: time.Now}
}

type recentItem struct {
	recent.Entry
	Display recent.Display `json:"display"`
}

func (h *RecentHandler) List(c echo.Context) error {
	searches, err := h.recent.List(c.Request().Context())
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "storage_error", err.Error())
	}

	now := h.now()
	items := make([]recentItem, 0, len(searches))
	for _, e := range searches {
		items = append(items, recentItem{Entry: e, Display: recent.FormatDisplay(e, now)})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"searches": items,
	})
}

func (h *RecentHandler) Delete(c echo.Context) error {
	err := h.recent.Delete(c.Request().Context(), c.Param("id"))
	switch {
	case errors.Is(err, recent.ErrSearchNotFound):
		return errorJSON(c, http.StatusNotFound, "not_found", err.Error())
	case err != nil:
		return errorJSON(c, http.StatusInternalServerError, "storage_error", err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RecentHandler) Clear(c echo.Context) error {
	if err := h.recent.Clear(c.Request().Context()); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "storage_error", err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RecentHandler) PopularDestinations(c echo.Context) error {
	dests, err := h.recent.PopularDestinations(c.Request().Context())
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "storage_error", err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"destinations": dests,
	})
}

func (h *RecentHandler) PopularRoutes(c echo.Context) error {
	routes, err := h.recent.PopularRoutes(c.Request().Context())
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "storage_error", err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"routes": routes,
	})
}

func (h *RecentHandler) Suggestions(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return errorJSON(c, http.StatusBadRequest, "validation_error", "q is required")
	}

	suggestions, err := h.recent.Suggestions(c.Request().Context(), q)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "storage_error", err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"suggestions": suggestions,
	})
}
