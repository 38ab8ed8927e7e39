package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightfinder/internal/filter"
	"github.com/dharmasatrya/flightfinder/internal/models"
)

func DefaultFilters(c echo.Context) error {
	return c.JSON(http.StatusOK, filter.Defaults())
}

// CountFilters reports the badge count for a posted filter state.
func CountFilters(c echo.Context) error {
	var fs models.FilterState
	if err := c.Bind(&fs); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse filters: "+err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{
		"active": filter.ActiveCount(fs),
	})
}
