package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dharmasatrya/flightfinder/internal/aggregator"
	"github.com/dharmasatrya/flightfinder/internal/cache"
	"github.com/dharmasatrya/flightfinder/internal/filter"
	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/providers"
	"github.com/dharmasatrya/flightfinder/internal/ranking"
	"github.com/dharmasatrya/flightfinder/internal/recent"
)

type SearchHandler struct {
	aggregator *aggregator.Aggregator
	cache      cache.Cache
	recent     *recent.Service
	log        zerolog.Logger
}

func NewSearchHandler(agg *aggregator.Aggregator, c cache.Cache, rs *recent.Service, log zerolog.Logger) *SearchHandler {
	return &SearchHandler{
		aggregator: agg,
		cache:      c,
		recent:     rs,
		log:        log,
	}
}

func (h *SearchHandler) Search(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse request body: "+err.Error())
	}

	if err := req.Validate(); err != nil {
		return errorJSON(c, http.StatusBadRequest, "validation_error", err.Error())
	}

	fs := filter.Defaults()
	if req.Filters != nil {
		fs = *req.Filters
	}

	meta := models.SearchMetadata{
		SessionID:          uuid.NewString(),
		ProvidersQueried:   h.aggregator.ProviderCount(),
		ProvidersSucceeded: h.aggregator.ProviderCount(),
	}

	itineraries, cacheHit := h.cache.Get(ctx, req)
	if !cacheHit {
		result, err := h.aggregator.Search(ctx, req)
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "search_error", "Failed to search flights: "+err.Error())
		}

		itineraries = result.Itineraries
		meta.ProvidersQueried = result.ProvidersQueried
		meta.ProvidersSucceeded = result.ProvidersSucceeded
		meta.ProvidersFailed = result.ProvidersFailed
		meta.FailedProviders = result.FailedProviders

		if result.ProvidersSucceeded > 0 {
			if err := h.cache.Set(ctx, req, itineraries); err != nil {
				h.log.Warn().Err(err).Msg("search cache write failed")
			}
		}
	}

	results := filter.ApplyAndSort(itineraries, fs, ranking.ParseSortMode(req.SortBy))

	h.remember(c, req)

	meta.TotalResults = len(results)
	meta.UnfilteredResults = len(itineraries)
	meta.ActiveFilters = filter.ActiveCount(fs)
	meta.SearchTimeMs = time.Since(startTime).Milliseconds()
	meta.CacheHit = cacheHit

	h.log.Debug().
		Str("session_id", meta.SessionID).
		Str("route", req.Origin+"-"+req.Destination).
		Int("unfiltered", meta.UnfilteredResults).
		Int("results", meta.TotalResults).
		Bool("cache_hit", cacheHit).
		Msg("search completed")

	return c.JSON(http.StatusOK, models.SearchResponse{
		SearchCriteria: buildSearchCriteria(req, fs),
		Metadata:       meta,
		Airlines:       filter.Airlines(itineraries),
		Itineraries:    results,
	})
}

// remember records the search in the recent list. Failures are logged only;
// they never fail the search.
func (h *SearchHandler) remember(c echo.Context, req models.SearchRequest) {
	if h.recent == nil {
		return
	}

	entry := recent.Entry{
		Origin:        location(req.Origin, req.OriginName),
		Destination:   location(req.Destination, req.DestName),
		DepartureDate: req.DepartureDate,
		TripType:      req.TripType,
		Passengers: &recent.Passengers{
			Adults:   req.Adults,
			Children: req.Children,
			Infants:  req.Infants,
		},
		Class: &recent.CabinClass{ID: req.CabinClass, Name: cabinName(req.CabinClass)},
	}
	if req.IsRoundTrip() {
		entry.ReturnDate = *req.ReturnDate
	}

	if _, err := h.recent.Save(c.Request().Context(), entry); err != nil {
		h.log.Warn().Err(err).Msg("failed to record recent search")
	}
}

func location(code, name string) recent.Location {
	airport := providers.LookupAirport(code)
	if name == "" {
		name = airport.City
	}
	return recent.Location{
		SkyID:    strings.ToUpper(code),
		EntityID: airport.Code,
		Title:    name,
	}
}

func cabinName(id string) string {
	switch strings.ToLower(id) {
	case "premium_economy", "premiumeconomy":
		return "Premium Economy"
	case "business":
		return "Business"
	case "first":
		return "First"
	default:
		return "Economy"
	}
}

func buildSearchCriteria(req models.SearchRequest, fs models.FilterState) models.SearchCriteria {
	return models.SearchCriteria{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		ReturnDate:    req.ReturnDate,
		TripType:      req.TripType,
		Adults:        req.Adults,
		CabinClass:    req.CabinClass,
		Filters:       fs,
		SortBy:        req.SortBy,
	}
}

func errorJSON(c echo.Context, status int, code, message string) error {
	return c.JSON(status, models.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    status,
	})
}

func (h *SearchHandler) ProviderHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"providers": h.aggregator.Health(),
	})
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
