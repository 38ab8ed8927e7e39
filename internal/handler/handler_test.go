package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightfinder/internal/aggregator"
	"github.com/dharmasatrya/flightfinder/internal/cache"
	"github.com/dharmasatrya/flightfinder/internal/handler"
	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/pricecalendar"
	"github.com/dharmasatrya/flightfinder/internal/providers"
	"github.com/dharmasatrya/flightfinder/internal/ranking"
	"github.com/dharmasatrya/flightfinder/internal/recent"
	"github.com/dharmasatrya/flightfinder/internal/storage"
)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()

	list, err := providers.DefaultProviders(providers.MockConfig{Seed: 11})
	require.NoError(t, err)

	aggCfg := aggregator.DefaultConfig()
	aggCfg.RetryDelays = []time.Duration{time.Millisecond}
	agg := aggregator.NewAggregator(list, aggCfg)

	store := storage.NewMemoryStore()
	log := zerolog.Nop()
	rs := recent.NewService(store, log)

	calCfg := pricecalendar.DefaultConfig()
	calCfg.Seed = 3

	e := echo.New()
	handler.RegisterRoutes(e, handler.Handlers{
		Search: handler.NewSearchHandler(agg, cache.NewStoreCache(store, time.Minute, log), rs, log),
		Recent: handler.NewRecentHandler(rs),
		Prices: handler.NewPriceHandler(pricecalendar.NewService(store, log, calCfg)),
	})
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

const searchBody = `{"origin":"BLR","destination":"DEL","departureDate":"2024-07-10","originName":"Bengaluru","destinationName":"Delhi"}`

func TestSearch(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodPost, "/api/v1/flights/search", searchBody)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[models.SearchResponse](t, rec)
	assert.NotEmpty(t, resp.Metadata.SessionID)
	assert.False(t, resp.Metadata.CacheHit)
	assert.Equal(t, 3, resp.Metadata.ProvidersSucceeded)
	assert.Zero(t, resp.Metadata.ActiveFilters)
	assert.Equal(t, resp.Metadata.UnfilteredResults, resp.Metadata.TotalResults)
	assert.Len(t, resp.Itineraries, resp.Metadata.TotalResults)
	assert.NotEmpty(t, resp.Airlines)
	assert.Equal(t, "best", resp.SearchCriteria.SortBy)
	assert.Equal(t, models.TripOneWay, resp.SearchCriteria.TripType)

	for i := 1; i < len(resp.Itineraries); i++ {
		assert.LessOrEqual(t, ranking.Score(resp.Itineraries[i-1]), ranking.Score(resp.Itineraries[i]))
	}
}

func TestSearch_SecondCallHitsCache(t *testing.T) {
	e := newServer(t)

	first := decode[models.SearchResponse](t, do(e, http.MethodPost, "/api/v1/flights/search", searchBody))
	second := decode[models.SearchResponse](t, do(e, http.MethodPost, "/api/v1/flights/search", searchBody))

	assert.True(t, second.Metadata.CacheHit)
	assert.Equal(t, first.Metadata.UnfilteredResults, second.Metadata.UnfilteredResults)
	assert.NotEqual(t, first.Metadata.SessionID, second.Metadata.SessionID)
}

func TestSearch_FiltersAndCheapestSort(t *testing.T) {
	e := newServer(t)

	body := `{"origin":"BLR","destination":"LHR","departureDate":"2024-07-10","sortBy":"cheapest",
		"filters":{"stops":{"any":false,"nonstop":true},"emissions":{"any":true}}}`
	rec := do(e, http.MethodPost, "/api/v1/flights/search", body)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[models.SearchResponse](t, rec)
	assert.Equal(t, 1, resp.Metadata.ActiveFilters)
	assert.LessOrEqual(t, resp.Metadata.TotalResults, resp.Metadata.UnfilteredResults)

	for i, it := range resp.Itineraries {
		assert.Zero(t, it.Legs[0].StopCount, it.ID)
		if i > 0 {
			assert.LessOrEqual(t, resp.Itineraries[i-1].Price.Raw, it.Price.Raw)
		}
	}
}

func TestSearch_Validation(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodPost, "/api/v1/flights/search", `{"origin":"BLR","departureDate":"2024-07-10"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[models.ErrorResponse](t, rec)
	assert.Equal(t, "validation_error", resp.Error)
	assert.Equal(t, models.ErrMissingDestination.Error(), resp.Message)

	rec = do(e, http.MethodPost, "/api/v1/flights/search", `{"origin":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decode[models.ErrorResponse](t, rec).Error)
}

func TestSearch_RecordsRecentSearch(t *testing.T) {
	e := newServer(t)

	do(e, http.MethodPost, "/api/v1/flights/search", searchBody)
	do(e, http.MethodPost, "/api/v1/flights/search", searchBody)

	rec := do(e, http.MethodGet, "/api/v1/searches/recent", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Searches []struct {
			ID          string         `json:"id"`
			Route       string         `json:"route"`
			SearchCount int            `json:"searchCount"`
			Display     recent.Display `json:"display"`
		} `json:"searches"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Searches, 1)

	s := body.Searches[0]
	assert.Equal(t, "Bengaluru → Delhi", s.Route)
	assert.Equal(t, 2, s.SearchCount)
	assert.Equal(t, "Jul 10", s.Display.Dates)
	assert.Equal(t, "1 adult", s.Display.Passengers)
	assert.Equal(t, "Economy", s.Display.Class)

	rec = do(e, http.MethodGet, "/api/v1/searches/suggestions?q=delhi", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"matchType":"destination"`)

	rec = do(e, http.MethodGet, "/api/v1/searches/popular/routes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":2`)

	rec = do(e, http.MethodGet, "/api/v1/searches/popular/destinations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"skyId":"DEL"`)

	rec = do(e, http.MethodDelete, "/api/v1/searches/recent/"+s.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodDelete, "/api/v1/searches/recent/"+s.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecent_ClearAndSuggestionsNeedQuery(t *testing.T) {
	e := newServer(t)

	do(e, http.MethodPost, "/api/v1/flights/search", searchBody)

	rec := do(e, http.MethodDelete, "/api/v1/searches/recent", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/searches/recent", "")
	assert.JSONEq(t, `{"searches":[]}`, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/v1/searches/suggestions", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilters(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodGet, "/api/v1/filters/default", "")
	require.Equal(t, http.StatusOK, rec.Code)
	defaults := decode[models.FilterState](t, rec)
	assert.True(t, defaults.Stops.Any)
	require.NotNil(t, defaults.PriceRange)
	assert.Equal(t, 2000.0, defaults.PriceRange.Max())

	rec = do(e, http.MethodPost, "/api/v1/filters/count",
		`{"stops":{"nonstop":true,"oneStop":true},"airlines":{"AI":true,"6E":false},"priceRange":[0,1500]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"active":4}`, rec.Body.String())
}

func TestPrices_Calendar(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodGet, "/api/v1/prices/calendar?route=BLR-DEL&start=2024-07-01&end=2024-07-07", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Route  string                            `json:"route"`
		Prices map[string]pricecalendar.DayPrice `json:"prices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "BLR-DEL", body.Route)
	assert.Len(t, body.Prices, 7)

	rec = do(e, http.MethodGet, "/api/v1/prices/calendar?route=BLR-DEL&start=2024-07-07&end=2024-07-01", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/prices/calendar?route=BLR-DEL", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPrices_Trends(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodGet, "/api/v1/prices/trends?route=BLR-DEL", "")
	require.Equal(t, http.StatusOK, rec.Code)
	tr := decode[pricecalendar.Trend](t, rec)
	assert.GreaterOrEqual(t, tr.Confidence, 70)

	rec = do(e, http.MethodGet, "/api/v1/prices/trends", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPrices_Alerts(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodPost, "/api/v1/prices/alerts",
		`{"route":"BLR-DEL","date":"2024-07-20","targetPrice":4000,"originalPrice":5000}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[pricecalendar.Alert](t, rec)
	assert.True(t, created.IsActive)

	rec = do(e, http.MethodGet, "/api/v1/prices/alerts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), created.ID)

	rec = do(e, http.MethodPost, "/api/v1/prices/alerts/check", `{"BLR-DEL":{"2024-07-20":{"price":3500}}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Triggered []pricecalendar.TriggeredAlert `json:"triggered"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Triggered, 1)
	assert.Equal(t, 1500.0, body.Triggered[0].Savings)

	rec = do(e, http.MethodPost, "/api/v1/prices/alerts", `{"route":"BLR-DEL"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type unreachableStore struct{}

func (unreachableStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("dial tcp: connection refused")
}
func (unreachableStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("dial tcp: connection refused")
}
func (unreachableStore) Delete(context.Context, string) error { return errors.New("dial tcp: connection refused") }
func (unreachableStore) Close() error                         { return nil }

func TestPrices_AddAlertStoreFailure(t *testing.T) {
	e := echo.New()
	h := handler.NewPriceHandler(pricecalendar.NewService(unreachableStore{}, zerolog.Nop(), pricecalendar.DefaultConfig()))
	e.POST("/alerts", h.AddAlert)

	rec := do(e, http.MethodPost, "/alerts", `{"route":"BLR-DEL","date":"2024-07-20","targetPrice":4000}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "storage_error", decode[models.ErrorResponse](t, rec).Error)

	rec = do(e, http.MethodPost, "/alerts", `{"route":"BLR-DEL","date":"20 July"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decode[models.ErrorResponse](t, rec).Error)
}

func TestHealth(t *testing.T) {
	rec := do(newServer(t), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestProviderHealth(t *testing.T) {
	rec := do(newServer(t), http.MethodGet, "/api/v1/providers/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Providers []aggregator.ProviderHealth `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Providers, 3)
	assert.Equal(t, "indian-carriers", body.Providers[0].Name)
	assert.Equal(t, "closed", body.Providers[0].State)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(handler.RequestLogger(zerolog.New(&buf)))
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	rec := do(e, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusTeapot, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request completed", entry["message"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/boom", entry["path"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
}
