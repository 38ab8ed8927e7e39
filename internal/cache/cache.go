package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/storage"
)

// Cache holds unfiltered search results so that changing filters or sort
// order does not hit the providers again.
type Cache interface {
	Get(ctx context.Context, req models.SearchRequest) ([]models.Itinerary, bool)
	Set(ctx context.Context, req models.SearchRequest, itineraries []models.Itinerary) error
}

type StoreCache struct {
	store storage.Store
	ttl   time.Duration
	log   zerolog.Logger
}

func NewStoreCache(store storage.Store, ttl time.Duration, log zerolog.Logger) *StoreCache {
	return &StoreCache{
		store: store,
		ttl:   ttl,
		log:   log,
	}
}

func (c *StoreCache) Get(ctx context.Context, req models.SearchRequest) ([]models.Itinerary, bool) {
	var itineraries []models.Itinerary
	if err := storage.GetJSON(ctx, c.store, Key(req), &itineraries); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.log.Warn().Err(err).Msg("search cache read failed")
		}
		return nil, false
	}
	return itineraries, true
}

func (c *StoreCache) Set(ctx context.Context, req models.SearchRequest, itineraries []models.Itinerary) error {
	return storage.SetJSON(ctx, c.store, Key(req), itineraries, c.ttl)
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, req models.SearchRequest) ([]models.Itinerary, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, req models.SearchRequest, itineraries []models.Itinerary) error {
	return nil
}

// Key identifies a search by route, dates, party size and cabin. Filters
// and sort order are deliberately left out.
func Key(req models.SearchRequest) string {
	keyData := struct {
		Origin        string
		Destination   string
		DepartureDate string
		ReturnDate    string
		Adults        int
		Children      int
		Infants       int
		CabinClass    string
	}{
		Origin:        strings.ToUpper(req.Origin),
		Destination:   strings.ToUpper(req.Destination),
		DepartureDate: req.DepartureDate,
		Adults:        req.Adults,
		Children:      req.Children,
		Infants:       req.Infants,
		CabinClass:    strings.ToLower(req.CabinClass),
	}

	if req.ReturnDate != nil {
		keyData.ReturnDate = *req.ReturnDate
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "search:" + hex.EncodeToString(hash[:])
}
