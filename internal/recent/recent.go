// Package recent keeps the traveller's recent flight searches and derives
// popular destinations, popular routes and search suggestions from them.
package recent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dharmasatrya/flightfinder/internal/storage"
)

const (
	StorageKey        = "recentFlightSearches"
	MaxRecentSearches = 10
	MaxAge            = 30 * 24 * time.Hour
	MaxPopularDests   = 6
	MaxPopularRoutes  = 8
	MaxSuggestions    = 5
)

const (
	MatchTypeOrigin      = "origin"
	MatchTypeDestination = "destination"
)

var ErrSearchNotFound = errors.New("recent search not found")

type Location struct {
	SkyID    string `json:"skyId"`
	EntityID string `json:"entityId,omitempty"`
	Title    string `json:"title"`
}

type Passengers struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

type CabinClass struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Entry struct {
	ID            string      `json:"id"`
	Timestamp     time.Time   `json:"timestamp"`
	Origin        Location    `json:"origin"`
	Destination   Location    `json:"destination"`
	DepartureDate string      `json:"departureDate"`
	ReturnDate    string      `json:"returnDate,omitempty"`
	TripType      string      `json:"tripType"`
	Passengers    *Passengers `json:"passengers,omitempty"`
	Class         *CabinClass `json:"class,omitempty"`
	Route         string      `json:"route"`
	SearchCount   int         `json:"searchCount"`
}

type PopularRoute struct {
	Route        string    `json:"route"`
	Origin       Location  `json:"origin"`
	Destination  Location  `json:"destination"`
	Count        int       `json:"count"`
	LastSearched time.Time `json:"lastSearched"`
}

type Suggestion struct {
	Type      string `json:"type"`
	Search    Entry  `json:"search"`
	MatchType string `json:"matchType"`
}

type Service struct {
	store storage.Store
	log   zerolog.Logger
	now   func() time.Time

	// writeMu serializes read-modify-write cycles on the stored list.
	writeMu sync.Mutex
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store storage.Store, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save records a search. Repeating a search (same origin, destination,
// departure date and trip type) bumps its count instead of adding a row.
func (s *Service) Save(ctx context.Context, e Entry) (Entry, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	searches, err := s.List(ctx)
	if err != nil {
		return Entry{}, err
	}

	now := s.now().UTC()
	e.Timestamp = now
	e.Route = fmt.Sprintf("%s → %s", e.Origin.Title, e.Destination.Title)
	e.SearchCount = 1

	idx := -1
	for i, existing := range searches {
		if sameSearch(existing, e) {
			idx = i
			break
		}
	}

	if idx >= 0 {
		e.ID = searches[idx].ID
		e.SearchCount = searches[idx].SearchCount + 1
		searches[idx] = e
	} else {
		e.ID = uuid.NewString()
		searches = append([]Entry{e}, searches...)
	}

	sort.SliceStable(searches, func(i, j int) bool {
		return searches[i].Timestamp.After(searches[j].Timestamp)
	})
	if len(searches) > MaxRecentSearches {
		searches = searches[:MaxRecentSearches]
	}

	if err := storage.SetJSON(ctx, s.store, StorageKey, searches, 0); err != nil {
		return Entry{}, fmt.Errorf("save recent search: %w", err)
	}
	return e, nil
}

func sameSearch(a, b Entry) bool {
	return a.Origin.SkyID == b.Origin.SkyID &&
		a.Destination.SkyID == b.Destination.SkyID &&
		a.DepartureDate == b.DepartureDate &&
		a.TripType == b.TripType
}

// List returns stored searches newer than MaxAge, most recent first.
// Unreadable stored data is logged and treated as empty.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	var searches []Entry
	err := storage.GetJSON(ctx, s.store, StorageKey, &searches)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return []Entry{}, nil
	case err != nil:
		s.log.Warn().Err(err).Msg("discarding unreadable recent searches")
		return []Entry{}, nil
	}

	cutoff := s.now().Add(-MaxAge)
	fresh := make([]Entry, 0, len(searches))
	for _, e := range searches {
		if e.Timestamp.After(cutoff) {
			fresh = append(fresh, e)
		}
	}
	return fresh, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	searches, err := s.List(ctx)
	if err != nil {
		return err
	}

	kept := make([]Entry, 0, len(searches))
	for _, e := range searches {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(searches) {
		return ErrSearchNotFound
	}

	if err := storage.SetJSON(ctx, s.store, StorageKey, kept, 0); err != nil {
		return fmt.Errorf("delete recent search: %w", err)
	}
	return nil
}

func (s *Service) Clear(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("clear recent searches: %w", err)
	}
	return nil
}

// PopularDestinations ranks destinations by total search count.
func (s *Service) PopularDestinations(ctx context.Context) ([]Location, error) {
	searches, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	type tally struct {
		dest  Location
		count int
	}
	var order []string
	counts := make(map[string]*tally)

	for _, e := range searches {
		key := e.Destination.SkyID
		if key == "" {
			continue
		}
		t, ok := counts[key]
		if !ok {
			t = &tally{dest: e.Destination}
			counts[key] = t
			order = append(order, key)
		}
		t.count += max(e.SearchCount, 1)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]].count > counts[order[j]].count
	})

	result := make([]Location, 0, MaxPopularDests)
	for _, key := range order {
		if len(result) == MaxPopularDests {
			break
		}
		result = append(result, counts[key].dest)
	}
	return result, nil
}

// PopularRoutes ranks origin-destination pairs by total search count.
func (s *Service) PopularRoutes(ctx context.Context) ([]PopularRoute, error) {
	searches, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var order []string
	routes := make(map[string]*PopularRoute)

	for _, e := range searches {
		if e.Origin.SkyID == "" && e.Destination.SkyID == "" {
			continue
		}
		key := e.Origin.SkyID + "-" + e.Destination.SkyID

		r, ok := routes[key]
		if !ok {
			r = &PopularRoute{
				Route:        e.Route,
				Origin:       e.Origin,
				Destination:  e.Destination,
				LastSearched: e.Timestamp,
			}
			routes[key] = r
			order = append(order, key)
		}
		r.Count += max(e.SearchCount, 1)
		if e.Timestamp.After(r.LastSearched) {
			r.LastSearched = e.Timestamp
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return routes[order[i]].Count > routes[order[j]].Count
	})

	result := make([]PopularRoute, 0, MaxPopularRoutes)
	for _, key := range order {
		if len(result) == MaxPopularRoutes {
			break
		}
		result = append(result, *routes[key])
	}
	return result, nil
}

// Suggestions returns recent searches whose origin or destination title
// contains query, case-insensitively.
func (s *Service) Suggestions(ctx context.Context, query string) ([]Suggestion, error) {
	searches, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	result := make([]Suggestion, 0, MaxSuggestions)

	for _, e := range searches {
		if len(result) == MaxSuggestions {
			break
		}

		originMatch := strings.Contains(strings.ToLower(e.Origin.Title), q)
		destMatch := strings.Contains(strings.ToLower(e.Destination.Title), q)
		if !originMatch && !destMatch {
			continue
		}

		matchType := MatchTypeDestination
		if originMatch {
			matchType = MatchTypeOrigin
		}
		result = append(result, Suggestion{Type: "recent", Search: e, MatchType: matchType})
	}
	return result, nil
}
