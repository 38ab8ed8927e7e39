package aggregator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/providers"
	"github.com/dharmasatrya/flightfinder/internal/ratelimit"
)

type Config struct {
	Timeout     time.Duration
	MaxRetries  int
	RetryDelays []time.Duration
	RateLimiter *ratelimit.KeyedLimiter
	// Breaker enables a circuit breaker per provider when set.
	Breaker *BreakerConfig
	Logger  zerolog.Logger
}

func DefaultConfig() Config {
	return Config{
		Timeout:    2 * time.Second,
		MaxRetries: 3,
		RetryDelays: []time.Duration{
			100 * time.Millisecond,
			200 * time.Millisecond,
			400 * time.Millisecond,
		},
		Logger: zerolog.Nop(),
	}
}

type Aggregator struct {
	providers []providers.Provider
	config    Config
	breakers  map[string]*gobreaker.CircuitBreaker[[]models.Itinerary]
}

type Result struct {
	Itineraries        []models.Itinerary
	ProvidersQueried   int
	ProvidersSucceeded int
	ProvidersFailed    int
	FailedProviders    []string
}

func NewAggregator(providerList []providers.Provider, config Config) *Aggregator {
	a := &Aggregator{
		providers: providerList,
		config:    config,
		breakers:  make(map[string]*gobreaker.CircuitBreaker[[]models.Itinerary]),
	}
	if config.Breaker != nil {
		for _, p := range providerList {
			a.breakers[p.Name()] = a.newBreaker(p.Name())
		}
	}
	return a
}

func (a *Aggregator) ProviderCount() int {
	return len(a.providers)
}

// Search queries every provider concurrently and merges what comes back.
// A failing provider is counted, not fatal. Itineraries are merged in
// provider registration order so results are reproducible.
func (a *Aggregator) Search(ctx context.Context, req models.SearchRequest) (*Result, error) {
	searchCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	result := &Result{
		Itineraries:      make([]models.Itinerary, 0),
		ProvidersQueried: len(a.providers),
	}

	type providerResult struct {
		provider    string
		itineraries []models.Itinerary
		err         error
	}

	results := make([]providerResult, len(a.providers))
	var wg sync.WaitGroup

	for i, p := range a.providers {
		wg.Add(1)
		go func(i int, provider providers.Provider) {
			defer wg.Done()

			if a.config.RateLimiter != nil {
				if err := a.config.RateLimiter.Wait(searchCtx, provider.Name()); err != nil {
					results[i] = providerResult{provider: provider.Name(), err: err}
					return
				}
			}

			its, err := a.searchWithRetry(searchCtx, provider, req)
			results[i] = providerResult{
				provider:    provider.Name(),
				itineraries: its,
				err:         err,
			}
		}(i, p)
	}

	wg.Wait()

	for _, pr := range results {
		if pr.err != nil {
			a.config.Logger.Warn().
				Str("provider", pr.provider).
				Err(pr.err).
				Msg("provider failed")
			result.ProvidersFailed++
			result.FailedProviders = append(result.FailedProviders, pr.provider)
			continue
		}
		result.ProvidersSucceeded++
		result.Itineraries = append(result.Itineraries, pr.itineraries...)
	}

	return result, nil
}

func (a *Aggregator) searchWithRetry(ctx context.Context, provider providers.Provider, req models.SearchRequest) ([]models.Itinerary, error) {
	var lastErr error

	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if attempt > 0 && len(a.config.RetryDelays) > 0 {
			delayIdx := attempt - 1
			if delayIdx >= len(a.config.RetryDelays) {
				delayIdx = len(a.config.RetryDelays) - 1
			}

			select {
			case <-time.After(a.config.RetryDelays[delayIdx]):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		its, err := a.call(ctx, provider, req)
		if err == nil {
			return its, nil
		}
		if providers.IsPermanent(err) ||
			errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, err
		}

		lastErr = err
		a.config.Logger.Debug().
			Str("provider", provider.Name()).
			Int("attempt", attempt+1).
			Err(err).
			Msg("provider attempt failed")
	}

	return nil, lastErr
}

func (a *Aggregator) call(ctx context.Context, provider providers.Provider, req models.SearchRequest) ([]models.Itinerary, error) {
	cb, ok := a.breakers[provider.Name()]
	if !ok {
		return provider.Search(ctx, req)
	}
	return cb.Execute(func() ([]models.Itinerary, error) {
		return provider.Search(ctx, req)
	})
}
