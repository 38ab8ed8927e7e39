package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/dharmasatrya/flightfinder/internal/models"
)

// Provider is one itinerary source queried by the aggregator.
type Provider interface {
	Name() string
	Search(ctx context.Context, req models.SearchRequest) ([]models.Itinerary, error)
}

// ProviderError tags a failure with the provider that produced it.
// Permanent failures come from the request itself and are not retried.
type ProviderError struct {
	Provider  string
	Permanent bool
	Err       error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

func NewPermanentError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Permanent: true, Err: err}
}

// IsPermanent reports whether err wraps a permanent ProviderError.
func IsPermanent(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Permanent
}
