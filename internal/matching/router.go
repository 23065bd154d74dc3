// Package matching picks the providers a new lead is routed to.
package matching

import (
	"context"
	"fmt"

	"follohjelp/internal/instrument"
	"follohjelp/pkg/types"

	"github.com/sirupsen/logrus"
)

const (
	DefaultLimit             = 3
	DefaultFallbackThreshold = 3
)

type ProviderLister interface {
	ListProviders(ctx context.Context, filter types.ProviderFilter) ([]*types.Provider, error)
}

// Router selects at most limit providers for a lead. Providers in the lead's
// category and location come first; when fewer than threshold of those exist
// it tops up with providers from the same category anywhere.
type Router struct {
	logger    *logrus.Logger
	providers ProviderLister
	limit     int
	threshold int
}

func NewRouter(providers ProviderLister, config *types.Config, logger *logrus.Logger) *Router {
	limit := config.MatchLimit
	if limit <= 0 {
		limit = DefaultLimit
	}

	threshold := config.MatchFallbackThreshold
	if threshold <= 0 {
		threshold = DefaultFallbackThreshold
	}

	return &Router{
		logger:    logger,
		providers: providers,
		limit:     limit,
		threshold: threshold,
	}
}

func (r *Router) MatchProviders(ctx context.Context, category, location string) ([]*types.Provider, error) {
	primary, err := r.providers.ListProviders(ctx, types.ProviderFilter{Category: category, Location: location})
	if err != nil {
		return nil, fmt.Errorf("failed to list providers for %s in %s: %w", category, location, err)
	}

	candidates := primary
	if len(primary) < r.threshold {
		fallback, err := r.providers.ListProviders(ctx, types.ProviderFilter{Category: category})
		if err != nil {
			return nil, fmt.Errorf("failed to list fallback providers for %s: %w", category, err)
		}
		candidates = append(append(make([]*types.Provider, 0, len(primary)+len(fallback)), primary...), fallback...)
	}

	seen := make(map[string]bool, len(candidates))
	matched := make([]*types.Provider, 0, r.limit)
	for _, provider := range candidates {
		if len(matched) == r.limit {
			break
		}
		if seen[provider.ID] {
			continue
		}
		seen[provider.ID] = true
		matched = append(matched, provider)
	}

	instrument.LeadsRouted.Observe(float64(len(matched)))
	r.logger.WithFields(logrus.Fields{
		"category": category,
		"location": location,
		"primary":  len(primary),
		"matched":  len(matched),
	}).Debug("lead matched")

	return matched, nil
}
