// Package kpi computes the rolling operational snapshot served on /metrics.
package kpi

import (
	"context"
	"fmt"
	"time"

	"follohjelp/internal/utils"
	"follohjelp/pkg/types"

	"golang.org/x/sync/errgroup"
)

const Window = 30 * 24 * time.Hour

type LeadSource interface {
	LeadsSince(ctx context.Context, since time.Time) ([]*types.Lead, error)
}

type ProviderSource interface {
	ListProviders(ctx context.Context, filter types.ProviderFilter) ([]*types.Provider, error)
}

type Service struct {
	leads     LeadSource
	providers ProviderSource
	now       func() time.Time
}

func NewService(leads LeadSource, providers ProviderSource) *Service {
	return &Service{leads: leads, providers: providers, now: time.Now}
}

func (s *Service) Snapshot(ctx context.Context) (*types.KPISnapshot, error) {
	now := s.now().UTC()

	var (
		leads     []*types.Lead
		providers []*types.Provider
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leads, err = s.leads.LeadsSince(gctx, now.Add(-Window))
		return err
	})
	g.Go(func() error {
		var err error
		providers, err = s.providers.ListProviders(gctx, types.ProviderFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load kpi inputs: %w", err)
	}

	return Compute(leads, providers, now), nil
}

// Compute builds the snapshot from the leads and active providers. Leads
// created before the window are ignored.
func Compute(leads []*types.Lead, providers []*types.Provider, now time.Time) *types.KPISnapshot {
	since := now.Add(-Window)

	var k types.KPIs
	for _, lead := range leads {
		if lead.CreatedAt.Before(since) {
			continue
		}
		k.LeadsCreated30d++
		if lead.AssignedProviders != "" {
			k.LeadsWithAssignedProviders30d++
		}
	}

	for _, provider := range providers {
		k.ProvidersActive++
		if provider.HasEmail() {
			k.ProvidersWithEmailActive++
		}
	}

	if k.LeadsCreated30d > 0 {
		k.MatchRate30d = utils.RoundFloat64(float64(k.LeadsWithAssignedProviders30d)/float64(k.LeadsCreated30d), 4)
	}

	return &types.KPISnapshot{GeneratedAt: now, KPIs: k}
}
