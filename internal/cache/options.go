// Package cache keeps the category and location vocabulary in memory so the
// directory does not hit the record store for it on every request.
package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"follohjelp/internal/instrument"
	"follohjelp/pkg/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const DefaultTTL = 10 * time.Minute

// Source loads the vocabulary from the record store.
type Source interface {
	AllCategories(ctx context.Context) ([]*types.Category, error)
	AllLocations(ctx context.Context) ([]*types.Location, error)
}

type snapshot struct {
	options    *types.Options
	computedAt time.Time
	expiresAt  time.Time
}

// OptionsCache serves a snapshot of the vocabulary until it expires. Readers
// never see a partially built snapshot. Concurrent readers that find it
// expired share a single refresh, and a failed refresh is returned to every
// one of them; an expired snapshot is never served.
type OptionsCache struct {
	logger  *logrus.Logger
	source  Source
	ttl     time.Duration
	now     func() time.Time
	current atomic.Pointer[snapshot]
	group   singleflight.Group
}

func NewOptionsCache(source Source, ttl time.Duration, logger *logrus.Logger) *OptionsCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &OptionsCache{
		logger: logger,
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Options returns the cached vocabulary, refreshing it first when expired.
func (c *OptionsCache) Options(ctx context.Context) (*types.Options, error) {
	if snap := c.current.Load(); snap != nil && c.now().Before(snap.expiresAt) {
		return snap.options, nil
	}

	result, err, _ := c.group.Do("options", func() (any, error) {
		// Another caller may have finished a refresh while we waited.
		if snap := c.current.Load(); snap != nil && c.now().Before(snap.expiresAt) {
			return snap, nil
		}
		return c.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}

	return result.(*snapshot).options, nil
}

// Response returns the vocabulary in its public shape.
func (c *OptionsCache) Response(ctx context.Context) (*types.OptionsResponse, error) {
	options, err := c.Options(ctx)
	if err != nil {
		return nil, err
	}

	response := &types.OptionsResponse{
		Categories: make([]types.OptionItem, 0, len(options.Categories)),
		Locations:  make([]types.OptionItem, 0, len(options.Locations)),
	}
	for _, category := range options.Categories {
		response.Categories = append(response.Categories, types.OptionItem{ID: category.ID, Name: category.Name})
	}
	for _, location := range options.Locations {
		response.Locations = append(response.Locations, types.OptionItem{ID: location.ID, Name: location.Name})
	}

	return response, nil
}

// Invalidate drops the snapshot so the next read refreshes.
func (c *OptionsCache) Invalidate() {
	c.current.Store(nil)
}

func (c *OptionsCache) refresh(ctx context.Context) (*snapshot, error) {
	var (
		categories []*types.Category
		locations  []*types.Location
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = c.source.AllCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		locations, err = c.source.AllLocations(gctx)
		return err
	})

	err := g.Wait()
	instrument.OptionsRefreshes.WithLabelValues(instrument.Outcome(err)).Inc()
	if err != nil {
		c.logger.WithError(err).Error("failed to refresh options")
		return nil, fmt.Errorf("failed to refresh options: %w", err)
	}

	now := c.now()
	snap := &snapshot{
		options:    &types.Options{Categories: categories, Locations: locations},
		computedAt: now,
		expiresAt:  now.Add(c.ttl),
	}
	c.current.Store(snap)

	c.logger.WithFields(logrus.Fields{
		"categories": len(categories),
		"locations":  len(locations),
	}).Debug("options refreshed")

	return snap, nil
}
