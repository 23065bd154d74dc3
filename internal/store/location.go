package store

import (
	"context"
	"fmt"

	"follohjelp/internal/search"
	"follohjelp/internal/storage"
	"follohjelp/pkg/types"
)

type LocationRepository struct {
	store RecordStore
	table storage.Table
}

func NewLocationRepository(store RecordStore, config *types.Config) *LocationRepository {
	return &LocationRepository{
		store: store,
		table: storage.Table{Name: config.LocationsTable, Setting: "AIRTABLE_LOCATIONS_TABLE"},
	}
}

func (r *LocationRepository) AllLocations(ctx context.Context) ([]*types.Location, error) {
	records, err := r.store.List(ctx, r.table, storage.ListParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch locations: %w", err)
	}

	locations := make([]*types.Location, 0, len(records))
	for _, record := range records {
		name := stringField(record.Fields, fieldName)
		if name == "" {
			continue
		}
		locations = append(locations, &types.Location{
			ID:   record.ID,
			Name: name,
			Slug: search.Slugify(name),
		})
	}

	sortByName(locations, func(l *types.Location) string { return l.Name })
	return locations, nil
}

func (r *LocationRepository) CreateLocation(ctx context.Context, location *types.Location) error {
	record, err := r.store.Create(ctx, r.table, map[string]any{
		fieldName: location.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to insert location: %w", err)
	}

	location.ID = record.ID
	location.Slug = search.Slugify(location.Name)
	return nil
}

// ResolveLocation finds the location matching value by id, slug or
// normalized name.
func ResolveLocation(locations []*types.Location, value string) *types.Location {
	slug := search.Slugify(value)
	normalized := search.Normalize(value)
	if normalized == "" {
		return nil
	}

	for _, l := range locations {
		if l.ID == value || (slug != "" && l.Slug == slug) || search.Normalize(l.Name) == normalized {
			return l
		}
	}
	return nil
}
