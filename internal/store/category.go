package store

import (
	"context"
	"fmt"
	"slices"

	"follohjelp/internal/search"
	"follohjelp/internal/storage"
	"follohjelp/pkg/types"
)

type CategoryRepository struct {
	store RecordStore
	table storage.Table
}

func NewCategoryRepository(store RecordStore, config *types.Config) *CategoryRepository {
	return &CategoryRepository{
		store: store,
		table: storage.Table{Name: config.CategoriesTable, Setting: "AIRTABLE_CATEGORIES_TABLE"},
	}
}

// AllCategories returns active categories sorted by name. A category without
// an active flag counts as active; only an explicit false hides it.
func (r *CategoryRepository) AllCategories(ctx context.Context) ([]*types.Category, error) {
	categories, err := r.AllCategoriesUnfiltered(ctx)
	if err != nil {
		return nil, err
	}

	return slices.DeleteFunc(categories, func(c *types.Category) bool {
		return !c.Active
	}), nil
}

func (r *CategoryRepository) AllCategoriesUnfiltered(ctx context.Context) ([]*types.Category, error) {
	records, err := r.store.List(ctx, r.table, storage.ListParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	categories := make([]*types.Category, 0, len(records))
	for _, record := range records {
		if category := categoryFromRecord(record); category != nil {
			categories = append(categories, category)
		}
	}

	sortByName(categories, func(c *types.Category) string { return c.Name })
	return categories, nil
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, category *types.Category) error {
	if category.Slug == "" {
		category.Slug = search.Slugify(category.Name)
	}

	record, err := r.store.Create(ctx, r.table, map[string]any{
		fieldName:   category.Name,
		fieldSlug:   category.Slug,
		fieldActive: category.Active,
	})
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}

	category.ID = record.ID
	return nil
}

func categoryFromRecord(record storage.Record) *types.Category {
	name := stringField(record.Fields, fieldName)
	if name == "" {
		return nil
	}

	slug := stringField(record.Fields, fieldSlug)
	if slug == "" {
		slug = search.Slugify(name)
	}

	active, present := boolField(record.Fields, fieldActive)

	return &types.Category{
		ID:     record.ID,
		Name:   name,
		Slug:   slug,
		Active: active || !present,
	}
}

// ResolveCategory finds the category matching value by id, slug or
// normalized name.
func ResolveCategory(categories []*types.Category, value string) *types.Category {
	slug := search.Slugify(value)
	normalized := search.Normalize(value)
	if normalized == "" {
		return nil
	}

	for _, c := range categories {
		if c.ID == value || (slug != "" && search.Slugify(c.Slug) == slug) || search.Normalize(c.Name) == normalized {
			return c
		}
	}
	return nil
}

func sortByName[T any](items []T, name func(T) string) {
	collator := search.NewCollator()
	slices.SortStableFunc(items, func(a, b T) int {
		return collator.CompareString(name(a), name(b))
	})
}
