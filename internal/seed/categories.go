package seed

import (
	"context"
	"fmt"
	"io"

	"follohjelp/internal/search"
	"follohjelp/internal/store"
	"follohjelp/pkg/types"
)

// Categories is the base vocabulary the directory launches with. Existing
// categories are matched by slug, so renaming one here creates a new record.
var Categories = []string{
	"Rørlegger",
	"Elektriker",
	"Snekker",
	"Tømrer",
	"Murer",
	"Maler",
	"Flislegger",
	"Taktekker",
	"Renhold",
	"Flytting",
	"Håndverker",
	"Utearbeid",
}

// SeedCategories creates every category in Categories that the store does not
// have yet. Records are never updated or deleted; curation happens in the
// store itself.
func SeedCategories(ctx context.Context, repo *store.CategoryRepository, out io.Writer) error {
	fmt.Fprintln(out, "Starting category sync...")
	fmt.Fprintf(out, "  Seed list contains %d categories\n", len(Categories))

	existing, err := repo.AllCategoriesUnfiltered(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch existing categories: %w", err)
	}
	fmt.Fprintf(out, "  Store contains %d categories\n", len(existing))

	known := make(map[string]bool, len(existing))
	for _, category := range existing {
		known[search.Slugify(category.Slug)] = true
	}

	created := 0
	for _, name := range Categories {
		slug := search.Slugify(name)
		if known[slug] {
			continue
		}

		fmt.Fprintf(out, "  Creating category: %s (slug: %s)\n", name, slug)
		category := &types.Category{Name: name, Slug: slug, Active: true}
		if err := repo.CreateCategory(ctx, category); err != nil {
			return fmt.Errorf("failed to create category %s: %w", slug, err)
		}
		known[slug] = true
		created++
	}

	fmt.Fprintf(out, "Category sync complete: %d created, %d already present\n", created, len(Categories)-created)
	return nil
}
