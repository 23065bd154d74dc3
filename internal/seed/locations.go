package seed

import (
	"context"
	"fmt"
	"io"

	"follohjelp/internal/search"
	"follohjelp/internal/store"
	"follohjelp/pkg/types"
)

var Locations = []string{
	"Ski",
	"Ås",
	"Drøbak",
	"Vestby",
	"Nesodden",
	"Frogn",
	"Oppegård",
	"Kolbotn",
	"Enebakk",
}

func SeedLocations(ctx context.Context, repo *store.LocationRepository, out io.Writer) error {
	existing, err := repo.AllLocations(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch existing locations: %w", err)
	}

	known := make(map[string]bool, len(existing))
	for _, location := range existing {
		known[location.Slug] = true
	}

	created := 0
	for _, name := range Locations {
		slug := search.Slugify(name)
		if known[slug] {
			continue
		}

		if err := repo.CreateLocation(ctx, &types.Location{Name: name}); err != nil {
			return fmt.Errorf("failed to create location %s: %w", slug, err)
		}
		known[slug] = true
		created++
	}

	fmt.Fprintf(out, "Locations seeded: %d created\n", created)
	return nil
}
