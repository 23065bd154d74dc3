package seed

import (
	"context"
	"fmt"
	"io"
	"math/rand"

	"follohjelp/internal/search"
	"follohjelp/internal/store"
	"follohjelp/pkg/types"
)

// DescriptionPrefix marks demo providers so they are easy to find and remove
// in the store.
const DescriptionPrefix = "[seed] "

var fakeProviderDescriptions = []string{
	"Lokalt firma med fast pris og rask oppstart.",
	"Familiebedrift med over 20 års erfaring i Follo.",
	"Tar små og store oppdrag, også i helgene.",
	"Godkjent for våtrom og tilbyr gratis befaring.",
	"Miljøsertifisert og med eget lager i nærområdet.",
}

var fakeProviderSuffixes = []string{"AS", "Service", "og Sønn", "Follo", "Partner"}

type weightedProviderStatus struct {
	Status types.ProviderStatus
	Weight int
}

var weightedStatuses = []weightedProviderStatus{
	{Status: types.ProviderStatusActive, Weight: 70},
	{Status: types.ProviderStatusPending, Weight: 20},
	{Status: types.ProviderStatusRejected, Weight: 10},
}

// SeedFakeProviders creates count demo providers spread over the seeded
// vocabulary. Most are active so the directory has something to show.
func SeedFakeProviders(
	ctx context.Context,
	providers *store.ProviderRepository,
	options store.OptionsSource,
	count int,
	rng *rand.Rand,
	out io.Writer,
) error {
	if count <= 0 {
		fmt.Fprintln(out, "Skipping fake providers seed because count <= 0")
		return nil
	}

	vocabulary, err := options.Options(ctx)
	if err != nil {
		return fmt.Errorf("failed to load options for fake providers: %w", err)
	}

	if len(vocabulary.Categories) == 0 || len(vocabulary.Locations) == 0 {
		return fmt.Errorf("no categories or locations found; run the vocabulary seed first")
	}

	created := 0
	for i := 0; i < count; i++ {
		category := vocabulary.Categories[rng.Intn(len(vocabulary.Categories))]
		location := vocabulary.Locations[rng.Intn(len(vocabulary.Locations))]

		name := fmt.Sprintf("%s %s %s", location.Name, category.Name, fakeProviderSuffixes[rng.Intn(len(fakeProviderSuffixes))])
		provider := &types.Provider{
			Name:        name,
			Description: DescriptionPrefix + fakeProviderDescriptions[rng.Intn(len(fakeProviderDescriptions))],
			Phone:       fmt.Sprintf("%08d", 40000000+rng.Intn(9999999)),
			Status:      pickWeightedStatus(rng),
		}

		// Leave some without email so routing without notification is visible.
		if rng.Intn(100) < 80 {
			provider.Email = fmt.Sprintf("post+%d@%s.example.no", i+1, search.Slugify(location.Name+" "+category.Name))
		}

		if _, err := providers.CreateProvider(ctx, provider, category, location); err != nil {
			return fmt.Errorf("failed to create fake provider %d: %w", i+1, err)
		}
		created++
	}

	fmt.Fprintf(out, "Fake providers seeded: %d created\n", created)
	return nil
}

func pickWeightedStatus(rng *rand.Rand) types.ProviderStatus {
	total := 0
	for _, item := range weightedStatuses {
		total += item.Weight
	}

	roll := rng.Intn(total)
	running := 0
	for _, item := range weightedStatuses {
		running += item.Weight
		if roll < running {
			return item.Status
		}
	}

	return types.ProviderStatusPending
}
