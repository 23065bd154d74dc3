package main

import (
	"follohjelp/internal/cache"
	"follohjelp/internal/storage"
	"follohjelp/internal/store"
	"follohjelp/pkg/types"

	"github.com/sirupsen/logrus"
)

// components is the object graph shared by every command.
type components struct {
	categories *store.CategoryRepository
	locations  *store.LocationRepository
	providers  *store.ProviderRepository
	leads      *store.LeadRepository
	options    *cache.OptionsCache
}

type vocabulary struct {
	*store.CategoryRepository
	*store.LocationRepository
}

func buildComponents(config *types.Config, logger *logrus.Logger) *components {
	airtable := storage.NewAirtableStorage(config, logger)

	categories := store.NewCategoryRepository(airtable, config)
	locations := store.NewLocationRepository(airtable, config)
	options := cache.NewOptionsCache(vocabulary{categories, locations}, config.OptionsTTL, logger)

	return &components{
		categories: categories,
		locations:  locations,
		providers:  store.NewProviderRepository(airtable, options, config, logger),
		leads:      store.NewLeadRepository(airtable, config),
		options:    options,
	}
}
