package seed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"testing"

	"follohjelp/internal/storage"
	"follohjelp/internal/store"
	"follohjelp/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	records map[string][]storage.Record
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[string][]storage.Record{}}
}

func (m *memoryStore) List(_ context.Context, table storage.Table, _ storage.ListParams) ([]storage.Record, error) {
	return m.records[table.Name], nil
}

func (m *memoryStore) Create(_ context.Context, table storage.Table, fields map[string]any) (*storage.Record, error) {
	record := storage.Record{ID: fmt.Sprintf("rec%s%010d", strings.ToUpper(table.Name[:3]), len(m.records[table.Name])+1), Fields: fields}
	m.records[table.Name] = append(m.records[table.Name], record)
	return &record, nil
}

type staticOptions struct {
	options *types.Options
}

func (s staticOptions) Options(context.Context) (*types.Options, error) {
	return s.options, nil
}

var testConfig = &types.Config{
	ProvidersTable:    "Providers",
	CategoriesTable:   "Categories",
	LocationsTable:    "Locations",
	CategoryFieldMode: types.FieldModeLinked,
	LocationFieldMode: types.FieldModeText,
}

func TestSeedCategoriesCreatesMissingOnly(t *testing.T) {
	ms := newMemoryStore()
	ms.records["Categories"] = []storage.Record{
		{ID: "recCATEXISTING01", Fields: map[string]any{"name": "Rørlegger", "slug": "rorlegger"}},
		{ID: "recCATEXISTING02", Fields: map[string]any{"name": "Maler", "active": false}},
	}
	repo := store.NewCategoryRepository(ms, testConfig)

	var out bytes.Buffer
	require.NoError(t, SeedCategories(context.Background(), repo, &out))

	assert.Len(t, ms.records["Categories"], len(Categories))
	assert.Contains(t, out.String(), "10 created, 2 already present")

	created := ms.records["Categories"][2]
	assert.Equal(t, "Elektriker", created.Fields["name"])
	assert.Equal(t, "elektriker", created.Fields["slug"])
	assert.Equal(t, true, created.Fields["active"])

	require.NoError(t, SeedCategories(context.Background(), repo, io.Discard))
	assert.Len(t, ms.records["Categories"], len(Categories))
}

func TestSeedLocations(t *testing.T) {
	ms := newMemoryStore()
	ms.records["Locations"] = []storage.Record{
		{ID: "recLOCEXISTING01", Fields: map[string]any{"name": "Ås"}},
	}
	repo := store.NewLocationRepository(ms, testConfig)

	var out bytes.Buffer
	require.NoError(t, SeedLocations(context.Background(), repo, &out))

	assert.Len(t, ms.records["Locations"], len(Locations))
	assert.Equal(t, "Locations seeded: 8 created\n", out.String())
}

func TestSeedFakeProviders(t *testing.T) {
	ms := newMemoryStore()
	options := staticOptions{options: &types.Options{
		Categories: []*types.Category{{ID: "recCATROR0000001", Name: "Rørlegger", Slug: "rorlegger", Active: true}},
		Locations:  []*types.Location{{ID: "recLOCSKI0000001", Name: "Ski", Slug: "ski"}},
	}}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	repo := store.NewProviderRepository(ms, options, testConfig, logger)

	err := SeedFakeProviders(context.Background(), repo, options, 12, rand.New(rand.NewSource(1)), io.Discard)
	require.NoError(t, err)

	require.Len(t, ms.records["Providers"], 12)
	for _, record := range ms.records["Providers"] {
		assert.Equal(t, []string{"recCATROR0000001"}, record.Fields["category"])
		assert.Equal(t, "Ski", record.Fields["location"])
		assert.True(t, strings.HasPrefix(record.Fields["description"].(string), DescriptionPrefix))
		assert.True(t, strings.HasPrefix(record.Fields["name"].(string), "Ski Rørlegger "))
		assert.Contains(t, []any{types.ProviderStatusActive, types.ProviderStatusPending, types.ProviderStatusRejected}, record.Fields["status"])
	}
}

func TestSeedFakeProvidersNeedsVocabulary(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	options := staticOptions{options: &types.Options{}}
	repo := store.NewProviderRepository(newMemoryStore(), options, testConfig, logger)

	err := SeedFakeProviders(context.Background(), repo, options, 3, rand.New(rand.NewSource(1)), io.Discard)
	assert.Error(t, err)

	assert.NoError(t, SeedFakeProviders(context.Background(), repo, options, 0, rand.New(rand.NewSource(1)), io.Discard))
}
