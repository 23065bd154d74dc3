package store

import (
	"context"
	"fmt"
	"strings"

	"follohjelp/internal/search"
	"follohjelp/internal/storage"
	"follohjelp/internal/utils"
	"follohjelp/pkg/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ProviderRepository reads and writes the providers table. Its list methods
// resolve category and location references to display names, so callers never
// see record ids.
type ProviderRepository struct {
	logger       *logrus.Logger
	store        RecordStore
	options      OptionsSource
	table        storage.Table
	categoryMode types.FieldMode
	locationMode types.FieldMode
}

func NewProviderRepository(store RecordStore, options OptionsSource, config *types.Config, logger *logrus.Logger) *ProviderRepository {
	return &ProviderRepository{
		logger:       logger,
		store:        store,
		options:      options,
		table:        storage.Table{Name: config.ProvidersTable, Setting: "AIRTABLE_PROVIDERS_TABLE"},
		categoryMode: config.CategoryFieldMode,
		locationMode: config.LocationFieldMode,
	}
}

// IsUnfiltered reports whether a filter value leaves its axis open. The
// directory uses "Alle" as its "any" choice.
func IsUnfiltered(value string) bool {
	normalized := search.Normalize(value)
	return normalized == "" || normalized == "alle"
}

// ListProviders returns active providers matching filter. A category that
// does not resolve to a known category yields an empty list, not an error.
func (r *ProviderRepository) ListProviders(ctx context.Context, filter types.ProviderFilter) ([]*types.Provider, error) {
	if IsUnfiltered(filter.Category) && IsUnfiltered(filter.Location) {
		return r.listAll(ctx)
	}

	options, err := r.options.Options(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load options for provider filter: %w", err)
	}

	var terms []storage.Formula

	if !IsUnfiltered(filter.Category) {
		category := ResolveCategory(options.Categories, filter.Category)
		if category == nil {
			r.logger.WithField("category", filter.Category).Debug("category did not resolve")
			return []*types.Provider{}, nil
		}
		terms = append(terms, r.categoryTerm(category))
	}

	if !IsUnfiltered(filter.Location) {
		term, ok := r.locationTerm(options, filter.Location)
		if !ok {
			r.logger.WithField("location", filter.Location).Debug("location did not resolve")
			return []*types.Provider{}, nil
		}
		terms = append(terms, term)
	}

	records, err := r.store.List(ctx, r.table, storage.ListParams{Filter: activeFilter(terms...)})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch providers: %w", err)
	}

	return r.resolve(records, options), nil
}

// ProvidersByCategorySlug backs the category page. A nil category means the
// slug is unknown.
func (r *ProviderRepository) ProvidersByCategorySlug(ctx context.Context, slug string) (*types.Category, []*types.Provider, error) {
	options, err := r.options.Options(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load options for category page: %w", err)
	}

	category := ResolveCategory(options.Categories, slug)
	if category == nil {
		return nil, nil, nil
	}

	providers, err := r.ListProviders(ctx, types.ProviderFilter{Category: category.ID})
	if err != nil {
		return nil, nil, err
	}

	return category, providers, nil
}

// listAll fetches the vocabulary and the unfiltered provider list side by side.
func (r *ProviderRepository) listAll(ctx context.Context) ([]*types.Provider, error) {
	var (
		options *types.Options
		records []storage.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		options, err = r.options.Options(gctx)
		if err != nil {
			return fmt.Errorf("failed to load options: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records, err = r.store.List(gctx, r.table, storage.ListParams{Filter: activeFilter()})
		if err != nil {
			return fmt.Errorf("failed to fetch providers: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return r.resolve(records, options), nil
}

func (r *ProviderRepository) categoryTerm(category *types.Category) storage.Formula {
	if r.categoryMode == types.FieldModeText {
		return storage.Eq(fieldCategory, category.Name)
	}
	return storage.HasLinked(fieldCategory, category.ID)
}

// locationTerm builds the location predicate. Free-text locations fall back to
// the raw value when it is not a known location; linked locations cannot.
func (r *ProviderRepository) locationTerm(options *types.Options, value string) (storage.Formula, bool) {
	location := ResolveLocation(options.Locations, value)

	if r.locationMode == types.FieldModeLinked {
		if location == nil {
			return nil, false
		}
		return storage.HasLinked(fieldLocation, location.ID), true
	}

	if location == nil {
		return storage.Eq(fieldLocation, strings.TrimSpace(value)), true
	}
	return storage.Eq(fieldLocation, location.Name), true
}

func activeFilter(terms ...storage.Formula) storage.Formula {
	return storage.And(append([]storage.Formula{storage.Eq(fieldStatus, string(types.ProviderStatusActive))}, terms...)...)
}

// resolve maps records to providers, silently dropping anything that is not
// active or has no name.
func (r *ProviderRepository) resolve(records []storage.Record, options *types.Options) []*types.Provider {
	categoryNames := options.CategoryNamesByID()
	locationNames := options.LocationNamesByID()

	providers := make([]*types.Provider, 0, len(records))
	for _, record := range records {
		status := types.ProviderStatus(strings.ToLower(stringField(record.Fields, fieldStatus)))
		name := stringField(record.Fields, fieldName)
		if status != types.ProviderStatusActive || name == "" {
			continue
		}

		providers = append(providers, &types.Provider{
			ID:          record.ID,
			Name:        name,
			Categories:  categoryDisplayNames(parseCategoryRefs(record.Fields), categoryNames),
			Location:    locationDisplayName(stringList(record.Fields, fieldLocation), locationNames),
			Description: stringField(record.Fields, fieldDescription),
			Phone:       stringField(record.Fields, fieldPhone),
			Email:       stringField(record.Fields, fieldEmail),
			URL:         utils.FirstNonEmpty(stringField(record.Fields, fieldURL), stringField(record.Fields, fieldWebsite)),
			Status:      status,
		})
	}
	return providers
}

func parseCategoryRefs(fields map[string]any) []types.CategoryRef {
	values := stringList(fields, fieldCategory)
	refs := make([]types.CategoryRef, 0, len(values))
	for _, v := range values {
		if LooksLikeRecordID(v) {
			refs = append(refs, types.CategoryID(v))
		} else {
			refs = append(refs, types.CategoryName(v))
		}
	}
	return refs
}

func categoryDisplayNames(refs []types.CategoryRef, namesByID map[string]string) []string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		switch ref.Kind {
		case types.RefID:
			if name, ok := namesByID[ref.Value]; ok {
				names = append(names, name)
			}
		default:
			names = append(names, ref.Value)
		}
	}
	return names
}

// locationDisplayName translates the first location reference. Unknown values
// shaped like record ids are hidden rather than shown raw.
func locationDisplayName(values []string, namesByID map[string]string) string {
	if len(values) == 0 {
		return ""
	}

	value := values[0]
	if name, ok := namesByID[value]; ok {
		return name
	}
	if LooksLikeRecordID(value) {
		return ""
	}
	return value
}

// CreatePendingProvider writes a classified submission. The status is always
// pending regardless of the classification.
func (r *ProviderRepository) CreatePendingProvider(ctx context.Context, submission *types.ProviderSubmission, c *types.Classification) (string, error) {
	record := &types.ProviderRecord{
		Name:          strings.TrimSpace(submission.Name),
		CategoryOther: c.CategoryOther,
		LocationOther: c.LocationOther,
		Description:   strings.TrimSpace(submission.Description),
		Email:         strings.TrimSpace(submission.Email),
		Phone:         strings.TrimSpace(submission.Phone),
		URL:           c.URL,
		Status:        types.ProviderStatusPending,
		NeedsReview:   c.NeedsReview,
		Notes:         strings.Join(c.Notes, "; "),
	}

	if c.CategoryID != "" {
		record.Category = referenceValue(r.categoryMode, c.CategoryID, c.CategoryName)
	}
	if c.LocationID != "" {
		record.Location = referenceValue(r.locationMode, c.LocationID, c.LocationName)
	}

	return r.create(ctx, record)
}

// CreateProvider writes a provider directly in the given category and
// location, bypassing classification. Used for seeding.
func (r *ProviderRepository) CreateProvider(ctx context.Context, provider *types.Provider, category *types.Category, location *types.Location) (string, error) {
	return r.create(ctx, &types.ProviderRecord{
		Name:        provider.Name,
		Category:    referenceValue(r.categoryMode, category.ID, category.Name),
		Location:    referenceValue(r.locationMode, location.ID, location.Name),
		Description: provider.Description,
		Email:       provider.Email,
		Phone:       provider.Phone,
		URL:         provider.URL,
		Status:      provider.Status,
	})
}

func (r *ProviderRepository) create(ctx context.Context, provider *types.ProviderRecord) (string, error) {
	record, err := r.store.Create(ctx, r.table, utils.StructToMap(provider))
	if err != nil {
		return "", fmt.Errorf("failed to create provider: %w", err)
	}

	return record.ID, nil
}

func referenceValue(mode types.FieldMode, id, name string) any {
	if mode == types.FieldModeText {
		return name
	}
	return []string{id}
}
