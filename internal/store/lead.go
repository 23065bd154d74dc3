package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"follohjelp/internal/storage"
	"follohjelp/internal/utils"
	"follohjelp/pkg/types"
)

type LeadRepository struct {
	store         RecordStore
	table         storage.Table
	assignedField string
}

func NewLeadRepository(store RecordStore, config *types.Config) *LeadRepository {
	return &LeadRepository{
		store:         store,
		table:         storage.Table{Name: config.LeadsTable, Setting: "AIRTABLE_LEADS_TABLE"},
		assignedField: strings.TrimSpace(config.AssignedProvidersField),
	}
}

// CreateLead inserts the lead once. Leads are never updated afterwards.
func (r *LeadRepository) CreateLead(ctx context.Context, lead *types.NewLead) (*types.Lead, error) {
	if r.assignedField == "" {
		return nil, &types.ConfigurationError{Setting: "AIRTABLE_ASSIGNED_PROVIDERS_FIELD"}
	}

	fields := utils.StructToMap(lead)
	if lead.AssignedProviders != "" {
		fields[r.assignedField] = lead.AssignedProviders
	}

	record, err := r.store.Create(ctx, r.table, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	return r.leadFromRecord(*record), nil
}

// LatestLeads returns the newest leads first.
func (r *LeadRepository) LatestLeads(ctx context.Context, limit int) ([]*types.Lead, error) {
	records, err := r.store.List(ctx, r.table, storage.ListParams{
		PageSize:   limit,
		MaxRecords: limit,
		Sort:       []storage.Sort{{Field: fieldCreatedAt, Direction: "desc"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leads: %w", err)
	}

	return r.leadsFromRecords(records), nil
}

// LeadsSince returns every lead created at or after since.
func (r *LeadRepository) LeadsSince(ctx context.Context, since time.Time) ([]*types.Lead, error) {
	records, err := r.store.List(ctx, r.table, storage.ListParams{
		Filter: storage.CreatedSince(since),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leads since %s: %w", since.Format(time.RFC3339), err)
	}

	return r.leadsFromRecords(records), nil
}

func (r *LeadRepository) leadsFromRecords(records []storage.Record) []*types.Lead {
	leads := make([]*types.Lead, 0, len(records))
	for _, record := range records {
		leads = append(leads, r.leadFromRecord(record))
	}
	return leads
}

func (r *LeadRepository) leadFromRecord(record storage.Record) *types.Lead {
	createdAt := record.CreatedTime
	if raw := stringField(record.Fields, fieldCreatedAt); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			createdAt = parsed
		}
	}

	return &types.Lead{
		ID:                record.ID,
		Category:          stringField(record.Fields, fieldCategory),
		Location:          stringField(record.Fields, fieldLocation),
		Name:              stringField(record.Fields, fieldName),
		Email:             stringField(record.Fields, fieldEmail),
		Phone:             stringField(record.Fields, fieldPhone),
		Description:       stringField(record.Fields, fieldDescription),
		AssignedProviders: stringField(record.Fields, r.assignedField),
		CreatedAt:         createdAt,
	}
}
