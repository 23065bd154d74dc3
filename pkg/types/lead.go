package types

import "time"

type Lead struct {
	ID                string    `json:"id"`
	Category          string    `json:"category"`
	Location          string    `json:"location"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone,omitempty"`
	Description       string    `json:"description"`
	AssignedProviders string    `json:"assignedProviders,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// LeadInput is the public request payload for a new lead.
type LeadInput struct {
	Category    string `json:"category" form:"category"`
	Description string `json:"description" form:"description"`
	Location    string `json:"location" form:"location"`
	Name        string `json:"name" form:"name"`
	Email       string `json:"email" form:"email"`
	Phone       string `json:"phone" form:"phone"`
	Consent     bool   `json:"consent" form:"consent"`
}

// NewLead holds the fields written when a lead is created. The assigned
// providers column name is configurable and is set by the repository.
type NewLead struct {
	Category    string `field:"category"`
	Description string `field:"description"`
	Location    string `field:"location"`
	Name        string `field:"name"`
	Email       string `field:"email"`
	Phone       string `field:"phone,omitempty"`

	AssignedProviders string `field:"-"`
}

type KPIs struct {
	LeadsCreated30d               int     `json:"leads_created_30d"`
	ProvidersActive               int     `json:"providers_active"`
	ProvidersWithEmailActive      int     `json:"providers_with_email_active"`
	LeadsWithAssignedProviders30d int     `json:"leads_with_assigned_providers_30d"`
	MatchRate30d                  float64 `json:"match_rate_30d"`
}

type KPISnapshot struct {
	GeneratedAt time.Time `json:"generatedAt"`
	KPIs        KPIs      `json:"kpis"`
}
