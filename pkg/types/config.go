package types

import "time"

type FieldMode string

const (
	// FieldModeText stores the reference as a plain display name.
	FieldModeText FieldMode = "text"
	// FieldModeLinked stores the reference as a list of linked record ids.
	FieldModeLinked FieldMode = "linked"
)

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`

	// Record store (Airtable)
	AirtableAPIKey         string    `envconfig:"AIRTABLE_API_KEY"`
	AirtableBaseID         string    `envconfig:"AIRTABLE_BASE_ID"`
	AirtableAPIURL         string    `envconfig:"AIRTABLE_API_URL" default:"https://api.airtable.com/v0"`
	ProvidersTable         string    `envconfig:"AIRTABLE_PROVIDERS_TABLE" default:"Providers"`
	CategoriesTable        string    `envconfig:"AIRTABLE_CATEGORIES_TABLE" default:"Categories"`
	LocationsTable         string    `envconfig:"AIRTABLE_LOCATIONS_TABLE" default:"Locations"`
	LeadsTable             string    `envconfig:"AIRTABLE_LEADS_TABLE" default:"Leads"`
	AssignedProvidersField string    `envconfig:"AIRTABLE_ASSIGNED_PROVIDERS_FIELD" default:"assigned_providers"`
	PageSize               int       `envconfig:"AIRTABLE_PAGE_SIZE" default:"100"`
	RequestTimeoutSec      uint      `envconfig:"AIRTABLE_REQUEST_TIMEOUT_SEC" default:"20"`
	CategoryFieldMode      FieldMode `envconfig:"CATEGORY_FIELD_MODE" default:"linked"`
	LocationFieldMode      FieldMode `envconfig:"LOCATION_FIELD_MODE" default:"text"`

	// Matching and search thresholds
	MatchLimit             int           `envconfig:"MATCH_LIMIT" default:"3"`
	MatchFallbackThreshold int           `envconfig:"MATCH_FALLBACK_THRESHOLD" default:"3"`
	SearchResultLimit      int           `envconfig:"SEARCH_RESULT_LIMIT" default:"30"`
	OptionsTTL             time.Duration `envconfig:"OPTIONS_TTL" default:"10m"`

	// Email
	AdminEmail     string `envconfig:"ADMIN_EMAIL"`
	EmailTransport string `envconfig:"EMAIL_TRANSPORT"`
	SMTPHost       string `envconfig:"SMTP_HOST"`
	SMTPPort       int    `envconfig:"SMTP_PORT"`
	SMTPUser       string `envconfig:"SMTP_USER"`
	SMTPPass       string `envconfig:"SMTP_PASS"`
	SMTPFrom       string `envconfig:"SMTP_FROM"`
	SESRegion      string `envconfig:"SES_REGION" default:"eu-north-1"`

	// Bearer token for /metrics and /leads
	MetricsToken string `envconfig:"METRICS_TOKEN"`
}

// MailFrom falls back to the admin address when no sender is configured.
func (c *Config) MailFrom() string {
	if c.SMTPFrom != "" {
		return c.SMTPFrom
	}
	return c.AdminEmail
}
