package types

type ProviderStatus string

const (
	ProviderStatusPending  ProviderStatus = "pending"
	ProviderStatusActive   ProviderStatus = "active"
	ProviderStatusRejected ProviderStatus = "rejected"
)

// Provider is a listed business with its category and location references
// already translated to display names.
type Provider struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Categories  []string       `json:"categories"`
	Location    string         `json:"location"`
	Description string         `json:"description"`
	Phone       string         `json:"phone,omitempty"`
	Email       string         `json:"-"`
	URL         string         `json:"url,omitempty"`
	Status      ProviderStatus `json:"-"`
}

func (p *Provider) HasEmail() bool {
	return p.Email != ""
}

// ProviderFilter narrows a provider listing. Empty fields leave that axis
// unfiltered.
type ProviderFilter struct {
	Category string
	Location string
}

// ProviderSubmission is a self-registration from the signup form.
type ProviderSubmission struct {
	Name          string `json:"name" form:"name"`
	CategoryID    string `json:"categoryId" form:"categoryId"`
	CategoryOther string `json:"categoryOther" form:"categoryOther"`
	LocationID    string `json:"locationId" form:"locationId"`
	LocationOther string `json:"locationOther" form:"locationOther"`
	Description   string `json:"description" form:"description"`
	Email         string `json:"email" form:"email"`
	Phone         string `json:"phone" form:"phone"`
	URL           string `json:"url" form:"url"`
}

// Classification is the outcome of checking a submission against the known
// vocabulary.
type Classification struct {
	CategoryID    string
	CategoryName  string
	CategoryOther string
	LocationID    string
	LocationName  string
	LocationOther string
	NeedsReview   bool
	Notes         []string
	URL           string
}

// ProviderRecord is the record written for a new provider. Submissions are
// always written as pending; activation happens in manual review.
type ProviderRecord struct {
	Name          string         `field:"name"`
	Category      any            `field:"category,omitempty"`
	CategoryOther string         `field:"category_other,omitempty"`
	Location      any            `field:"location,omitempty"`
	LocationOther string         `field:"location_other,omitempty"`
	Description   string         `field:"description"`
	Email         string         `field:"email,omitempty"`
	Phone         string         `field:"phone,omitempty"`
	URL           string         `field:"url,omitempty"`
	Status        ProviderStatus `field:"status"`
	NeedsReview   bool           `field:"needs_review"`
	Notes         string         `field:"notes,omitempty"`
}
