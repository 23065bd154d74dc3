// Package submission validates inbound payloads and classifies provider
// self-registrations against the known vocabulary.
package submission

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"follohjelp/internal/store"
	"follohjelp/internal/utils"
	"follohjelp/pkg/types"
)

// Other is the selection value a submitter uses for "not in the list".
const Other = "OTHER"

var schemePattern = regexp.MustCompile(`(?i)^https?://`)

type Classifier struct {
	options store.OptionsSource
}

func NewClassifier(options store.OptionsSource) *Classifier {
	return &Classifier{options: options}
}

// Classify validates a submission and resolves its category and location
// selections. Anything that does not resolve is kept as free text and marks
// the submission for review.
func (c *Classifier) Classify(ctx context.Context, s *types.ProviderSubmission) (*types.Classification, error) {
	if err := validateSubmission(s); err != nil {
		return nil, err
	}

	options, err := c.options.Options(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load options for classification: %w", err)
	}

	result := &types.Classification{URL: normalizeURL(s.URL)}

	categoryID := strings.TrimSpace(s.CategoryID)
	categoryOther := strings.TrimSpace(s.CategoryOther)
	switch category := options.CategoryByID(categoryID); {
	case categoryID == "":
		review(result, categoryOther, &result.CategoryOther, "Kategori ikke valgt")
	case strings.EqualFold(categoryID, Other):
		review(result, categoryOther, &result.CategoryOther, "")
	case category == nil:
		review(result, utils.FirstNonEmpty(categoryOther, categoryID), &result.CategoryOther, "Ukjent kategori: "+categoryID)
	default:
		result.CategoryID = category.ID
		result.CategoryName = category.Name
	}

	locationID := strings.TrimSpace(s.LocationID)
	locationOther := strings.TrimSpace(s.LocationOther)
	switch location := options.LocationByID(locationID); {
	case locationID == "":
		review(result, locationOther, &result.LocationOther, "Sted ikke valgt")
	case strings.EqualFold(locationID, Other):
		review(result, locationOther, &result.LocationOther, "")
	case location == nil:
		review(result, utils.FirstNonEmpty(locationOther, locationID), &result.LocationOther, "Ukjent sted: "+locationID)
	default:
		result.LocationID = location.ID
		result.LocationName = location.Name
	}

	return result, nil
}

// review keeps the raw value as free text and flags the submission. An empty
// note is not recorded.
func review(c *types.Classification, value string, other *string, note string) {
	*other = value
	c.NeedsReview = true
	if note != "" {
		c.Notes = append(c.Notes, note)
	}
}

func validateSubmission(s *types.ProviderSubmission) error {
	var errs types.ValidationErrors

	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, &types.ValidationError{Field: "name", Message: "Navn er påkrevd"})
	}

	if strings.TrimSpace(s.Description) == "" {
		errs = append(errs, &types.ValidationError{Field: "description", Message: "Beskrivelse er påkrevd"})
	}

	email := strings.TrimSpace(s.Email)
	phone := strings.TrimSpace(s.Phone)
	if email == "" && phone == "" {
		errs = append(errs, &types.ValidationError{Field: "email", Message: "Telefon eller e-post er påkrevd"})
	} else if email != "" && !validEmail(email) {
		errs = append(errs, &types.ValidationError{Field: "email", Message: "Ugyldig e-post"})
	}

	if strings.TrimSpace(s.CategoryID) == "" && strings.TrimSpace(s.LocationID) == "" {
		errs = append(errs, &types.ValidationError{Field: "categoryId", Message: "Velg kategori eller sted"})
	}

	return errs.OrNil()
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func normalizeURL(raw string) string {
	url := strings.TrimSpace(raw)
	if url == "" || schemePattern.MatchString(url) {
		return url
	}
	return "https://" + url
}
