package submission

import (
	"strings"

	"follohjelp/pkg/types"
)

// ValidateLead trims the input in place and reports every missing or
// malformed field.
func ValidateLead(in *types.LeadInput) error {
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	var errs types.ValidationErrors

	required := []struct {
		field, value, message string
	}{
		{"category", in.Category, "Kategori er påkrevd"},
		{"description", in.Description, "Beskrivelse er påkrevd"},
		{"location", in.Location, "Sted er påkrevd"},
		{"name", in.Name, "Navn er påkrevd"},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, &types.ValidationError{Field: r.field, Message: r.message})
		}
	}

	if !validEmail(in.Email) {
		errs = append(errs, &types.ValidationError{Field: "email", Message: "Ugyldig e-post"})
	}

	if !in.Consent {
		errs = append(errs, &types.ValidationError{Field: "consent", Message: "Du må samtykke til vilkårene"})
	}

	return errs.OrNil()
}
