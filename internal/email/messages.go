package email

import (
	"fmt"
	"strings"

	"follohjelp/internal/utils"
	"follohjelp/pkg/types"
)

func leadText(lead *types.LeadInput) string {
	lines := []string{
		"Ny henvendelse via Follohjelp:",
		"",
		"Kategori: " + lead.Category,
		"Sted: " + lead.Location,
		"Navn: " + lead.Name,
		"E-post: " + lead.Email,
	}
	if lead.Phone != "" {
		lines = append(lines, "Telefon: "+lead.Phone)
	}
	lines = append(lines, "", "Beskrivelse:", lead.Description)

	return strings.Join(lines, "\n")
}

// LeadNotification is sent to one matched provider.
func LeadNotification(to string, lead *types.LeadInput) *Message {
	return &Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Nytt oppdrag i %s (%s)", lead.Category, lead.Location),
		Text:    leadText(lead),
	}
}

// LeadAdminCopy tells the admin who the lead was assigned to.
func LeadAdminCopy(to string, lead *types.LeadInput, assigned string) *Message {
	return &Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Kopi: nytt oppdrag (%s)", lead.Category),
		Text:    fmt.Sprintf("Tildelt leverandører: %s\n\n%s", utils.FirstNonEmpty(assigned, "Ingen"), leadText(lead)),
	}
}

// ProviderSubmitted tells the admin a new business is waiting for review.
func ProviderSubmitted(to string, s *types.ProviderSubmission, c *types.Classification) *Message {
	lines := []string{
		"Navn: " + strings.TrimSpace(s.Name),
		"Kategori: " + utils.FirstNonEmpty(c.CategoryName, c.CategoryOther, "ikke valgt"),
		"Sted: " + utils.FirstNonEmpty(c.LocationName, c.LocationOther, "ikke valgt"),
	}
	if email := strings.TrimSpace(s.Email); email != "" {
		lines = append(lines, "E-post: "+email)
	}
	if phone := strings.TrimSpace(s.Phone); phone != "" {
		lines = append(lines, "Telefon: "+phone)
	}
	if c.URL != "" {
		lines = append(lines, "Nettside: "+c.URL)
	}
	if len(c.Notes) > 0 {
		lines = append(lines, "Merknader: "+strings.Join(c.Notes, "; "))
	}
	lines = append(lines, "", "Beskrivelse:", strings.TrimSpace(s.Description))

	return &Message{
		To:      []string{to},
		Subject: "Ny bedrift foreslått: " + strings.TrimSpace(s.Name),
		Text:    strings.Join(lines, "\n"),
	}
}
