package server

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"follohjelp/internal/email"
	"follohjelp/internal/submission"
	"follohjelp/pkg/types"

	"github.com/sirupsen/logrus"
)

const latestLeadsLimit = 20

type leadsResponse struct {
	Leads []*types.Lead `json:"leads"`
}

func (s *Service) handlePostLeads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input types.LeadInput
	if err := s.decodeBody(r, &input); err != nil {
		s.handleError(w, r, err, "Kunne ikke lagre forespørselen")
		return
	}

	if err := submission.ValidateLead(&input); err != nil {
		s.handleError(w, r, err, "Kunne ikke lagre forespørselen")
		return
	}

	matched, err := s.matcher.MatchProviders(ctx, input.Category, input.Location)
	if err != nil {
		s.handleError(w, r, err, "Kunne ikke lagre forespørselen")
		return
	}

	names := make([]string, 0, len(matched))
	for _, provider := range matched {
		names = append(names, provider.Name)
	}
	assigned := strings.Join(names, ", ")

	lead, err := s.leads.CreateLead(ctx, &types.NewLead{
		Category:          input.Category,
		Description:       input.Description,
		Location:          input.Location,
		Name:              input.Name,
		Email:             input.Email,
		Phone:             input.Phone,
		AssignedProviders: assigned,
	})
	if err != nil {
		s.handleError(w, r, err, "Kunne ikke lagre forespørselen")
		return
	}

	entry := s.logger.WithFields(logrus.Fields{
		"request_id": requestIDFromContext(ctx),
		"lead_id":    lead.ID,
		"category":   input.Category,
		"location":   input.Location,
		"matched":    len(matched),
	})
	entry.Info("lead created")

	s.notifyLead(context.WithoutCancel(ctx), entry, &input, matched, assigned)

	s.writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// notifyLead emails every matched provider that has an address, plus the
// admin copy, concurrently. Failures are logged and never returned.
func (s *Service) notifyLead(ctx context.Context, entry *logrus.Entry, input *types.LeadInput, matched []*types.Provider, assigned string) {
	var messages []*email.Message
	for _, provider := range matched {
		if provider.HasEmail() {
			messages = append(messages, email.LeadNotification(provider.Email, input))
		}
	}
	if admin := strings.TrimSpace(s.config.AdminEmail); admin != "" {
		messages = append(messages, email.LeadAdminCopy(admin, input, assigned))
	}

	var wg sync.WaitGroup
	for _, msg := range messages {
		wg.Add(1)
		go func(msg *email.Message) {
			defer wg.Done()
			if err := s.mailer.Send(ctx, msg); err != nil {
				entry.WithError(err).WithField("to", msg.To).Warn("failed to send lead notification")
			}
		}(msg)
	}
	wg.Wait()

	entry.WithField("emails", len(messages)).Debug("lead notifications attempted")
}

func (s *Service) handleGetLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := s.leads.LatestLeads(r.Context(), latestLeadsLimit)
	if err != nil {
		s.handleError(w, r, err, "Kunne ikke hente leads")
		return
	}

	s.writeJSON(w, http.StatusOK, leadsResponse{Leads: leads})
}
