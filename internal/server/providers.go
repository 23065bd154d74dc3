package server

import (
	"net/http"
	"strings"

	"follohjelp/internal/email"
	"follohjelp/pkg/types"

	"github.com/sirupsen/logrus"
)

type providersResponse struct {
	Providers []*types.Provider `json:"providers"`
}

type categoryResponse struct {
	Category  *types.Category   `json:"category"`
	Providers []*types.Provider `json:"providers"`
}

func (s *Service) handleGetProviders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	providers, err := s.providers.ListProviders(r.Context(), types.ProviderFilter{
		Category: query.Get("category"),
		Location: query.Get("location"),
	})
	if err != nil {
		s.handleError(w, r, err, "Kunne ikke hente leverandører")
		return
	}

	s.writeJSON(w, http.StatusOK, providersResponse{Providers: providers})
}

func (s *Service) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.PathValue("slug"))

	category, providers, err := s.providers.ProvidersByCategorySlug(r.Context(), slug)
	if err != nil {
		s.handleError(w, r, err, "Kunne ikke hente kategorien")
		return
	}

	if category == nil {
		s.writeError(w, http.StatusNotFound, types.ErrCategoryNotFound.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, categoryResponse{Category: category, Providers: providers})
}

func (s *Service) handlePostProviders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var submission types.ProviderSubmission
	if err := s.decodeBody(r, &submission); err != nil {
		s.handleError(w, r, err, "Kunne ikke opprette bedrift")
		return
	}

	classification, err := s.classifier.Classify(ctx, &submission)
	if err != nil {
		s.handleError(w, r, err, "Kunne ikke opprette bedrift")
		return
	}

	id, err := s.providers.CreatePendingProvider(ctx, &submission, classification)
	if err != nil {
		s.handleError(w, r, err, "Kunne ikke opprette bedrift")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"request_id":   requestIDFromContext(ctx),
		"provider_id":  id,
		"needs_review": classification.NeedsReview,
	}).Info("provider submitted")

	if admin := strings.TrimSpace(s.config.AdminEmail); admin != "" {
		if err := s.mailer.Send(ctx, email.ProviderSubmitted(admin, &submission, classification)); err != nil {
			s.logger.WithError(err).WithField("provider_id", id).Error("failed to notify admin of provider submission")
		}
	}

	s.writeJSON(w, http.StatusOK, successResponse{Success: true})
}
