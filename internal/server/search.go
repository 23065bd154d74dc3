package server

import (
	"net/http"
	"strings"

	"follohjelp/internal/search"
	"follohjelp/internal/store"
	"follohjelp/pkg/types"
)

type searchResponse struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
}

func (s *Service) handleGetOptions(w http.ResponseWriter, r *http.Request) {
	options, err := s.options.Response(r.Context())
	if err != nil {
		s.handleError(w, r, err, "Kunne ikke hente valg")
		return
	}

	s.writeJSON(w, http.StatusOK, options)
}

// handleSearch answers with the category page when the query names a known
// category exactly, and with ranked providers otherwise.
func (s *Service) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	if search.Normalize(query) == "" {
		s.writeJSON(w, http.StatusOK, searchResponse{Query: query, Results: []search.Result{}})
		return
	}

	options, err := s.options.Options(ctx)
	if err != nil {
		s.handleError(w, r, err, "Kunne ikke søke")
		return
	}

	if category := store.ResolveCategory(options.Categories, query); category != nil {
		providers, err := s.providers.ListProviders(ctx, types.ProviderFilter{Category: category.ID})
		if err != nil {
			s.handleError(w, r, err, "Kunne ikke søke")
			return
		}

		s.writeJSON(w, http.StatusOK, categoryResponse{Category: category, Providers: providers})
		return
	}

	providers, err := s.providers.ListProviders(ctx, types.ProviderFilter{})
	if err != nil {
		s.handleError(w, r, err, "Kunne ikke søke")
		return
	}

	s.writeJSON(w, http.StatusOK, searchResponse{Query: query, Results: s.ranker.Rank(query, providers)})
}
