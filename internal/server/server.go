package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"follohjelp/internal/email"
	"follohjelp/internal/search"
	"follohjelp/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type ProviderService interface {
	ListProviders(ctx context.Context, filter types.ProviderFilter) ([]*types.Provider, error)
	ProvidersByCategorySlug(ctx context.Context, slug string) (*types.Category, []*types.Provider, error)
	CreatePendingProvider(ctx context.Context, submission *types.ProviderSubmission, c *types.Classification) (string, error)
}

type OptionsService interface {
	Options(ctx context.Context) (*types.Options, error)
	Response(ctx context.Context) (*types.OptionsResponse, error)
}

type LeadService interface {
	CreateLead(ctx context.Context, lead *types.NewLead) (*types.Lead, error)
	LatestLeads(ctx context.Context, limit int) ([]*types.Lead, error)
}

type Matcher interface {
	MatchProviders(ctx context.Context, category, location string) ([]*types.Provider, error)
}

type SubmissionClassifier interface {
	Classify(ctx context.Context, s *types.ProviderSubmission) (*types.Classification, error)
}

type KPISource interface {
	Snapshot(ctx context.Context) (*types.KPISnapshot, error)
}

// Deps are the collaborators the handlers call into.
type Deps struct {
	Providers  ProviderService
	Options    OptionsService
	Leads      LeadService
	Matcher    Matcher
	Classifier SubmissionClassifier
	KPIs       KPISource
	Mailer     email.Mailer
}

type Service struct {
	logger *logrus.Logger
	config *types.Config

	providers  ProviderService
	options    OptionsService
	leads      LeadService
	matcher    Matcher
	classifier SubmissionClassifier
	kpis       KPISource
	mailer     email.Mailer
	ranker     *search.Ranker

	handler http.Handler
	server  *http.Server
}

func New(config *types.Config, logger *logrus.Logger, deps Deps) *Service {
	mux := flow.New()

	s := &Service{
		logger: logger,
		config: config,

		providers:  deps.Providers,
		options:    deps.Options,
		leads:      deps.Leads,
		matcher:    deps.Matcher,
		classifier: deps.Classifier,
		kpis:       deps.KPIs,
		mailer:     deps.Mailer,
		ranker:     search.NewRanker(config.SearchResultLimit),

		handler: mux,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the routed handler, mainly for tests.
func (s *Service) Handler() http.Handler {
	return s.handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.RequestID)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/providers", s.handleGetProviders, http.MethodGet)
	r.HandleFunc("/providers", s.handlePostProviders, http.MethodPost)
	r.HandleFunc("/options", s.handleGetOptions, http.MethodGet)
	r.HandleFunc("/search", s.handleSearch, http.MethodGet)
	r.HandleFunc("/categories/:slug", s.handleGetCategory, http.MethodGet)
	r.HandleFunc("/leads", s.handlePostLeads, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireBearer)

		r.HandleFunc("/metrics", s.handleGetMetrics, http.MethodGet)
		r.HandleFunc("/leads", s.handleGetLeads, http.MethodGet)
		r.Handle("/debug/metrics", promhttp.Handler(), http.MethodGet)
	})
}
