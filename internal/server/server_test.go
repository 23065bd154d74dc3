package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"follohjelp/internal/email"
	"follohjelp/internal/submission"
	"follohjelp/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	rorlegger = &types.Category{ID: "recCATROR0000001", Name: "Rørlegger", Slug: "rorlegger", Active: true}
	ski       = &types.Location{ID: "recLOCSKI0000001", Name: "Ski", Slug: "ski"}
)

type fakeProviders struct {
	providers []*types.Provider
	err       error
	filters   []types.ProviderFilter
	created   []*types.Classification
}

func (f *fakeProviders) ListProviders(_ context.Context, filter types.ProviderFilter) ([]*types.Provider, error) {
	f.filters = append(f.filters, filter)
	return f.providers, f.err
}

func (f *fakeProviders) ProvidersByCategorySlug(_ context.Context, slug string) (*types.Category, []*types.Provider, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	if slug != rorlegger.Slug {
		return nil, nil, nil
	}
	return rorlegger, f.providers, nil
}

func (f *fakeProviders) CreatePendingProvider(_ context.Context, _ *types.ProviderSubmission, c *types.Classification) (string, error) {
	f.created = append(f.created, c)
	return "recNEWPROVIDER01", f.err
}

type fakeOptions struct {
	err error
}

func (f fakeOptions) Options(context.Context) (*types.Options, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &types.Options{Categories: []*types.Category{rorlegger}, Locations: []*types.Location{ski}}, nil
}

func (f fakeOptions) Response(ctx context.Context) (*types.OptionsResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &types.OptionsResponse{
		Categories: []types.OptionItem{{ID: rorlegger.ID, Name: rorlegger.Name}},
		Locations:  []types.OptionItem{{ID: ski.ID, Name: ski.Name}},
	}, nil
}

type fakeLeads struct {
	created []*types.NewLead
	err     error
}

func (f *fakeLeads) CreateLead(_ context.Context, lead *types.NewLead) (*types.Lead, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, lead)
	return &types.Lead{ID: "recLEAD000000001", Name: lead.Name, AssignedProviders: lead.AssignedProviders}, nil
}

func (f *fakeLeads) LatestLeads(_ context.Context, limit int) ([]*types.Lead, error) {
	return []*types.Lead{{ID: "recLEAD000000001", Name: "Kari", CreatedAt: time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)}}, f.err
}

type fakeMatcher struct {
	matched []*types.Provider
}

func (f *fakeMatcher) MatchProviders(context.Context, string, string) ([]*types.Provider, error) {
	return f.matched, nil
}

type fakeKPIs struct{}

func (fakeKPIs) Snapshot(context.Context) (*types.KPISnapshot, error) {
	return &types.KPISnapshot{
		GeneratedAt: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
		KPIs:        types.KPIs{LeadsCreated30d: 3, LeadsWithAssignedProviders30d: 2, MatchRate30d: 0.6667},
	}, nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []*email.Message
	fail map[string]bool
}

func (m *recordingMailer) Send(_ context.Context, msg *email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	if m.fail[msg.To[0]] {
		return errors.New("smtp timeout")
	}
	return nil
}

func (m *recordingMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, msg := range m.sent {
		out = append(out, msg.To[0])
	}
	return out
}

type harness struct {
	service   *Service
	providers *fakeProviders
	leads     *fakeLeads
	matcher   *fakeMatcher
	mailer    *recordingMailer
}

func newHarness(t *testing.T, config *types.Config) *harness {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	h := &harness{
		providers: &fakeProviders{},
		leads:     &fakeLeads{},
		matcher:   &fakeMatcher{},
		mailer:    &recordingMailer{fail: map[string]bool{}},
	}

	h.service = New(config, logger, Deps{
		Providers:  h.providers,
		Options:    fakeOptions{},
		Leads:      h.leads,
		Matcher:    h.matcher,
		Classifier: submission.NewClassifier(fakeOptions{}),
		KPIs:       fakeKPIs{},
		Mailer:     h.mailer,
	})
	return h
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.service.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func leadBody() string {
	return `{"category":"Rørlegger","location":"Ski","name":"Kari","email":"kari@example.no","description":"Lekker kran","consent":true}`
}

func TestGetProviders(t *testing.T) {
	h := newHarness(t, &types.Config{})
	h.providers.providers = []*types.Provider{{ID: "recP1", Name: "Ski Rør", Categories: []string{"Rørlegger"}, Location: "Ski", Email: "hidden@skiror.no"}}

	rec := h.do(httptest.NewRequest(http.MethodGet, "/providers?category=R%C3%B8rlegger&location=Ski", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))
	assert.NotContains(t, rec.Body.String(), "hidden@skiror.no")

	body := decode[providersResponse](t, rec)
	require.Len(t, body.Providers, 1)
	assert.Equal(t, "Ski Rør", body.Providers[0].Name)
	assert.Equal(t, types.ProviderFilter{Category: "Rørlegger", Location: "Ski"}, h.providers.filters[0])
}

func TestGetProvidersStoreFailure(t *testing.T) {
	h := newHarness(t, &types.Config{})
	h.providers.err = &types.RecordStoreError{Table: "Providers", Status: 503, Body: "secret detail"}

	rec := h.do(httptest.NewRequest(http.MethodGet, "/providers", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Kunne ikke hente leverandører", decode[errorResponse](t, rec).Error)
	assert.NotContains(t, rec.Body.String(), "secret detail")
}

func TestGetCategory(t *testing.T) {
	h := newHarness(t, &types.Config{})

	rec := h.do(httptest.NewRequest(http.MethodGet, "/categories/rorlegger", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Rørlegger", decode[categoryResponse](t, rec).Category.Name)

	rec = h.do(httptest.NewRequest(http.MethodGet, "/categories/snekker", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStripTrailingSlash(t *testing.T) {
	h := newHarness(t, &types.Config{})

	rec := h.do(httptest.NewRequest(http.MethodGet, "/providers/?category=Maler", nil))
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/providers?category=Maler", rec.Header().Get("Location"))
}

func TestGetOptions(t *testing.T) {
	h := newHarness(t, &types.Config{})

	rec := h.do(httptest.NewRequest(http.MethodGet, "/options", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"categories":[{"id":"recCATROR0000001","name":"Rørlegger"}],"locations":[{"id":"recLOCSKI0000001","name":"Ski"}]}`, rec.Body.String())
}

func TestSearch(t *testing.T) {
	h := newHarness(t, &types.Config{})
	h.providers.providers = []*types.Provider{
		{ID: "recP1", Name: "Ås Mur", Location: "Ski"},
		{ID: "recP2", Name: "Ski Renhold", Location: "Ski"},
		{ID: "recP3", Name: "Vestby Vask", Location: "Vestby"},
	}

	rec := h.do(httptest.NewRequest(http.MethodGet, "/search?q=ski", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[searchResponse](t, rec)
	assert.Equal(t, "ski", body.Query)
	require.Len(t, body.Results, 2)
	assert.Equal(t, "Ski Renhold", body.Results[0].Provider.Name)
	assert.Equal(t, types.ProviderFilter{}, h.providers.filters[0])
}

func TestSearchExactCategory(t *testing.T) {
	h := newHarness(t, &types.Config{})

	rec := h.do(httptest.NewRequest(http.MethodGet, "/search?q=R%C3%98RLEGGER", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[categoryResponse](t, rec)
	assert.Equal(t, "recCATROR0000001", body.Category.ID)
	assert.Equal(t, types.ProviderFilter{Category: "recCATROR0000001"}, h.providers.filters[0])
}

func TestSearchEmptyQuery(t *testing.T) {
	h := newHarness(t, &types.Config{})

	rec := h.do(httptest.NewRequest(http.MethodGet, "/search?q=+", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"query":"","results":[]}`, rec.Body.String())
	assert.Empty(t, h.providers.filters)
}

func TestPostLeads(t *testing.T) {
	h := newHarness(t, &types.Config{AdminEmail: "admin@follohjelp.no"})
	h.matcher.matched = []*types.Provider{
		{ID: "recP1", Name: "Ski Rør", Email: "post@skiror.no"},
		{ID: "recP2", Name: "Ås VVS"},
		{ID: "recP3", Name: "Follo Rør", Email: "down@follror.no"},
	}
	h.mailer.fail["down@follror.no"] = true

	req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader(leadBody()))
	req.Header.Set("Content-Type", "application/json")

	rec := h.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[successResponse](t, rec).Success)

	require.Len(t, h.leads.created, 1)
	assert.Equal(t, "Ski Rør, Ås VVS, Follo Rør", h.leads.created[0].AssignedProviders)
	assert.ElementsMatch(t, []string{"post@skiror.no", "down@follror.no", "admin@follohjelp.no"}, h.mailer.recipients())
}

func TestPostLeadsForm(t *testing.T) {
	h := newHarness(t, &types.Config{})

	form := url.Values{}
	form.Set("category", "Rørlegger")
	form.Set("location", "Ski")
	form.Set("name", "Kari")
	form.Set("email", "kari@example.no")
	form.Set("description", "Lekker kran")
	form.Set("consent", "true")

	req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := h.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, h.leads.created, 1)
	assert.Empty(t, h.leads.created[0].AssignedProviders)
	assert.Empty(t, h.mailer.recipients())
}

func TestPostLeadsValidation(t *testing.T) {
	h := newHarness(t, &types.Config{})

	req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader(`{"category":"Rørlegger","location":"Ski","name":"Kari","email":"kari@example.no","description":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := h.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Du må samtykke til vilkårene", decode[errorResponse](t, rec).Error)
	assert.Empty(t, h.leads.created)

	rec = h.do(httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader(`{not json`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostLeadsStoreFailure(t *testing.T) {
	h := newHarness(t, &types.Config{AdminEmail: "admin@follohjelp.no"})
	h.leads.err = &types.RecordStoreError{Table: "Leads", Status: 422}

	rec := h.do(httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader(leadBody())))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, h.mailer.recipients())
}

func TestPostProviders(t *testing.T) {
	h := newHarness(t, &types.Config{AdminEmail: "admin@follohjelp.no"})

	req := httptest.NewRequest(http.MethodPost, "/providers", strings.NewReader(`{"name":"Ski Tak","categoryId":"OTHER","categoryOther":"Taktekker","locationId":"recLOCSKI0000001","description":"Tak","phone":"12345678","url":"skitak.no"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := h.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, h.providers.created, 1)
	c := h.providers.created[0]
	assert.True(t, c.NeedsReview)
	assert.Empty(t, c.Notes)
	assert.Equal(t, "Taktekker", c.CategoryOther)
	assert.Equal(t, "https://skitak.no", c.URL)
	assert.Equal(t, []string{"admin@follohjelp.no"}, h.mailer.recipients())
}

func TestPostProvidersValidation(t *testing.T) {
	h := newHarness(t, &types.Config{})

	req := httptest.NewRequest(http.MethodPost, "/providers", strings.NewReader(`{"name":"Ski Tak","categoryId":"recCATROR0000001","locationId":"recLOCSKI0000001","description":"Tak"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := h.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Telefon eller e-post er påkrevd", decode[errorResponse](t, rec).Error)
	assert.Empty(t, h.providers.created)
}

func TestBearerGate(t *testing.T) {
	unset := newHarness(t, &types.Config{})
	rec := unset.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	h := newHarness(t, &types.Config{MetricsToken: "s3cret"})

	rec = h.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, h.do(req).Code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec = h.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"generatedAt":"2026-10-18T12:00:00Z","kpis":{"leads_created_30d":3,"providers_active":0,"providers_with_email_active":0,"leads_with_assigned_providers_30d":2,"match_rate_30d":0.6667}}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/leads", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec = h.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[leadsResponse](t, rec).Leads, 1)

	assert.Equal(t, http.StatusUnauthorized, h.do(httptest.NewRequest(http.MethodGet, "/leads", nil)).Code)
}

func TestRequestIDPropagates(t *testing.T) {
	h := newHarness(t, &types.Config{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(headerRequestID, "abc123")

	rec := h.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc123", rec.Header().Get(headerRequestID))
	assert.Equal(t, "ok", rec.Body.String())
}
