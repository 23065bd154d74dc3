package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"follohjelp/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var providersTable = Table{Name: "Providers", Setting: "AIRTABLE_PROVIDERS_TABLE"}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestStorage(t *testing.T, handler http.HandlerFunc) (*AirtableStorage, *int32) {
	t.Helper()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := &types.Config{
		AirtableAPIKey: "key",
		AirtableBaseID: "app123",
		AirtableAPIURL: srv.URL,
		PageSize:       100,
	}
	return NewAirtableStorage(cfg, testLogger()), &calls
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func pageOf(start, n int, offset string) map[string]any {
	records := make([]map[string]any, 0, n)
	for i := start; i < start+n; i++ {
		records = append(records, map[string]any{
			"id":     fmt.Sprintf("rec%05d", i),
			"fields": map[string]any{"name": fmt.Sprintf("Provider %d", i)},
		})
	}
	page := map[string]any{"records": records}
	if offset != "" {
		page["offset"] = offset
	}
	return page
}

func TestListFollowsOffsetsUntilExhausted(t *testing.T) {
	var formulas []string
	store, calls := newTestStorage(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/app123/Providers", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		assert.Equal(t, "100", r.URL.Query().Get("pageSize"))
		formulas = append(formulas, r.URL.Query().Get("filterByFormula"))

		switch r.URL.Query().Get("offset") {
		case "":
			writeJSON(w, http.StatusOK, pageOf(0, 100, "page2"))
		case "page2":
			writeJSON(w, http.StatusOK, pageOf(100, 100, "page3"))
		case "page3":
			writeJSON(w, http.StatusOK, pageOf(200, 37, ""))
		default:
			t.Errorf("unexpected offset %q", r.URL.Query().Get("offset"))
		}
	})

	records, err := store.List(context.Background(), providersTable, ListParams{
		Filter: Eq("status", "active"),
	})
	require.NoError(t, err)
	assert.Len(t, records, 237)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	assert.Equal(t, "rec00000", records[0].ID)
	assert.Equal(t, "rec00236", records[236].ID)

	for _, f := range formulas {
		assert.Equal(t, `{status}="active"`, f)
	}
}

func TestListFailsWholeCallOnPageError(t *testing.T) {
	store, calls := newTestStorage(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") == "" {
			writeJSON(w, http.StatusOK, pageOf(0, 100, "next"))
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "INVALID_FILTER"})
	})

	records, err := store.List(context.Background(), providersTable, ListParams{})
	require.Error(t, err)
	assert.Nil(t, records)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))

	var storeErr *types.RecordStoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, http.StatusUnprocessableEntity, storeErr.Status)
	assert.Equal(t, "Providers", storeErr.Table)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "Providers")
}

func TestListMissingConfigurationFailsBeforeNetwork(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AirtableStorage)
		table   Table
		setting string
	}{
		{"api key", func(s *AirtableStorage) { s.apiKey = "" }, providersTable, "AIRTABLE_API_KEY"},
		{"base id", func(s *AirtableStorage) { s.baseID = "" }, providersTable, "AIRTABLE_BASE_ID"},
		{"table", func(s *AirtableStorage) {}, Table{Setting: "AIRTABLE_LEADS_TABLE"}, "AIRTABLE_LEADS_TABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, calls := newTestStorage(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, pageOf(0, 1, ""))
			})
			tt.mutate(store)

			_, err := store.List(context.Background(), tt.table, ListParams{})
			var cfgErr *types.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.setting, cfgErr.Setting)

			_, err = store.Create(context.Background(), tt.table, map[string]any{"name": "x"})
			require.True(t, errors.As(err, &cfgErr))

			assert.Equal(t, int32(0), atomic.LoadInt32(calls))
		})
	}
}

func TestListPassesSortAndMaxRecords(t *testing.T) {
	store, _ := newTestStorage(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "created_at", q.Get("sort[0][field]"))
		assert.Equal(t, "desc", q.Get("sort[0][direction]"))
		assert.Equal(t, "20", q.Get("maxRecords"))
		assert.Equal(t, "20", q.Get("pageSize"))
		assert.Empty(t, q.Get("filterByFormula"))
		writeJSON(w, http.StatusOK, pageOf(0, 2, ""))
	})

	records, err := store.List(context.Background(), providersTable, ListParams{
		PageSize:   20,
		MaxRecords: 20,
		Sort:       []Sort{{Field: "created_at", Direction: "desc"}},
	})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestCreate(t *testing.T) {
	store, _ := newTestStorage(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/app123/Leads", r.URL.Path)

		var body struct {
			Fields map[string]any `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Rørlegger", body.Fields["category"])

		writeJSON(w, http.StatusOK, map[string]any{
			"id":          "recLEAD1",
			"createdTime": "2026-10-01T10:00:00.000Z",
			"fields":      body.Fields,
		})
	})

	record, err := store.Create(context.Background(), Table{Name: "Leads", Setting: "AIRTABLE_LEADS_TABLE"}, map[string]any{
		"category": "Rørlegger",
	})
	require.NoError(t, err)
	assert.Equal(t, "recLEAD1", record.ID)
	assert.Equal(t, 2026, record.CreatedTime.Year())
}

func TestCreateNonSuccess(t *testing.T) {
	store, _ := newTestStorage(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(strconv.Quote("forbidden")))
	})

	_, err := store.Create(context.Background(), providersTable, map[string]any{"name": "x"})
	var storeErr *types.RecordStoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, http.StatusForbidden, storeErr.Status)
}
