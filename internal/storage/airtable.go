package storage

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"follohjelp/internal/instrument"
	"follohjelp/pkg/types"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const DefaultPageSize = 100

// Table names a record store table together with the setting it came from,
// so a missing name can be reported precisely.
type Table struct {
	Name    string
	Setting string
}

type Record struct {
	ID          string         `json:"id"`
	Fields      map[string]any `json:"fields"`
	CreatedTime time.Time      `json:"createdTime"`
}

type Sort struct {
	Field     string
	Direction string
}

type ListParams struct {
	Filter     Formula
	PageSize   int
	MaxRecords int
	Sort       []Sort
}

type listPage struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

// AirtableStorage is the record store client. It never retries; a failed page
// fails the whole call.
type AirtableStorage struct {
	logger   *logrus.Logger
	client   *resty.Client
	apiKey   string
	baseID   string
	pageSize int
}

func NewAirtableStorage(config *types.Config, logger *logrus.Logger) *AirtableStorage {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(config.AirtableAPIURL, "/")).
		SetTimeout(time.Duration(config.RequestTimeoutSec)*time.Second).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	pageSize := config.PageSize
	if pageSize <= 0 || pageSize > DefaultPageSize {
		pageSize = DefaultPageSize
	}

	return &AirtableStorage{
		logger:   logger,
		client:   client,
		apiKey:   strings.TrimSpace(config.AirtableAPIKey),
		baseID:   strings.TrimSpace(config.AirtableBaseID),
		pageSize: pageSize,
	}
}

// List fetches every record matching params, following offset cursors until
// the store stops returning one.
func (s *AirtableStorage) List(ctx context.Context, table Table, params ListParams) ([]Record, error) {
	if err := s.ensureConfigured(table); err != nil {
		return nil, err
	}

	pageSize := params.PageSize
	if pageSize <= 0 || pageSize > DefaultPageSize {
		pageSize = s.pageSize
	}

	query := map[string]string{
		"pageSize": strconv.Itoa(pageSize),
	}
	if formula := Render(params.Filter); formula != "" {
		query["filterByFormula"] = formula
	}
	if params.MaxRecords > 0 {
		query["maxRecords"] = strconv.Itoa(params.MaxRecords)
	}
	for i, sort := range params.Sort {
		query[fmt.Sprintf("sort[%d][field]", i)] = sort.Field
		query[fmt.Sprintf("sort[%d][direction]", i)] = sort.Direction
	}

	var (
		records []Record
		offset  string
		pages   int
	)

	for {
		if offset != "" {
			query["offset"] = offset
		}

		var page listPage
		_, err := s.do(ctx, table, http.MethodGet, func(req *resty.Request) (*resty.Response, error) {
			return req.SetQueryParams(query).SetResult(&page).Get("/{base}/{table}")
		})
		if err != nil {
			return nil, err
		}

		records = append(records, page.Records...)
		pages++

		if page.Offset == "" {
			break
		}
		offset = page.Offset
	}

	s.logger.WithFields(logrus.Fields{
		"table":   table.Name,
		"pages":   pages,
		"records": len(records),
	}).Debug("listed records")

	return records, nil
}

// Create inserts one record and returns it as stored.
func (s *AirtableStorage) Create(ctx context.Context, table Table, fields map[string]any) (*Record, error) {
	if err := s.ensureConfigured(table); err != nil {
		return nil, err
	}

	var record Record
	_, err := s.do(ctx, table, http.MethodPost, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]any{"fields": fields, "typecast": true}).
			SetResult(&record).
			Post("/{base}/{table}")
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (s *AirtableStorage) do(ctx context.Context, table Table, method string, send func(*resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	started := time.Now()

	req := s.client.R().
		SetContext(ctx).
		SetAuthToken(s.apiKey).
		SetPathParams(map[string]string{
			"base":  s.baseID,
			"table": table.Name,
		})

	resp, err := send(req)
	instrument.StoreRequestDuration.WithLabelValues(table.Name, method).Observe(time.Since(started).Seconds())
	if err != nil {
		instrument.StoreRequests.WithLabelValues(table.Name, method, "error").Inc()
		return nil, fmt.Errorf("record store request to table %q: %w", table.Name, err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		instrument.StoreRequests.WithLabelValues(table.Name, method, "error").Inc()
		return nil, &types.RecordStoreError{
			Table:  table.Name,
			Status: resp.StatusCode(),
			Body:   strings.TrimSpace(resp.String()),
		}
	}

	instrument.StoreRequests.WithLabelValues(table.Name, method, "ok").Inc()
	return resp, nil
}

func (s *AirtableStorage) ensureConfigured(table Table) error {
	if s.apiKey == "" {
		return &types.ConfigurationError{Setting: "AIRTABLE_API_KEY"}
	}
	if s.baseID == "" {
		return &types.ConfigurationError{Setting: "AIRTABLE_BASE_ID"}
	}
	if strings.TrimSpace(table.Name) == "" {
		return &types.ConfigurationError{Setting: table.Setting}
	}
	return nil
}
