package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"follohjelp/internal/storage"
	"follohjelp/pkg/types"
)

// Record field names shared by the provider, category, location and lead tables.
const (
	fieldName        = "name"
	fieldSlug        = "slug"
	fieldActive      = "active"
	fieldCategory    = "category"
	fieldLocation    = "location"
	fieldDescription = "description"
	fieldPhone       = "phone"
	fieldEmail       = "email"
	fieldURL         = "url"
	fieldWebsite     = "website"
	fieldStatus      = "status"
	fieldCreatedAt   = "created_at"
)

// RecordStore is the subset of the record store client the repositories use.
type RecordStore interface {
	List(ctx context.Context, table storage.Table, params storage.ListParams) ([]storage.Record, error)
	Create(ctx context.Context, table storage.Table, fields map[string]any) (*storage.Record, error)
}

// OptionsSource supplies the current category and location vocabulary.
type OptionsSource interface {
	Options(ctx context.Context) (*types.Options, error)
}

var recordIDPattern = regexp.MustCompile(`^rec[A-Za-z0-9]{10,}$`)

// LooksLikeRecordID reports whether v has the shape of a store record id.
func LooksLikeRecordID(v string) bool {
	return recordIDPattern.MatchString(v)
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []any:
		if len(v) == 0 {
			return ""
		}
		return strings.TrimSpace(fmt.Sprint(v[0]))
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// stringList reads a field that may be a single value or a list of values.
func stringList(fields map[string]any, key string) []string {
	switch v := fields[key].(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := stringField(fields, key); s != "" {
			return []string{s}
		}
		return nil
	}
}

// boolField returns the field's value and whether it was present at all.
func boolField(fields map[string]any, key string) (bool, bool) {
	switch v := fields[key].(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "ja", "1":
			return true, true
		case "false", "no", "nei", "0":
			return false, true
		}
	case float64:
		return v != 0, true
	}
	return false, false
}
