package types

import (
	"errors"
	"fmt"
	"strings"
)

var ErrCategoryNotFound = errors.New("category not found")

// ConfigurationError reports a required setting that was empty when an
// operation needed it.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required setting %s", e.Setting)
}

// RecordStoreError is returned for any non-2xx response from the record store.
type RecordStoreError struct {
	Table  string
	Status int
	Body   string
}

func (e *RecordStoreError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("record store request failed for table %q: status %d", e.Table, e.Status)
	}
	return fmt.Sprintf("record store request failed for table %q: status %d: %s", e.Table, e.Status, e.Body)
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidationErrors collects every field problem found in one payload.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, ", ")
}

// OrNil returns nil when nothing was collected so callers can return it directly.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func IsValidation(err error) bool {
	var single *ValidationError
	var many ValidationErrors
	return errors.As(err, &single) || errors.As(err, &many)
}
