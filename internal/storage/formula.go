package storage

import (
	"fmt"
	"strings"
	"time"
)

// Formula is a node in a filterByFormula predicate tree. Values are only ever
// interpolated through quote so escaping cannot be forgotten at a call site.
type Formula interface {
	formula() string
}

// Render returns the formula string, or "" for a nil formula.
func Render(f Formula) string {
	if f == nil {
		return ""
	}
	return f.formula()
}

type raw string

func (r raw) formula() string { return string(r) }

type logical struct {
	op    string
	terms []Formula
}

func (l logical) formula() string {
	parts := make([]string, 0, len(l.terms))
	for _, t := range l.terms {
		parts = append(parts, t.formula())
	}
	return fmt.Sprintf("%s(%s)", l.op, strings.Join(parts, ","))
}

// Eq matches records whose field equals value exactly.
func Eq(field, value string) Formula {
	return raw(fmt.Sprintf("%s=%s", ref(field), quote(value)))
}

// HasLinked matches records whose linked-record field contains id. The list is
// joined and bounded with commas so "rec1" never matches "rec12".
func HasLinked(field, id string) Formula {
	return raw(fmt.Sprintf(`FIND(%s, "," & ARRAYJOIN(%s, ",") & ",")`, quote(","+id+","), ref(field)))
}

// CreatedSince matches records created at or after t.
func CreatedSince(t time.Time) Formula {
	return raw(fmt.Sprintf("NOT(IS_BEFORE(CREATED_TIME(), DATETIME_PARSE(%s)))", quote(t.UTC().Format(time.RFC3339))))
}

// And joins terms, dropping nils. A single term is returned unwrapped.
func And(terms ...Formula) Formula {
	return join("AND", terms)
}

func join(op string, terms []Formula) Formula {
	kept := make([]Formula, 0, len(terms))
	for _, t := range terms {
		if t != nil {
			kept = append(kept, t)
		}
	}

	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return logical{op: op, terms: kept}
}

func ref(field string) string {
	return "{" + field + "}"
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(value string) string {
	return `"` + quoteEscaper.Replace(value) + `"`
}
