package forms

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Values holds raw submitted form fields keyed by field name. It has the same
// shape as url.Values. A missing key means the field was not submitted at all,
// which is different from a key holding an empty string.
type Values map[string][]string

// Has reports whether the field was submitted.
func (v Values) Has(field string) bool {
	_, ok := v[field]
	return ok
}

// Get returns the first submitted value of a field, unsanitized.
func (v Values) Get(field string) string {
	return v.first(field)
}

// first returns the first submitted value of a scalar field.
func (v Values) first(field string) string {
	vs := v[field]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// list normalizes a multi-valued field: absent becomes an empty list, a single
// value becomes a one element list, a list is copied as is.
func (v Values) list(field string) []string {
	vs, ok := v[field]
	if !ok {
		return []string{}
	}
	out := make([]string, len(vs))
	copy(out, vs)
	return out
}

func (v Values) submitted(fields ...string) fieldSet {
	set := make(fieldSet, len(fields))
	for _, f := range fields {
		if v.Has(f) {
			set[f] = true
		}
	}
	return set
}

type fieldSet map[string]bool

var markup = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Escape neutralizes HTML-significant characters.
func Escape(s string) string {
	return markup.Replace(s)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// parseDate accepts a calendar date (YYYY-MM-DD) or an ISO 8601 timestamp.
// Values without a zone are read as UTC.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isDate(s string) bool {
	_, ok := parseDate(s)
	return ok
}

// dateRule accepts empty values, so optional date fields pass when left blank.
func dateRule(message string) validation.Rule {
	return validation.NewStringRuleWithError(isDate, validation.NewError("validation_is_date", message))
}

// toDate coerces a trimmed value to a date, nil when empty or unparseable.
func toDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, ok := parseDate(s)
	if !ok {
		return nil
	}
	return &t
}
