// Package facets keeps the faceted filter selection of the search view.
package facets

import (
	"slices"
	"sort"
	"strings"

	"github.com/microbe-atlas/locus/internal/portal"
)

// Set is the selected values per facet field with the operator that joins
// them. The zero Set is empty and ready to use. Set is not safe for
// concurrent use; the UI owns it.
type Set struct {
	values    map[string][]string
	operators map[string]portal.FacetOperator
}

// Toggle adds value to field, or removes it when already selected. It reports
// whether the value is selected afterwards. Blank fields or values are ignored.
func (s *Set) Toggle(field, value string) bool {
	field, value = strings.TrimSpace(field), strings.TrimSpace(value)
	if field == "" || value == "" {
		return false
	}
	if s.values == nil {
		s.values = make(map[string][]string)
	}
	current := s.values[field]
	if i := slices.Index(current, value); i >= 0 {
		current = slices.Delete(current, i, i+1)
		if len(current) == 0 {
			delete(s.values, field)
			delete(s.operators, field)
		} else {
			s.values[field] = current
		}
		return false
	}
	s.values[field] = append(current, value)
	return true
}

// Selected reports whether value is selected for field.
func (s *Set) Selected(field, value string) bool {
	return slices.Contains(s.values[field], value)
}

// SetOperator sets how the values of field combine.
func (s *Set) SetOperator(field string, op portal.FacetOperator) {
	if s.operators == nil {
		s.operators = make(map[string]portal.FacetOperator)
	}
	s.operators[field] = op
}

// ToggleOperator flips field between or and and, returning the new operator.
func (s *Set) ToggleOperator(field string) portal.FacetOperator {
	next := portal.FacetAnd
	if s.Operator(field) == portal.FacetAnd {
		next = portal.FacetOr
	}
	s.SetOperator(field, next)
	return next
}

// Operator returns the operator for field, or by default.
func (s *Set) Operator(field string) portal.FacetOperator {
	if op, ok := s.operators[field]; ok {
		return op
	}
	return portal.FacetOr
}

// Fields returns the fields with a selection, sorted.
func (s *Set) Fields() []string {
	fields := make([]string, 0, len(s.values))
	for f := range s.values {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Len returns the number of selected values across fields.
func (s *Set) Len() int {
	n := 0
	for _, v := range s.values {
		n += len(v)
	}
	return n
}

// Clear removes every selection.
func (s *Set) Clear() {
	s.values = nil
	s.operators = nil
}

// Apply copies the selection into a search query.
func (s *Set) Apply(q *portal.SearchQuery) {
	if len(s.values) == 0 {
		q.Facets = nil
		q.Operators = nil
		return
	}
	q.Facets = make(map[string][]string, len(s.values))
	q.Operators = make(map[string]portal.FacetOperator, len(s.values))
	for field, values := range s.values {
		q.Facets[field] = slices.Clone(values)
		q.Operators[field] = s.Operator(field)
	}
}

// String renders the selection as "field=a|b" pairs for the status line.
func (s *Set) String() string {
	parts := make([]string, 0, len(s.values))
	for _, field := range s.Fields() {
		sep := "|"
		if s.Operator(field) == portal.FacetAnd {
			sep = "&"
		}
		parts = append(parts, field+"="+strings.Join(s.values[field], sep))
	}
	return strings.Join(parts, " ")
}
