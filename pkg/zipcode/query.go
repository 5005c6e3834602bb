package zipcode

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Sort directions, matching the values MongoDB expects in a sort document.
const (
	Ascending  = 1
	Descending = -1
)

// FilterSpec holds the equality filters a caller may apply to the collection.
// Only city and state are filterable; population is sortable but not filterable.
type FilterSpec struct {
	City  string
	State string
}

// BuildFilter restricts raw request parameters to the filterable fields.
// Unrecognized keys are dropped silently so that unrelated query-string
// parameters never leak into the store query. Empty input matches everything.
func BuildFilter(params map[string]string) FilterSpec {
	return FilterSpec{
		City:  params[fieldCity],
		State: params[fieldState],
	}
}

// Document returns the store-native equality filter.
func (f FilterSpec) Document() bson.M {
	filter := bson.M{}
	if f.City != "" {
		filter[fieldCity] = f.City
	}
	if f.State != "" {
		filter[fieldState] = f.State
	}
	return filter
}

// SortKey is one (field, direction) pair of a multi-key sort.
type SortKey struct {
	Field string
	Order int
}

// SortSpec is an ordered multi-key sort. The slice order is significant: the
// first key is the primary sort key and later keys break ties, so the spec is
// never reordered once built.
type SortSpec []SortKey

// ParseSort compiles a sort expression of the form "field:direction,field,..."
// into a SortSpec. A direction token that parses as a negative integer selects
// descending order; a missing, unparseable, zero or positive token selects
// ascending. population renames to its stored field name. Fields outside the
// sortable set are dropped, and the surviving fields keep their relative input
// order.
func ParseSort(s string) SortSpec {
	spec := SortSpec{}
	for _, term := range strings.Split(s, ",") {
		field, direction, _ := strings.Cut(term, ":")
		key, ok := normalizeSortKey(SortKey{Field: field, Order: parseDirection(direction)})
		if !ok {
			continue
		}
		spec = append(spec, key)
	}
	return spec
}

// NewSortSpec builds a SortSpec from already-structured keys, applying the same
// rename, allow-list and direction normalization as ParseSort.
func NewSortSpec(keys ...SortKey) SortSpec {
	spec := SortSpec{}
	for _, k := range keys {
		if k.Order != Descending {
			k.Order = Ascending
		}
		key, ok := normalizeSortKey(k)
		if !ok {
			continue
		}
		spec = append(spec, key)
	}
	return spec
}

// Document returns the order-preserving sort document. bson.D is used rather
// than bson.M because the key order carries the tie-break semantics.
func (s SortSpec) Document() bson.D {
	doc := bson.D{}
	for _, k := range s {
		doc = append(doc, bson.E{Key: k.Field, Value: k.Order})
	}
	return doc
}

func normalizeSortKey(k SortKey) (SortKey, bool) {
	field := strings.TrimSpace(k.Field)
	if field == "population" {
		field = fieldPopulation
	}
	switch field {
	case fieldCity, fieldState, fieldPopulation:
		k.Field = field
		return k, true
	}
	return SortKey{}, false
}

func parseDirection(token string) int {
	n, err := strconv.Atoi(strings.TrimSpace(token))
	if err == nil && n < 0 {
		return Descending
	}
	return Ascending
}
