// Package zipcode implements the zip code record domain: the record shape shared
// between the HTTP surface and the MongoDB collection, the query/sort translation
// from request parameters to store-native documents, and the paginated repository.
package zipcode

import (
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
)

// Storage field names. The collection schema is fixed: documents carry the
// abbreviated names, the external representation carries the spelled-out ones.
const (
	fieldID         = "_id"
	fieldCity       = "city"
	fieldState      = "state"
	fieldPopulation = "pop"
)

// Record is the external representation of one zip code entry.
// An empty ID means the record has not been persisted yet.
type Record struct {
	ID         string `json:"id"`
	City       string `json:"city"`
	State      string `json:"state"`
	Population int    `json:"population"`
}

// Persisted reports whether the record refers to a stored document.
func (r Record) Persisted() bool {
	return r.ID != ""
}

// FromStorage converts a stored document into a Record.
// Absent fields become zero values, never errors; numeric fields are coerced
// across the integer and float widths the driver may decode into.
func FromStorage(doc bson.M) Record {
	return Record{
		ID:         stringField(doc, fieldID),
		City:       stringField(doc, fieldCity),
		State:      stringField(doc, fieldState),
		Population: intField(doc, fieldPopulation),
	}
}

// FromUserInput converts user-submitted form values, which use the external
// field names, into a Record. A population value that does not parse as an
// integer coerces to zero.
func FromUserInput(in map[string]string) Record {
	pop, _ := strconv.Atoi(in["population"])
	return Record{
		ID:         in["id"],
		City:       in["city"],
		State:      in["state"],
		Population: pop,
	}
}

// Document returns the storage representation of the record. It is the strict
// inverse of FromStorage for fully populated records.
func (r Record) Document() bson.M {
	return bson.M{
		fieldID:         r.ID,
		fieldCity:       r.City,
		fieldState:      r.State,
		fieldPopulation: r.Population,
	}
}

// UpdateDocument returns the $set payload for updating the stored document.
// The _id field is never part of the update payload.
func (r Record) UpdateDocument() bson.M {
	return bson.M{
		fieldCity:       r.City,
		fieldState:      r.State,
		fieldPopulation: r.Population,
	}
}

func stringField(doc bson.M, key string) string {
	if s, ok := doc[key].(string); ok {
		return s
	}
	return ""
}

func intField(doc bson.M, key string) int {
	switch v := doc[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
