package zipcode

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestRecord_RoundTrip(t *testing.T) {
	r := Record{ID: "10001", City: "NEW YORK", State: "NY", Population: 18913}

	got := FromStorage(r.Document())
	if got != r {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, r)
	}
}

func TestFromStorage_MissingFieldsBecomeZeroValues(t *testing.T) {
	got := FromStorage(bson.M{fieldID: "1", fieldCity: "X"})

	want := Record{ID: "1", City: "X"}
	if got != want {
		t.Fatalf("FromStorage = %+v, want %+v", got, want)
	}
}

func TestFromStorage_NumericWidths(t *testing.T) {
	cases := []struct {
		name string
		pop  interface{}
		want int
	}{
		{"int", 42, 42},
		{"int32", int32(42), 42},
		{"int64", int64(42), 42},
		{"float64", float64(42), 42},
		{"string is not a population", "42", 0},
		{"absent", nil, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := bson.M{fieldID: "1"}
			if tc.pop != nil {
				doc[fieldPopulation] = tc.pop
			}
			if got := FromStorage(doc); got.Population != tc.want {
				t.Fatalf("Population = %d, want %d", got.Population, tc.want)
			}
		})
	}
}

func TestFromUserInput(t *testing.T) {
	got := FromUserInput(map[string]string{
		"id":         "90210",
		"city":       "BEVERLY HILLS",
		"state":      "CA",
		"population": "33784",
	})

	want := Record{ID: "90210", City: "BEVERLY HILLS", State: "CA", Population: 33784}
	if got != want {
		t.Fatalf("FromUserInput = %+v, want %+v", got, want)
	}
}

func TestFromUserInput_MalformedPopulationCoercesToZero(t *testing.T) {
	got := FromUserInput(map[string]string{"id": "1", "population": "many"})
	if got.Population != 0 {
		t.Fatalf("Population = %d, want 0", got.Population)
	}
}

func TestUpdateDocument_NeverContainsID(t *testing.T) {
	r := Record{ID: "10001", City: "NEW YORK", State: "NY", Population: 18913}

	doc := r.UpdateDocument()
	if _, ok := doc[fieldID]; ok {
		t.Fatal("update document must not contain _id")
	}
	if doc[fieldCity] != "NEW YORK" || doc[fieldState] != "NY" || doc[fieldPopulation] != 18913 {
		t.Fatalf("unexpected update document: %v", doc)
	}
}

func TestPersisted(t *testing.T) {
	if (Record{}).Persisted() {
		t.Fatal("record without id must not be persisted")
	}
	if !(Record{ID: "1"}).Persisted() {
		t.Fatal("record with id must be persisted")
	}
}
