package zipcode

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection is the MongoDB collection holding zip code documents.
const Collection = "zipcodes"

// Sentinel errors returned by the repository.
var (
	// ErrDuplicateID reports an insert with an already-stored identifier.
	ErrDuplicateID = errors.New("zipcode: duplicate id")
	// ErrNotFound reports an update or delete that matched no document.
	ErrNotFound = errors.New("zipcode: not found")
)

// projection restricts query results to the record fields. Extraneous stored
// fields (the dataset also carries geolocation data) never reach callers.
var projection = bson.M{
	fieldCity:       1,
	fieldState:      1,
	fieldPopulation: 1,
}

// Repository provides access to zip code records. All operations are direct
// passthroughs to the injected executor; storage faults propagate unchanged,
// with no retry or wrapping at this layer.
type Repository struct {
	executor Executor
}

// NewRepository creates a repository over the given executor.
func NewRepository(executor Executor) (*Repository, error) {
	if executor == nil {
		return nil, errors.New("zipcode: executor is required")
	}
	return &Repository{executor: executor}, nil
}

// Paginate returns one page of matching records together with the total match
// count. The page query and the count query are two independent round trips;
// the total is deliberately not derived from the page fetch.
func (r *Repository) Paginate(ctx context.Context, filter FilterSpec, sort SortSpec, page PageRequest) (PageResult, error) {
	limit := int64(page.PerPage)
	docs, err := r.executor.Find(ctx, FindSpec{
		Filter:     filter.Document(),
		Sort:       sort.Document(),
		Projection: projection,
		Skip:       page.Offset(),
		Limit:      &limit,
	})
	if err != nil {
		return PageResult{}, err
	}

	items := make([]Record, 0, len(docs))
	for _, doc := range docs {
		items = append(items, FromStorage(doc))
	}

	total, err := r.executor.Count(ctx, filter.Document())
	if err != nil {
		return PageResult{}, err
	}

	return PageResult{
		Items:   items,
		Page:    page.Page,
		PerPage: page.PerPage,
		Total:   total,
	}, nil
}

// All returns every matching record without a limit. Internal use only; the
// HTTP surface always goes through Paginate.
func (r *Repository) All(ctx context.Context, filter FilterSpec, sort SortSpec) ([]Record, error) {
	docs, err := r.executor.Find(ctx, FindSpec{
		Filter:     filter.Document(),
		Sort:       sort.Document(),
		Projection: projection,
	})
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, FromStorage(doc))
	}
	return records, nil
}

// FindByID looks up one record by identifier. A missing document yields
// (nil, nil); not-found handling stays with the caller.
func (r *Repository) FindByID(ctx context.Context, id string) (*Record, error) {
	doc, err := r.executor.FindOne(ctx, bson.M{fieldID: id})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	record := FromStorage(doc)
	return &record, nil
}

// Create inserts a new record. Returns ErrDuplicateID if the identifier is
// already stored.
func (r *Repository) Create(ctx context.Context, record Record) error {
	return r.executor.InsertOne(ctx, record.Document())
}

// Update replaces the mutable fields of the stored document identified by
// record.ID. The identifier itself is never updated.
func (r *Repository) Update(ctx context.Context, record Record) error {
	matched, err := r.executor.UpdateOne(ctx, bson.M{fieldID: record.ID}, record.UpdateDocument())
	if err != nil {
		return err
	}
	if matched == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the record with the given identifier.
func (r *Repository) Delete(ctx context.Context, id string) error {
	deleted, err := r.executor.DeleteOne(ctx, bson.M{fieldID: id})
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}
