package zipcode

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongostore "github.com/nimburion/zipcodes/pkg/store/mongodb"
)

// FindSpec describes one find operation against the collection. A nil Limit
// means unbounded, which is only used for full-collection operations and is
// never reachable from the paginated path.
type FindSpec struct {
	Filter     bson.M
	Sort       bson.D
	Projection bson.M
	Skip       int64
	Limit      *int64
}

// Executor is the store handle the repository operates on. It is injected
// explicitly so tests can substitute an in-memory implementation.
type Executor interface {
	Find(ctx context.Context, spec FindSpec) ([]bson.M, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	FindOne(ctx context.Context, filter bson.M) (bson.M, error)
	InsertOne(ctx context.Context, doc bson.M) error
	UpdateOne(ctx context.Context, filter, set bson.M) (int64, error)
	DeleteOne(ctx context.Context, filter bson.M) (int64, error)
}

// MongoExecutor adapts the MongoDB store adapter to the Executor contract,
// bound to a single collection.
type MongoExecutor struct {
	adapter    *mongostore.Adapter
	collection string
}

// NewMongoExecutor creates an executor bound to the given collection.
func NewMongoExecutor(adapter *mongostore.Adapter, collection string) (*MongoExecutor, error) {
	if adapter == nil {
		return nil, fmt.Errorf("mongodb adapter is required")
	}
	if collection == "" {
		return nil, fmt.Errorf("collection name is required")
	}
	return &MongoExecutor{adapter: adapter, collection: collection}, nil
}

// Find runs the described query and materializes all matching documents.
func (e *MongoExecutor) Find(ctx context.Context, spec FindSpec) ([]bson.M, error) {
	opts := options.Find()
	if len(spec.Sort) > 0 {
		opts.SetSort(spec.Sort)
	}
	if len(spec.Projection) > 0 {
		opts.SetProjection(spec.Projection)
	}
	if spec.Skip > 0 {
		opts.SetSkip(spec.Skip)
	}
	if spec.Limit != nil {
		opts.SetLimit(*spec.Limit)
	}

	cursor, err := e.adapter.Find(ctx, e.collection, spec.Filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Count returns the number of documents matching the filter.
func (e *MongoExecutor) Count(ctx context.Context, filter bson.M) (int64, error) {
	return e.adapter.CountDocuments(ctx, e.collection, filter)
}

// FindOne returns the single document matching the filter.
// Returns mongo.ErrNoDocuments when nothing matches.
func (e *MongoExecutor) FindOne(ctx context.Context, filter bson.M) (bson.M, error) {
	doc := bson.M{}
	if err := e.adapter.FindOne(ctx, e.collection, filter, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// InsertOne inserts one document, translating the store's duplicate-key error
// into ErrDuplicateID.
func (e *MongoExecutor) InsertOne(ctx context.Context, doc bson.M) error {
	_, err := e.adapter.InsertOne(ctx, e.collection, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateID
	}
	return err
}

// UpdateOne applies a $set update to the document matching the filter and
// returns the number of matched documents.
func (e *MongoExecutor) UpdateOne(ctx context.Context, filter, set bson.M) (int64, error) {
	result, err := e.adapter.UpdateOne(ctx, e.collection, filter, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return result.MatchedCount, nil
}

// DeleteOne removes the document matching the filter and returns the number of
// deleted documents.
func (e *MongoExecutor) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	result, err := e.adapter.DeleteOne(ctx, e.collection, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
