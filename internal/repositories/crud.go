package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cortexsupport/backend-api/internal/logger"
	"github.com/cortexsupport/backend-api/internal/models"
)

// ErrDuplicateKey signals a unique-index violation. It is the authoritative
// conflict signal when concurrent writers race past the service-level checks.
var ErrDuplicateKey = errors.New("duplicate key")

// CRUD provides generic paginated operations over a single Mongo collection.
type CRUD[T any] struct {
	coll *mongo.Collection
}

// NewCRUD creates a CRUD helper bound to the given collection.
func NewCRUD[T any](coll *mongo.Collection) *CRUD[T] {
	return &CRUD[T]{coll: coll}
}

// List returns one window of documents matching filter. The skip is applied
// to the cursor as-is; the page number in the result is metadata derived from
// it. A skip beyond the end of the collection yields an empty items slice,
// not an error.
func (r *CRUD[T]) List(ctx context.Context, skip, limit int64, filter bson.M, sort bson.D) (*models.Page[T], error) {
	if filter == nil {
		filter = bson.M{}
	}
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = 1
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		logger.Log.Errorw("count failed", "collection", r.coll.Name(), "error", err)
		return nil, err
	}

	opts := options.Find().SetSkip(skip).SetLimit(limit)
	if len(sort) > 0 {
		opts.SetSort(sort)
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		logger.Log.Errorw("find failed", "collection", r.coll.Name(), "error", err)
		return nil, err
	}

	items := make([]T, 0, limit)
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}

	return &models.Page[T]{
		Items:      items,
		Total:      total,
		Page:       skip/limit + 1,
		PageSize:   limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// Get returns the document with the given hex id, or (nil, nil) when the id
// is malformed or matches nothing.
func (r *CRUD[T]) Get(ctx context.Context, id string) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc T
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Create inserts doc and re-reads it by the generated id, so the returned
// document reflects any server-side defaults.
func (r *CRUD[T]) Create(ctx context.Context, doc any) (*T, error) {
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		logger.Log.Errorw("insert failed", "collection", r.coll.Name(), "error", err)
		return nil, err
	}

	var created T
	if err := r.coll.FindOne(ctx, bson.M{"_id": res.InsertedID}).Decode(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update applies a $set of the given fields and returns the updated document.
// An empty set is a no-op that still returns the current document; a
// malformed or unknown id yields (nil, nil).
func (r *CRUD[T]) Update(ctx context.Context, id string, set bson.M) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	if len(set) == 0 {
		return r.Get(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated T
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		logger.Log.Errorw("update failed", "collection", r.coll.Name(), "error", err)
		return nil, err
	}
	return &updated, nil
}

// Delete removes the document with the given id. It reports true iff a
// document was actually removed.
func (r *CRUD[T]) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		logger.Log.Errorw("delete failed", "collection", r.coll.Name(), "error", err)
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// totalPages is ceil(total / pageSize).
func totalPages(total, pageSize int64) int64 {
	if pageSize < 1 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
