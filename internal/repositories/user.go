package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cortexsupport/backend-api/internal/models"
)

// UserRepository stores user documents in the "users" collection.
type UserRepository struct {
	crud *CRUD[models.UserDB]
	coll *mongo.Collection
}

// NewUserRepository creates a UserRepository over the given database.
func NewUserRepository(db *mongo.Database) *UserRepository {
	coll := db.Collection("users")
	return &UserRepository{
		crud: NewCRUD[models.UserDB](coll),
		coll: coll,
	}
}

// EnsureIndexes creates the unique indexes on email and username. The index
// is the backstop for the check-then-insert race: a racing duplicate insert
// fails with ErrDuplicateKey instead of persisting.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}

// List returns one window of users ordered by creation time.
func (r *UserRepository) List(ctx context.Context, skip, limit int64) (*models.Page[models.UserDB], error) {
	return r.crud.List(ctx, skip, limit, nil, bson.D{{Key: "created_at", Value: 1}})
}

// Get returns the user with the given hex id, or (nil, nil) when absent.
func (r *UserRepository) Get(ctx context.Context, id string) (*models.UserDB, error) {
	return r.crud.Get(ctx, id)
}

// GetByEmail returns the user with the given email, or (nil, nil) when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByUsername returns the user with the given username, or (nil, nil) when absent.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// Create inserts a user and returns the stored document.
func (r *UserRepository) Create(ctx context.Context, user *models.UserDB) (*models.UserDB, error) {
	return r.crud.Create(ctx, user)
}

// Update applies a partial $set to the user with the given id.
func (r *UserRepository) Update(ctx context.Context, id string, set bson.M) (*models.UserDB, error) {
	return r.crud.Update(ctx, id, set)
}

// Delete hard-deletes the user with the given id.
func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.crud.Delete(ctx, id)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.UserDB, error) {
	var user models.UserDB
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
