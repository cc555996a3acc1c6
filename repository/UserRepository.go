package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mkblast/blazon-api/models"
)

type UserRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindManyByID(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	Insert(ctx context.Context, user models.User) error
	ListOthers(ctx context.Context, exclude primitive.ObjectID) ([]models.User, error)
	UpdateAbout(ctx context.Context, id primitive.ObjectID, about string) (models.User, error)
	UpdateProfileImage(ctx context.Context, id primitive.ObjectID, url string) (models.User, error)
	Follow(ctx context.Context, follower, target primitive.ObjectID) (models.User, error)
	Unfollow(ctx context.Context, follower, target primitive.ObjectID) (models.User, error)
}

type mongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(collection *mongo.Collection) UserRepository {
	return &mongoUserRepository{collection: collection}
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *mongoUserRepository) FindManyByID(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *mongoUserRepository) Insert(ctx context.Context, user models.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, user)
	return err
}

func (r *mongoUserRepository) ListOthers(ctx context.Context, exclude primitive.ObjectID) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$nin": []primitive.ObjectID{exclude}}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// findOneAndUpdate applies update to the user document and returns the new
// version, mirroring findOneAndUpdate(..., {new: true}).
func (r *mongoUserRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *mongoUserRepository) UpdateAbout(ctx context.Context, id primitive.ObjectID, about string) (models.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{"about": about}})
}

func (r *mongoUserRepository) UpdateProfileImage(ctx context.Context, id primitive.ObjectID, url string) (models.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{"profile_image": url}})
}

func (r *mongoUserRepository) Follow(ctx context.Context, follower, target primitive.ObjectID) (models.User, error) {
	return r.findOneAndUpdate(ctx, follower, bson.M{"$addToSet": bson.M{"following": target}})
}

func (r *mongoUserRepository) Unfollow(ctx context.Context, follower, target primitive.ObjectID) (models.User, error) {
	return r.findOneAndUpdate(ctx, follower, bson.M{"$pull": bson.M{"following": target}})
}
