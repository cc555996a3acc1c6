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

type PostRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Post, error)
	Feed(ctx context.Context, authors []primitive.ObjectID) ([]models.Post, error)
	AllTopLevel(ctx context.Context) ([]models.Post, error)
	Replies(ctx context.Context, parent primitive.ObjectID) ([]models.Post, error)
	ByAuthor(ctx context.Context, author primitive.ObjectID, includeReplies bool) ([]models.Post, error)
	Insert(ctx context.Context, post models.Post) error
	UpdateBody(ctx context.Context, id primitive.ObjectID, body string) (models.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.Post, error)
	Like(ctx context.Context, id, user primitive.ObjectID) (models.Post, error)
	Unlike(ctx context.Context, id, user primitive.ObjectID) (models.Post, error)
}

type mongoPostRepository struct {
	collection *mongo.Collection
}

func NewMongoPostRepository(collection *mongo.Collection) PostRepository {
	return &mongoPostRepository{collection: collection}
}

var newestFirst = options.Find().SetSort(bson.M{"date": -1})

func (r *mongoPostRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *mongoPostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, err
	}
	return post, nil
}

// Feed returns top-level posts written by any of the given authors, newest
// first. The caller passes its own id plus its following set.
func (r *mongoPostRepository) Feed(ctx context.Context, authors []primitive.ObjectID) ([]models.Post, error) {
	filter := bson.M{
		"author":   bson.M{"$in": authors},
		"reply_to": nil,
	}
	return r.find(ctx, filter, newestFirst)
}

func (r *mongoPostRepository) AllTopLevel(ctx context.Context) ([]models.Post, error) {
	return r.find(ctx, bson.M{"reply_to": nil}, newestFirst)
}

func (r *mongoPostRepository) Replies(ctx context.Context, parent primitive.ObjectID) ([]models.Post, error) {
	return r.find(ctx, bson.M{"reply_to": parent})
}

func (r *mongoPostRepository) ByAuthor(ctx context.Context, author primitive.ObjectID, includeReplies bool) ([]models.Post, error) {
	filter := bson.M{"author": author}
	if !includeReplies {
		filter["reply_to"] = nil
	}
	return r.find(ctx, filter, newestFirst)
}

func (r *mongoPostRepository) Insert(ctx context.Context, post models.Post) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, post)
	return err
}

func (r *mongoPostRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, err
	}
	return post, nil
}

func (r *mongoPostRepository) UpdateBody(ctx context.Context, id primitive.ObjectID, body string) (models.Post, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{"body": body}})
}

func (r *mongoPostRepository) Delete(ctx context.Context, id primitive.ObjectID) (models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var post models.Post
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, err
	}
	return post, nil
}

func (r *mongoPostRepository) Like(ctx context.Context, id, user primitive.ObjectID) (models.Post, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$addToSet": bson.M{"likes": user}})
}

func (r *mongoPostRepository) Unlike(ctx context.Context, id, user primitive.ObjectID) (models.Post, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$pull": bson.M{"likes": user}})
}
