package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mkblast/blazon-api/config"
)

// Connect builds the Mongo client for the whole process. An unreachable
// database is logged and tolerated: the client is still returned and every
// data-dependent request fails upstream until the database comes back.
func Connect(cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Printf("mongodb unreachable: %v", err)
	} else {
		log.Println("Connected to MongoDB!")
	}

	return client, nil
}

func OpenCollection(client *mongo.Client, cfg *config.Config, name string) *mongo.Collection {
	return client.Database(cfg.DBName).Collection(name)
}

// OpenBucket returns the GridFS bucket backing uploaded profile images.
func OpenBucket(client *mongo.Client, cfg *config.Config) (*gridfs.Bucket, error) {
	return gridfs.NewBucket(client.Database(cfg.DBName))
}
