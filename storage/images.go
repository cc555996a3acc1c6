package storage

import (
	"context"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
)

// ImageStore is the object-storage contract: persist bytes, get back a
// durable URL, and stream them out again by id.
type ImageStore interface {
	Save(ctx context.Context, filename string, src io.Reader) (string, error)
	Open(id string) (io.ReadCloser, error)
}

// GridFSStore keeps uploaded images in a GridFS bucket and serves them from
// the API's own image route, so the persisted URLs survive restarts.
type GridFSStore struct {
	bucket  *gridfs.Bucket
	baseURL string
}

func NewGridFSStore(bucket *gridfs.Bucket, baseURL string) *GridFSStore {
	return &GridFSStore{bucket: bucket, baseURL: baseURL}
}

func (s *GridFSStore) Save(ctx context.Context, filename string, src io.Reader) (string, error) {
	fileID := primitive.NewObjectID()

	uploadStream, err := s.bucket.OpenUploadStreamWithID(fileID, filename)
	if err != nil {
		return "", err
	}
	defer uploadStream.Close()

	if _, err := io.Copy(uploadStream, src); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/api/main/images/%s", s.baseURL, fileID.Hex()), nil
}

func (s *GridFSStore) Open(id string) (io.ReadCloser, error) {
	fileID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	file, err := s.bucket.OpenDownloadStream(fileID)
	if err != nil {
		return nil, err
	}
	return file, nil
}
