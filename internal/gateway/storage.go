package gateway

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PhotoStore keeps photo evidence in a MinIO bucket.
type PhotoStore struct {
	client   *minio.Client
	endpoint string
	bucket   string
	useSSL   bool
}

// NewPhotoStore connects to MinIO and ensures the evidence bucket exists.
func NewPhotoStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*PhotoStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to minio: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &PhotoStore{client: client, endpoint: endpoint, bucket: bucket, useSSL: useSSL}, nil
}

// Upload stores a blob under objectName and returns the object reference.
func (s *PhotoStore) Upload(ctx context.Context, objectName string, blob []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(blob), int64(len(blob)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", objectName, err)
	}

	return objectName, nil
}

// PublicURL builds the externally reachable URL for an object reference.
func (s *PhotoStore) PublicURL(ref string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, ref)
}
