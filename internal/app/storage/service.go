/*
Package storage provides the object storage service used for user avatars.

Clients never upload through the API server; they receive short-lived
presigned URLs and talk to the bucket directly.
*/
package storage

import (
	"context"
	"time"
)

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// ObjectStore defines the public interface for the avatar storage service.
type ObjectStore interface {
	// PresignUpload generates a pre-signed URL for uploading an object.
	PresignUpload(
		ctx context.Context,
		key string,
		mimeType string,
		fileSize int64,
		duration time.Duration,
	) (string, error)

	// PresignDownload generates a pre-signed URL for downloading an object.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
}

// NewObjectStore is the factory function for ObjectStore. Only S3-compatible
// backends are supported.
func NewObjectStore(cfg ServiceConfig) (ObjectStore, error) {
	return newS3Client(cfg)
}
