package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/paksmart/storefront/internal/logging"
)

var storageLog = logging.NewPackageLogger("storage")

// MinioConfig holds the object storage settings
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ImageStore keeps product images in an S3-compatible bucket
type ImageStore struct {
	client *minio.Client
	bucket string
}

// NewImageStore connects to object storage and creates the bucket if it is missing
func NewImageStore(ctx context.Context, cfg MinioConfig) (*ImageStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		storageLog.Info().Str("bucket", cfg.Bucket).Msg("bucket created")
	}

	return &ImageStore{client: client, bucket: cfg.Bucket}, nil
}

// Upload stores an object and returns its public URL
func (s *ImageStore) Upload(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return PublicURL(s.client.EndpointURL(), s.bucket, name), nil
}

// PublicURL builds the path-style URL of an object
func PublicURL(endpoint *url.URL, bucket, name string) string {
	u := *endpoint
	u.Path = "/" + bucket + "/" + name
	return u.String()
}
