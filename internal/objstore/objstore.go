// Package objstore uploads exported workbooks to an S3-compatible bucket.
package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/abhisek/sfassess/internal/config"
)

// ErrDisabled is returned by New when no endpoint is configured.
var ErrDisabled = errors.New("object storage not configured")

// Uploader stores a named object and returns where it can be found.
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

// putter is the subset of *minio.Client the uploader uses.
type putter interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type MinioUploader struct {
	client putter
	bucket string
	prefix string
	log    *zap.Logger
}

// New connects to the configured endpoint. It does not touch the network
// until the first upload.
func New(cfg config.StorageConfig, log *zap.Logger) (*MinioUploader, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}
	return newUploader(client, cfg.Bucket, cfg.Prefix, log), nil
}

func newUploader(client putter, bucket, prefix string, log *zap.Logger) *MinioUploader {
	if log == nil {
		log = zap.NewNop()
	}
	return &MinioUploader{client: client, bucket: bucket, prefix: prefix, log: log}
}

// Upload writes r under prefix/name, creating the bucket on first use, and
// returns the s3:// URL of the object.
func (u *MinioUploader) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	ok, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return "", fmt.Errorf("check bucket %q: %w", u.bucket, err)
	}
	if !ok {
		if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("create bucket %q: %w", u.bucket, err)
		}
		u.log.Info("created bucket", zap.String("bucket", u.bucket))
	}

	key := path.Join(u.prefix, name)
	info, err := u.client.PutObject(ctx, u.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %q: %w", key, err)
	}
	u.log.Info("uploaded object",
		zap.String("bucket", u.bucket),
		zap.String("key", key),
		zap.Int64("size", info.Size),
	)
	return fmt.Sprintf("s3://%s/%s", u.bucket, key), nil
}
