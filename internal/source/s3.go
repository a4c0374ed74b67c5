package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"loaneda/internal/config"
	apperrors "loaneda/internal/errors"
)

// S3Client is the subset of the minio client the opener needs
type S3Client interface {
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
}

// NewS3Client connects to an S3-compatible endpoint
func NewS3Client(cfg config.StorageConfig) (*minio.Client, error) {
	if cfg.Endpoint == "" {
		return nil, apperrors.NewConfigError("storage endpoint is not configured", nil)
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, apperrors.NewConfigError("create s3 client", err)
	}
	return client, nil
}

// S3Opener reads datasets from an S3-compatible object store
type S3Opener struct {
	Client S3Client
	logger *slog.Logger
}

func NewS3Opener(cli S3Client, logger *slog.Logger) *S3Opener {
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Opener{Client: cli, logger: logger.With(slog.String("opener", "s3"))}
}

// Open accepts an s3://bucket/key location
func (s *S3Opener) Open(ctx context.Context, location string) (io.ReadCloser, Meta, error) {
	bucket, key, err := ParseS3URL(location)
	if err != nil {
		return nil, Meta{}, err
	}
	return s.OpenObject(ctx, bucket, key)
}

// OpenObject stats and streams one object
func (s *S3Opener) OpenObject(ctx context.Context, bucket, key string) (io.ReadCloser, Meta, error) {
	st, err := s.Client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, Meta{}, apperrors.NewNotFoundError(fmt.Sprintf("object s3://%s/%s", bucket, key))
		}
		return nil, Meta{}, apperrors.NewStorageError("s3 stat", err).
			WithContext("bucket", bucket).WithContext("key", key)
	}

	obj, err := s.Client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, Meta{}, apperrors.NewStorageError("s3 get", err).
			WithContext("bucket", bucket).WithContext("key", key)
	}

	s.logger.DebugContext(ctx, "object opened",
		slog.String("bucket", bucket),
		slog.String("key", key),
		slog.Int64("size", st.Size),
		slog.String("etag", st.ETag))

	return obj, Meta{
		Source:      "s3",
		Location:    fmt.Sprintf("s3://%s/%s", bucket, key),
		ContentType: st.ContentType,
		Size:        st.Size,
		Bucket:      bucket,
		Key:         key,
	}, nil
}

// ParseS3URL splits s3://bucket/key into its parts
func ParseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", apperrors.NewAppValidationError(fmt.Sprintf("invalid s3 url %q: %v", raw, err))
	}
	if u.Scheme != "s3" {
		return "", "", apperrors.NewAppValidationError(fmt.Sprintf("scheme must be s3, got %q", u.Scheme))
	}
	bucket = u.Host
	key = path.Clean(strings.TrimPrefix(u.Path, "/"))
	if bucket == "" || key == "" || key == "." || key == "/" {
		return "", "", apperrors.NewAppValidationError(fmt.Sprintf("empty bucket or key in %q", raw))
	}
	return bucket, key, nil
}
