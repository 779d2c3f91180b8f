package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"resume-scorer/internal/shared/storage/object"
)

const defaultURLTTL = 7 * 24 * time.Hour

// Options configures a MinIO-backed store.
type Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	URLTTL    time.Duration
}

// Store implements object.Store against MinIO or any S3-compatible endpoint.
type Store struct {
	client *minio.Client
	bucket string
	urlTTL time.Duration
}

// New connects to MinIO and creates the bucket when it does not exist.
func New(ctx context.Context, opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Endpoint) == "" || strings.TrimSpace(opts.Bucket) == "" {
		return nil, errors.New("minio endpoint and bucket are required")
	}
	cli, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := cli.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket exists %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{Region: opts.Region}); err != nil {
			return nil, fmt.Errorf("minio make bucket %s: %w", opts.Bucket, err)
		}
	}

	ttl := opts.URLTTL
	if ttl <= 0 || ttl > defaultURLTTL {
		ttl = defaultURLTTL
	}
	return &Store{client: cli, bucket: opts.Bucket, urlTTL: ttl}, nil
}

// Put streams r into the bucket at key.
func (s *Store) Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	if strings.TrimSpace(key) == "" {
		return 0, object.ErrInvalidKey
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	info, err := s.client.PutObject(ctx, s.bucket, key, r, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return 0, fmt.Errorf("minio put object bucket=%s key=%s: %w", s.bucket, key, err)
	}
	return info.Size, nil
}

// Open returns a reader for key.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio get object bucket=%s key=%s: %w", s.bucket, key, err)
	}
	// GetObject is lazy; Stat surfaces a missing key before the caller reads.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, object.ErrNotFound
		}
		return nil, fmt.Errorf("minio stat object bucket=%s key=%s: %w", s.bucket, key, err)
	}
	return obj, nil
}

// DownloadURL presigns a GET for key.
func (s *Store) DownloadURL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.urlTTL, nil)
	if err != nil {
		return "", fmt.Errorf("minio presign bucket=%s key=%s: %w", s.bucket, key, err)
	}
	return u.String(), nil
}

var _ object.Store = (*Store)(nil)
