package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"
)

// BlobStore writes one object to one destination and returns its locator.
type BlobStore interface {
	Store(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// S3Store is the primary (cloud) destination.
type S3Store struct {
	client *s3.Client
	bucket string
	region string
}

func NewS3Store(ctx context.Context, bucket, region string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Store{client: s3.NewFromConfig(cfg), bucket: bucket, region: region}, nil
}

func (s *S3Store) Store(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// LocalStore is the redundant destination; ingestion also reads the page
// text from this copy.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (l *LocalStore) Store(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	path := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (l *LocalStore) Delete(ctx context.Context, key string) error {
	return os.Remove(filepath.Join(l.root, filepath.FromSlash(key)))
}

// StorageService writes every upload to both destinations concurrently and
// joins before returning. There is no partial-success path: if either write
// fails the upload fails.
type StorageService struct {
	primary   BlobStore
	redundant BlobStore
}

func NewStorageService(primary, redundant BlobStore) *StorageService {
	return &StorageService{primary: primary, redundant: redundant}
}

// Upload returns the canonical URL from the primary destination and the
// local path of the redundant copy.
func (s *StorageService) Upload(ctx context.Context, key string, data []byte, contentType string) (url, localPath string, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		url, err = s.primary.Store(gctx, key, data, contentType)
		return err
	})
	g.Go(func() error {
		var err error
		localPath, err = s.redundant.Store(gctx, key, data, contentType)
		return err
	})

	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return url, localPath, nil
}

// Delete removes the object from both destinations; the first error wins
// but both are attempted.
func (s *StorageService) Delete(ctx context.Context, key string) error {
	primaryErr := s.primary.Delete(ctx, key)
	redundantErr := s.redundant.Delete(ctx, key)
	if primaryErr != nil {
		return primaryErr
	}
	return redundantErr
}
