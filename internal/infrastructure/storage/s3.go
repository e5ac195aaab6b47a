package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/config"
)

// ContentTypeJPEG is the content type every upload is stored with.
const ContentTypeJPEG = "image/jpeg"

// ErrBucketRequired is returned when a store is built without a bucket.
var ErrBucketRequired = errors.New("storage bucket is required")

// PutObjectAPI is the subset of the S3 client the store uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes opaque blobs to one S3 bucket. It never reads back.
type S3Store struct {
	client PutObjectAPI
	bucket string
}

// NewS3Store builds a store from configuration. Credentials come from the
// default AWS chain (env, shared config, instance role). A non-empty
// Endpoint targets an S3-compatible service such as MinIO.
func NewS3Store(ctx context.Context, cfg config.StorageConfig) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, ErrBucketRequired
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewS3StoreWithClient(client, cfg.Bucket)
}

// NewS3StoreWithClient wraps an existing client.
func NewS3StoreWithClient(client PutObjectAPI, bucket string) (*S3Store, error) {
	if bucket == "" {
		return nil, ErrBucketRequired
	}
	return &S3Store{client: client, bucket: bucket}, nil
}

// Bucket returns the target bucket name.
func (s *S3Store) Bucket() string {
	return s.bucket
}

// Put stores body under key.
func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}
