// Package storage provides the object-storage backend for order images,
// implemented against S3 (or any S3-compatible endpoint such as MinIO).
// Retrieval URLs are presigned with a bounded lifetime so image links expire
// instead of exposing the bucket.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store uploads objects to a single bucket and mints presigned GET URLs.
// It satisfies services.ObjectStore.
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
}

// Options configures an S3Store.
type Options struct {
	// Bucket is the target bucket name.
	Bucket string
	// Region is the AWS region.
	Region string
	// Endpoint overrides the S3 endpoint (e.g. a local MinIO); empty uses AWS.
	Endpoint string
	// PresignTTL bounds the lifetime of minted URLs; <= 0 defaults to 5 minutes.
	PresignTTL time.Duration
}

// NewS3Store builds a store from the ambient AWS credential chain.
func NewS3Store(ctx context.Context, opts Options) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			// Path-style keeps bucket resolution working against MinIO and
			// other S3-compatible servers.
			o.UsePathStyle = true
		}
	})

	ttl := opts.PresignTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  opts.Bucket,
		ttl:     ttl,
	}, nil
}

// Put uploads body under key with the given content type.
func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	return err
}

// PresignGet returns a time-limited URL for reading key.
func (s *S3Store) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
