package client

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client is a client for interacting with an S3-compatible object store.
type S3Client struct {
	s3Client *s3.Client
	bucket   string
}

// NewS3Client creates a new S3Client bound to one bucket.
func NewS3Client(ctx context.Context, bucket string) (*S3Client, error) {
	// Load the AWS configuration from environment variables, shared config files, etc.
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg)

	return &S3Client{
		s3Client: s3Client,
		bucket:   bucket,
	}, nil
}

// Upload streams a file into the bucket under the given key and returns the
// key as the stable media reference.
func (c *S3Client) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return key, nil
}
