package client

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"linkbio/internal/config"
)

// ObjectStorageClient uploads objects to an S3-compatible bucket
// (Cloudflare R2, MinIO, AWS S3) and builds their public URLs.
type ObjectStorageClient struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewObjectStorageClient builds the S3 client from static credentials and a
// custom endpoint, the way R2 and MinIO expect.
func NewObjectStorageClient(cfg *config.Config, logger *zap.Logger) (*ObjectStorageClient, error) {
	storage := cfg.Storage
	if storage.Bucket == "" || storage.Endpoint == "" {
		return nil, fmt.Errorf("object storage is not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(storage.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			storage.AccessKeyID,
			storage.SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load storage credentials: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(storage.Endpoint)
		o.UsePathStyle = true
	})

	logger.Info("Object storage client initialized",
		zap.String("bucket", storage.Bucket),
		zap.String("region", storage.Region))

	return &ObjectStorageClient{
		client:        s3Client,
		bucket:        storage.Bucket,
		publicBaseURL: strings.TrimRight(storage.PublicBaseURL, "/"),
	}, nil
}

// PutObject uploads body under key and returns the object's public URL.
func (c *ObjectStorageClient) PutObject(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	return c.PublicURL(key), nil
}

// PublicURL joins the configured public base with an escaped object key.
func (c *ObjectStorageClient) PublicURL(key string) string {
	escaped := make([]string, 0, 4)
	for _, part := range strings.Split(key, "/") {
		escaped = append(escaped, url.PathEscape(part))
	}
	return c.publicBaseURL + "/" + strings.Join(escaped, "/")
}
