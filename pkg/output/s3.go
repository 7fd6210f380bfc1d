package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrInvalidDestination is returned for malformed s3:// URLs
var ErrInvalidDestination = errors.New("invalid destination")

const s3Scheme = "s3://"

// Uploader stores an encoded image in object storage
type Uploader interface {
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) error
}

// ParseS3URL splits "s3://bucket/key". ok is false when dest is not an s3:// URL.
func ParseS3URL(dest string) (bucket, key string, ok bool, err error) {
	if !strings.HasPrefix(dest, s3Scheme) {
		return "", "", false, nil
	}
	bucket, key, _ = strings.Cut(strings.TrimPrefix(dest, s3Scheme), "/")
	if bucket == "" || key == "" {
		return "", "", true, fmt.Errorf("%w: %q (want s3://bucket/key)", ErrInvalidDestination, dest)
	}
	return bucket, key, true, nil
}

// S3Uploader uploads through the SDK's upload manager, which switches to multipart for large bodies
type S3Uploader struct {
	uploader *manager.Uploader
}

// NewS3UploaderFromClient wraps an existing S3 API client
func NewS3UploaderFromClient(client manager.UploadAPIClient) *S3Uploader {
	return &S3Uploader{uploader: manager.NewUploader(client)}
}

// NewS3Uploader builds a client from the default AWS credential chain.
// A non-empty endpoint selects an S3-compatible store with path-style addressing.
func NewS3Uploader(ctx context.Context, region, endpoint string) (*S3Uploader, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3UploaderFromClient(client), nil
}

// Upload implements Uploader
func (u *S3Uploader) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) error {
	_, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	return err
}
