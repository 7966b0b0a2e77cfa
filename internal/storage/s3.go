package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config holds settings for an S3-compatible banner backend (MinIO works
// via the custom endpoint).
type S3Config struct {
	Region        string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Endpoint      string
	PublicBaseURL string
}

// S3Store writes banners to an object storage bucket.
type S3Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3Store builds the S3 client from static credentials.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Save uploads the banner object and returns its public URL.
func (s *S3Store) Save(ctx context.Context, up Upload) (string, error) {
	ext, err := checkUpload(up)
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	key := fmt.Sprintf("banners/%d/%02d/%02d/%s%s", now.Year(), now.Month(), now.Day(), uuid.NewString(), ext)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          limitedBody(up),
		ContentType:   aws.String(up.ContentType),
		ContentLength: aws.Int64(up.Size),
	})
	if err != nil {
		return "", fmt.Errorf("put banner object: %w", err)
	}
	return s.publicBaseURL + "/" + key, nil
}
