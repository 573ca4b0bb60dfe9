package avatar

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config describes an S3-compatible bucket (AWS, R2, MinIO).
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string
	MaxBytes        int64
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads avatars with PutObject and returns their public URL.
type S3Store struct {
	client   objectPutter
	bucket   string
	baseURL  string
	maxBytes int64
	now      func() time.Time
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.BaseURL
	if baseURL == "" && cfg.Endpoint != "" {
		baseURL = publicURL(cfg.Endpoint, cfg.Bucket)
	}
	return newS3Store(client, cfg.Bucket, baseURL, cfg.MaxBytes), nil
}

func newS3Store(client objectPutter, bucket, baseURL string, maxBytes int64) *S3Store {
	return &S3Store{client: client, bucket: bucket, baseURL: baseURL, maxBytes: maxBytes, now: time.Now}
}

func (s *S3Store) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext, err := Extension(filename)
	if err != nil {
		return "", err
	}
	buf, err := readLimited(r, s.maxBytes)
	if err != nil {
		return "", err
	}
	key := ObjectKey(s.now(), ext)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        buf,
		ContentType: aws.String(allowedExtensions[ext]),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	return publicURL(s.baseURL, key), nil
}
