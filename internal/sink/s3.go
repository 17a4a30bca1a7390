package sink

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// S3Sink uploads through the multipart upload manager. A Key that is empty
// or ends in "/" is treated as a prefix for the discovered name.
type S3Sink struct {
	Bucket   string
	Key      string
	uploader *manager.Uploader
}

func NewS3Sink(ctx context.Context, bucket, key, profile string) (*S3Sink, error) {
	opts := []func(*config.LoadOptions) error{config.WithRetryMode(aws.RetryModeAdaptive)}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}
	return &S3Sink{
		Bucket:   bucket,
		Key:      key,
		uploader: manager.NewUploader(s3.NewFromConfig(cfg)),
	}, nil
}

func (s *S3Sink) Save(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	key := ObjectKey(s.Key, name)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	out, err := s.uploader.Upload(ctx, input)
	if err != nil {
		return "", fmt.Errorf("error uploading to s3://%s/%s: %w", s.Bucket, key, err)
	}
	log.Debug().Str("op", "sink/s3").Msgf("uploaded %s", out.Location)
	return fmt.Sprintf("s3://%s/%s", s.Bucket, key), nil
}

func ObjectKey(key, name string) string {
	if key == "" || strings.HasSuffix(key, "/") {
		return key + name
	}
	return key
}

func ParseS3URL(url string) (bucket, key string, err error) {
	url = strings.TrimPrefix(url, "s3://")
	bucket, key, _ = strings.Cut(url, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid S3 URL format: %q", url)
	}
	return bucket, key, nil
}
