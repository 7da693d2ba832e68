package macro

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used to read schemas.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher reads schemas stored at s3://bucket/key locations. When Client
// is nil a client is created on first use from the default AWS
// configuration (environment, shared config files, instance role). A failed
// configuration load is not remembered; the next Fetch tries again.
type S3Fetcher struct {
	Client S3API

	// LoadConfig replaces config.LoadDefaultConfig when set.
	LoadConfig func(ctx context.Context) (aws.Config, error)

	mu sync.Mutex
}

// Fetch downloads the object named by location.
func (f *S3Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	bucket, key, err := ParseS3Location(location)
	if err != nil {
		return nil, err
	}
	client, err := f.client(ctx)
	if err != nil {
		return nil, err
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// ParseS3Location splits "s3://bucket/key" into its bucket and key.
func ParseS3Location(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, "s3://")
	if !ok {
		return "", "", fmt.Errorf("invalid s3 location %q", location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 location %q (expected s3://bucket/key)", location)
	}
	return bucket, key, nil
}

func (f *S3Fetcher) client(ctx context.Context) (S3API, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Client != nil {
		return f.Client, nil
	}
	load := f.LoadConfig
	if load == nil {
		load = func(ctx context.Context) (aws.Config, error) {
			return config.LoadDefaultConfig(ctx)
		}
	}
	cfg, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	f.Client = s3.NewFromConfig(cfg)
	return f.Client, nil
}
