package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3GetObjectAPI is the part of *s3.Client used by S3Source
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source downloads images addressed as s3://bucket/key
type S3Source struct {
	Client S3GetObjectAPI
}

func (s *S3Source) Fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	bucket, key, err := s3Location(u)
	if err != nil {
		return nil, err
	}

	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3 object %s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	bs, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 object body is unreadable: %w", err)
	}

	return bs, nil
}

func s3Location(u *url.URL) (bucket, key string, err error) {
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", errors.New("s3 URL must have the form s3://bucket/key")
	}
	return bucket, key, nil
}
