package asset

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockS3 struct{ mock.Mock }

func (m *MockS3) GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func objectAt(bucket, key string) interface{} {
	return mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Bucket) == bucket && aws.ToString(in.Key) == key
	})
}

func TestS3Source_Fetch(t *testing.T) {
	m := new(MockS3)
	m.On("GetObject", mock.Anything, objectAt("media-bucket", "products/sku1/a.png")).
		Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("png-bytes"))}, nil)

	d := NewDownloader(&flakySource{}, time.Second, 0, zap.NewNop())
	d.Register("s3", &S3Source{Client: m})

	bs, err := d.Download(context.Background(), "s3://media-bucket/products/sku1/a.png")
	require.NoError(t, err)

	assert.Equal(t, "png-bytes", string(bs))
	m.AssertExpectations(t)
}

func TestS3Source_Error(t *testing.T) {
	m := new(MockS3)
	m.On("GetObject", mock.Anything, objectAt("media-bucket", "missing.png")).
		Return(nil, errors.New("NoSuchKey"))

	d := NewDownloader(&flakySource{}, time.Second, 1, zap.NewNop())
	d.Register("s3", &S3Source{Client: m})

	_, err := d.Download(context.Background(), "s3://media-bucket/missing.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoSuchKey")
	m.AssertNumberOfCalls(t, "GetObject", 2)
}

func TestS3Source_InvalidLocation(t *testing.T) {
	m := new(MockS3)
	d := NewDownloader(&flakySource{}, time.Second, 0, zap.NewNop())
	d.Register("s3", &S3Source{Client: m})

	_, err := d.Download(context.Background(), "s3://bucket-only")
	assert.Error(t, err)
	m.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything)
}
