package asset

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/briand787b/pimasst/internal/catalog"
)

// --- Mocks for Dependencies ---

type MockUploader struct{ mock.Mock }

func (m *MockUploader) FindAsset(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// UploadMedia stores a media file code derived from the asset code on
// success, as the PIM does through its response header.
func (m *MockUploader) UploadMedia(ctx context.Context, i *Image) error {
	args := m.Called(ctx, i)
	if err := args.Error(0); err != nil {
		return err
	}
	i.MediaFileCode = "media/" + i.Code
	return nil
}

func (m *MockUploader) UpsertAsset(ctx context.Context, i *Image) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

type MockDownloader struct{ mock.Mock }

func (m *MockDownloader) Download(ctx context.Context, rawURL string) ([]byte, error) {
	args := m.Called(ctx, rawURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func newTestResolver(u Uploader, d ImageDownloader) *Resolver {
	return NewResolver(u, d, zap.NewNop(), io.Discard)
}

func img(url, filename string, pos int) catalog.ImageDescriptor {
	return catalog.ImageDescriptor{URL: url, SEOFilename: filename, Position: catalog.Pos(pos)}
}

func withCode(code string) interface{} {
	return mock.MatchedBy(func(i *Image) bool { return i.Code == code })
}

// --- Tests ---

func TestResolve_CreatesMissingAsset(t *testing.T) {
	u := new(MockUploader)
	d := new(MockDownloader)
	u.On("FindAsset", mock.Anything, "nice_image").Return(false, nil)
	d.On("Download", mock.Anything, "http://x/a.jpg").Return([]byte("bytes of a"), nil)
	u.On("UploadMedia", mock.Anything, withCode("nice_image")).Return(nil)
	u.On("UpsertAsset", mock.Anything, mock.MatchedBy(func(i *Image) bool {
		return i.MediaFileCode == "media/nice_image"
	})).Return(nil)

	var progress bytes.Buffer
	r := NewResolver(u, d, zap.NewNop(), &progress)

	resolved, failures := r.Resolve(context.Background(), "SKU1", []catalog.ImageDescriptor{
		img("http://x/a.jpg", "Nice-Image!.jpg", 1),
	})

	require.Empty(t, failures)
	assert.Equal(t, []Resolved{{Index: 0, Position: 1, Code: "nice_image"}}, resolved)

	uploaded := u.Calls[1].Arguments.Get(1).(*Image)
	assert.Equal(t, "Nice-Image!.jpg", uploaded.Filename)
	assert.Equal(t, "image/jpeg", uploaded.MimeType)
	assert.EqualValues(t, len("bytes of a"), uploaded.Size())

	assert.Contains(t, progress.String(), "Uploading media for Asset derived from 'Nice-Image!.jpg'")
	assert.Contains(t, progress.String(), "Creating Asset nice_image")

	u.AssertExpectations(t)
	d.AssertExpectations(t)
}

func TestResolve_ExistingAssetOnlySearches(t *testing.T) {
	u := new(MockUploader)
	d := new(MockDownloader)
	u.On("FindAsset", mock.Anything, "nice_image").Return(true, nil)

	resolved, failures := newTestResolver(u, d).Resolve(context.Background(), "SKU1", []catalog.ImageDescriptor{
		img("http://x/a.jpg", "Nice-Image!.jpg", 1),
	})

	require.Empty(t, failures)
	assert.Equal(t, "nice_image", resolved[0].Code)

	u.AssertExpectations(t)
	d.AssertNotCalled(t, "Download", mock.Anything, mock.Anything)
	u.AssertNotCalled(t, "UploadMedia", mock.Anything, mock.Anything)
	u.AssertNotCalled(t, "UpsertAsset", mock.Anything, mock.Anything)
}

func TestResolve_SearchFailureContinuesWithNextImage(t *testing.T) {
	u := new(MockUploader)
	d := new(MockDownloader)
	u.On("FindAsset", mock.Anything, "one").Return(false, errors.New("Asset search failed (500): boom"))
	u.On("FindAsset", mock.Anything, "two").Return(true, nil)

	resolved, failures := newTestResolver(u, d).Resolve(context.Background(), "SKU1", []catalog.ImageDescriptor{
		img("http://x/1.jpg", "one.jpg", 1),
		img("http://x/2.jpg", "two.jpg", 2),
	})

	require.Len(t, failures, 1)
	assert.Equal(t, KindAssetSearch, failures[0].Kind)
	assert.Equal(t, "one", failures[0].AssetCode)
	assert.Equal(t, "Asset search failed (500): boom", failures[0].Reason())

	assert.Equal(t, []Resolved{{Index: 1, Position: 2, Code: "two"}}, resolved)
	u.AssertExpectations(t)
}

func TestResolve_DownloadFailureSkipsUpload(t *testing.T) {
	u := new(MockUploader)
	d := new(MockDownloader)
	u.On("FindAsset", mock.Anything, "a").Return(false, nil)
	d.On("Download", mock.Anything, "http://x/a.jpg").Return(nil, errors.New("HTTP 500 downloading image"))

	resolved, failures := newTestResolver(u, d).Resolve(context.Background(), "SKU1", []catalog.ImageDescriptor{
		img("http://x/a.jpg", "a.jpg", 1),
	})

	assert.Empty(t, resolved)
	require.Len(t, failures, 1)
	assert.Equal(t, KindDownload, failures[0].Kind)
	assert.Equal(t, "download error: http://x/a.jpg: HTTP 500 downloading image", failures[0].Reason())

	u.AssertNotCalled(t, "UploadMedia", mock.Anything, mock.Anything)
	u.AssertNotCalled(t, "UpsertAsset", mock.Anything, mock.Anything)
}

func TestResolve_UploadFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind Kind
	}{
		{"bad status", errors.New("Media upload failed (422): invalid"), KindMediaUpload},
		{"missing header", ErrMissingMediaFileCode, KindMissingMediaCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := new(MockUploader)
			d := new(MockDownloader)
			u.On("FindAsset", mock.Anything, "a").Return(false, nil)
			d.On("Download", mock.Anything, "http://x/a.jpg").Return([]byte("a"), nil)
			u.On("UploadMedia", mock.Anything, withCode("a")).Return(tt.err)

			resolved, failures := newTestResolver(u, d).Resolve(context.Background(), "SKU1", []catalog.ImageDescriptor{
				img("http://x/a.jpg", "a.jpg", 1),
			})

			assert.Empty(t, resolved)
			require.Len(t, failures, 1)
			assert.Equal(t, tt.wantKind, failures[0].Kind)
			u.AssertNotCalled(t, "UpsertAsset", mock.Anything, mock.Anything)
		})
	}
}

func TestResolve_UpsertFailure(t *testing.T) {
	u := new(MockUploader)
	d := new(MockDownloader)
	u.On("FindAsset", mock.Anything, "a").Return(false, nil)
	d.On("Download", mock.Anything, "http://x/a.jpg").Return([]byte("a"), nil)
	u.On("UploadMedia", mock.Anything, withCode("a")).Return(nil)
	u.On("UpsertAsset", mock.Anything, withCode("a")).Return(errors.New("Asset upsert failed (500): nope"))

	resolved, failures := newTestResolver(u, d).Resolve(context.Background(), "SKU1", []catalog.ImageDescriptor{
		img("http://x/a.jpg", "a.jpg", 1),
	})

	assert.Empty(t, resolved)
	require.Len(t, failures, 1)
	assert.Equal(t, KindAssetUpsert, failures[0].Kind)
	assert.Equal(t, "asset upsert error: Asset upsert failed (500): nope", failures[0].Reason())
	u.AssertExpectations(t)
}

func TestResolve_KeepsInputOrder(t *testing.T) {
	u := new(MockUploader)
	d := new(MockDownloader)
	u.On("FindAsset", mock.Anything, mock.Anything).Return(true, nil)

	resolved, failures := newTestResolver(u, d).Resolve(context.Background(), "SKU1", []catalog.ImageDescriptor{
		img("http://x/a.jpg", "a.jpg", 1),
		img("http://x/b.jpg", "b.jpg", 2),
		img("http://x/c.jpg", "c.jpg", 3),
	})

	require.Empty(t, failures)
	codes := make([]string, len(resolved))
	for i, r := range resolved {
		codes[i] = r.Code
	}
	assert.Equal(t, []string{"a", "b", "c"}, codes)
}

func TestResolve_PositionZero(t *testing.T) {
	u := new(MockUploader)
	u.On("FindAsset", mock.Anything, "front").Return(true, nil)

	resolved, failures := newTestResolver(u, new(MockDownloader)).Resolve(context.Background(), "SKU1", []catalog.ImageDescriptor{
		img("http://x/a.jpg", "front.jpg", 0),
	})

	require.Empty(t, failures)
	assert.Equal(t, []Resolved{{Index: 0, Position: 0, Code: "front"}}, resolved)
}

func TestNewImage_MimeFallback(t *testing.T) {
	i := NewImage(img("http://x/a", "mystery.unknownext", 1))
	assert.Equal(t, "application/octet-stream", i.MimeType)
}
