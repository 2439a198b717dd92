package asset

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/briand787b/pimasst/internal/catalog"
	"go.uber.org/zap"
)

// ImageDownloader fetches the bytes of a source image
type ImageDownloader interface {
	Download(ctx context.Context, rawURL string) ([]byte, error)
}

// Resolved is an image that exists as a PIM asset. Index is the image's
// place among the product's valid images.
type Resolved struct {
	Index    int
	Position int
	Code     string
}

// Resolver makes sure every image of a product exists as a PIM asset,
// creating the missing ones
type Resolver struct {
	uploader   Uploader
	downloader ImageDownloader
	logger     *zap.Logger
	progress   io.Writer
}

// NewResolver is the factory for the Resolver. Human readable progress
// lines are written to progress.
func NewResolver(u Uploader, d ImageDownloader, logger *zap.Logger, progress io.Writer) *Resolver {
	return &Resolver{
		uploader:   u,
		downloader: d,
		logger:     logger,
		progress:   progress,
	}
}

// Resolve returns the asset codes of images in input order. An image that
// fails any step is reported in the returned errors and skipped; the
// remaining images are still processed.
func (r *Resolver) Resolve(ctx context.Context, sku string, images []catalog.ImageDescriptor) ([]Resolved, []*Error) {
	var (
		resolved []Resolved
		failures []*Error
	)

	for idx, d := range images {
		img := NewImage(d)

		if err := r.ensure(ctx, sku, img); err != nil {
			r.logger.Error("asset not resolved",
				zap.String("sku", sku),
				zap.String("asset_code", img.Code),
				zap.String("kind", string(err.Kind)),
				zap.Error(err.Err),
			)
			failures = append(failures, err)
			continue
		}

		resolved = append(resolved, Resolved{Index: idx, Position: d.SortKey(), Code: img.Code})
	}

	return resolved, failures
}

// ensure runs search, download, upload and upsert for one image,
// stopping at the first step that fails
func (r *Resolver) ensure(ctx context.Context, sku string, img *Image) *Error {
	fail := func(kind Kind, err error) *Error {
		return &Error{Kind: kind, SKU: sku, AssetCode: img.Code, Err: err}
	}

	exists, err := r.uploader.FindAsset(ctx, img.Code)
	if err != nil {
		fmt.Fprintf(r.progress, "Skipping Asset %s: search error: %s\n", img.Code, err)
		return fail(KindAssetSearch, err)
	}
	if exists {
		r.logger.Info("asset exists", zap.String("asset_code", img.Code))
		fmt.Fprintf(r.progress, "Skipping Asset %s: already exists\n", img.Code)
		return nil
	}

	bs, err := r.downloader.Download(ctx, img.SourceURL)
	if err != nil {
		fmt.Fprintf(r.progress, "Skipping Asset %s: download error: %s\n", img.Code, err)
		return fail(KindDownload, fmt.Errorf("%s: %w", img.SourceURL, err))
	}
	img.SetContents(bs)

	fmt.Fprintf(r.progress, "Uploading media for Asset derived from '%s'\n", img.Filename)
	if err := r.uploader.UploadMedia(ctx, img); err != nil {
		fmt.Fprintf(r.progress, "Fail: media upload for %s: %s\n", img.Code, err)
		if errors.Is(err, ErrMissingMediaFileCode) {
			return fail(KindMissingMediaCode, err)
		}
		return fail(KindMediaUpload, err)
	}
	fmt.Fprintf(r.progress, "Success: (id:%s)\n", img.MediaFileCode)

	fmt.Fprintf(r.progress, "Creating Asset %s\n", img.Code)
	if err := r.uploader.UpsertAsset(ctx, img); err != nil {
		fmt.Fprintf(r.progress, "Fail: creating Asset %s: %s\n", img.Code, err)
		return fail(KindAssetUpsert, err)
	}
	fmt.Fprintf(r.progress, "Success: (id:%s)\n", img.Code)

	r.logger.Info("created asset", zap.String("asset_code", img.Code), zap.Int64("size", img.Size()))
	return nil
}
