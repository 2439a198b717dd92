// Package importer drives a synchronization run over all product records.
package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/briand787b/pimasst/internal/asset"
	"github.com/briand787b/pimasst/internal/catalog"
	"go.uber.org/zap"
)

// AssetResolver makes sure a product's images exist as assets
type AssetResolver interface {
	Resolve(ctx context.Context, sku string, images []catalog.ImageDescriptor) ([]asset.Resolved, []*asset.Error)
}

// ProductLinker finds a product and links assets to it
type ProductLinker interface {
	Lookup(ctx context.Context, sku string) *asset.Error
	Link(ctx context.Context, sku string, resolved []asset.Resolved) *asset.Error
}

// Importer processes product records one after another.
type Importer struct {
	resolver AssetResolver
	linker   ProductLinker
	logger   *zap.Logger
	progress io.Writer
}

// New is the factory for the Importer
func New(r AssetResolver, l ProductLinker, logger *zap.Logger, progress io.Writer) *Importer {
	return &Importer{resolver: r, linker: l, logger: logger, progress: progress}
}

// Run processes every product and returns the aggregated stats. A failing
// record never stops the run; a cancelled ctx skips the records not yet
// started.
func (im *Importer) Run(ctx context.Context, products []catalog.ProductRecord) *Stats {
	stats := &Stats{Total: len(products)}

	for i, p := range products {
		if err := ctx.Err(); err != nil {
			im.logger.Warn("run cancelled", zap.Int("remaining", len(products)-i), zap.Error(err))
			break
		}
		stats.Record(im.Process(ctx, p))
	}

	return stats
}

// Process synchronizes one product record. Panics are converted into an
// unhandled issue so the caller can carry on with the next record.
func (im *Importer) Process(ctx context.Context, p catalog.ProductRecord) (out Outcome) {
	out = Outcome{SKU: p.SKU, Status: StatusFailed}

	defer func() {
		if r := recover(); r != nil {
			im.logger.Error("Unhandled error", zap.String("sku", p.SKU), zap.Any("panic", r), zap.Stack("stack"))
			out.Status = StatusFailed
			out.addIssue((&asset.Error{Kind: asset.KindUnhandled, SKU: p.SKU, Err: fmt.Errorf("%v", r)}).Reason())
		}
	}()

	if p.SKU == "" {
		out.addIssue((&asset.Error{Kind: asset.KindMissingSKU}).Reason())
		return out
	}

	if err := im.linker.Lookup(ctx, p.SKU); err != nil {
		switch err.Kind {
		case asset.KindNotFound:
			out.Status = StatusNotFound
		case asset.KindAmbiguous:
			out.Status = StatusAmbiguous
		default:
			out.addIssue(err.Reason())
		}
		return out
	}

	valid := make([]catalog.ImageDescriptor, 0, len(p.Images))
	for _, img := range p.Images {
		if !img.Valid() {
			out.addIssue((&asset.Error{Kind: asset.KindInvalidImage, SKU: p.SKU}).Reason())
			continue
		}
		valid = append(valid, img)
	}
	catalog.SortImages(valid)

	if len(valid) == 0 {
		im.logger.Info("no valid images to process", zap.String("sku", p.SKU))
		fmt.Fprintf(im.progress, "Skipping Product %s: no valid images to process\n", p.SKU)
		out.addIssue("no valid images to process")
		return out
	}

	resolved, failures := im.resolver.Resolve(ctx, p.SKU, valid)
	for _, f := range failures {
		out.addIssue(f.Reason())
	}

	if err := im.linker.Link(ctx, p.SKU, resolved); err != nil {
		out.addIssue(err.Reason())
		return out
	}

	out.Status = StatusUpdated
	return out
}
