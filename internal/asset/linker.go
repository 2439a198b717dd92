package asset

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

const mainPosition = 1

// Linker attaches resolved assets to the product they belong to
type Linker struct {
	associater Associater
	logger     *zap.Logger
	progress   io.Writer
}

// NewLinker is the factory for the Linker
func NewLinker(a Associater, logger *zap.Logger, progress io.Writer) *Linker {
	return &Linker{associater: a, logger: logger, progress: progress}
}

// Lookup checks that exactly one product carries sku.
func (l *Linker) Lookup(ctx context.Context, sku string) *Error {
	items, err := l.associater.FindProducts(ctx, sku)
	if err != nil {
		l.logger.Error("product search failed", zap.String("sku", sku), zap.Error(err))
		return &Error{Kind: KindProductSearch, SKU: sku, Err: err}
	}

	switch {
	case len(items) == 0:
		l.logger.Error("product not found", zap.String("sku", sku))
		fmt.Fprintf(l.progress, "Skipping Product %s: not found by SKU\n", sku)
		return &Error{Kind: KindNotFound, SKU: sku}
	case len(items) > 1:
		l.logger.Error("multiple products found", zap.String("sku", sku), zap.Int("matches", len(items)))
		fmt.Fprintf(l.progress, "Skipping Product %s: multiple products found for SKU\n", sku)
		return &Error{Kind: KindAmbiguous, SKU: sku}
	}

	return nil
}

// Link writes the resolved asset codes to the product's image attributes.
// Nothing is written when no asset was resolved.
func (l *Linker) Link(ctx context.Context, sku string, resolved []Resolved) *Error {
	if len(resolved) == 0 {
		l.logger.Error("no assets created or found, skipping product update", zap.String("sku", sku))
		fmt.Fprintf(l.progress, "Skipping Product %s: no assets to link\n", sku)
		return &Error{Kind: KindNoAssets, SKU: sku}
	}

	links := Partition(resolved)

	fmt.Fprintf(l.progress, "Updating Product %s\n", sku)
	if err := l.associater.UpdateProductImages(ctx, sku, links); err != nil {
		l.logger.Error("product update failed", zap.String("sku", sku), zap.Error(err))
		fmt.Fprintf(l.progress, "Fail: updating Product %s: %s\n", sku, err)
		return &Error{Kind: KindProductUpdate, SKU: sku, Err: err}
	}
	fmt.Fprintf(l.progress, "Success: (id:%s)\n", sku)

	l.logger.Info("product updated",
		zap.String("sku", sku),
		zap.String("main", links.Main),
		zap.Strings("others", links.Others),
	)
	return nil
}

// Partition splits resolved codes into the main image and the others. The
// main image is the first valid image when its position is 1 and its asset
// was resolved; every other code keeps its order in Others.
func Partition(resolved []Resolved) ImageLinks {
	links := ImageLinks{Others: make([]string, 0, len(resolved))}

	for i, r := range resolved {
		if i == 0 && r.Index == 0 && r.Position == mainPosition {
			links.Main = r.Code
			continue
		}
		links.Others = append(links.Others, r.Code)
	}

	return links
}
