package asset

import "context"

// Associater abstracts the PIM calls required to link assets to a
// product
type Associater interface {
	FindProducts(ctx context.Context, sku string) ([]string, error)
	UpdateProductImages(ctx context.Context, sku string, links ImageLinks) error
}
