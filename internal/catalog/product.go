// Package catalog reads the product image export into product records.
package catalog

import (
	"sort"

	"github.com/go-playground/validator/v10"
)

// missingPosition orders images without a position after all others
const missingPosition = 9999

var validate = validator.New()

// ProductRecord is one product and the images listed for it in the export
type ProductRecord struct {
	SKU    string
	Name   string
	Images []ImageDescriptor
}

// ImageDescriptor describes one source image of a product. Position 1 is
// the product's main image; a nil Position means the export had none.
type ImageDescriptor struct {
	URL         string `validate:"required"`
	SEOFilename string `validate:"required"`
	Position    *int   `validate:"required"`
}

// Pos returns n as an explicit image position.
func Pos(n int) *int {
	return &n
}

// Valid reports whether the descriptor carries a URL, a filename and a
// position.
func (d ImageDescriptor) Valid() bool {
	return validate.Struct(d) == nil
}

// SortKey is the position used for ordering.
func (d ImageDescriptor) SortKey() int {
	if d.Position == nil {
		return missingPosition
	}
	return *d.Position
}

// SortImages orders images by ascending position, keeping file order for
// equal positions.
func SortImages(images []ImageDescriptor) {
	sort.SliceStable(images, func(i, j int) bool {
		return images[i].SortKey() < images[j].SortKey()
	})
}
