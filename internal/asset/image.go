package asset

import (
	"bytes"
	"io"
	"mime"
	"path/filepath"

	"github.com/briand787b/pimasst/internal/catalog"
)

const mimeTypeFallback = "application/octet-stream"

// Image is a product image on its way to becoming a PIM asset
type Image struct {
	Code      string
	Filename  string
	SourceURL string
	Position  int
	MimeType  string

	// MediaFileCode is set once the bytes have been uploaded
	MediaFileCode string

	contents []byte
}

// NewImage is the factory for creating an Image from an export descriptor
func NewImage(d catalog.ImageDescriptor) *Image {
	mimeType := mime.TypeByExtension(filepath.Ext(d.SEOFilename))
	if mimeType == "" {
		mimeType = mimeTypeFallback
	}

	return &Image{
		Code:      Code(d.SEOFilename),
		Filename:  d.SEOFilename,
		SourceURL: d.URL,
		Position:  d.SortKey(),
		MimeType:  mimeType,
	}
}

func (i *Image) SetContents(bs []byte) {
	i.contents = bs
}

func (i *Image) Contents() io.Reader {
	return bytes.NewReader(i.contents)
}

func (i *Image) Size() int64 {
	return int64(len(i.contents))
}

// ImageLinks are the asset codes written to a product's image attributes.
// An empty Main leaves the main image attribute untouched.
type ImageLinks struct {
	Main   string
	Others []string
}
