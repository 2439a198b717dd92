package asset

import (
	"errors"
	"fmt"
)

// ErrMissingMediaFileCode is returned by an Uploader when the upload was
// accepted but the response did not name the stored media file.
var ErrMissingMediaFileCode = errors.New("missing asset-media-file-code in response headers")

// Kind classifies a failure while synchronizing one product
type Kind string

const (
	KindMissingSKU       Kind = "missing_sku"
	KindInvalidImage     Kind = "invalid_image"
	KindAssetSearch      Kind = "asset_search"
	KindDownload         Kind = "download"
	KindMediaUpload      Kind = "media_upload"
	KindMissingMediaCode Kind = "missing_media_code"
	KindAssetUpsert      Kind = "asset_upsert"
	KindProductSearch    Kind = "product_search"
	KindNotFound         Kind = "not_found"
	KindAmbiguous        Kind = "ambiguous"
	KindNoAssets         Kind = "no_assets"
	KindProductUpdate    Kind = "product_update"
	KindUnhandled        Kind = "unhandled"
)

// Error is a failure of one step for one product or image.
type Error struct {
	Kind      Kind
	SKU       string
	AssetCode string
	Err       error
}

func (e *Error) Error() string {
	return e.Reason()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Reason is the text recorded in the run summary.
func (e *Error) Reason() string {
	switch e.Kind {
	case KindMissingSKU:
		return "Missing sku"
	case KindInvalidImage:
		return "Invalid image entry"
	case KindNotFound:
		return "not found"
	case KindAmbiguous:
		return "multiple products found"
	case KindNoAssets:
		return "no assets to link"
	case KindDownload:
		return fmt.Sprintf("download error: %s", e.Err)
	case KindMediaUpload, KindMissingMediaCode:
		return fmt.Sprintf("media upload error: %s", e.Err)
	case KindAssetUpsert:
		return fmt.Sprintf("asset upsert error: %s", e.Err)
	case KindProductUpdate:
		return fmt.Sprintf("product update error: %s", e.Err)
	case KindUnhandled:
		return fmt.Sprintf("Unhandled: %s", e.Err)
	}

	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}
