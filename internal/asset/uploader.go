package asset

import "context"

// Uploader abstracts the PIM calls required to make sure an image
// exists as an asset
type Uploader interface {
	FindAsset(ctx context.Context, code string) (bool, error)
	UploadMedia(ctx context.Context, i *Image) error
	UpsertAsset(ctx context.Context, i *Image) error
}
