package pim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/briand787b/pimasst/internal/asset"
)

const (
	mediaFilesPath        = "/api/rest/v1/asset-media-files"
	mediaFileCodeHeader   = "Asset-Media-File-Code"
	mediaFileFormField    = "file"
	assetFamilyAssetsPath = "/api/rest/v1/asset-families/%s/assets"
)

var _ asset.Uploader = (*Client)(nil)

// AssetListResponse is the response payload of an asset search
type AssetListResponse struct {
	Embedded struct {
		Items []struct {
			Code string `json:"code"`
		} `json:"items"`
	} `json:"_embedded"`
}

// AssetValue is one localizable, scopable value of an asset attribute
type AssetValue struct {
	Locale  *string `json:"locale"`
	Channel *string `json:"channel"`
	Data    string  `json:"data"`
}

// UpsertAssetRequest is the payload that creates or updates an asset
type UpsertAssetRequest struct {
	Code   string `json:"code"`
	Values struct {
		Label []AssetValue `json:"label"`
		Media []AssetValue `json:"media"`
	} `json:"values"`
}

// FindAsset reports whether an asset with code exists in the configured
// asset family.
func (c *Client) FindAsset(ctx context.Context, code string) (bool, error) {
	search, err := json.Marshal(map[string][]searchFilter{
		"code": {{Operator: "IN", Value: []string{code}}},
	})
	if err != nil {
		return false, fmt.Errorf("could not marshal asset search: %w", err)
	}

	resp, err := c.Get(ctx, c.assetsPath(), url.Values{"search": {string(search)}})
	if err != nil {
		return false, fmt.Errorf("asset search: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return false, newStatusError("Asset search", resp)
	}

	var list AssetListResponse
	if err := json.Unmarshal(resp.Body, &list); err != nil {
		return false, fmt.Errorf("could not unmarshal %s into %T: %w", string(resp.Body), list, err)
	}

	return len(list.Embedded.Items) > 0, nil
}

// UploadMedia uploads the image bytes and stores the resulting media file
// code on i.
func (c *Client) UploadMedia(ctx context.Context, i *asset.Image) error {
	resp, err := c.PostMultipart(ctx, mediaFilesPath, MultipartFile{
		Field:       mediaFileFormField,
		Filename:    i.Filename,
		ContentType: i.MimeType,
		Content:     i.Contents(),
	}, map[string]string{"Accept": "*/*"})
	if err != nil {
		return fmt.Errorf("media upload: %w", err)
	}

	if !statusIn(resp.StatusCode, http.StatusCreated, http.StatusAccepted) {
		return newStatusError("Media upload", resp)
	}

	code := resp.Header.Get(mediaFileCodeHeader)
	if code == "" {
		return asset.ErrMissingMediaFileCode
	}

	i.MediaFileCode = code
	return nil
}

// UpsertAsset creates or updates the asset for i, labelled with its
// filename and pointing at its uploaded media file.
func (c *Client) UpsertAsset(ctx context.Context, i *asset.Image) error {
	locale := c.catalog.LabelLocale

	payload := UpsertAssetRequest{Code: i.Code}
	payload.Values.Label = []AssetValue{{Locale: &locale, Data: i.Filename}}
	payload.Values.Media = []AssetValue{{Data: i.MediaFileCode}}

	resp, err := c.Patch(ctx, c.assetsPath()+"/"+url.PathEscape(i.Code), payload, nil)
	if err != nil {
		return fmt.Errorf("asset upsert: %w", err)
	}

	if !statusIn(resp.StatusCode, http.StatusCreated, http.StatusNoContent) {
		return newStatusError("Asset upsert", resp)
	}

	return nil
}

func (c *Client) assetsPath() string {
	return fmt.Sprintf(assetFamilyAssetsPath, url.PathEscape(c.catalog.AssetFamily))
}
