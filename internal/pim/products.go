package pim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/briand787b/pimasst/internal/asset"
)

const productsPath = "/api/rest/v1/products"

var _ asset.Associater = (*Client)(nil)

type searchFilter struct {
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// ProductListResponse is the response payload of a product search
type ProductListResponse struct {
	Embedded struct {
		Items []struct {
			Identifier string `json:"identifier"`
			Family     string `json:"family"`
		} `json:"items"`
	} `json:"_embedded"`
}

// ProductValue is one localizable, scopable value of a product attribute
type ProductValue struct {
	Locale *string  `json:"locale"`
	Scope  *string  `json:"scope"`
	Data   []string `json:"data"`
}

// UpdateProductRequest is the payload that patches product values
type UpdateProductRequest struct {
	Values map[string][]ProductValue `json:"values"`
}

// FindProducts returns the identifiers of all products whose identifier
// equals sku.
func (c *Client) FindProducts(ctx context.Context, sku string) ([]string, error) {
	search, err := json.Marshal(map[string][]searchFilter{
		"identifier": {{Operator: "=", Value: sku}},
	})
	if err != nil {
		return nil, fmt.Errorf("could not marshal product search: %w", err)
	}

	resp, err := c.Get(ctx, productsPath, url.Values{"search": {string(search)}})
	if err != nil {
		return nil, fmt.Errorf("product search: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newStatusError("Product search", resp)
	}

	var list ProductListResponse
	if err := json.Unmarshal(resp.Body, &list); err != nil {
		return nil, fmt.Errorf("could not unmarshal %s into %T: %w", string(resp.Body), list, err)
	}

	ids := make([]string, len(list.Embedded.Items))
	for i, item := range list.Embedded.Items {
		ids[i] = item.Identifier
	}
	return ids, nil
}

// UpdateProductImages sets the product's main and other image attributes.
// The main attribute is left out when links.Main is empty; the other
// attribute is always sent, possibly as an empty list.
func (c *Client) UpdateProductImages(ctx context.Context, sku string, links asset.ImageLinks) error {
	others := links.Others
	if others == nil {
		others = []string{}
	}

	payload := UpdateProductRequest{Values: map[string][]ProductValue{
		c.catalog.OtherAttribute: {{Data: others}},
	}}
	if links.Main != "" {
		payload.Values[c.catalog.MainAttribute] = []ProductValue{{Data: []string{links.Main}}}
	}

	resp, err := c.Patch(ctx, productsPath+"/"+url.PathEscape(sku), payload, nil)
	if err != nil {
		return fmt.Errorf("product update: %w", err)
	}

	if !statusIn(resp.StatusCode, http.StatusCreated, http.StatusNoContent) {
		return newStatusError("Product update", resp)
	}

	return nil
}
