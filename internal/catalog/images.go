package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
)

// ProductImage fetches and decodes the picture of a product. Decoded images
// are kept in an LRU cache keyed by file name.
func (c *Client) ProductImage(ctx context.Context, name string) (image.Image, error) {
	if name == "" {
		return nil, errors.New("product has no image")
	}
	if img, ok := c.images.Get(name); ok {
		return img, nil
	}

	reqURL := c.assetBaseURL + "/images/products/" + url.PathEscape(name)
	body, err := c.get(ctx, reqURL, "image/*")
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", name, err)
	}
	c.images.Add(name, img)
	return img, nil
}
