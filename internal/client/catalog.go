// ABOUTME: Combined catalog fetch for screens that need products and tags together
// ABOUTME: Runs both requests in parallel and fails fast on the first error

package client

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Catalog fetches products and tags in parallel
func (c *Client) Catalog(ctx context.Context) ([]Product, []Tag, error) {
	g, ctx := errgroup.WithContext(ctx)

	var products []Product
	var tags []Tag

	g.Go(func() error {
		var err error
		products, err = c.Products(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = c.Tags(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return products, tags, nil
}
