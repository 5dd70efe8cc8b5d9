package storefront_test

import (
	"fmt"
	"testing"

	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/nikolayk812/storefront-cart/internal/storefront"
	"github.com/nikolayk812/storefront-cart/internal/storefront/storefronttest"
)

func startStorefront(tb testing.TB, opts ...storefront.Option) (*storefronttest.Server, port.CartAPI, error) {
	srv := storefronttest.New(tb)

	api, err := storefront.New(srv.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("storefront.New: %w", err)
	}

	return srv, api, nil
}
