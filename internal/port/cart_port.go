package port

import (
	"context"

	"github.com/nikolayk812/storefront-cart/internal/domain"
)

// CartAPI issues the storefront cart calls. A non-2xx reply is returned as a
// Response with OK unset, not as an error.
type CartAPI interface {
	AddItem(ctx context.Context, productID string) (domain.Response, error)
	UpdateQuantity(ctx context.Context, itemID string, quantity int) (domain.Response, error)
	RemoveItem(ctx context.Context, itemID string) (domain.Response, error)
}
