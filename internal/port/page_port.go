package port

import (
	"context"

	"github.com/nikolayk812/storefront-cart/internal/domain"
)

type SubmitHandler func(ctx context.Context, e *domain.SubmitEvent)

type Form interface {
	ProductID() string
	OnSubmit(h SubmitHandler)
}

type Page interface {
	AddToCartForms() []Form
	RemoveCartItem(itemID string) bool
}
