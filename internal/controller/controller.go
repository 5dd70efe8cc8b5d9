// Package controller turns storefront page actions into cart calls and
// reflects their outcome back onto the page and to the user.
//
// Every operation is one independent request/response exchange. Nothing is
// retried, and operations on the same item are not serialized: overlapping
// calls may complete in any order.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/logkey"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"golang.org/x/sync/errgroup"
)

// ErrCartRowNotFound is logged when a removed item has no row on the page.
var ErrCartRowNotFound = errors.New("cart row not found")

const logRequestFailed = "Error"

// Messages are the texts shown to the user and written to the log.
type Messages struct {
	Ready         string
	AddSuccess    string
	AddError      string
	AddFailure    string
	UpdateSuccess string
	UpdateError   string
	UpdateFailure string
	RemoveSuccess string
	RemoveError   string
	RemoveFailure string
}

func DefaultMessages() Messages {
	return Messages{
		Ready:         "Page loaded and ready.",
		AddSuccess:    "Product added to cart successfully!",
		AddError:      "Error adding to cart",
		AddFailure:    "An error occurred while trying to add the product.",
		UpdateSuccess: "Quantity updated successfully",
		UpdateError:   "Error updating quantity",
		UpdateFailure: "An error occurred while updating the quantity.",
		RemoveSuccess: "Item removed from cart",
		RemoveError:   "Error removing item",
		RemoveFailure: "An error occurred while trying to remove the item from the cart.",
	}
}

type Option func(*Controller)

// WithMessages replaces the default texts. Empty fields keep their default.
func WithMessages(m Messages) Option {
	return func(c *Controller) {
		c.messages = mergeMessages(c.messages, m)
	}
}

type Controller struct {
	api      port.CartAPI
	notifier port.Notifier
	page     port.Page
	messages Messages

	bindOnce sync.Once
	inflight errgroup.Group
}

func New(api port.CartAPI, notifier port.Notifier, page port.Page, opts ...Option) (*Controller, error) {
	if api == nil {
		return nil, fmt.Errorf("api is nil")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is nil")
	}
	if page == nil {
		return nil, fmt.Errorf("page is nil")
	}

	c := &Controller{
		api:      api,
		notifier: notifier,
		page:     page,
		messages: DefaultMessages(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Bind is the page-ready hook. Each add-to-cart form gets a submit handler that
// prevents the native submission and adds the form's product in the
// background. It returns the number of forms bound; calls after the first
// attach nothing and return 0.
func (c *Controller) Bind() int {
	bound := 0
	c.bindOnce.Do(func() {
		bound = c.bind()
	})
	return bound
}

func (c *Controller) bind() int {
	forms := c.page.AddToCartForms()
	for _, form := range forms {
		form.OnSubmit(func(ctx context.Context, e *domain.SubmitEvent) {
			e.PreventDefault()
			productID := form.ProductID()
			c.inflight.Go(func() error {
				c.AddToCart(ctx, productID)
				return nil
			})
		})
	}

	c.notifier.Log(c.messages.Ready, map[string]any{logkey.Forms: len(forms)})

	return len(forms)
}

// Wait blocks until every action started by a form submission has finished.
func (c *Controller) Wait() {
	_ = c.inflight.Wait()
}

// AddToCart adds one unit of productID and alerts the outcome.
func (c *Controller) AddToCart(ctx context.Context, productID string) {
	resp, err := c.api.AddItem(ctx, productID)
	if err != nil {
		c.notifier.LogError(logRequestFailed, fmt.Errorf("%s[%s]: %w", logkey.ProductID, productID, err))
		c.notifier.Alert(c.messages.AddFailure)
		return
	}

	if !resp.OK {
		c.notifier.Alert(withReason(c.messages.AddError, resp))
		return
	}

	// TODO: refresh the cart badge once the storefront returns the cart size
	c.notifier.Alert(c.messages.AddSuccess)
}

// UpdateCartQuantity sets the quantity of itemID. Success is only logged.
func (c *Controller) UpdateCartQuantity(ctx context.Context, itemID string, quantity int) {
	resp, err := c.api.UpdateQuantity(ctx, itemID, quantity)
	if err != nil {
		c.notifier.LogError(logRequestFailed, fmt.Errorf("%s[%s]: %w", logkey.ItemID, itemID, err))
		c.notifier.Alert(c.messages.UpdateFailure)
		return
	}

	if !resp.OK {
		c.notifier.LogError(c.messages.UpdateError, fmt.Errorf("%s[%s]: %w", logkey.ItemID, itemID, &domain.ResponseError{Response: resp}))
		c.notifier.Alert(withReason(c.messages.UpdateError, resp))
		return
	}

	c.notifier.Log(c.messages.UpdateSuccess, resp.Data)
}

// RemoveFromCart removes itemID and, on success only, its row from the page.
func (c *Controller) RemoveFromCart(ctx context.Context, itemID string) {
	resp, err := c.api.RemoveItem(ctx, itemID)
	if err != nil {
		c.notifier.LogError(logRequestFailed, fmt.Errorf("%s[%s]: %w", logkey.ItemID, itemID, err))
		c.notifier.Alert(c.messages.RemoveFailure)
		return
	}

	if !resp.OK {
		c.notifier.LogError(c.messages.RemoveError, fmt.Errorf("%s[%s]: %w", logkey.ItemID, itemID, &domain.ResponseError{Response: resp}))
		c.notifier.Alert(withReason(c.messages.RemoveError, resp))
		return
	}

	c.notifier.Log(c.messages.RemoveSuccess, resp.Data)

	if !c.page.RemoveCartItem(itemID) {
		c.notifier.LogError(logRequestFailed, fmt.Errorf("%w: %s[%s]", ErrCartRowNotFound, logkey.ItemID, itemID))
		c.notifier.Alert(c.messages.RemoveFailure)
	}
}

func withReason(prefix string, resp domain.Response) string {
	return prefix + ": " + resp.Message()
}

func mergeMessages(base, override Messages) Messages {
	pick := func(def, v string) string {
		if v == "" {
			return def
		}
		return v
	}

	return Messages{
		Ready:         pick(base.Ready, override.Ready),
		AddSuccess:    pick(base.AddSuccess, override.AddSuccess),
		AddError:      pick(base.AddError, override.AddError),
		AddFailure:    pick(base.AddFailure, override.AddFailure),
		UpdateSuccess: pick(base.UpdateSuccess, override.UpdateSuccess),
		UpdateError:   pick(base.UpdateError, override.UpdateError),
		UpdateFailure: pick(base.UpdateFailure, override.UpdateFailure),
		RemoveSuccess: pick(base.RemoveSuccess, override.RemoveSuccess),
		RemoveError:   pick(base.RemoveError, override.RemoveError),
		RemoveFailure: pick(base.RemoveFailure, override.RemoveFailure),
	}
}
