package page

import (
	"context"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"golang.org/x/net/html"
)

// Form is an add-to-cart form on a Document.
type Form struct {
	doc      *Document
	node     *html.Node
	handlers []port.SubmitHandler
}

var _ port.Form = (*Form)(nil)

func (f *Form) ProductID() string {
	f.doc.mu.Lock()
	defer f.doc.mu.Unlock()

	return getAttr(f.node, f.doc.opts.productIDAttr)
}

func (f *Form) OnSubmit(h port.SubmitHandler) {
	if h == nil {
		return
	}

	f.doc.mu.Lock()
	defer f.doc.mu.Unlock()

	f.handlers = append(f.handlers, h)
}

// Submit dispatches a submit event to the handlers in registration order. The
// caller performs the native submission only if no handler prevented it.
func (f *Form) Submit(ctx context.Context) *domain.SubmitEvent {
	f.doc.mu.Lock()
	handlers := append([]port.SubmitHandler(nil), f.handlers...)
	f.doc.mu.Unlock()

	e := &domain.SubmitEvent{}
	for _, h := range handlers {
		h(ctx, e)
	}

	return e
}
