// Package page holds a storefront HTML page in memory and exposes the parts the
// cart controller works with: add-to-cart forms and cart rows.
//
// A Document serializes all access behind one mutex, so handlers running on
// different goroutines observe tree mutations one at a time. Nothing orders
// those mutations relative to each other.
package page

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"golang.org/x/net/html"
)

type Option func(*options)

type options struct {
	formClass     string
	productIDAttr string
	rowIDPrefix   string
}

func WithFormClass(class string) Option {
	return func(o *options) { o.formClass = class }
}

func WithProductIDAttr(attr string) Option {
	return func(o *options) { o.productIDAttr = attr }
}

func WithRowIDPrefix(prefix string) Option {
	return func(o *options) { o.rowIDPrefix = prefix }
}

type Document struct {
	opts options

	mu    sync.Mutex
	root  *html.Node
	forms map[*html.Node]*Form
}

var _ port.Page = (*Document)(nil)

func Parse(r io.Reader, opts ...Option) (*Document, error) {
	o := options{
		formClass:     "add-to-cart-form",
		productIDAttr: "data-product-id",
		rowIDPrefix:   "cart-item-",
	}
	for _, opt := range opts {
		opt(&o)
	}

	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("html.Parse: %w", err)
	}

	return &Document{
		opts:  o,
		root:  root,
		forms: make(map[*html.Node]*Form),
	}, nil
}

// Forms returns the add-to-cart forms in document order. The same node always
// yields the same *Form, so handlers survive repeated lookups.
func (d *Document) Forms() []*Form {
	d.mu.Lock()
	defer d.mu.Unlock()

	var forms []*Form
	walk(d.root, func(n *html.Node) bool {
		if n.Data == "form" && hasClass(n, d.opts.formClass) {
			f, ok := d.forms[n]
			if !ok {
				f = &Form{doc: d, node: n}
				d.forms[n] = f
			}
			forms = append(forms, f)
		}
		return true
	})

	return forms
}

func (d *Document) AddToCartForms() []port.Form {
	forms := d.Forms()

	result := make([]port.Form, 0, len(forms))
	for _, f := range forms {
		result = append(result, f)
	}

	return result
}

// RemoveCartItem detaches the row with id row prefix + itemID. It reports
// false when no such row is attached.
func (d *Document) RemoveCartItem(itemID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := d.findByID(d.opts.rowIDPrefix + itemID)
	if n == nil || n.Parent == nil {
		return false
	}

	n.Parent.RemoveChild(n)
	return true
}

// CartRows lists the rendered cart rows. Quantity and price attributes are
// optional; malformed values are an error.
func (d *Document) CartRows() ([]domain.CartLine, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var (
		rows   []domain.CartLine
		rowErr error
	)
	walk(d.root, func(n *html.Node) bool {
		id := getAttr(n, "id")
		if !strings.HasPrefix(id, d.opts.rowIDPrefix) || id == d.opts.rowIDPrefix {
			return true
		}

		row, err := d.mapRow(n, strings.TrimPrefix(id, d.opts.rowIDPrefix))
		if err != nil {
			rowErr = fmt.Errorf("row[%s]: %w", id, err)
			return false
		}
		rows = append(rows, row)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	return rows, nil
}

func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("html.Render: %w", err)
	}

	return nil
}

func (d *Document) mapRow(n *html.Node, itemID string) (domain.CartLine, error) {
	row := domain.CartLine{
		ItemID:    itemID,
		ProductID: getAttr(n, d.opts.productIDAttr),
	}

	if q := getAttr(n, "data-quantity"); q != "" {
		quantity, err := strconv.Atoi(q)
		if err != nil {
			return domain.CartLine{}, fmt.Errorf("strconv.Atoi: %w", err)
		}
		row.Quantity = quantity
	}

	amount, cur := getAttr(n, "data-price"), getAttr(n, "data-currency")
	if amount != "" || cur != "" {
		price, err := domain.ParseMoney(amount, cur)
		if err != nil {
			return domain.CartLine{}, fmt.Errorf("domain.ParseMoney: %w", err)
		}
		row.Price = &price
	}

	return row, nil
}

func (d *Document) findByID(id string) *html.Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if getAttr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// walk visits element nodes depth first until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if n.Type == html.ElementNode && !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
