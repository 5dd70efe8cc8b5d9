package storefront

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"go.uber.org/zap"
)

const (
	addPath    = "/add-to-cart/"
	updatePath = "/cart/update/"
	removePath = "/cart/remove/"
)

type cartClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*options)

type options struct {
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithTimeout bounds every call. Zero, the default, leaves calls unbounded.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func New(baseURL string, opts ...Option) (port.CartAPI, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is empty")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("url.Parse: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("baseURL[%s] is not absolute", baseURL)
	}

	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = cleanhttp.DefaultPooledClient()
	}
	if o.timeout > 0 {
		c := *httpClient
		c.Timeout = o.timeout
		httpClient = &c
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	return &cartClient{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: httpClient,
		logger:     o.logger,
	}, nil
}

func (c *cartClient) AddItem(ctx context.Context, productID string) (domain.Response, error) {
	if productID == "" {
		return domain.Response{}, fmt.Errorf("productID is empty")
	}

	resp, err := c.post(ctx, c.endpoint(addPath, productID), domain.QuantityUpdate{Quantity: 1})
	if err != nil {
		return domain.Response{}, fmt.Errorf("c.post: %w", err)
	}

	return resp, nil
}

func (c *cartClient) UpdateQuantity(ctx context.Context, itemID string, quantity int) (domain.Response, error) {
	if itemID == "" {
		return domain.Response{}, fmt.Errorf("itemID is empty")
	}

	resp, err := c.post(ctx, c.endpoint(updatePath, itemID), domain.QuantityUpdate{Quantity: quantity})
	if err != nil {
		return domain.Response{}, fmt.Errorf("c.post: %w", err)
	}

	return resp, nil
}

func (c *cartClient) RemoveItem(ctx context.Context, itemID string) (domain.Response, error) {
	if itemID == "" {
		return domain.Response{}, fmt.Errorf("itemID is empty")
	}

	resp, err := c.post(ctx, c.endpoint(removePath, itemID), nil)
	if err != nil {
		return domain.Response{}, fmt.Errorf("c.post: %w", err)
	}

	return resp, nil
}

func (c *cartClient) endpoint(prefix, id string) string {
	return c.baseURL + prefix + url.PathEscape(id)
}
