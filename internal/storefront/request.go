package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/logkey"
	"go.uber.org/zap"
)

const maxBodySize = 1 << 20

var (
	// ErrTransport wraps failures to get any response from the storefront.
	ErrTransport = errors.New("storefront: transport failure")
	// ErrDecode wraps responses whose body is not valid JSON.
	ErrDecode = errors.New("storefront: malformed response")
	// ErrTooLarge wraps responses whose body exceeds maxBodySize.
	ErrTooLarge = errors.New("storefront: response too large")
)

// post sends one POST to url and decodes the JSON reply. A nil payload sends
// no body and no Content-Type.
func (c *cartClient) post(ctx context.Context, url string, payload any) (_ domain.Response, callErr error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return domain.Response{}, fmt.Errorf("json.Marshal: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return domain.Response{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.logger.With(zap.String(logkey.RequestID, requestID), zap.String(logkey.Path, req.URL.EscapedPath()))
	log.Debug("storefront request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Response{}, fmt.Errorf("%w: httpClient.Do: %w", ErrTransport, err)
	}

	defer func() {
		closeErr := resp.Body.Close()
		if closeErr == nil {
			return
		}
		if callErr != nil {
			callErr = errors.Join(callErr, fmt.Errorf("resp.Body.Close: %w", closeErr))
			return
		}
		log.Warn("resp.Body.Close", zap.String(logkey.ERROR, closeErr.Error()))
	}()

	log.Debug("storefront response", zap.Int(logkey.Status, resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return domain.Response{}, fmt.Errorf("%w: io.ReadAll: %w", ErrTransport, err)
	}
	if len(raw) > maxBodySize {
		return domain.Response{}, fmt.Errorf("%w: status[%d]: body exceeds %d bytes", ErrTooLarge, resp.StatusCode, maxBodySize)
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return domain.Response{}, fmt.Errorf("%w: status[%d]: json.Unmarshal: %w", ErrDecode, resp.StatusCode, err)
	}

	return domain.Response{
		Status: resp.StatusCode,
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Data:   data,
	}, nil
}
