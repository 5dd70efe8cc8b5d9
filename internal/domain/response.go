package domain

import (
	"fmt"
	"net/http"
)

// Response is a decoded storefront reply. OK is true for 2xx statuses and Data
// holds the decoded JSON document.
type Response struct {
	Status int
	OK     bool
	Data   any
}

// Body returns Data when it is a JSON object, nil otherwise.
func (r Response) Body() map[string]any {
	m, _ := r.Data.(map[string]any)
	return m
}

// Message returns the server supplied error text. A string message is returned
// verbatim, even when empty. Otherwise detail and error are tried in that
// order before the status text.
func (r Response) Message() string {
	body := r.Body()
	if s, ok := body["message"].(string); ok {
		return s
	}
	for _, key := range []string{"message", "detail", "error"} {
		v, ok := body[key]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			if s != "" {
				return s
			}
			continue
		}
		return fmt.Sprint(v)
	}

	return http.StatusText(r.Status)
}

// ResponseError reports a non-2xx storefront reply.
type ResponseError struct {
	Response Response
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("status[%d]: %s", e.Response.Status, e.Response.Message())
}
