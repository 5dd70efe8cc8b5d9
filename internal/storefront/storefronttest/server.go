// Package storefronttest runs an in-process storefront backend for tests.
package storefronttest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

type Route string

const (
	RouteAdd    Route = "add"
	RouteUpdate Route = "update"
	RouteRemove Route = "remove"
)

// Request is a call received by the server.
type Request struct {
	Route  Route
	ID     string
	Path   string
	Header http.Header
	Body   []byte
}

type reply struct {
	status int
	body   []byte
}

// Server answers the cart endpoints with canned replies, 200 {"success":true}
// unless told otherwise.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
	replies  map[Route]reply
	hold     chan struct{}
}

func New(tb testing.TB) *Server {
	tb.Helper()

	gin.SetMode(gin.TestMode)

	s := &Server{replies: make(map[Route]reply)}

	r := gin.New()
	r.UseRawPath = true
	r.UnescapePathValues = true

	r.POST("/add-to-cart/:productId", s.handle(RouteAdd, "productId"))
	r.POST("/cart/update/:itemId", s.handle(RouteUpdate, "itemId"))
	r.POST("/cart/remove/:itemId", s.handle(RouteRemove, "itemId"))

	s.Server = httptest.NewServer(r)
	tb.Cleanup(s.Close)

	return s
}

// Reply sets the JSON reply for route.
func (s *Server) Reply(route Route, status int, body any) {
	b, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	s.ReplyRaw(route, status, string(b))
}

// ReplyRaw sets a reply body that is sent verbatim, valid JSON or not.
func (s *Server) ReplyRaw(route Route, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[route] = reply{status: status, body: []byte(body)}
}

// Hold makes every handler block until the returned function is called.
func (s *Server) Hold() (release func()) {
	ch := make(chan struct{})

	s.mu.Lock()
	s.hold = ch
	s.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) handle(route Route, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Route:  route,
			ID:     c.Param(param),
			Path:   c.Request.URL.EscapedPath(),
			Header: c.Request.Header.Clone(),
			Body:   body,
		})
		rep, ok := s.replies[route]
		hold := s.hold
		s.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-c.Request.Context().Done():
				return
			}
		}

		if !ok {
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}

		c.Data(rep.status, "application/json", rep.body)
	}
}
