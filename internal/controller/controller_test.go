package controller_test

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/nikolayk812/storefront-cart/internal/controller"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/notify"
	"github.com/nikolayk812/storefront-cart/internal/page"
	"github.com/nikolayk812/storefront-cart/internal/storefront"
	"github.com/nikolayk812/storefront-cart/internal/storefront/storefronttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cartPage = `<html><body>
<form class="add-to-cart-form" data-product-id="1"><button>Add</button></form>
<form class="add-to-cart-form" data-product-id="2"><button>Add</button></form>
<ul>
  <li id="cart-item-10">Mug</li>
  <li id="cart-item-11">Poster</li>
</ul>
</body></html>`

type testEnv struct {
	srv  *storefronttest.Server
	doc  *page.Document
	rec  *notify.Recorder
	ctrl *controller.Controller
}

func newTestEnv(t *testing.T, opts ...controller.Option) testEnv {
	t.Helper()

	srv := storefronttest.New(t)

	httpClient := cleanhttp.DefaultPooledClient()
	t.Cleanup(httpClient.CloseIdleConnections)

	api, err := storefront.New(srv.URL, storefront.WithHTTPClient(httpClient))
	require.NoError(t, err)

	doc, err := page.Parse(strings.NewReader(cartPage))
	require.NoError(t, err)

	rec := notify.NewRecorder()

	ctrl, err := controller.New(api, rec, doc, opts...)
	require.NoError(t, err)

	return testEnv{srv: srv, doc: doc, rec: rec, ctrl: ctrl}
}

func (e testEnv) pageHTML(t *testing.T) string {
	t.Helper()

	var sb strings.Builder
	require.NoError(t, e.doc.Render(&sb))
	return sb.String()
}

func TestAddToCart(t *testing.T) {
	msgs := controller.DefaultMessages()

	tests := []struct {
		name       string
		status     int
		reply      any
		wantAlerts []string
	}{
		{
			name:       "server accepts: success alert",
			status:     http.StatusOK,
			reply:      map[string]any{"success": true},
			wantAlerts: []string{msgs.AddSuccess},
		},
		{
			name:       "server rejects: alert with server message",
			status:     http.StatusBadRequest,
			reply:      map[string]any{"message": "Out of stock"},
			wantAlerts: []string{msgs.AddError + ": Out of stock"},
		},
		{
			name:       "server rejects without message: alert with status text",
			status:     http.StatusUnauthorized,
			reply:      map[string]any{},
			wantAlerts: []string{msgs.AddError + ": Unauthorized"},
		},
		{
			name:       "server rejects with empty message: alert with empty reason",
			status:     http.StatusBadRequest,
			reply:      map[string]any{"message": ""},
			wantAlerts: []string{msgs.AddError + ": "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.srv.Reply(storefronttest.RouteAdd, tt.status, tt.reply)

			productID := strconv.Itoa(gofakeit.Number(1, 1000))
			env.ctrl.AddToCart(t.Context(), productID)

			assert.Equal(t, tt.wantAlerts, env.rec.Alerts())
			assert.Empty(t, env.rec.Errors())

			reqs := env.srv.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, "/add-to-cart/"+productID, reqs[0].Path)
			assert.JSONEq(t, `{"quantity":1}`, string(reqs[0].Body))
		})
	}
}

func TestAddToCart_MalformedResponse(t *testing.T) {
	env := newTestEnv(t)
	env.srv.ReplyRaw(storefronttest.RouteAdd, http.StatusOK, "<html>")

	env.ctrl.AddToCart(t.Context(), "1")

	assert.Equal(t, []string{controller.DefaultMessages().AddFailure}, env.rec.Alerts())

	errs := env.rec.Errors()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0].Err, storefront.ErrDecode)
}

func TestUpdateCartQuantity(t *testing.T) {
	msgs := controller.DefaultMessages()

	t.Run("server accepts: logged, no alert", func(t *testing.T) {
		env := newTestEnv(t)
		env.srv.Reply(storefronttest.RouteUpdate, http.StatusOK, map[string]any{"newQuantity": 5})

		env.ctrl.UpdateCartQuantity(t.Context(), "10", 5)

		assert.Empty(t, env.rec.Alerts())
		assert.Equal(t, []notify.Entry{{
			Message: msgs.UpdateSuccess,
			Data:    map[string]any{"newQuantity": float64(5)},
		}}, env.rec.Logs())

		reqs := env.srv.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, "/cart/update/10", reqs[0].Path)
		assert.JSONEq(t, `{"quantity":5}`, string(reqs[0].Body))
	})

	t.Run("server rejects: logged and alerted", func(t *testing.T) {
		env := newTestEnv(t)
		env.srv.Reply(storefronttest.RouteUpdate, http.StatusNotFound, map[string]any{"detail": "Item no encontrado"})

		env.ctrl.UpdateCartQuantity(t.Context(), "99", 1)

		assert.Equal(t, []string{msgs.UpdateError + ": Item no encontrado"}, env.rec.Alerts())

		errs := env.rec.Errors()
		require.Len(t, errs, 1)
		assert.Equal(t, msgs.UpdateError, errs[0].Message)

		var respErr *domain.ResponseError
		require.ErrorAs(t, errs[0].Err, &respErr)
		assert.Equal(t, http.StatusNotFound, respErr.Response.Status)
		assert.EqualError(t, errs[0].Err, "item_id[99]: status[404]: Item no encontrado")
	})

	t.Run("quantity is sent unvalidated", func(t *testing.T) {
		env := newTestEnv(t)

		env.ctrl.UpdateCartQuantity(t.Context(), "10", -3)

		reqs := env.srv.Requests()
		require.Len(t, reqs, 1)
		assert.JSONEq(t, `{"quantity":-3}`, string(reqs[0].Body))
	})

	t.Run("transport failure: generic alert", func(t *testing.T) {
		env := newTestEnv(t)
		env.srv.Close()

		env.ctrl.UpdateCartQuantity(t.Context(), "10", 2)

		assert.Equal(t, []string{msgs.UpdateFailure}, env.rec.Alerts())
		require.Len(t, env.rec.Errors(), 1)
		assert.ErrorIs(t, env.rec.Errors()[0].Err, storefront.ErrTransport)
	})
}

func TestRemoveFromCart(t *testing.T) {
	msgs := controller.DefaultMessages()

	tests := []struct {
		name        string
		itemID      string
		status      int
		reply       any
		closeServer bool
		wantRemoved bool
		wantAlerts  []string
	}{
		{
			name:        "server accepts: row removed",
			itemID:      "10",
			status:      http.StatusOK,
			reply:       map[string]any{"detail": "Item eliminado correctamente"},
			wantRemoved: true,
		},
		{
			name:       "server rejects: row kept",
			itemID:     "10",
			status:     http.StatusNotFound,
			reply:      map[string]any{"message": "Item not found"},
			wantAlerts: []string{msgs.RemoveError + ": Item not found"},
		},
		{
			name:        "connection refused: row kept",
			itemID:      "10",
			closeServer: true,
			wantAlerts:  []string{msgs.RemoveFailure},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.status != 0 {
				env.srv.Reply(storefronttest.RouteRemove, tt.status, tt.reply)
			}
			if tt.closeServer {
				env.srv.Close()
			}

			env.ctrl.RemoveFromCart(t.Context(), tt.itemID)

			assert.Equal(t, tt.wantAlerts, env.rec.Alerts())

			html := env.pageHTML(t)
			assert.Equal(t, !tt.wantRemoved, strings.Contains(html, `id="cart-item-`+tt.itemID+`"`))
			assert.Contains(t, html, `id="cart-item-11"`)

			if tt.wantRemoved {
				assert.Empty(t, env.rec.Errors())
				require.Len(t, env.rec.Logs(), 1)
				assert.Equal(t, msgs.RemoveSuccess, env.rec.Logs()[0].Message)
			} else {
				assert.Len(t, env.rec.Errors(), 1)
			}
		})
	}
}

func TestRemoveFromCart_RequestShape(t *testing.T) {
	env := newTestEnv(t)

	env.ctrl.RemoveFromCart(t.Context(), "11")

	reqs := env.srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/cart/remove/11", reqs[0].Path)
	assert.Empty(t, reqs[0].Body)
}

func TestRemoveFromCart_RowMissing(t *testing.T) {
	env := newTestEnv(t)

	env.ctrl.RemoveFromCart(t.Context(), "404")

	assert.Equal(t, []string{controller.DefaultMessages().RemoveFailure}, env.rec.Alerts())

	errs := env.rec.Errors()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0].Err, controller.ErrCartRowNotFound)
}

func TestBind(t *testing.T) {
	env := newTestEnv(t)

	bound := env.ctrl.Bind()
	require.Equal(t, 2, bound)

	logs := env.rec.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, controller.DefaultMessages().Ready, logs[0].Message)

	forms := env.doc.Forms()
	for _, f := range forms {
		e := f.Submit(t.Context())
		assert.True(t, e.DefaultPrevented())
	}
	env.ctrl.Wait()

	reqs := env.srv.Requests()
	require.Len(t, reqs, 2)

	var ids []string
	for _, r := range reqs {
		assert.Equal(t, storefronttest.RouteAdd, r.Route)
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []string{"1", "2"}, ids)

	assert.Equal(t, []string{
		controller.DefaultMessages().AddSuccess,
		controller.DefaultMessages().AddSuccess,
	}, env.rec.Alerts())
}

func TestBind_RapidSubmitsAreNotDeduplicated(t *testing.T) {
	env := newTestEnv(t)
	env.ctrl.Bind()

	release := env.srv.Hold()

	form := env.doc.Forms()[0]
	for range 3 {
		form.Submit(t.Context())
	}

	release()
	env.ctrl.Wait()

	assert.Len(t, env.srv.Requests(), 3)
	assert.Len(t, env.rec.Alerts(), 3)
}

func TestBind_Twice(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, 2, env.ctrl.Bind())
	require.Equal(t, 0, env.ctrl.Bind())

	env.doc.Forms()[0].Submit(t.Context())
	env.ctrl.Wait()

	assert.Len(t, env.srv.Requests(), 1)
	assert.Equal(t, []string{controller.DefaultMessages().AddSuccess}, env.rec.Alerts())
	assert.Len(t, env.rec.Logs(), 1)
}

func TestWithMessages(t *testing.T) {
	env := newTestEnv(t, controller.WithMessages(controller.Messages{
		AddSuccess: "Producto agregado al carrito exitosamente!",
	}))

	env.ctrl.AddToCart(t.Context(), "1")
	env.srv.Reply(storefronttest.RouteAdd, http.StatusBadRequest, map[string]any{"message": "Stock insuficiente"})
	env.ctrl.AddToCart(t.Context(), "1")

	assert.Equal(t, []string{
		"Producto agregado al carrito exitosamente!",
		controller.DefaultMessages().AddError + ": Stock insuficiente",
	}, env.rec.Alerts())
}

type failingAPI struct{ err error }

func (f failingAPI) AddItem(context.Context, string) (domain.Response, error) {
	return domain.Response{}, f.err
}

func (f failingAPI) UpdateQuantity(context.Context, string, int) (domain.Response, error) {
	return domain.Response{}, f.err
}

func (f failingAPI) RemoveItem(context.Context, string) (domain.Response, error) {
	return domain.Response{}, f.err
}

func TestOperations_ErrorsAreIsolated(t *testing.T) {
	doc, err := page.Parse(strings.NewReader(cartPage))
	require.NoError(t, err)

	rec := notify.NewRecorder()
	boom := errors.New("boom")

	ctrl, err := controller.New(failingAPI{err: boom}, rec, doc)
	require.NoError(t, err)

	ctx := t.Context()
	ctrl.AddToCart(ctx, "1")
	ctrl.UpdateCartQuantity(ctx, "10", 2)
	ctrl.RemoveFromCart(ctx, "10")

	msgs := controller.DefaultMessages()
	assert.Equal(t, []string{msgs.AddFailure, msgs.UpdateFailure, msgs.RemoveFailure}, rec.Alerts())

	errs := rec.Errors()
	require.Len(t, errs, 3)
	for _, e := range errs {
		assert.ErrorIs(t, e.Err, boom)
	}
	assert.EqualError(t, errs[0].Err, "product_id[1]: boom")
	assert.EqualError(t, errs[1].Err, "item_id[10]: boom")
	assert.EqualError(t, errs[2].Err, "item_id[10]: boom")

	rows, err := doc.CartRows()
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestNew_NilDependencies(t *testing.T) {
	doc, err := page.Parse(strings.NewReader(cartPage))
	require.NoError(t, err)
	rec := notify.NewRecorder()
	api := failingAPI{}

	_, err = controller.New(nil, rec, doc)
	assert.EqualError(t, err, "api is nil")

	_, err = controller.New(api, nil, doc)
	assert.EqualError(t, err, "notifier is nil")

	_, err = controller.New(api, rec, nil)
	assert.EqualError(t, err, "page is nil")
}
