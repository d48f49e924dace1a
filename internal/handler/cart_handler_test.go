package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"spicedums/internal/errors"
	"spicedums/internal/model"
	"spicedums/internal/service"
	"spicedums/internal/session"
)

type fakeProducts struct {
	byID map[uint]model.Product
}

func (f *fakeProducts) Create(context.Context, *model.Product) error { return nil }
func (f *fakeProducts) Update(context.Context, *model.Product) error { return nil }
func (f *fakeProducts) Delete(context.Context, uint) (bool, error) { return false, nil }
func (f *fakeProducts) List(context.Context) ([]model.Product, error) { return nil, nil }
func (f *fakeProducts) FindByID(_ context.Context, id uint) (*model.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}
func (f *fakeProducts) FindByIDs(_ context.Context, ids []uint) (map[uint]model.Product, error) {
	out := map[uint]model.Product{}
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type memSessions struct {
	data map[string]session.Data
}

func (m *memSessions) Load(_ context.Context, id string) session.Data { return m.data[id] }
func (m *memSessions) Save(_ context.Context, id string, d session.Data) error {
	m.data[id] = d
	return nil
}
func (m *memSessions) Touch(context.Context, string) error { return nil }

type fakeOrders struct {
	lines []model.OrderLine
}

func (f *fakeOrders) Checkout(_ context.Context, _ *uint, lines []model.OrderLine) (*service.Receipt, error) {
	f.lines = lines
	return &service.Receipt{
		Order: &model.Order{ID: 31, Total: decimal.NewFromInt(20000), Items: []model.OrderItem{
			{ProductID: 1, Qty: 2, Price: decimal.NewFromInt(10000)},
		}},
		ProductNames: map[uint]string{1: "Sambal"},
	}, nil
}
func (f *fakeOrders) GetOrder(context.Context, uint) (*model.Order, error) { return nil, nil }
func (f *fakeOrders) DeleteOrder(context.Context, uint) error { return nil }

type testValidator struct{ v *validator.Validate }

func (tv *testValidator) Validate(i interface{}) error { return tv.v.Struct(i) }

type cartClient struct {
	t      *testing.T
	e      *echo.Echo
	cookie *http.Cookie
}

func newCartClient(t *testing.T, orders service.OrderService) *cartClient {
	products := &fakeProducts{byID: map[uint]model.Product{
		1: {ID: 1, Name: "Sambal", Price: decimal.NewFromInt(10000)},
		2: {ID: 2, Name: "Dimsum", Price: decimal.NewFromInt(15000)},
	}}
	carts := NewCartHandler(service.NewCartService(products, service.NewImageResolver(t.TempDir())))
	checkout := NewCheckoutHandler(orders, "62811")

	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	g := e.Group("", session.Middleware(&memSessions{data: map[string]session.Data{}}, time.Hour, zerolog.Nop()))
	g.GET("/cart", carts.Get)
	g.POST("/cart/add", carts.Add)
	g.POST("/cart/update", carts.Update)
	g.POST("/cart/remove", carts.Remove)
	g.POST("/cart/clear", carts.Clear)
	g.POST("/cart/checkout", checkout.Cart)
	return &cartClient{t: t, e: e}
}

func (cc *cartClient) do(path string, form url.Values, wantJSON bool) *httptest.ResponseRecorder {
	method := http.MethodPost
	if form == nil {
		method = http.MethodGet
	}
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if wantJSON {
		req.Header.Set(echo.HeaderXRequestedWith, XMLHttpRequest)
	}
	if cc.cookie != nil {
		req.AddCookie(cc.cookie)
	}
	rec := httptest.NewRecorder()
	cc.e.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			cc.cookie = c
		}
	}
	return rec
}

func (cc *cartClient) view(rec *httptest.ResponseRecorder) model.CartView {
	cc.t.Helper()
	require.Equal(cc.t, http.StatusOK, rec.Code, rec.Body.String())
	var v model.CartView
	require.NoError(cc.t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestCartHandler_Flow(t *testing.T) {
	cc := newCartClient(t, &fakeOrders{})

	v := cc.view(cc.do("/cart/add", url.Values{"product_id": {"1"}, "qty": {"2"}}, true))
	assert.Equal(t, 2, v.CartCount)

	v = cc.view(cc.do("/cart/add", url.Values{"product_id": {"1"}, "qty": {"3"}}, true))
	require.Len(t, v.Items, 1)
	assert.Equal(t, 5, v.Items[0].Qty)
	assert.True(t, v.Total.Equal(decimal.NewFromInt(50000)))

	v = cc.view(cc.do("/cart/add", url.Values{"product_id": {"2"}}, true))
	assert.Equal(t, 6, v.CartCount)

	v = cc.view(cc.do("/cart/update", url.Values{"product_id": {"1"}, "qty": {"0"}}, true))
	require.Len(t, v.Items, 1)
	assert.Equal(t, uint(2), v.Items[0].ProductID)

	v = cc.view(cc.do("/cart/remove", url.Values{"product_id": {"2"}}, true))
	assert.Empty(t, v.Items)
	assert.True(t, v.Total.IsZero())

	v = cc.view(cc.do("/cart", nil, false))
	assert.Equal(t, 0, v.CartCount)
}

func TestCartHandler_BrowserRedirects(t *testing.T) {
	cc := newCartClient(t, &fakeOrders{})

	rec := cc.do("/cart/add", url.Values{"product_id": {"1"}}, false)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/cart", rec.Header().Get(echo.HeaderLocation))

	rec = cc.do("/cart/add", url.Values{"product_id": {"404"}}, false)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	v := cc.view(cc.do("/cart", nil, false))
	assert.Equal(t, 1, v.CartCount, "unknown product leaves the cart unchanged")
}

func TestCartHandler_UnknownProductJSON(t *testing.T) {
	cc := newCartClient(t, &fakeOrders{})
	rec := cc.do("/cart/add", url.Values{"product_id": {"404"}}, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartHandler_MalformedFieldsJSON(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{"bad product id", url.Values{"product_id": {"abc"}, "qty": {"1"}}},
		{"bad qty", url.Values{"product_id": {"1"}, "qty": {"two"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := newCartClient(t, &fakeOrders{})
			rec := cc.do("/cart/add", tt.form, true)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body errors.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "VALIDATION_ERROR", body.Code)

			v := cc.view(cc.do("/cart", nil, false))
			assert.Zero(t, v.CartCount)
		})
	}
}

func TestCheckoutHandler_CartClearsOnSuccess(t *testing.T) {
	orders := &fakeOrders{}
	cc := newCartClient(t, orders)
	cc.view(cc.do("/cart/add", url.Values{"product_id": {"1"}, "qty": {"2"}}, true))

	rec := cc.do("/cart/checkout", url.Values{}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success     bool   `json:"success"`
		OrderID     uint   `json:"orderId"`
		CheckoutURL string `json:"checkoutUrl"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, uint(31), resp.OrderID)
	assert.True(t, strings.HasPrefix(resp.CheckoutURL, "https://wa.me/62811?text="))
	assert.Equal(t, []model.OrderLine{{ProductID: 1, Qty: 2}}, orders.lines)

	v := cc.view(cc.do("/cart", nil, false))
	assert.Zero(t, v.CartCount)
}

func TestCheckoutHandler_BrowserRedirectsToChat(t *testing.T) {
	cc := newCartClient(t, &fakeOrders{})
	cc.view(cc.do("/cart/add", url.Values{"product_id": {"1"}}, true))

	rec := cc.do("/cart/checkout", url.Values{}, false)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderLocation), "https://wa.me/62811?text="))
}

func TestWantsJSON(t *testing.T) {
	e := echo.New()
	for _, tc := range []struct {
		header, value string
		want          bool
	}{
		{echo.HeaderAccept, "application/json", true},
		{echo.HeaderAccept, "text/html,application/json;q=0.9", true},
		{echo.HeaderXRequestedWith, "XMLHttpRequest", true},
		{echo.HeaderAccept, "text/html", false},
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(tc.header, tc.value)
		assert.Equal(t, tc.want, WantsJSON(e.NewContext(req, httptest.NewRecorder())), tc.value)
	}
}
