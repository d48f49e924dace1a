package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spicedums/internal/model"
)

type memStore struct {
	data    map[string]Data
	saves   int
	touches int
}

func (m *memStore) Load(_ context.Context, id string) Data { return m.data[id] }

func (m *memStore) Save(_ context.Context, id string, d Data) error {
	m.saves++
	m.data[id] = d
	return nil
}

func (m *memStore) Touch(context.Context, string) error {
	m.touches++
	return nil
}

func TestMiddleware_IssuesCookieAndPersistsCart(t *testing.T) {
	store := &memStore{data: map[string]Data{}}
	mw := Middleware(store, time.Hour, zerolog.Nop())
	item := model.CartItem{ProductID: 1, Name: "Sambal", Price: decimal.NewFromInt(15000), Qty: 2}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/cart/add", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error {
		assert.True(t, Cart(c).IsEmpty())
		SetCart(c, Cart(c).Append(item))
		return c.NoContent(http.StatusNoContent)
	})(c)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	sid := cookies[0].Value
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, 1, store.saves)

	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: sid})
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	err = mw(func(c echo.Context) error {
		assert.Equal(t, 2, Cart(c).Count())
		return nil
	})(c)
	require.NoError(t, err)
	assert.Equal(t, 1, store.saves, "read-only request must not rewrite the session")
	assert.Equal(t, 1, store.touches)

	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sid, cookies[0].Value)
	assert.Equal(t, int(time.Hour.Seconds()), cookies[0].MaxAge, "cookie lifetime slides with activity")
}

func TestMiddleware_NewVisitorIsNotTouched(t *testing.T) {
	store := &memStore{data: map[string]Data{}}
	mw := Middleware(store, time.Hour, zerolog.Nop())

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, mw(func(echo.Context) error { return nil })(c))

	assert.Zero(t, store.saves)
	assert.Zero(t, store.touches)
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestRedisStore_NilCacheIsEmpty(t *testing.T) {
	s := NewRedisStore(nil, time.Hour)
	assert.True(t, s.Load(context.Background(), "x").Cart.IsEmpty())
	assert.NoError(t, s.Save(context.Background(), "x", Data{}))
	assert.NoError(t, s.Touch(context.Background(), "x"))
}
