// Package session keeps per-visitor state (the cart) in Redis behind a cookie id.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"spicedums/internal/cache"
	"spicedums/internal/model"
)

const (
	// CookieName carries the session id.
	CookieName = "sid"
	keyPrefix  = "session:"
	contextKey = "session"
)

// Data is what a session persists.
type Data struct {
	Cart model.Cart `json:"cart"`
}

// Store loads and saves session data by id.
type Store interface {
	Load(ctx context.Context, id string) Data
	Save(ctx context.Context, id string, data Data) error
	// Touch extends the lifetime of an unchanged session.
	Touch(ctx context.Context, id string) error
}

// RedisStore keeps sessions as JSON in Redis. Outages read as an empty session.
type RedisStore struct {
	cache *cache.Client
	ttl   time.Duration
}

// NewRedisStore creates a session store with the given TTL.
func NewRedisStore(c *cache.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: c, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, id string) Data {
	var data Data
	if !s.cache.GetJSON(ctx, keyPrefix+id, &data) {
		return Data{}
	}
	return data
}

func (s *RedisStore) Save(ctx context.Context, id string, data Data) error {
	return s.cache.SetJSON(ctx, keyPrefix+id, data, s.ttl)
}

func (s *RedisStore) Touch(ctx context.Context, id string) error {
	return s.cache.Expire(ctx, keyPrefix+id, s.ttl)
}

type state struct {
	id    string
	data  Data
	dirty bool
}

// Middleware attaches the visitor's session to the request and writes it back
// after the handler if it changed. Both the cookie and the stored session expire
// ttl after the latest request.
func Middleware(store Store, ttl time.Duration, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			st := &state{}
			known := false
			if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
				st.id = cookie.Value
				st.data = store.Load(ctx, st.id)
				known = true
			} else {
				st.id = uuid.NewString()
			}
			c.SetCookie(&http.Cookie{
				Name:     CookieName,
				Value:    st.id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(ttl.Seconds()),
			})
			c.Set(contextKey, st)

			// the response is already written here; the save serves the next request
			err := next(c)
			switch {
			case st.dirty:
				if saveErr := store.Save(ctx, st.id, st.data); saveErr != nil {
					log.Warn().Err(saveErr).Str("sid", st.id).Msg("save session")
				}
			case known:
				if touchErr := store.Touch(ctx, st.id); touchErr != nil {
					log.Warn().Err(touchErr).Str("sid", st.id).Msg("touch session")
				}
			}
			return err
		}
	}
}

// Cart returns the session's cart; empty when no session is attached.
func Cart(c echo.Context) model.Cart {
	if st, ok := c.Get(contextKey).(*state); ok {
		return st.data.Cart
	}
	return model.Cart{}
}

// SetCart replaces the session's cart.
func SetCart(c echo.Context, cart model.Cart) {
	if st, ok := c.Get(contextKey).(*state); ok {
		st.data.Cart = cart
		st.dirty = true
	}
}
