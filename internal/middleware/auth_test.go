package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzazoo/zoo-booking/internal/model"
	"github.com/rzazoo/zoo-booking/internal/session"
	"github.com/rzazoo/zoo-booking/internal/utils"
)

const secret = "test-secret"

type stubLoader struct {
	users map[uint64]model.User
}

func (s *stubLoader) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func run(t *testing.T, mws []echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, model.User, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got model.User
	var loaded bool
	h := func(c echo.Context) error {
		got, loaded = CurrentUser(c)
		return c.NoContent(http.StatusOK)
	}
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	require.NoError(t, h(c))
	return rec, got, loaded
}

func TestLoadUserWithValidCookie(t *testing.T) {
	loader := &stubLoader{users: map[uint64]model.User{
		7: {ID: 7, Username: "Bob", Role: model.RoleRegular},
	}}
	tok, err := utils.NewSessionToken(secret, 7, 1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: tok.Token})

	_, got, loaded := run(t, []echo.MiddlewareFunc{LoadUser(secret, loader)}, req)
	require.True(t, loaded)
	assert.Equal(t, "Bob", got.Username)
}

func TestLoadUserStaysAnonymous(t *testing.T) {
	loader := &stubLoader{users: map[uint64]model.User{}}

	// No cookie at all.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, _, loaded := run(t, []echo.MiddlewareFunc{LoadUser(secret, loader)}, req)
	assert.False(t, loaded)

	// Forged token.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "garbage"})
	_, _, loaded = run(t, []echo.MiddlewareFunc{LoadUser(secret, loader)}, req)
	assert.False(t, loaded)

	// Valid token for a user row that no longer exists.
	tok, err := utils.NewSessionToken(secret, 99, 1)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: tok.Token})
	_, _, loaded = run(t, []echo.MiddlewareFunc{LoadUser(secret, loader)}, req)
	assert.False(t, loaded)
}

func TestRequireUserRedirectsAnonymous(t *testing.T) {
	flashes := session.NewStore(secret, false)
	req := httptest.NewRequest(http.MethodGet, "/account", nil)

	rec, _, _ := run(t, []echo.MiddlewareFunc{RequireUser(flashes)}, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireAdmin(t *testing.T) {
	flashes := session.NewStore(secret, false)

	seed := func(u model.User) echo.MiddlewareFunc {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				SetCurrentUser(c, u)
				return next(c)
			}
		}
	}

	// Regular users are sent home.
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec, _, _ := run(t, []echo.MiddlewareFunc{
		seed(model.User{ID: 2, Role: model.RoleRegular}), RequireAdmin(flashes),
	}, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	// The admin passes through.
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec, _, _ = run(t, []echo.MiddlewareFunc{
		seed(model.User{ID: 1, Role: model.RoleAdmin}), RequireAdmin(flashes),
	}, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Anonymous requests go to the login page.
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec, _, _ = run(t, []echo.MiddlewareFunc{RequireAdmin(flashes)}, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}
