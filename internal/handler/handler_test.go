package handler

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/rzazoo/zoo-booking/internal/model"
	"github.com/rzazoo/zoo-booking/internal/session"
	"github.com/rzazoo/zoo-booking/internal/validation"
)

// --- mock stores, in the spirit of a service-interface mock ---

type mockUserStore struct {
	createFn    func(ctx context.Context, username, email, password string, cost int) (uint64, error)
	byEmailFn   func(ctx context.Context, email string) (model.User, error)
	byIDFn      func(ctx context.Context, id uint64) (model.User, error)
	createCalls int
}

func (m *mockUserStore) Create(ctx context.Context, username, email, password string, cost int) (uint64, error) {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, username, email, password, cost)
	}
	return 1, nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if m.byEmailFn != nil {
		return m.byEmailFn(ctx, email)
	}
	return model.User{}, sql.ErrNoRows
}

func (m *mockUserStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	if m.byIDFn != nil {
		return m.byIDFn(ctx, id)
	}
	return model.User{}, sql.ErrNoRows
}

type mockBookingStore struct {
	createFn     func(ctx context.Context, b *model.Booking) error
	getFn        func(ctx context.Context, id uint64) (model.Booking, error)
	listAllFn    func(ctx context.Context) ([]model.Booking, error)
	listByUserFn func(ctx context.Context, userID uint64) ([]model.Booking, error)
	listOwnersFn func(ctx context.Context) ([]model.BookingWithOwner, error)
	updateFn     func(ctx context.Context, b *model.Booking, callerID uint64, callerAdmin bool) error
	deleteFn     func(ctx context.Context, id, callerID uint64, callerAdmin bool) error
	createCalls  int
	updateCalls  int
	deleteCalls  int
}

func (m *mockBookingStore) Create(ctx context.Context, b *model.Booking) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, b)
	}
	b.ID = 1
	return nil
}

func (m *mockBookingStore) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return model.Booking{}, sql.ErrNoRows
}

func (m *mockBookingStore) ListAll(ctx context.Context) ([]model.Booking, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

func (m *mockBookingStore) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockBookingStore) ListWithOwners(ctx context.Context) ([]model.BookingWithOwner, error) {
	if m.listOwnersFn != nil {
		return m.listOwnersFn(ctx)
	}
	return nil, nil
}

func (m *mockBookingStore) UpdateOwned(ctx context.Context, b *model.Booking, callerID uint64, callerAdmin bool) error {
	m.updateCalls++
	if m.updateFn != nil {
		return m.updateFn(ctx, b, callerID, callerAdmin)
	}
	return nil
}

func (m *mockBookingStore) DeleteOwned(ctx context.Context, id, callerID uint64, callerAdmin bool) error {
	m.deleteCalls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, callerID, callerAdmin)
	}
	return nil
}

// stubRenderer records which template was rendered and with what data, so
// tests run without parsing the real template files.
type stubRenderer struct {
	name string
	data map[string]any
}

func (r *stubRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	r.name = name
	if m, ok := data.(map[string]any); ok {
		r.data = m
	}
	_, err := w.Write([]byte(name))
	return err
}

func newTestFlashes() *session.Store {
	return session.NewStore("test-secret", false)
}

// postForm builds an echo context for a form submission.
func postForm(t *testing.T, path string, form url.Values) (echo.Context, *httptest.ResponseRecorder, *stubRenderer) {
	t.Helper()
	e := echo.New()
	e.Validator = validation.NewEcho()
	r := &stubRenderer{}
	e.Renderer = r

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec, r
}

func getReq(t *testing.T, path string) (echo.Context, *httptest.ResponseRecorder, *stubRenderer) {
	t.Helper()
	e := echo.New()
	e.Validator = validation.NewEcho()
	r := &stubRenderer{}
	e.Renderer = r

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec, r
}
