package handler_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/account/handler"
	"rollcall/internal/account/service"
	eventstore "rollcall/internal/account/store/events"
	viewstore "rollcall/internal/account/store/views"
	"rollcall/internal/notify"
	"rollcall/pkg/platform/middleware/requesttime"
	"rollcall/pkg/testutil"
)

// newAPI wires the full request path the way cmd/server does, on in-memory
// stores.
func newAPI() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(eventstore.NewInMemory(), viewstore.NewInMemory(), notify.NewRecorder(), logger, nil)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(requesttime.Middleware)
	handler.New(svc, logger).Register(r)
	return r
}

func registerBody(nickname, email string) map[string]string {
	return map[string]string{
		"nickname":   nickname,
		"email":      email,
		"first_name": "Alice",
		"last_name":  "Alright",
		"birth_date": "1990-01-01",
	}
}

func TestAccountAPI(t *testing.T) {
	api := newAPI()

	var uid string

	t.Run("register", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/accounts", registerBody("Alice", "alice@test.com"))
		rr := testutil.DoRequest(api, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		resp := testutil.UnmarshalResponse[struct {
			UID string `json:"uid"`
		}](t, rr)
		require.NotEmpty(t, resp.UID)
		uid = resp.UID
	})

	t.Run("read back the detail view", func(t *testing.T) {
		rr := testutil.DoRequest(api, httptest.NewRequest(http.MethodGet, "/accounts/"+uid, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		resp := testutil.UnmarshalResponse[struct {
			UID       string `json:"uid"`
			Nickname  string `json:"nickname"`
			Email     string `json:"email"`
			BirthDate string `json:"birth_date"`
		}](t, rr)
		assert.Equal(t, uid, resp.UID)
		assert.Equal(t, "Alice", resp.Nickname)
		assert.Equal(t, "alice@test.com", resp.Email)
		assert.Equal(t, "1990-01-01", resp.BirthDate)
	})

	t.Run("duplicate nickname conflicts", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/accounts", registerBody("Alice", "other@test.com"))
		rr := testutil.DoRequest(api, req)

		testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/accounts", registerBody("Bobby", "alice@test.com"))
		rr := testutil.DoRequest(api, req)

		testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
	})

	t.Run("invalid attributes are rejected", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/accounts", registerBody("Al", "third@test.com"))
		rr := testutil.DoRequest(api, req)

		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
	})

	t.Run("unknown account is not found", func(t *testing.T) {
		rr := testutil.DoRequest(api, httptest.NewRequest(http.MethodGet, "/accounts/00000000-0000-0000-0000-000000000001", nil))

		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})
}
