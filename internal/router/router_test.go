package router

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"househunt/internal/apiclient"
	"househunt/internal/auth"
	"househunt/internal/config"
	apperrors "househunt/internal/errors"
	"househunt/internal/handler"
	"househunt/internal/notify"
	"househunt/internal/service"
	"househunt/internal/storage"
)

// fakeAPI is a minimal stand-in for the HouseHunt REST API.
type fakeAPI struct {
	mu       sync.Mutex
	bookings []map[string]any
	updates  []string
}

func (f *fakeAPI) handler() http.Handler {
	write := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	users := map[string]map[string]any{
		"owner@househunt.test":  {"token": "owner-token", "user": map[string]any{"_id": "o1", "name": "Olivia", "email": "owner@househunt.test", "type": "Owner"}},
		"renter@househunt.test": {"token": "renter-token", "user": map[string]any{"_id": "r1", "name": "Rahul", "email": "renter@househunt.test", "type": "renter"}},
		"stale@househunt.test":  {"token": "stale-token", "user": map[string]any{"_id": "o2", "name": "Stale", "email": "stale@househunt.test", "type": "Owner"}},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		u, ok := users[body["email"]]
		if !ok {
			write(w, http.StatusOK, map[string]any{"success": false, "message": "Invalid email or password"})
			return
		}
		write(w, http.StatusOK, map[string]any{"success": true, "message": "Login successfully", "token": u["token"], "user": u["user"]})
	})
	mux.HandleFunc("/api/user/getAllProperties", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, map[string]any{"success": true, "data": []map[string]any{
			{"_id": "P1", "ownerId": "o1", "propertyType": "flat", "isAvailable": "Available", "propertyAmt": 1500},
		}})
	})
	mux.HandleFunc("/api/owner/getallproperties", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
	})
	mux.HandleFunc("/api/owner/getallbookings", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer stale-token" {
			write(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Authorization failed"})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		write(w, http.StatusOK, map[string]any{"success": true, "data": f.bookings})
	})
	mux.HandleFunc("/api/owner/handlebookingstatus", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.updates = append(f.updates, body["bookingId"]+"="+body["status"])
		for _, b := range f.bookings {
			if b["_id"] == body["bookingId"] {
				b["bookingStatus"] = body["status"]
			}
		}
		write(w, http.StatusOK, map[string]any{"success": true, "message": "changed the status of booking to " + body["status"]})
	})
	return mux
}

type testGateway struct {
	e      *echo.Echo
	cookie *http.Cookie
}

func newTestGateway(t *testing.T, api *fakeAPI) *testGateway {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{DeviceSecret: "test-secret", PropertyCacheTTL: time.Minute}
	client := apiclient.NewWithHTTPClient(srv.URL, srv.Client(), logger)

	authService := service.NewAuthService(client)
	propertyService := service.NewPropertyService(client, nil, 0, logger)
	bookingService := service.NewBookingService(client, propertyService, nil, logger)
	userService := service.NewUserService(client, propertyService, bookingService)
	adminService := service.NewAdminService(client, propertyService, nil)

	e := echo.New()
	Register(e, cfg, logger, auth.NewJWTService(cfg.DeviceSecret), storage.NewMemoryProvider(), Handlers{
		Pages:      handler.NewPageHandler(propertyService, bookingService, userService, adminService),
		Auth:       handler.NewAuthHandler(authService),
		Properties: handler.NewPropertyHandler(propertyService),
		Bookings:   handler.NewBookingHandler(bookingService),
		Users:      handler.NewUserHandler(userService),
		Admin:      handler.NewAdminHandler(adminService),
	})
	return &testGateway{e: e}
}

func (g *testGateway) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if g.cookie != nil {
		req.AddCookie(g.cookie)
	}
	rec := httptest.NewRecorder()
	g.e.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == DeviceCookieName {
			g.cookie = c
		}
	}
	return rec
}

func (g *testGateway) login(t *testing.T, email string) handler.ActionResponse {
	t.Helper()
	rec := g.do(http.MethodPost, "/login", `{"email":"`+email+`","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp handler.ActionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (g *testGateway) session(t *testing.T) handler.SessionView {
	t.Helper()
	rec := g.do(http.MethodGet, "/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view handler.SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

func TestGuard_AnonymousPageRedirectsToLoginWithFrom(t *testing.T) {
	g := newTestGateway(t, &fakeAPI{})

	rec := g.do(http.MethodGet, "/ownerhome", "")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?from=%2Fownerhome", rec.Header().Get(echo.HeaderLocation))
	require.NotNil(t, g.cookie, "a device cookie is issued")
}

func TestGuard_AnonymousActionGets401WithRedirect(t *testing.T) {
	g := newTestGateway(t, &fakeAPI{})

	rec := g.do(http.MethodPost, "/owner/bookings/B1/confirm", `{"propertyId":"P1"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "UNAUTHENTICATED", resp.Code)
	assert.Equal(t, "/login?from=%2Fowner%2Fbookings%2FB1%2Fconfirm", resp.Redirect)
}

func TestLogin_OpensSessionAndRedirectsToRoleHome(t *testing.T) {
	g := newTestGateway(t, &fakeAPI{})

	resp := g.login(t, "owner@househunt.test")
	assert.Equal(t, "/ownerhome", resp.Redirect)

	view := g.session(t)
	assert.True(t, view.Authenticated)
	assert.Equal(t, "/ownerhome", view.Home)

	rec := g.do(http.MethodGet, "/ownerhome", "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = g.do(http.MethodGet, "/login", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/ownerhome", rec.Header().Get(echo.HeaderLocation))
}

func TestLogin_HonoursLocalFromOnly(t *testing.T) {
	g := newTestGateway(t, &fakeAPI{})

	rec := g.do(http.MethodPost, "/login", `{"email":"owner@househunt.test","password":"pw","from":"/owner/profile"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.ActionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "/owner/profile", resp.Redirect)

	rec = g.do(http.MethodPost, "/login", `{"email":"owner@househunt.test","password":"pw","from":"//evil.example"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "/ownerhome", resp.Redirect)
}

func TestLogin_FailureLeavesDeviceLoggedOut(t *testing.T) {
	g := newTestGateway(t, &fakeAPI{})

	rec := g.do(http.MethodPost, "/login", `{"email":"nobody@househunt.test","password":"pw"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid email or password", resp.Error)
	require.Len(t, resp.Notifications, 1)
	assert.False(t, g.session(t).Authenticated)
}

func TestLogin_MissingFields(t *testing.T) {
	g := newTestGateway(t, &fakeAPI{})

	rec := g.do(http.MethodPost, "/login", `{"email":"owner@househunt.test"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please fill all fields")
}

func TestGuard_RoleMismatchRedirects(t *testing.T) {
	g := newTestGateway(t, &fakeAPI{})
	g.login(t, "renter@househunt.test")

	rec := g.do(http.MethodGet, "/ownerhome", "")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?from=%2Fownerhome", rec.Header().Get(echo.HeaderLocation))
	assert.True(t, g.session(t).Authenticated, "a role mismatch does not end the session")
}

func TestExpiredSessionIsClearedMidRequest(t *testing.T) {
	g := newTestGateway(t, &fakeAPI{})
	g.login(t, "stale@househunt.test")

	rec := g.do(http.MethodGet, "/ownerhome", "")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get(echo.HeaderLocation)
	assert.Equal(t, "/login?from=%2Fownerhome&reason=expired", location)
	assert.False(t, g.session(t).Authenticated)

	rec = g.do(http.MethodGet, location, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page handler.PageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Contains(t, page.Notifications, notify.Notice{Level: notify.LevelWarning, Message: apperrors.MsgSessionExpired})
}

func TestLogoutThenSessionIsEmpty(t *testing.T) {
	g := newTestGateway(t, &fakeAPI{})
	g.login(t, "owner@househunt.test")

	rec := g.do(http.MethodPost, "/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.False(t, g.session(t).Authenticated)
	rec = g.do(http.MethodGet, "/ownerhome", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestUnknownPathGoesToDefaultRoute(t *testing.T) {
	g := newTestGateway(t, &fakeAPI{})

	rec := g.do(http.MethodGet, "/no/such/page", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	g.login(t, "renter@househunt.test")
	rec = g.do(http.MethodGet, "/no/such/page", "")
	assert.Equal(t, "/renterhome", rec.Header().Get(echo.HeaderLocation))
}

func TestConfirmBooking_CascadesThroughGateway(t *testing.T) {
	api := &fakeAPI{bookings: []map[string]any{
		{"_id": "B1", "propertyId": "P1", "bookingStatus": "pending"},
		{"_id": "B2", "propertId": "P1", "bookingStatus": "pending"},
		{"_id": "B3", "propertyId": "P1", "bookingStatus": "pending"},
		{"_id": "B4", "propertyId": "P9", "bookingStatus": "pending"},
	}}
	g := newTestGateway(t, api)
	g.login(t, "owner@househunt.test")

	rec := g.do(http.MethodPost, "/owner/bookings/B1/confirm", `{"propertyId":"P1"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"B2=rejected", "B3=rejected", "B1=booked"}, api.updates)

	var resp struct {
		Data handler.DecisionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Applied)
	assert.Equal(t, []string{"B2", "B3"}, resp.Data.Rejected)
	require.Len(t, resp.Data.Bookings, 4)
	assert.Equal(t, "booked", string(resp.Data.Bookings[0].Status))
	assert.Equal(t, "pending", string(resp.Data.Bookings[3].Status))
}
