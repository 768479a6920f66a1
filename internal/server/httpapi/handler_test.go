package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/growthpods/growthpods/internal/common"
	"github.com/growthpods/growthpods/internal/logging"
	"github.com/growthpods/growthpods/internal/server/auth"
	"github.com/growthpods/growthpods/internal/server/copilot"
	"github.com/growthpods/growthpods/internal/server/models"
	"github.com/growthpods/growthpods/internal/server/services"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

var alice = &models.User{ID: "u-1", Email: "a@b.com", Role: "member"}

type fakeUsers struct {
	loginEmail, loginPassword string
	loginErr                  error

	authBearer string
	authErr    error

	refreshed  *services.Identity
	loggedOut  *services.Identity
	refreshErr error
	logoutErr  error

	forgotEmail string

	resetToken, resetPassword string
	resetErr                  error

	registerErr error
}

func (f *fakeUsers) Register(_ context.Context, email, _ string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{ID: "new", Email: email, Role: "member"}, nil
}
func (f *fakeUsers) Login(_ context.Context, email, password string) (*services.Session, error) {
	f.loginEmail, f.loginPassword = email, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &services.Session{Token: "jwt-1", User: alice}, nil
}
func (f *fakeUsers) Authenticate(_ context.Context, bearer string) (*services.Identity, error) {
	f.authBearer = bearer
	if f.authErr != nil {
		return nil, f.authErr
	}
	return &services.Identity{User: alice, Claims: &auth.Claims{}}, nil
}
func (f *fakeUsers) Refresh(_ context.Context, id *services.Identity) (*services.Session, error) {
	f.refreshed = id
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return &services.Session{Token: "jwt-2", User: id.User}, nil
}
func (f *fakeUsers) Logout(_ context.Context, id *services.Identity) error {
	f.loggedOut = id
	return f.logoutErr
}
func (f *fakeUsers) ForgotPassword(_ context.Context, email string) error {
	f.forgotEmail = email
	return nil
}
func (f *fakeUsers) ResetPassword(_ context.Context, token, pw string) error {
	f.resetToken, f.resetPassword = token, pw
	return f.resetErr
}

type fakeCopilot struct {
	enabled bool
	got     []copilot.Message
	reply   string
	err     error
}

func (f *fakeCopilot) Enabled() bool { return f.enabled }
func (f *fakeCopilot) Complete(_ context.Context, m []copilot.Message) (string, error) {
	f.got = m
	return f.reply, f.err
}

// --- helpers ---

func newTestRouter(t *testing.T, u Users, cp Copilot) *echo.Echo {
	t.Helper()
	logger := logging.NewTextLogger(io.Discard, "error")
	return NewRouter(NewHandler(u, cp, logger), prometheus.NewRegistry(), logger)
}

func do(t *testing.T, e *echo.Echo, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

// --- tests ---

func TestLogin_BasicCredentials(t *testing.T) {
	u := &fakeUsers{}
	e := newTestRouter(t, u, nil)

	rec := do(t, e, http.MethodPost, "/auth/login", "", map[string]string{"Authorization": "Basic YUBiLmNvbTpwdw=="})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@b.com", u.loginEmail)
	assert.Equal(t, "pw", u.loginPassword)

	var got authResponse
	decode(t, rec, &got)
	assert.Equal(t, authResponse{Token: "jwt-1", User: userResponse{ID: "u-1", Email: "a@b.com", Role: "member"}}, got)
}

func TestLogin_Rejections(t *testing.T) {
	e := newTestRouter(t, &fakeUsers{loginErr: common.ErrorUnauthorized}, nil)

	rec := do(t, e, http.MethodPost, "/auth/login", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, e, http.MethodPost, "/auth/login", "", map[string]string{"Authorization": "Bearer x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, e, http.MethodPost, "/auth/login", "", map[string]string{"Authorization": "Basic YUBiLmNvbTpwdw=="})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var er errorResponse
	decode(t, rec, &er)
	assert.Equal(t, "invalid credentials", er.Error)

	e = newTestRouter(t, &fakeUsers{loginErr: errors.New("db down")}, nil)
	rec = do(t, e, http.MethodPost, "/auth/login", "", map[string]string{"Authorization": "Basic YUBiLmNvbTpwdw=="})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRefreshAndLogout_RequireBearer(t *testing.T) {
	u := &fakeUsers{}
	e := newTestRouter(t, u, nil)

	for _, path := range []string{"/auth/refresh", "/auth/logout"} {
		rec := do(t, e, http.MethodPost, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)

		rec = do(t, e, http.MethodPost, path, "", map[string]string{"Authorization": "Basic abc"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := do(t, e, http.MethodPost, "/auth/refresh", "", map[string]string{"Authorization": "Bearer YUBiLmNvbTpwdw=="})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "YUBiLmNvbTpwdw==", u.authBearer)
	require.NotNil(t, u.refreshed)
	var got authResponse
	decode(t, rec, &got)
	assert.Equal(t, "jwt-2", got.Token)

	rec = do(t, e, http.MethodPost, "/auth/logout", "", map[string]string{"Authorization": "Bearer jwt-1"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotNil(t, u.loggedOut)
}

func TestAuthErrorsMapToStatuses(t *testing.T) {
	cases := map[error]string{
		common.ErrTokenExpired:   "session expired",
		common.ErrTokenRevoked:   "session revoked",
		common.ErrInvalidToken:   "invalid credentials",
		common.ErrorUnauthorized: "invalid credentials",
	}
	for err, msg := range cases {
		e := newTestRouter(t, &fakeUsers{authErr: err}, nil)
		rec := do(t, e, http.MethodPost, "/auth/refresh", "", map[string]string{"Authorization": "Bearer t"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var er errorResponse
		decode(t, rec, &er)
		assert.Equal(t, msg, er.Error)
	}
}

func TestForgotPassword(t *testing.T) {
	u := &fakeUsers{}
	e := newTestRouter(t, u, nil)

	rec := do(t, e, http.MethodPost, "/auth/forgot-password", `{"email":"a@b.com"}`, nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "a@b.com", u.forgotEmail)

	rec = do(t, e, http.MethodPost, "/auth/forgot-password", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetPassword(t *testing.T) {
	u := &fakeUsers{}
	e := newTestRouter(t, u, nil)

	rec := do(t, e, http.MethodPost, "/auth/reset-password", `{"token":"t","newPassword":"n3w-secret"}`, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "t", u.resetToken)
	assert.Equal(t, "n3w-secret", u.resetPassword)

	u.resetErr = common.ErrResetTokenInvalid
	rec = do(t, e, http.MethodPost, "/auth/reset-password", `{"token":"t","newPassword":"n3w-secret"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	u.resetErr = common.ErrorValidation
	rec = do(t, e, http.MethodPost, "/auth/reset-password", `{"token":"t","newPassword":"x"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPost, "/auth/reset-password", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister(t *testing.T) {
	e := newTestRouter(t, &fakeUsers{}, nil)
	rec := do(t, e, http.MethodPost, "/auth/register", `{"email":"n@b.com","password":"longenough"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var got userResponse
	decode(t, rec, &got)
	assert.Equal(t, "n@b.com", got.Email)

	e = newTestRouter(t, &fakeUsers{registerErr: errors.New("duplicate")}, nil)
	rec = do(t, e, http.MethodPost, "/auth/register", `{"email":"n@b.com","password":"longenough"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPingAndMetrics(t *testing.T) {
	e := newTestRouter(t, &fakeUsers{}, nil)

	rec := do(t, e, http.MethodGet, "/ping", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `growthpods_http_requests_total{method="GET",route="/ping",status="200"} 1`)
}

func TestCopilot(t *testing.T) {
	bearer := map[string]string{"Authorization": "Bearer t"}

	e := newTestRouter(t, &fakeUsers{}, &fakeCopilot{})
	rec := do(t, e, http.MethodPost, "/api/copilot", `{"messages":[]}`, bearer)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	cp := &fakeCopilot{enabled: true, reply: "Grow daily."}
	e = newTestRouter(t, &fakeUsers{}, cp)
	rec = do(t, e, http.MethodPost, "/api/copilot", `{"messages":[{"role":"user","content":"tip?"}]}`, bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reply":"Grow daily."}`, rec.Body.String())
	assert.Equal(t, []copilot.Message{{Role: "user", Content: "tip?"}}, cp.got)

	cp.err = copilot.ErrEmptyPrompt
	rec = do(t, e, http.MethodPost, "/api/copilot", `{"messages":[]}`, bearer)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	cp.err = errors.New("quota")
	rec = do(t, e, http.MethodPost, "/api/copilot", `{"messages":[{"role":"user","content":"x"}]}`, bearer)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/copilot", `{"messages":[]}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_RunAndShutdown(t *testing.T) {
	logger := logging.NewTextLogger(io.Discard, "error")
	e := newTestRouter(t, &fakeUsers{}, nil)
	s := NewServer("127.0.0.1:0", e, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return e.ListenerAddr() != nil }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestMiddleware_PanicIsCountedAndLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.NewTextLogger(&logs, "info")
	e := NewRouter(NewHandler(&fakeUsers{}, nil, logger), prometheus.NewRegistry(), logger)
	e.GET("/boom", func(echo.Context) error { panic("boom") })

	rec := do(t, e, http.MethodGet, "/boom", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	out := logs.String()
	assert.Contains(t, out, `msg="panic recovered"`)
	assert.Contains(t, out, `level=ERROR msg=request`)
	assert.Contains(t, out, "status=500")

	rec = do(t, e, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `growthpods_http_requests_total{method="GET",route="/boom",status="500"} 1`)
}

func TestMiddleware_HandlerErrorReachesLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.NewTextLogger(&logs, "info")
	e := NewRouter(NewHandler(&fakeUsers{}, nil, logger), prometheus.NewRegistry(), logger)
	e.GET("/teapot", func(echo.Context) error { return echo.NewHTTPError(http.StatusTeapot, "short and stout") })

	rec := do(t, e, http.MethodGet, "/teapot", "", nil)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1, strings.Count(rec.Body.String(), "short and stout"), "response written once")

	assert.Contains(t, logs.String(), "status=418")
	assert.Contains(t, logs.String(), "level=ERROR msg=request")
}
