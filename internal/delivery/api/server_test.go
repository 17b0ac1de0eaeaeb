package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"socialgraph/config"
	"socialgraph/internal/delivery/api/middleware"
	"socialgraph/internal/delivery/api/response"
	"socialgraph/internal/delivery/api/router"
	"socialgraph/internal/delivery/api/router/handler"
	deliverycontext "socialgraph/internal/delivery/context"
	"socialgraph/internal/domain/entity"
	domainerrors "socialgraph/internal/domain/errors"
	"socialgraph/internal/domain/service"
	"socialgraph/internal/infra/auth"
	"socialgraph/internal/infra/metrics"
	"socialgraph/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testApp struct {
	t      *testing.T
	echo   *echo.Echo
	issuer service.TokenService
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.HTTP.APIPrefix = "/api"
	cfg.HTTP.MaxRequestBodySize = "100KB"
	cfg.SecretKey.Access = "e2e-signing-secret"
	cfg.Auth = &config.AuthConfig{
		Argon2:              config.Argon2Config{Memory: 8 * 1024, Iterations: 1, Parallelism: 1},
		MaxConcurrentHashes: 2,
	}
	cfg.PasswordStrength = &config.PasswordStrengthConfig{MinLength: 8, MaxLength: 128}
	cfg.Metrics = &config.MetricsConfig{Enabled: true, Path: "/metrics"}

	return cfg
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	return newTestAppWith(t, newTestConfig(), newMemStore())
}

func newTestAppWith(t *testing.T, cfg *config.Config, store *memStore) *testApp {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	recorder := metrics.New(reg)

	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)
	hasher := auth.NewArgon2Hasher(cfg)

	userUC, err := impl.NewUserService(impl.UserServiceParams{
		UserRepo:     store.UserRepo(),
		Hasher:       hasher,
		TokenService: tokenSvc,
		Metrics:      recorder,
		Config:       cfg,
		Logger:       logger,
	})
	require.NoError(t, err)
	followUC := impl.NewFollowService(impl.FollowServiceParams{
		TxManager:  store,
		FollowRepo: store.FollowRepo(),
		Metrics:    recorder,
		Logger:     logger,
	})

	e := NewEcho(cfg, logger, router.RouterParams{
		UserHandler:   handler.NewUserHandler(handler.UserHandlerParams{UserUC: userUC, Logger: logger}),
		FollowHandler: handler.NewFollowHandler(handler.FollowHandlerParams{FollowUC: followUC, Logger: logger}),
		AuthMiddleware: middleware.NewAuthMiddleware(middleware.AuthMiddlewareParams{
			TokenService: tokenSvc,
			Metrics:      recorder,
			Logger:       logger,
		}),
		Gatherer: reg,
		Config:   cfg,
	})

	return &testApp{t: t, echo: e, issuer: tokenSvc}
}

func (a *testApp) do(method, path, token, body string) (*httptest.ResponseRecorder, response.Envelope) {
	a.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)

	var envelope response.Envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}

	return rec, envelope
}

func (a *testApp) register(username string) int64 {
	a.t.Helper()

	rec, envelope := a.do(http.MethodPost, "/api/users", "",
		`{"username":"`+username+`","email":"`+username+`@example.com","password":"correct horse battery"}`)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	data, ok := envelope.Data.(map[string]any)
	require.True(a.t, ok)
	id, ok := data["id"].(float64)
	require.True(a.t, ok)

	return int64(id)
}

func (a *testApp) login(username, password string) (*httptest.ResponseRecorder, string) {
	a.t.Helper()

	rec, envelope := a.do(http.MethodPost, "/api/auth/login", "",
		`{"email":"`+username+`@example.com","password":"`+password+`"}`)
	if rec.Code != http.StatusOK {
		return rec, ""
	}

	data, ok := envelope.Data.(map[string]any)
	require.True(a.t, ok)
	token, _ := data["token"].(string)

	return rec, token
}

func errorText(t *testing.T, envelope response.Envelope) string {
	t.Helper()

	require.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)

	return *envelope.Error
}

func TestAPI_SessionLifecycle(t *testing.T) {
	app := newTestApp(t)
	aliceID := app.register("alice")

	rec, token := app.login("alice", "correct horse battery")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, token)

	rec, envelope := app.do(http.MethodPost, "/api/auth/login", "", `{"email":"alice@example.com","password":"wrong password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, domainerrors.ErrInvalidCredentials.Message(), errorText(t, envelope))

	rec, _ = app.do(http.MethodPost, "/api/auth/login", "", `{"email":"ghost@example.com","password":"whatever1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, envelope = app.do(http.MethodGet, "/api/users/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	me, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, aliceID, me["id"], 0)
	assert.Equal(t, "alice", me["username"])
	assert.NotContains(t, rec.Body.String(), "argon2")

	expired, err := app.issuer.Issue(entity.NewIdentity(aliceID), time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	rec, envelope = app.do(http.MethodGet, "/api/users/me", expired, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, domainerrors.ErrTokenInvalid.Message(), errorText(t, envelope))

	// Alter one full base64 character inside the payload segment.
	i := strings.Index(token, ".") + 3
	tampered := token[:i] + flipChar(token[i]) + token[i+1:]
	rec, envelope = app.do(http.MethodGet, "/api/users/me", tampered, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, domainerrors.ErrTokenInvalid.Message(), errorText(t, envelope))

	// Flip only the unused low bit carried by the final signature character.
	last := len(token) - 1
	tampered = token[:last] + string(flipLowBit(token[last]))
	rec, envelope = app.do(http.MethodGet, "/api/users/me", tampered, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, domainerrors.ErrTokenInvalid.Message(), errorText(t, envelope))

	rec, envelope = app.do(http.MethodGet, "/api/users/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, domainerrors.ErrTokenMissing.Message(), errorText(t, envelope))
	assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))
}

func TestAPI_RegistrationRules(t *testing.T) {
	app := newTestApp(t)
	app.register("alice")

	rec, envelope := app.do(http.MethodPost, "/api/users", "",
		`{"username":"alice","email":"alice@example.com","password":"correct horse battery"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, domainerrors.ErrUserAlreadyExists.Message(), errorText(t, envelope))

	rec, envelope = app.do(http.MethodPost, "/api/users", "", `{"username":"carol","email":"carol@example.com","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errorText(t, envelope)
	require.NotNil(t, envelope.Message)
}

func TestAPI_FollowGraph(t *testing.T) {
	app := newTestApp(t)
	aliceID := app.register("alice")
	bobID := app.register("bob")
	_, token := app.login("alice", "correct horse battery")
	bob := strconv.FormatInt(bobID, 10)
	alice := strconv.FormatInt(aliceID, 10)

	rec, envelope := app.do(http.MethodPost, "/api/users/"+bob+"/follow", token, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, envelope.Success)

	rec, envelope = app.do(http.MethodPost, "/api/users/"+bob+"/follow", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domainerrors.ErrAlreadyFollowing.Message(), errorText(t, envelope))

	rec, envelope = app.do(http.MethodGet, "/api/users/"+bob+"/followers/count", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 1, envelope.Data, 0)

	rec, envelope = app.do(http.MethodGet, "/api/users/"+alice+"/following/"+bob, token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"following": true}, envelope.Data)

	rec, envelope = app.do(http.MethodPost, "/api/users/"+alice+"/follow", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domainerrors.ErrSelfFollow.Message(), errorText(t, envelope))

	rec, _ = app.do(http.MethodPost, "/api/users/999/follow", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = app.do(http.MethodPost, "/api/users/"+bob+"/follow", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, envelope = app.do(http.MethodDelete, "/api/users/"+bob+"/unfollow", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, envelope.Success)

	rec, envelope = app.do(http.MethodDelete, "/api/users/"+bob+"/unfollow", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, domainerrors.ErrNotFollowing.Message(), errorText(t, envelope))

	rec, envelope = app.do(http.MethodGet, "/api/users/"+bob+"/followers/count", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 0, envelope.Data, 0)

	rec, envelope = app.do(http.MethodGet, "/api/users/"+alice+"/following/count", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 0, envelope.Data, 0)
}

func TestAPI_OperationalEndpoints(t *testing.T) {
	app := newTestApp(t)

	rec, _ := app.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	app.register("alice")
	app.login("alice", "correct horse battery")

	rec, _ = app.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `socialgraph_login_attempts_total{outcome="success"} 1`)
	assert.Contains(t, rec.Body.String(), `socialgraph_registrations_total{outcome="success"} 1`)

	rec, envelope := app.do(http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", errorText(t, envelope))
}

func flipLowBit(c byte) byte {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	return alphabet[strings.IndexByte(alphabet, c)^1]
}

func flipChar(b byte) string {
	if b == 'A' {
		return "B"
	}

	return "A"
}

func TestAPI_StalledStorageIsBoundedByRequestTimeout(t *testing.T) {
	cfg := newTestConfig()
	cfg.HTTP.Timeouts.RequestTimeout = 100 * time.Millisecond
	store := newMemStore()
	store.stalled = true
	app := newTestAppWith(t, cfg, store)

	started := time.Now()
	rec, envelope := app.do(http.MethodGet, "/api/users/1/followers/count", "", "")
	elapsed := time.Since(started)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", errorText(t, envelope))
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, 5*time.Second)
}
