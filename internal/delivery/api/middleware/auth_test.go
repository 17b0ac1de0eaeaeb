package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	deliverycontext "socialgraph/internal/delivery/context"
	"socialgraph/internal/domain/entity"
	domainerrors "socialgraph/internal/domain/errors"
	"socialgraph/internal/domain/service"
	"socialgraph/internal/infra/metrics"
	mockservice "socialgraph/internal/mocks/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var authNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newTestAuthMiddleware(t *testing.T) (*AuthMiddleware, *mockservice.MockTokenService, *prometheus.Registry) {
	t.Helper()

	tokenSvc := mockservice.NewMockTokenService(t)
	reg := prometheus.NewRegistry()
	m := NewAuthMiddleware(AuthMiddlewareParams{
		TokenService: tokenSvc,
		Metrics:      metrics.New(reg),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	m.now = func() time.Time { return authNow }

	return m, tokenSvc, reg
}

func bearerHeader(value string) http.Header {
	h := http.Header{}
	if value != "" {
		h.Set(echo.HeaderAuthorization, value)
	}

	return h
}

func TestAuthMiddleware_Authorize(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		setupMock  func(m *mockservice.MockTokenService)
		wantID     entity.Identity
		wantErr    error
		wantReason string
	}{
		{
			name:   "valid token",
			header: "Bearer good",
			setupMock: func(m *mockservice.MockTokenService) {
				m.EXPECT().Validate("good", authNow).Return(entity.Identity("7"), nil).Once()
			},
			wantID: "7",
		},
		{
			name:       "no header",
			wantErr:    domainerrors.ErrTokenMissing,
			wantReason: rejectMissing,
		},
		{
			name:       "wrong scheme",
			header:     "Basic abc",
			wantErr:    domainerrors.ErrTokenMalformed,
			wantReason: rejectMalformedHeader,
		},
		{
			name:       "lowercase scheme",
			header:     "bearer good",
			wantErr:    domainerrors.ErrTokenMalformed,
			wantReason: rejectMalformedHeader,
		},
		{
			name:   "expired token",
			header: "Bearer old",
			setupMock: func(m *mockservice.MockTokenService) {
				m.EXPECT().Validate("old", authNow).Return("", service.ErrTokenExpired).Once()
			},
			wantErr:    domainerrors.ErrTokenInvalid,
			wantReason: rejectExpired,
		},
		{
			name:   "tampered token",
			header: "Bearer forged",
			setupMock: func(m *mockservice.MockTokenService) {
				m.EXPECT().Validate("forged", authNow).Return("", service.ErrTokenSignatureInvalid).Once()
			},
			wantErr:    domainerrors.ErrTokenInvalid,
			wantReason: rejectSignature,
		},
		{
			name:   "garbage token",
			header: "Bearer ",
			setupMock: func(m *mockservice.MockTokenService) {
				m.EXPECT().Validate("", authNow).Return("", service.ErrTokenMalformed).Once()
			},
			wantErr:    domainerrors.ErrTokenInvalid,
			wantReason: rejectMalformedToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, tokenSvc, reg := newTestAuthMiddleware(t)
			if tt.setupMock != nil {
				tt.setupMock(tokenSvc)
			}

			id, err := m.Authorize(bearerHeader(tt.header), authNow)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, id)

				expected := `
# HELP socialgraph_token_rejections_total Total number of rejected bearer tokens by reason
# TYPE socialgraph_token_rejections_total counter
socialgraph_token_rejections_total{reason="` + tt.wantReason + `"} 1
`
				assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "socialgraph_token_rejections_total"))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestAuthMiddleware_ExpiredAndTamperedLookAlike(t *testing.T) {
	m, tokenSvc, _ := newTestAuthMiddleware(t)
	tokenSvc.EXPECT().Validate("old", authNow).Return("", service.ErrTokenExpired).Once()
	tokenSvc.EXPECT().Validate("forged", authNow).Return("", service.ErrTokenSignatureInvalid).Once()

	_, expiredErr := m.Authorize(bearerHeader("Bearer old"), authNow)
	_, tamperedErr := m.Authorize(bearerHeader("Bearer forged"), authNow)

	var expiredApp, tamperedApp domainerrors.AppError
	require.True(t, errors.As(expiredErr, &expiredApp))
	require.True(t, errors.As(tamperedErr, &tamperedApp))
	assert.Equal(t, expiredApp.HTTPCode(), tamperedApp.HTTPCode())
	assert.Equal(t, expiredApp.Message(), tamperedApp.Message())
}

func TestAuthMiddleware_Protect(t *testing.T) {
	t.Run("passes identity to handler", func(t *testing.T) {
		m, tokenSvc, _ := newTestAuthMiddleware(t)
		tokenSvc.EXPECT().Validate("good", authNow).Return(entity.Identity("42"), nil).Once()

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer good")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		var got entity.Identity
		h := m.Protect(func(c echo.Context, identity entity.Identity) error {
			got = identity
			assert.NotNil(t, deliverycontext.GetLogger(c.Request().Context()))

			return c.NoContent(http.StatusNoContent)
		})

		require.NoError(t, h(c))
		assert.Equal(t, entity.Identity("42"), got)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("rejects without calling handler", func(t *testing.T) {
		m, _, _ := newTestAuthMiddleware(t)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		c := e.NewContext(req, httptest.NewRecorder())

		h := m.Protect(func(echo.Context, entity.Identity) error {
			t.Fatal("handler must not run")

			return nil
		})

		err := h(c)
		assert.ErrorIs(t, err, domainerrors.ErrTokenMissing)
	})
}
