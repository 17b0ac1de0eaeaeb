package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	deliverycontext "socialgraph/internal/delivery/context"
	"socialgraph/internal/domain/entity"
	domainerrors "socialgraph/internal/domain/errors"
	"socialgraph/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const bearerPrefix = "Bearer "

// Token rejection reasons recorded in metrics and logs.
const (
	rejectMissing         = "missing"
	rejectMalformedHeader = "malformed_header"
	rejectMalformedToken  = "malformed_token"
	rejectSignature       = "invalid_signature"
	rejectExpired         = "expired"
)

// IdentityHandlerFunc is a handler that runs on behalf of an authenticated caller.
type IdentityHandlerFunc func(c echo.Context, identity entity.Identity) error

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	TokenService service.TokenService
	Metrics      service.Metrics
	Logger       *slog.Logger
}

// AuthMiddleware guards routes with bearer session tokens.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	metrics  service.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{
		tokenSvc: params.TokenService,
		metrics:  params.Metrics,
		logger:   params.Logger,
		now:      time.Now,
	}
}

// Authorize extracts and validates the bearer token of a request.
// Every token-level failure is reported as ErrTokenInvalid; the precise reason
// only reaches logs and metrics.
func (m *AuthMiddleware) Authorize(header http.Header, now time.Time) (entity.Identity, error) {
	authHeader := header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		m.metrics.ObserveTokenRejection(rejectMissing)

		return "", domainerrors.ErrTokenMissing
	}

	tokenString, ok := strings.CutPrefix(authHeader, bearerPrefix)
	if !ok {
		m.metrics.ObserveTokenRejection(rejectMalformedHeader)

		return "", domainerrors.ErrTokenMalformed
	}

	identity, err := m.tokenSvc.Validate(tokenString, now)
	if err != nil {
		reason := rejectionReason(err)
		m.metrics.ObserveTokenRejection(reason)

		return "", errors.Wrap(domainerrors.ErrTokenInvalid, reason)
	}

	return identity, nil
}

// Protect wraps handler so that it only runs for requests carrying a valid token.
// The identity is passed to handler and attached to the request-scoped logger.
func (m *AuthMiddleware) Protect(handler IdentityHandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		ctx := req.Context()
		logger := deliverycontext.GetLoggerOrDefault(ctx, m.logger)

		identity, err := m.Authorize(req.Header, m.now())
		if err != nil {
			logger.Warn("Rejected unauthenticated request",
				slog.String("path", req.URL.Path),
				slog.String("reason", err.Error()),
			)

			return err
		}

		c.SetRequest(req.WithContext(deliverycontext.WithLogAttrs(ctx, m.logger, slog.String("subject", identity.String()))))

		return handler(c, identity)
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, service.ErrTokenExpired):
		return rejectExpired
	case errors.Is(err, service.ErrTokenSignatureInvalid):
		return rejectSignature
	default:
		return rejectMalformedToken
	}
}
