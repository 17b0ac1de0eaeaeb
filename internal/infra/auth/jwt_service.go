package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"socialgraph/config"
	"socialgraph/internal/domain/entity"
	"socialgraph/internal/domain/service"
	"socialgraph/internal/errors"
)

// AccessTokenTTL is the fixed lifetime of a session token.
const AccessTokenTTL = time.Hour

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret []byte        // Secret key for signing access tokens.
	accessTTL    time.Duration // Time-to-live for access tokens.
}

// NewJWTService is the constructor for jwtService.
// A missing signing secret is a startup fault.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, service.ErrMissingSigningSecret
	}

	return &jwtService{
		accessSecret: []byte(cfg.SecretKey.Access),
		accessTTL:    AccessTokenTTL,
	}, nil
}

// Issue creates a signed HS256 token whose subject is identity.
func (s *jwtService) Issue(identity entity.Identity, now time.Time) (string, error) {
	if len(s.accessSecret) == 0 {
		return "", service.ErrMissingSigningSecret
	}

	claims := jwt.RegisteredClaims{
		Subject:   identity.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.accessSecret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}

	return signed, nil
}

// Validate verifies the signature first, then that exp is after now.
func (s *jwtService) Validate(tokenString string, now time.Time) (entity.Identity, error) {
	if len(s.accessSecret) == 0 {
		return "", service.ErrMissingSigningSecret
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.accessSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return "", classifyTokenError(err)
	}

	if claims.Subject == "" {
		return "", errors.Wrap(service.ErrTokenMalformed, "missing subject")
	}

	return entity.Identity(claims.Subject), nil
}

// TTL returns the configured duration for access tokens.
func (s *jwtService) TTL() time.Duration {
	return s.accessTTL
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return errors.Wrap(service.ErrTokenSignatureInvalid, err.Error())
	case errors.Is(err, jwt.ErrTokenExpired):
		return errors.Wrap(service.ErrTokenExpired, err.Error())
	default:
		return errors.Wrap(service.ErrTokenMalformed, err.Error())
	}
}
