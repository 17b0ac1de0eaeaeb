// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"socialgraph/config"
	domainerrors "socialgraph/internal/domain/errors"
	"socialgraph/internal/domain/service"
	"socialgraph/internal/errors"
)

const argon2idPrefix = "$argon2id$"

// Upper bounds for parameters decoded from stored hashes.
const (
	maxDecodedMemory     = 1024 * 1024 // KiB, 1 GiB
	maxDecodedIterations = 16
	maxDecodedKeyLength  = 1024
)

// argon2Hasher is a concrete implementation of the PasswordHasher interface using argon2id.
// Hashes written by the previous bcrypt implementation still verify.
type argon2Hasher struct {
	params   config.Argon2Config
	strength config.PasswordStrengthConfig
	sem      *semaphore.Weighted
}

// NewArgon2Hasher is the constructor for argon2Hasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewArgon2Hasher(cfg *config.Config) service.PasswordHasher {
	authCfg := config.AuthConfig{}
	if cfg.Auth != nil {
		authCfg = *cfg.Auth
	}
	strength := config.PasswordStrengthConfig{MinLength: 8, MaxLength: 128}
	if cfg.PasswordStrength != nil {
		strength = *cfg.PasswordStrength
	}
	limit := authCfg.MaxConcurrentHashes
	if limit <= 0 {
		limit = 1
	}

	return &argon2Hasher{
		params:   authCfg.Argon2.WithDefaults(),
		strength: strength,
		sem:      semaphore.NewWeighted(int64(limit)),
	}
}

// Hash produces an argon2id hash in PHC string format:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
func (h *argon2Hasher) Hash(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", service.ErrEmptyPassword
	}

	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "generate salt")
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", errors.Wrap(err, "acquire hashing slot")
	}
	key := argon2.IDKey([]byte(password), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)
	h.sem.Release(1)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify checks if the password matches the hash.
func (h *argon2Hasher) Verify(ctx context.Context, password, encodedHash string) (bool, error) {
	if isBcryptHash(encodedHash) {
		return h.verifyBcrypt(ctx, password, encodedHash)
	}

	decoded, err := decodeArgon2Hash(encodedHash)
	if err != nil {
		return false, err
	}

	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, errors.Wrap(err, "acquire hashing slot")
	}
	computed := argon2.IDKey([]byte(password), decoded.salt, decoded.iterations, decoded.memory, decoded.parallelism, uint32(len(decoded.key)))
	h.sem.Release(1)

	return subtle.ConstantTimeCompare(computed, decoded.key) == 1, nil
}

// NeedsRehash reports legacy bcrypt hashes and argon2id hashes whose
// parameters differ from the configured ones.
func (h *argon2Hasher) NeedsRehash(encodedHash string) bool {
	decoded, err := decodeArgon2Hash(encodedHash)
	if err != nil {
		return true
	}

	return decoded.memory != h.params.Memory ||
		decoded.iterations != h.params.Iterations ||
		decoded.parallelism != h.params.Parallelism ||
		uint32(len(decoded.key)) != h.params.KeyLength ||
		uint32(len(decoded.salt)) != h.params.SaltLength
}

func (h *argon2Hasher) verifyBcrypt(ctx context.Context, password, encodedHash string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, errors.Wrap(err, "acquire hashing slot")
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, errors.Wrap(service.ErrMalformedHash, err.Error())
	}
}

type argon2Params struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func decodeArgon2Hash(encodedHash string) (*argon2Params, error) {
	if !strings.HasPrefix(encodedHash, argon2idPrefix) {
		return nil, errors.Wrap(service.ErrMalformedHash, "unsupported hash algorithm")
	}

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return nil, errors.Wrap(service.ErrMalformedHash, "invalid hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, errors.Wrap(service.ErrMalformedHash, "unsupported argon2 version")
	}

	var memory, iterations, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return nil, errors.Wrap(service.ErrMalformedHash, "invalid argon2 parameters")
	}
	if memory == 0 || memory > maxDecodedMemory || iterations == 0 || iterations > maxDecodedIterations ||
		threads == 0 || threads > 255 {
		return nil, errors.Wrapf(service.ErrMalformedHash, "argon2 parameters out of bounds: m=%d,t=%d,p=%d", memory, iterations, threads)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return nil, errors.Wrap(service.ErrMalformedHash, "invalid salt encoding")
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 || len(key) > maxDecodedKeyLength {
		return nil, errors.Wrap(service.ErrMalformedHash, "invalid key encoding")
	}

	return &argon2Params{
		memory:      memory,
		iterations:  iterations,
		parallelism: uint8(threads),
		salt:        salt,
		key:         key,
	}, nil
}

func isBcryptHash(encodedHash string) bool {
	return strings.HasPrefix(encodedHash, "$2a$") ||
		strings.HasPrefix(encodedHash, "$2b$") ||
		strings.HasPrefix(encodedHash, "$2y$")
}

// ValidatePasswordStrength validates password against the configured policy.
func (h *argon2Hasher) ValidatePasswordStrength(password string) error {
	length := len([]rune(password))
	if length < h.strength.MinLength {
		return domainerrors.ErrPasswordStrength.WithDetails(fmt.Sprintf("password must be at least %d characters long", h.strength.MinLength))
	}
	if h.strength.MaxLength > 0 && length > h.strength.MaxLength {
		return domainerrors.ErrPasswordStrength.WithDetails(fmt.Sprintf("password must be at most %d characters long", h.strength.MaxLength))
	}
	if h.strength.RequireUppercase && !hasUppercase(password) {
		return domainerrors.ErrPasswordStrength.WithDetails("password must contain at least one uppercase letter")
	}
	if h.strength.RequireLowercase && !hasLowercase(password) {
		return domainerrors.ErrPasswordStrength.WithDetails("password must contain at least one lowercase letter")
	}
	if h.strength.RequireNumbers && !hasNumbers(password) {
		return domainerrors.ErrPasswordStrength.WithDetails("password must contain at least one number")
	}
	if h.strength.RequireSpecial && !hasSpecialChars(password) {
		return domainerrors.ErrPasswordStrength.WithDetails("password must contain at least one special character")
	}

	return nil
}

func hasUppercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}

func hasLowercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsLower) >= 0
}

func hasNumbers(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func hasSpecialChars(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}) >= 0
}
