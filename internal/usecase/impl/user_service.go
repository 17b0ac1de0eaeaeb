// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"socialgraph/config"
	deliverycontext "socialgraph/internal/delivery/context"
	"socialgraph/internal/domain/entity"
	domainerrors "socialgraph/internal/domain/errors"
	"socialgraph/internal/domain/repository"
	"socialgraph/internal/domain/service"
	"socialgraph/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Login outcome labels recorded in metrics.
const (
	loginOutcomeUnknownUser   = "unknown_user"
	loginOutcomeBadPassword   = "bad_password"
	loginOutcomeMalformedHash = "malformed_hash"
	loginOutcomeError         = "error"

	registrationOutcomeRejected = "rejected"
	registrationOutcomeConflict = "conflict"
)

// timingPassword is hashed at construction and verified against for unknown
// emails, so that every login path runs exactly one password verification.
const timingPassword = "timing-equalization-password"

// userService implements the UserUsecase interface.
type userService struct {
	userRepo           repository.UserRepository
	hasher             service.PasswordHasher
	tokenService       service.TokenService
	metrics            service.Metrics
	uniformLoginErrors bool
	logger             *slog.Logger
	now                func() time.Time
	dummyHash          string
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Metrics      service.Metrics
	Config       *config.Config
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
// The timing hash is computed up front; failing to compute it is a startup fault.
func NewUserService(params UserServiceParams) (usecase.UserUsecase, error) {
	uniform := false
	if params.Config != nil && params.Config.Auth != nil {
		uniform = params.Config.Auth.UniformLoginErrors
	}

	dummyHash, err := params.Hasher.Hash(context.Background(), timingPassword)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare timing hash")
	}

	return &userService{
		userRepo:           params.UserRepo,
		hasher:             params.Hasher,
		tokenService:       params.TokenService,
		metrics:            params.Metrics,
		uniformLoginErrors: uniform,
		logger:             params.Logger,
		now:                time.Now,
		dummyHash:          dummyHash,
	}, nil
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register validates the password policy, hashes the password and stores the new account.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.User, error) {
	srv.log(ctx).Info("Starting registration", slog.String("username", input.Username))

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("username", input.Username), slog.Any("error", err))
		srv.metrics.ObserveRegistration(registrationOutcomeRejected)

		return nil, err
	}

	hashedPassword, err := srv.hasher.Hash(ctx, input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))
		srv.metrics.ObserveRegistration(service.OutcomeFailure)

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	newUser := &entity.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	if err := srv.userRepo.Create(ctx, newUser); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			srv.log(ctx).Warn("Registration conflict", slog.String("username", input.Username))
			srv.metrics.ObserveRegistration(registrationOutcomeConflict)

			return nil, domainerrors.ErrUserAlreadyExists
		}
		srv.metrics.ObserveRegistration(service.OutcomeFailure)

		return nil, errors.Wrap(err, "failed to create user during registration")
	}

	srv.metrics.ObserveRegistration(service.OutcomeSuccess)
	srv.log(ctx).Debug("Registration completed", slog.Int64("userID", newUser.ID))

	return newUser, nil
}

// Login verifies the credentials and issues a session token.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.equalizeTiming(ctx, input.Password)
		srv.log(ctx).Warn("Login attempt for unknown email")
		srv.metrics.ObserveLogin(loginOutcomeUnknownUser)

		return nil, srv.loginFailure(domainerrors.ErrUserNotFound)
	}
	if err != nil {
		srv.metrics.ObserveLogin(loginOutcomeError)

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	matched, err := srv.hasher.Verify(ctx, input.Password, user.PasswordHash)
	if err != nil {
		if errors.Is(err, service.ErrMalformedHash) {
			srv.log(ctx).Error("Stored password hash is malformed", slog.Int64("userID", user.ID), slog.Any("error", err))
			srv.metrics.ObserveLogin(loginOutcomeMalformedHash)

			return nil, srv.loginFailure(domainerrors.ErrPasswordHashFailed)
		}
		srv.metrics.ObserveLogin(loginOutcomeError)

		return nil, errors.Wrap(err, "failed to verify password")
	}
	if !matched {
		srv.log(ctx).Warn("Login failed: password mismatch", slog.Int64("userID", user.ID))
		srv.metrics.ObserveLogin(loginOutcomeBadPassword)

		return nil, domainerrors.ErrInvalidCredentials
	}

	srv.upgradeHashIfNeeded(ctx, user, input.Password)

	now := srv.now()
	token, err := srv.tokenService.Issue(entity.NewIdentity(user.ID), now)
	if err != nil {
		srv.log(ctx).Error("Failed to issue session token", slog.Int64("userID", user.ID), slog.Any("error", err))
		srv.metrics.ObserveLogin(loginOutcomeError)

		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed, err.Error())
	}

	srv.metrics.ObserveLogin(service.OutcomeSuccess)
	srv.log(ctx).Info("User logged in", slog.Int64("userID", user.ID))

	return &usecase.LoginOutput{
		AccessToken: token,
		ExpiresAt:   now.Add(srv.tokenService.TTL()),
		User:        user,
	}, nil
}

// GetProfile loads a user by id.
func (srv *userService) GetProfile(ctx context.Context, userID int64) (*entity.User, error) {
	if userID <= 0 {
		return nil, domainerrors.ErrInvalidUserID
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return user, nil
}

// GetMyProfile loads the account behind an authenticated identity.
func (srv *userService) GetMyProfile(ctx context.Context, identity entity.Identity) (*entity.User, error) {
	userID, err := identity.UserID()
	if err != nil {
		return nil, domainerrors.ErrMalformedSubject
	}

	return srv.GetProfile(ctx, userID)
}

// loginFailure collapses unknown-user and storage faults into invalid credentials when configured.
func (srv *userService) loginFailure(err error) error {
	if srv.uniformLoginErrors {
		return domainerrors.ErrInvalidCredentials
	}

	return err
}

// equalizeTiming runs one verification against the throwaway hash.
func (srv *userService) equalizeTiming(ctx context.Context, password string) {
	_, _ = srv.hasher.Verify(ctx, password, srv.dummyHash)
}

// upgradeHashIfNeeded re-hashes legacy or outdated hashes after a successful login.
// Failures are logged and never fail the login.
func (srv *userService) upgradeHashIfNeeded(ctx context.Context, user *entity.User, password string) {
	if !srv.hasher.NeedsRehash(user.PasswordHash) {
		return
	}

	upgraded, err := srv.hasher.Hash(ctx, password)
	if err != nil {
		srv.log(ctx).Warn("Failed to re-hash password", slog.Int64("userID", user.ID), slog.Any("error", err))

		return
	}

	if err := srv.userRepo.UpdatePasswordHash(ctx, user.ID, upgraded); err != nil {
		srv.log(ctx).Warn("Failed to store upgraded password hash", slog.Int64("userID", user.ID), slog.Any("error", err))

		return
	}

	user.PasswordHash = upgraded
	srv.log(ctx).Info("Upgraded password hash", slog.Int64("userID", user.ID))
}
