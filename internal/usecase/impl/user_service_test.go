package impl

import (
	"context"
	"testing"
	"time"

	"socialgraph/internal/domain/entity"
	domainerrors "socialgraph/internal/domain/errors"
	"socialgraph/internal/domain/repository"
	"socialgraph/internal/domain/service"
	mockRepo "socialgraph/internal/mocks/repository"
	mockSvc "socialgraph/internal/mocks/service"
	"socialgraph/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type userServiceMocks struct {
	userRepo     *mockRepo.MockUserRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
}

func newUserServiceForTest(t *testing.T, uniformLoginErrors bool) (*userService, *userServiceMocks) {
	t.Helper()

	mocks := &userServiceMocks{
		userRepo:     mockRepo.NewMockUserRepository(t),
		hasher:       mockSvc.NewMockPasswordHasher(t),
		tokenService: mockSvc.NewMockTokenService(t),
	}

	mocks.hasher.EXPECT().Hash(context.Background(), timingPassword).Return(testDummyHash, nil).Once()

	uc, err := NewUserService(UserServiceParams{
		UserRepo:     mocks.userRepo,
		Hasher:       mocks.hasher,
		TokenService: mocks.tokenService,
		Metrics:      newTestMetrics(),
		Config:       newTestConfig(uniformLoginErrors),
		Logger:       newDiscardLogger(),
	})
	require.NoError(t, err)
	srv := uc.(*userService)
	srv.now = func() time.Time { return fixedNow }

	return srv, mocks
}

func TestUserService_Register_Success(t *testing.T) {
	srv, m := newUserServiceForTest(t, false)
	ctx := context.Background()
	input := &usecase.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "StrongPass123!"}

	m.hasher.EXPECT().ValidatePasswordStrength("StrongPass123!").Return(nil)
	m.hasher.EXPECT().Hash(ctx, "StrongPass123!").Return("$argon2id$hash", nil)
	m.userRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.User")).
		RunAndReturn(func(_ context.Context, user *entity.User) error {
			assert.Equal(t, "alice", user.Username)
			assert.Equal(t, "alice@example.com", user.Email)
			assert.Equal(t, "$argon2id$hash", user.PasswordHash)
			user.ID = 1
			user.CreatedAt = fixedNow

			return nil
		})

	user, err := srv.Register(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, fixedNow, user.CreatedAt)
}

func TestUserService_Register_WeakPassword(t *testing.T) {
	srv, m := newUserServiceForTest(t, false)
	ctx := context.Background()

	m.hasher.EXPECT().
		ValidatePasswordStrength("short").
		Return(domainerrors.ErrPasswordStrength.WithDetails("password must be at least 8 characters long"))

	user, err := srv.Register(ctx, &usecase.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "short"})
	assert.Nil(t, user)
	assert.ErrorIs(t, err, domainerrors.ErrPasswordStrength)
}

func TestUserService_Register_HashFailure(t *testing.T) {
	srv, m := newUserServiceForTest(t, false)
	ctx := context.Background()

	m.hasher.EXPECT().ValidatePasswordStrength("StrongPass123!").Return(nil)
	m.hasher.EXPECT().Hash(ctx, "StrongPass123!").Return("", errors.New("entropy exhausted"))

	_, err := srv.Register(ctx, &usecase.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "StrongPass123!"})
	assert.ErrorIs(t, err, domainerrors.ErrPasswordHashFailed)
}

func TestUserService_Register_Duplicate(t *testing.T) {
	srv, m := newUserServiceForTest(t, false)
	ctx := context.Background()

	m.hasher.EXPECT().ValidatePasswordStrength(mock.Anything).Return(nil)
	m.hasher.EXPECT().Hash(ctx, mock.Anything).Return("$argon2id$hash", nil)
	m.userRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.User")).Return(repository.ErrDuplicateUser)

	_, err := srv.Register(ctx, &usecase.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "StrongPass123!"})
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserService_Register_StorageFault(t *testing.T) {
	srv, m := newUserServiceForTest(t, false)
	ctx := context.Background()
	dbErr := domainerrors.NewDatabaseExecuteError(errors.New("connection refused"), "failed to create user")

	m.hasher.EXPECT().ValidatePasswordStrength(mock.Anything).Return(nil)
	m.hasher.EXPECT().Hash(ctx, mock.Anything).Return("$argon2id$hash", nil)
	m.userRepo.EXPECT().Create(ctx, mock.AnythingOfType("*entity.User")).Return(dbErr)

	_, err := srv.Register(ctx, &usecase.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "StrongPass123!"})
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 500, appErr.HTTPCode())
}

func TestUserService_Login_Success(t *testing.T) {
	srv, m := newUserServiceForTest(t, false)
	ctx := context.Background()
	user := &entity.User{ID: 7, Username: "alice", Email: "alice@example.com", PasswordHash: "$argon2id$hash"}

	m.userRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(user, nil)
	m.hasher.EXPECT().Verify(ctx, "StrongPass123!", "$argon2id$hash").Return(true, nil)
	m.hasher.EXPECT().NeedsRehash("$argon2id$hash").Return(false)
	m.tokenService.EXPECT().Issue(entity.Identity("7"), fixedNow).Return("signed.jwt.token", nil)
	m.tokenService.EXPECT().TTL().Return(time.Hour)

	out, err := srv.Login(ctx, &usecase.LoginInput{Email: "alice@example.com", Password: "StrongPass123!"})
	require.NoError(t, err)
	assert.Equal(t, "signed.jwt.token", out.AccessToken)
	assert.Equal(t, fixedNow.Add(time.Hour), out.ExpiresAt)
	assert.Equal(t, user, out.User)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	srv, m := newUserServiceForTest(t, false)
	ctx := context.Background()
	user := &entity.User{ID: 7, Email: "alice@example.com", PasswordHash: "$argon2id$hash"}

	m.userRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(user, nil)
	m.hasher.EXPECT().Verify(ctx, "nope", "$argon2id$hash").Return(false, nil)

	out, err := srv.Login(ctx, &usecase.LoginInput{Email: "alice@example.com", Password: "nope"})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	testCases := []struct {
		name    string
		uniform bool
		wantErr error
	}{
		{name: "distinct outcome", uniform: false, wantErr: domainerrors.ErrUserNotFound},
		{name: "uniform outcome", uniform: true, wantErr: domainerrors.ErrInvalidCredentials},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv, m := newUserServiceForTest(t, tc.uniform)
			ctx := context.Background()

			m.userRepo.EXPECT().FindByEmail(ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound).Twice()
			m.hasher.EXPECT().Verify(ctx, "whatever1", testDummyHash).Return(false, nil).Twice()

			for range 2 {
				_, err := srv.Login(ctx, &usecase.LoginInput{Email: "ghost@example.com", Password: "whatever1"})
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestNewUserService_TimingHashFailure(t *testing.T) {
	hasher := mockSvc.NewMockPasswordHasher(t)
	hasher.EXPECT().Hash(context.Background(), timingPassword).Return("", context.Canceled)

	uc, err := NewUserService(UserServiceParams{
		UserRepo:     mockRepo.NewMockUserRepository(t),
		Hasher:       hasher,
		TokenService: mockSvc.NewMockTokenService(t),
		Metrics:      newTestMetrics(),
		Config:       newTestConfig(false),
		Logger:       newDiscardLogger(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, uc)
}

func TestUserService_Login_UnknownEmailWithCancelledRequest(t *testing.T) {
	srv, m := newUserServiceForTest(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled first request must not disable verification for later ones.
	m.userRepo.EXPECT().FindByEmail(mock.Anything, "ghost@example.com").Return(nil, repository.ErrUserNotFound).Twice()
	m.hasher.EXPECT().Verify(ctx, "whatever1", testDummyHash).Return(false, context.Canceled).Once()
	m.hasher.EXPECT().Verify(context.Background(), "whatever1", testDummyHash).Return(false, nil).Once()

	_, err := srv.Login(ctx, &usecase.LoginInput{Email: "ghost@example.com", Password: "whatever1"})
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)

	_, err = srv.Login(context.Background(), &usecase.LoginInput{Email: "ghost@example.com", Password: "whatever1"})
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestUserService_Login_MalformedHash(t *testing.T) {
	testCases := []struct {
		name    string
		uniform bool
		wantErr error
	}{
		{name: "distinct outcome", uniform: false, wantErr: domainerrors.ErrPasswordHashFailed},
		{name: "uniform outcome", uniform: true, wantErr: domainerrors.ErrInvalidCredentials},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv, m := newUserServiceForTest(t, tc.uniform)
			ctx := context.Background()
			user := &entity.User{ID: 7, Email: "alice@example.com", PasswordHash: "garbage"}

			m.userRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(user, nil)
			m.hasher.EXPECT().Verify(ctx, "StrongPass123!", "garbage").Return(false, errors.Wrap(service.ErrMalformedHash, "invalid hash format"))

			_, err := srv.Login(ctx, &usecase.LoginInput{Email: "alice@example.com", Password: "StrongPass123!"})
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUserService_Login_StorageFault(t *testing.T) {
	srv, m := newUserServiceForTest(t, false)
	ctx := context.Background()
	dbErr := domainerrors.NewDatabaseExecuteError(errors.New("timeout"), "failed to find user by email")

	m.userRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(nil, dbErr)

	_, err := srv.Login(ctx, &usecase.LoginInput{Email: "alice@example.com", Password: "StrongPass123!"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	assert.False(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestUserService_Login_TokenIssueFailure(t *testing.T) {
	srv, m := newUserServiceForTest(t, false)
	ctx := context.Background()
	user := &entity.User{ID: 7, Email: "alice@example.com", PasswordHash: "$argon2id$hash"}

	m.userRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(user, nil)
	m.hasher.EXPECT().Verify(ctx, mock.Anything, "$argon2id$hash").Return(true, nil)
	m.hasher.EXPECT().NeedsRehash("$argon2id$hash").Return(false)
	m.tokenService.EXPECT().Issue(entity.Identity("7"), fixedNow).Return("", service.ErrMissingSigningSecret)

	_, err := srv.Login(ctx, &usecase.LoginInput{Email: "alice@example.com", Password: "StrongPass123!"})
	assert.ErrorIs(t, err, domainerrors.ErrTokenIssueFailed)
}

func TestUserService_Login_UpgradesLegacyHash(t *testing.T) {
	srv, m := newUserServiceForTest(t, false)
	ctx := context.Background()
	user := &entity.User{ID: 7, Email: "alice@example.com", PasswordHash: "$2a$10$legacy"}

	m.userRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(user, nil)
	m.hasher.EXPECT().Verify(ctx, "StrongPass123!", "$2a$10$legacy").Return(true, nil)
	m.hasher.EXPECT().NeedsRehash("$2a$10$legacy").Return(true)
	m.hasher.EXPECT().Hash(ctx, "StrongPass123!").Return("$argon2id$upgraded", nil)
	m.userRepo.EXPECT().UpdatePasswordHash(ctx, int64(7), "$argon2id$upgraded").Return(nil)
	m.tokenService.EXPECT().Issue(entity.Identity("7"), fixedNow).Return("signed.jwt.token", nil)
	m.tokenService.EXPECT().TTL().Return(time.Hour)

	out, err := srv.Login(ctx, &usecase.LoginInput{Email: "alice@example.com", Password: "StrongPass123!"})
	require.NoError(t, err)
	assert.Equal(t, "$argon2id$upgraded", out.User.PasswordHash)
}

func TestUserService_Login_UpgradeFailureDoesNotFailLogin(t *testing.T) {
	srv, m := newUserServiceForTest(t, false)
	ctx := context.Background()
	user := &entity.User{ID: 7, Email: "alice@example.com", PasswordHash: "$2a$10$legacy"}

	m.userRepo.EXPECT().FindByEmail(ctx, "alice@example.com").Return(user, nil)
	m.hasher.EXPECT().Verify(ctx, mock.Anything, "$2a$10$legacy").Return(true, nil)
	m.hasher.EXPECT().NeedsRehash("$2a$10$legacy").Return(true)
	m.hasher.EXPECT().Hash(ctx, mock.Anything).Return("$argon2id$upgraded", nil)
	m.userRepo.EXPECT().UpdatePasswordHash(ctx, int64(7), "$argon2id$upgraded").Return(errors.New("write failed"))
	m.tokenService.EXPECT().Issue(entity.Identity("7"), fixedNow).Return("signed.jwt.token", nil)
	m.tokenService.EXPECT().TTL().Return(time.Hour)

	out, err := srv.Login(ctx, &usecase.LoginInput{Email: "alice@example.com", Password: "StrongPass123!"})
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$legacy", out.User.PasswordHash)
}

func TestUserService_GetProfile(t *testing.T) {
	srv, m := newUserServiceForTest(t, false)
	ctx := context.Background()
	user := &entity.User{ID: 3, Username: "bob"}

	m.userRepo.EXPECT().FindByID(ctx, int64(3)).Return(user, nil)
	m.userRepo.EXPECT().FindByID(ctx, int64(4)).Return(nil, repository.ErrUserNotFound)

	got, err := srv.GetProfile(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = srv.GetProfile(ctx, 4)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)

	_, err = srv.GetProfile(ctx, 0)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidUserID)
}

func TestUserService_GetMyProfile(t *testing.T) {
	srv, m := newUserServiceForTest(t, false)
	ctx := context.Background()
	user := &entity.User{ID: 3, Username: "bob"}

	m.userRepo.EXPECT().FindByID(ctx, int64(3)).Return(user, nil)

	got, err := srv.GetMyProfile(ctx, entity.NewIdentity(3))
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = srv.GetMyProfile(ctx, entity.Identity("not-a-number"))
	assert.ErrorIs(t, err, domainerrors.ErrMalformedSubject)
}
