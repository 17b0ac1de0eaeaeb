package api

import (
	"context"
	"sync"
	"time"

	"socialgraph/internal/domain/entity"
	domainerrors "socialgraph/internal/domain/errors"
	"socialgraph/internal/domain/repository"
)

type followKey struct {
	follower int64
	followed int64
}

// memStore is an in-memory stand-in for Postgres that honours the same
// uniqueness and foreign-key rules as the schema.
type memStore struct {
	mu      sync.Mutex
	nextID  int64
	users   map[int64]*entity.User
	follows map[followKey]entity.Follow
	// stalled makes counting block until the caller's context ends, like a saturated pool.
	stalled bool
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[int64]*entity.User),
		follows: make(map[followKey]entity.Follow),
	}
}

func (s *memStore) UserRepo() repository.UserRepository     { return memUserRepo{s} }
func (s *memStore) FollowRepo() repository.FollowRepository { return memFollowRepo{s} }

func (s *memStore) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(s)
}

type memUserRepo struct{ s *memStore }

func (r memUserRepo) FindByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *u

	return &clone, nil
}

func (r memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			clone := *u

			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r memUserRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.users[id]

	return ok, nil
}

func (r memUserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repository.ErrDuplicateUser
		}
	}

	r.s.nextID++
	now := time.Now().UTC()
	user.ID = r.s.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	clone := *user
	r.s.users[user.ID] = &clone

	return nil
}

func (r memUserRepo) UpdatePasswordHash(_ context.Context, id int64, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash

	return nil
}

type memFollowRepo struct{ s *memStore }

func (r memFollowRepo) Exists(_ context.Context, followerID, followedID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.follows[followKey{followerID, followedID}]

	return ok, nil
}

func (r memFollowRepo) Create(_ context.Context, follow *entity.Follow) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[follow.FollowerID]; !ok {
		return repository.ErrFollowUserMissing
	}
	if _, ok := r.s.users[follow.FollowedID]; !ok {
		return repository.ErrFollowUserMissing
	}
	key := followKey{follow.FollowerID, follow.FollowedID}
	if _, ok := r.s.follows[key]; ok {
		return repository.ErrDuplicateFollow
	}
	r.s.follows[key] = *follow

	return nil
}

func (r memFollowRepo) Delete(_ context.Context, followerID, followedID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := followKey{followerID, followedID}
	if _, ok := r.s.follows[key]; !ok {
		return repository.ErrFollowNotFound
	}
	delete(r.s.follows, key)

	return nil
}

func (r memFollowRepo) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	if r.s.stalled {
		<-ctx.Done()

		return 0, domainerrors.NewDatabaseExecuteError(ctx.Err(), "failed to count followers")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for key := range r.s.follows {
		if key.followed == userID {
			n++
		}
	}

	return n, nil
}

func (r memFollowRepo) CountFollowing(_ context.Context, userID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for key := range r.s.follows {
		if key.follower == userID {
			n++
		}
	}

	return n, nil
}
