package auth_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/questlog/questlog/internal/auth"
)

type fakeRepo struct {
	mu      sync.Mutex
	users   map[string]*auth.User
	nextID  int64
	findErr error
	calls   int
}

func newFakeRepo(users ...*auth.User) *fakeRepo {
	r := &fakeRepo{users: make(map[string]*auth.User), nextID: 100}
	for _, u := range users {
		r.users[auth.NormalizeEmail(u.Email)] = u
	}
	return r
}

func (r *fakeRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[auth.NormalizeEmail(email)]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeRepo) CreateUser(_ context.Context, in auth.NewUser) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := auth.NormalizeEmail(in.Email)
	if _, ok := r.users[email]; ok {
		return nil, auth.ErrEmailTaken
	}
	for _, u := range r.users {
		if u.Username == in.Username {
			return nil, auth.ErrUsernameTaken
		}
	}
	r.nextID++
	u := &auth.User{
		ID:           r.nextID,
		Email:        email,
		Username:     in.Username,
		PasswordHash: in.PasswordHash,
		Roles:        in.Roles,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	r.users[email] = u
	return u, nil
}

type recordingNotifier struct {
	welcomed []int64
	err      error
}

func (n *recordingNotifier) WelcomeUser(_ context.Context, u *auth.User) error {
	n.welcomed = append(n.welcomed, u.ID)
	return n.err
}

var errStoreDown = errors.New("connection refused")
