package memory

import (
	"context"
	"strings"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/user"
)

type userRepository struct {
	s *Store
}

func NewUserRepository(s *Store) user.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) emailTaken(email, exceptID string) bool {
	for _, u := range r.s.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	if r.emailTaken(newUser.Email, "") {
		return user.User{}, user.ErrUserEmailExists
	}
	if newUser.ID == "" {
		newUser.ID = newID()
	}
	newUser.Email = strings.ToLower(newUser.Email)
	stamp(&newUser.CreatedAt, &newUser.UpdatedAt)
	r.s.users[newUser.ID] = newUser
	return newUser, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) GetByEmployeeID(ctx context.Context, employeeID string) (user.User, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	for _, u := range r.s.users {
		if u.EmployeeID != nil && *u.EmployeeID == employeeID {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) List(ctx context.Context) ([]user.User, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	users := make([]user.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sortBy(users, false, func(a, b user.User) int { return a.CreatedAt.Compare(b.CreatedAt) }, func(u user.User) string { return u.ID })
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, u user.User) (user.User, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	existing, ok := r.s.users[u.ID]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	if r.emailTaken(u.Email, u.ID) {
		return user.User{}, user.ErrUserEmailExists
	}
	u.Email = strings.ToLower(u.Email)
	u.CreatedAt = existing.CreatedAt
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = time.Now()
	}
	r.s.users[u.ID] = u
	return u, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.LastLoginAt = &at
	r.s.users[id] = u
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	if _, ok := r.s.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.s.users, id)
	return nil
}
