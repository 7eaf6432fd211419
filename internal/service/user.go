package service

import (
	"context"
	"fmt"

	"github.com/msomdec/usercrud/internal/domain"
)

// UserService handles user CRUD on top of a UserRepository.
type UserService struct {
	users domain.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

// FindAll returns every user in the store's natural order.
func (s *UserService) FindAll(ctx context.Context) ([]domain.User, error) {
	return s.users.FindAll(ctx)
}

// FindByID returns a user by ID.
func (s *UserService) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// IsUserExist reports whether a user with the same name is already stored.
func (s *UserService) IsUserExist(ctx context.Context, user *domain.User) (bool, error) {
	return s.users.ExistsByName(ctx, user.Name)
}

// Create stores a new user and sets its ID. Any ID on the input is ignored.
// The name check and the insert are not atomic.
func (s *UserService) Create(ctx context.Context, user *domain.User) error {
	exists, err := s.IsUserExist(ctx, user)
	if err != nil {
		return fmt.Errorf("check user name: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateName, user.Name)
	}

	user.ID = 0
	if err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update copies name, age and salary from changes onto the stored user with
// the given ID and persists it. The stored ID is kept.
func (s *UserService) Update(ctx context.Context, id int64, changes *domain.User) (*domain.User, error) {
	current, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current.Name = changes.Name
	current.Age = changes.Age
	current.Salary = changes.Salary

	if err := s.users.Save(ctx, current); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return current, nil
}

// DeleteByID deletes a user after confirming it exists.
func (s *UserService) DeleteByID(ctx context.Context, id int64) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	return s.users.DeleteByID(ctx, id)
}

// DeleteAll removes every user.
func (s *UserService) DeleteAll(ctx context.Context) error {
	return s.users.DeleteAll(ctx)
}
