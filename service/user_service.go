package service

import (
	"database/sql"
	"errors"
	"stellarone-api/model"
	"stellarone-api/repository"
)

// UserService handles user-related business logic, mostly admin operations.
type UserService struct {
	userRepo repository.IUserRepository
}

func NewUserService(userRepo repository.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUser(userID int) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers() ([]*model.User, error) {
	return s.userRepo.GetAllUsers()
}

// UpdateUserRole validates the role and calls the repository to update it.
func (s *UserService) UpdateUserRole(userID int, newRole model.Role) error {
	if newRole != model.RoleAdmin && newRole != model.RoleUser {
		return errors.New("invalid role specified")
	}
	return s.userRepo.UpdateUserRole(userID, string(newRole))
}

func (s *UserService) UpdateUserLevel(userID int, level model.AccountLevel) error {
	return s.userRepo.UpdateUserLevel(userID, string(level))
}

// UpdateUserStatus moves a user between the soft lifecycle states. Users are
// never hard-deleted.
func (s *UserService) UpdateUserStatus(userID int, status model.UserStatus) error {
	return s.userRepo.UpdateUserStatus(userID, string(status))
}
