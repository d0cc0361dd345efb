package model

import "time"

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

type AccountLevel string

const (
	LevelStandard AccountLevel = "standard"
	LevelPremier  AccountLevel = "premier"
	LevelPrivate  AccountLevel = "private"
)

type UserStatus string

const (
	UserActive UserStatus = "active"
	UserFrozen UserStatus = "frozen"
	UserClosed UserStatus = "closed"
)

type User struct {
	ID            int          `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	AccountNumber string       `json:"account_number"`
	PasswordHash  string       `json:"-"`
	Role          Role         `json:"role"`
	AccountLevel  AccountLevel `json:"account_level"`
	Status        UserStatus   `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// UserSnapshot is the public profile returned on verify-otp and cached in the
// userDataStellarOne cookie. It never carries the password hash.
type UserSnapshot struct {
	ID            int          `json:"id"`
	Name          string       `json:"name"`
	AccountNumber string       `json:"account_number"`
	Role          Role         `json:"role"`
	AccountLevel  AccountLevel `json:"account_level"`
	AccountIDs    []int        `json:"account_ids"`
}

func (u *User) Snapshot(accountIDs []int) UserSnapshot {
	return UserSnapshot{
		ID:            u.ID,
		Name:          u.Name,
		AccountNumber: u.AccountNumber,
		Role:          u.Role,
		AccountLevel:  u.AccountLevel,
		AccountIDs:    accountIDs,
	}
}
