package repository

import (
	"database/sql"
	"errors"
	"stellarone-api/model"

	"github.com/lib/pq"
)

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByEmail(email string) (*model.User, error)
	GetUserByAccountNumber(accountNumber string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	GetAllUsers() ([]*model.User, error)
	UpdatePassword(userID int, passwordHash string) error
	UpdateUserRole(userID int, role string) error
	UpdateUserLevel(userID int, level string) error
	UpdateUserStatus(userID int, status string) error
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, name, email, account_number, password_hash, role, account_level, status, created_at, updated_at`

func (r *UserRepository) CreateUser(user *model.User) error {
	query := `INSERT INTO users (name, email, account_number, password_hash, role, account_level)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, status, created_at, updated_at`
	return r.DB.QueryRow(query, user.Name, user.Email, user.AccountNumber, user.PasswordHash, user.Role, user.AccountLevel).
		Scan(&user.ID, &user.Status, &user.CreatedAt, &user.UpdatedAt)
}

func (r *UserRepository) scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.AccountNumber, &user.PasswordHash,
		&user.Role, &user.AccountLevel, &user.Status, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.DB.QueryRow(query, email))
}

func (r *UserRepository) GetUserByAccountNumber(accountNumber string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE account_number = $1`
	return r.scanUser(r.DB.QueryRow(query, accountNumber))
}

func (r *UserRepository) GetUserByID(id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.DB.QueryRow(query, id))
}

func (r *UserRepository) GetAllUsers() ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user := &model.User{}
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.AccountNumber, &user.PasswordHash,
			&user.Role, &user.AccountLevel, &user.Status, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdatePassword(userID int, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`
	_, err := r.DB.Exec(query, passwordHash, userID)
	return err
}

func (r *UserRepository) UpdateUserRole(userID int, role string) error {
	query := `UPDATE users SET role = $1, updated_at = now() WHERE id = $2`
	_, err := r.DB.Exec(query, role, userID)
	return err
}

func (r *UserRepository) UpdateUserLevel(userID int, level string) error {
	query := `UPDATE users SET account_level = $1, updated_at = now() WHERE id = $2`
	_, err := r.DB.Exec(query, level, userID)
	return err
}

func (r *UserRepository) UpdateUserStatus(userID int, status string) error {
	query := `UPDATE users SET status = $1, updated_at = now() WHERE id = $2`
	_, err := r.DB.Exec(query, status, userID)
	return err
}

// IsUniqueViolation reports whether err is a postgres unique constraint
// violation, used to surface duplicate emails and account numbers as conflicts.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// IsForeignKeyViolation reports whether err is a postgres foreign key
// violation, used when deleting currencies still referenced by accounts.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
