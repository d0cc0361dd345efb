package repository

import (
	"database/sql"
	"stellarone-api/model"
)

// IStatementRepository defines the contract for statement metadata persistence.
type IStatementRepository interface {
	CreateStatement(statement *model.Statement) error
	GetStatementByID(id string) (*model.Statement, error)
	GetStatementsByUserID(userID int) ([]*model.Statement, error)
}

type StatementRepository struct {
	DB *sql.DB
}

func NewStatementRepository(db *sql.DB) *StatementRepository {
	return &StatementRepository{DB: db}
}

func (r *StatementRepository) CreateStatement(statement *model.Statement) error {
	query := `INSERT INTO statements (id, user_id, account_type, period_start, period_end, format)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING generated_at`
	return r.DB.QueryRow(query, statement.ID, statement.UserID, statement.AccountType,
		statement.PeriodStart, statement.PeriodEnd, statement.Format).Scan(&statement.GeneratedAt)
}

func (r *StatementRepository) GetStatementByID(id string) (*model.Statement, error) {
	s := &model.Statement{}
	query := `SELECT id, user_id, account_type, period_start, period_end, format, generated_at FROM statements WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&s.ID, &s.UserID, &s.AccountType, &s.PeriodStart, &s.PeriodEnd, &s.Format, &s.GeneratedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StatementRepository) GetStatementsByUserID(userID int) ([]*model.Statement, error) {
	query := `SELECT id, user_id, account_type, period_start, period_end, format, generated_at
		FROM statements WHERE user_id = $1 ORDER BY generated_at DESC`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statements []*model.Statement
	for rows.Next() {
		s := &model.Statement{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.AccountType, &s.PeriodStart, &s.PeriodEnd, &s.Format, &s.GeneratedAt); err != nil {
			return nil, err
		}
		statements = append(statements, s)
	}
	return statements, rows.Err()
}
