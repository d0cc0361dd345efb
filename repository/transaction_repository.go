package repository

import (
	"database/sql"
	"stellarone-api/logger"
	"stellarone-api/model"
	"time"

	"github.com/sirupsen/logrus"
)

// ITransactionRepository defines the contract for transaction database operations.
type ITransactionRepository interface {
	CreateTransaction(tx *sql.Tx, transaction *model.Transaction) error
	GetTransactionByID(id string) (*model.Transaction, error)
	GetTransactionForUpdate(tx *sql.Tx, id string) (*model.Transaction, error)
	GetTransactionsByUserID(userID int) ([]*model.Transaction, error)
	GetAllTransactions() ([]*model.Transaction, error)
	GetTransactionsForPeriod(userID int, accountType model.AccountType, start, end time.Time) ([]*model.Transaction, error)
	UpdateTransactionStatus(tx *sql.Tx, id string, status model.TransactionStatus) error
	DeleteTransaction(id string) error
}

type TransactionRepository struct {
	DB *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

const transactionColumns = `id, user_id, account_type, kind, amount, currency, status, detail, created_at, updated_at`

func (r *TransactionRepository) CreateTransaction(tx *sql.Tx, transaction *model.Transaction) error {
	log := logger.Log.WithFields(logrus.Fields{
		"transaction_id": transaction.ID,
		"user_id":        transaction.UserID,
		"kind":           transaction.Kind,
		"amount":         transaction.Amount,
	})
	log.Info("Executing query to create a new transaction")

	query := `INSERT INTO transactions (id, user_id, account_type, kind, amount, currency, status, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at, updated_at`
	err := tx.QueryRow(query, transaction.ID, transaction.UserID, transaction.AccountType, transaction.Kind,
		transaction.Amount, transaction.Currency, transaction.Status, nullableJSON(transaction.Detail)).
		Scan(&transaction.CreatedAt, &transaction.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create transaction query")
		return err
	}
	return nil
}

func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

func (r *TransactionRepository) scanTransaction(scan func(dest ...interface{}) error) (*model.Transaction, error) {
	t := &model.Transaction{}
	var detail sql.NullString
	err := scan(&t.ID, &t.UserID, &t.AccountType, &t.Kind, &t.Amount, &t.Currency, &t.Status, &detail, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if detail.Valid {
		t.Detail = []byte(detail.String)
	}
	return t, nil
}

func (r *TransactionRepository) GetTransactionByID(id string) (*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return r.scanTransaction(r.DB.QueryRow(query, id).Scan)
}

// GetTransactionForUpdate row-locks a transaction so a status review and its
// balance effect commit together.
func (r *TransactionRepository) GetTransactionForUpdate(tx *sql.Tx, id string) (*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`
	return r.scanTransaction(tx.QueryRow(query, id).Scan)
}

func (r *TransactionRepository) queryTransactions(query string, args ...interface{}) ([]*model.Transaction, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute transaction list query")
		return nil, err
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		t, err := r.scanTransaction(rows.Scan)
		if err != nil {
			logger.Log.WithError(err).Error("Failed to scan transaction row")
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) GetTransactionsByUserID(userID int) ([]*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryTransactions(query, userID)
}

func (r *TransactionRepository) GetAllTransactions() ([]*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY created_at DESC`
	return r.queryTransactions(query)
}

// GetTransactionsForPeriod returns a user's transactions on one sub-account
// inside a date range, oldest first, for statement rendering.
func (r *TransactionRepository) GetTransactionsForPeriod(userID int, accountType model.AccountType, start, end time.Time) ([]*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE user_id = $1 AND account_type = $2 AND created_at >= $3 AND created_at < $4
		ORDER BY created_at ASC`
	return r.queryTransactions(query, userID, accountType, start, end)
}

func (r *TransactionRepository) UpdateTransactionStatus(tx *sql.Tx, id string, status model.TransactionStatus) error {
	log := logger.Log.WithFields(logrus.Fields{
		"transaction_id": id,
		"status":         status,
	})
	log.Info("Executing query to update transaction status")

	query := `UPDATE transactions SET status = $1, updated_at = now() WHERE id = $2`
	_, err := tx.Exec(query, status, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute update transaction status query")
		return err
	}
	return nil
}

func (r *TransactionRepository) DeleteTransaction(id string) error {
	query := `DELETE FROM transactions WHERE id = $1`
	_, err := r.DB.Exec(query, id)
	return err
}
