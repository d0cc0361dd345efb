package repository

import (
	"database/sql"
	"stellarone-api/logger"
	"stellarone-api/model"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// IAccountRepository defines the contract for sub-account database operations.
type IAccountRepository interface {
	CreateAccount(account *model.Account) error
	GetAccountsByUserID(userID int) ([]*model.Account, error)
	GetAllAccounts() ([]*model.Account, error)
	GetAccountForUpdate(tx *sql.Tx, userID int, accountType model.AccountType) (*model.Account, error)
	GetAccountForUpdateByNumber(tx *sql.Tx, accountNumber string, accountType model.AccountType) (*model.Account, error)
	UpdateAccountBalance(tx *sql.Tx, accountID int, newBalance decimal.Decimal) error
}

type AccountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

// CreateAccount adds a new sub-account to the database.
func (r *AccountRepository) CreateAccount(account *model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":  account.UserID,
		"type":     account.Type,
		"currency": account.Currency,
	})
	log.Info("Executing query to create a new account")

	query := `INSERT INTO accounts (user_id, type, currency) VALUES ($1, $2, $3) RETURNING id, balance, created_at`
	err := r.DB.QueryRow(query, account.UserID, account.Type, account.Currency).Scan(&account.ID, &account.Balance, &account.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create account query")
		return err
	}
	return nil
}

// GetAccountsByUserID retrieves all sub-accounts for a specific user.
func (r *AccountRepository) GetAccountsByUserID(userID int) ([]*model.Account, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to get accounts by user ID")

	query := `SELECT id, user_id, type, balance, currency, created_at FROM accounts WHERE user_id = $1 ORDER BY type`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for accounts by user ID")
		return nil, err
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		var acc model.Account
		if err := rows.Scan(&acc.ID, &acc.UserID, &acc.Type, &acc.Balance, &acc.Currency, &acc.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan account row")
			return nil, err
		}
		accounts = append(accounts, &acc)
	}
	return accounts, rows.Err()
}

// GetAllAccounts retrieves all accounts from the database. For admin use only.
func (r *AccountRepository) GetAllAccounts() ([]*model.Account, error) {
	query := `SELECT id, user_id, type, balance, currency, created_at FROM accounts ORDER BY user_id, type`
	rows, err := r.DB.Query(query)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute query for all accounts")
		return nil, err
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		var acc model.Account
		if err := rows.Scan(&acc.ID, &acc.UserID, &acc.Type, &acc.Balance, &acc.Currency, &acc.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, &acc)
	}
	return accounts, rows.Err()
}

// GetAccountForUpdate row-locks a user's sub-account inside a transaction.
func (r *AccountRepository) GetAccountForUpdate(tx *sql.Tx, userID int, accountType model.AccountType) (*model.Account, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"type":    accountType,
	})

	account := &model.Account{}
	query := `SELECT id, user_id, type, balance, currency FROM accounts WHERE user_id = $1 AND type = $2 FOR UPDATE`
	err := tx.QueryRow(query, userID, accountType).Scan(&account.ID, &account.UserID, &account.Type, &account.Balance, &account.Currency)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("Account not found for update")
		} else {
			log.WithError(err).Error("Failed to execute get account for update query")
		}
		return nil, err
	}
	return account, nil
}

// GetAccountForUpdateByNumber row-locks a sub-account addressed by its owner's
// account number, used to resolve internal transfer destinations.
func (r *AccountRepository) GetAccountForUpdateByNumber(tx *sql.Tx, accountNumber string, accountType model.AccountType) (*model.Account, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"account_number": accountNumber,
		"type":           accountType,
	})

	account := &model.Account{}
	query := `SELECT a.id, a.user_id, a.type, a.balance, a.currency
		FROM accounts a JOIN users u ON u.id = a.user_id
		WHERE u.account_number = $1 AND a.type = $2 FOR UPDATE OF a`
	err := tx.QueryRow(query, accountNumber, accountType).Scan(&account.ID, &account.UserID, &account.Type, &account.Balance, &account.Currency)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("Destination account not found for update")
		} else {
			log.WithError(err).Error("Failed to execute get account for update by number query")
		}
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) UpdateAccountBalance(tx *sql.Tx, accountID int, newBalance decimal.Decimal) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_id":  accountID,
		"new_balance": newBalance,
	})
	log.Info("Executing query to update account balance")

	query := `UPDATE accounts SET balance = $1 WHERE id = $2`
	_, err := tx.Exec(query, newBalance, accountID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update account balance query")
		return err
	}
	return nil
}
