package repository

import (
	"database/sql"
	"stellarone-api/logger"
	"stellarone-api/model"

	"github.com/sirupsen/logrus"
)

// ILoanRepository defines the contract for loan database operations.
type ILoanRepository interface {
	CreateLoan(tx *sql.Tx, loan *model.Loan) error
	GetLoanByID(id string) (*model.Loan, error)
	GetLoanForUpdate(tx *sql.Tx, id string) (*model.Loan, error)
	GetLoansByUserID(userID int) ([]*model.Loan, error)
	GetAllLoans() ([]*model.Loan, error)
	UpdateLoanPaymentState(tx *sql.Tx, loan *model.Loan) error
}

type LoanRepository struct {
	DB *sql.DB
}

func NewLoanRepository(db *sql.DB) *LoanRepository {
	return &LoanRepository{DB: db}
}

const loanColumns = `id, user_id, principal, annual_rate, term_months, monthly_payment, current_balance, payments_made, next_payment_date, status, created_at`

// CreateLoan inserts the loan inside the caller's transaction so the row and
// the principal disbursement commit or roll back together.
func (r *LoanRepository) CreateLoan(tx *sql.Tx, loan *model.Loan) error {
	log := logger.Log.WithFields(logrus.Fields{
		"loan_id":   loan.ID,
		"user_id":   loan.UserID,
		"principal": loan.Principal,
	})
	log.Info("Executing query to create a new loan")

	query := `INSERT INTO loans (id, user_id, principal, annual_rate, term_months, monthly_payment, current_balance, next_payment_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING payments_made, status, created_at`
	err := tx.QueryRow(query, loan.ID, loan.UserID, loan.Principal, loan.AnnualRate, loan.TermMonths,
		loan.MonthlyPayment, loan.CurrentBalance, loan.NextPaymentDate).
		Scan(&loan.PaymentsMade, &loan.Status, &loan.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create loan query")
		return err
	}
	return nil
}

func (r *LoanRepository) scanLoan(scan func(dest ...interface{}) error) (*model.Loan, error) {
	loan := &model.Loan{}
	err := scan(&loan.ID, &loan.UserID, &loan.Principal, &loan.AnnualRate, &loan.TermMonths,
		&loan.MonthlyPayment, &loan.CurrentBalance, &loan.PaymentsMade, &loan.NextPaymentDate,
		&loan.Status, &loan.CreatedAt)
	if err != nil {
		return nil, err
	}
	return loan, nil
}

func (r *LoanRepository) GetLoanByID(id string) (*model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	return r.scanLoan(r.DB.QueryRow(query, id).Scan)
}

// GetLoanForUpdate row-locks a loan so a payment and the running-state update
// commit together.
func (r *LoanRepository) GetLoanForUpdate(tx *sql.Tx, id string) (*model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`
	return r.scanLoan(tx.QueryRow(query, id).Scan)
}

func (r *LoanRepository) queryLoans(query string, args ...interface{}) ([]*model.Loan, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute loan list query")
		return nil, err
	}
	defer rows.Close()

	var loans []*model.Loan
	for rows.Next() {
		loan, err := r.scanLoan(rows.Scan)
		if err != nil {
			logger.Log.WithError(err).Error("Failed to scan loan row")
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

func (r *LoanRepository) GetLoansByUserID(userID int) ([]*model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryLoans(query, userID)
}

func (r *LoanRepository) GetAllLoans() ([]*model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY created_at DESC`
	return r.queryLoans(query)
}

func (r *LoanRepository) UpdateLoanPaymentState(tx *sql.Tx, loan *model.Loan) error {
	log := logger.Log.WithFields(logrus.Fields{
		"loan_id":         loan.ID,
		"current_balance": loan.CurrentBalance,
		"payments_made":   loan.PaymentsMade,
		"status":          loan.Status,
	})
	log.Info("Executing query to update loan payment state")

	query := `UPDATE loans SET current_balance = $1, payments_made = $2, next_payment_date = $3, status = $4 WHERE id = $5`
	_, err := tx.Exec(query, loan.CurrentBalance, loan.PaymentsMade, loan.NextPaymentDate, loan.Status, loan.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update loan payment state query")
		return err
	}
	return nil
}
