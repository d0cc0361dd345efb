package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"stellarone-api/logger"
	"stellarone-api/model"
	"stellarone-api/repository"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrLoanNotFound    = errors.New("loan not found")
	ErrLoanAlreadyPaid = errors.New("loan is already paid off")
)

// LoanService handles loan origination and payment processing. Payments debit
// the borrower's checking sub-account and update the loan's running state in
// one sql transaction.
type LoanService struct {
	db              *sql.DB
	loanRepo        repository.ILoanRepository
	accountRepo     repository.IAccountRepository
	transactionRepo repository.ITransactionRepository
}

func NewLoanService(db *sql.DB, loanRepo repository.ILoanRepository,
	accountRepo repository.IAccountRepository, transactionRepo repository.ITransactionRepository) *LoanService {
	return &LoanService{
		db:              db,
		loanRepo:        loanRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// monthlyPayment computes the standard amortization payment
// P * r / (1 - (1+r)^-n) with r the monthly rate.
func monthlyPayment(principal, annualRate decimal.Decimal, termMonths int) decimal.Decimal {
	if annualRate.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(termMonths))).Round(2)
	}
	monthlyRate := annualRate.Div(decimal.NewFromInt(12))
	one := decimal.NewFromInt(1)
	compound := one.Add(monthlyRate).Pow(decimal.NewFromInt(int64(termMonths)))
	return principal.Mul(monthlyRate).Mul(compound).Div(compound.Sub(one)).Round(2)
}

// CreateLoan originates a loan and disburses the principal to the borrower's
// checking sub-account.
func (s *LoanService) CreateLoan(ctx context.Context, userID int, req model.CreateLoanRequest) (*model.Loan, error) {
	if !req.Principal.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if req.AnnualRate.IsNegative() {
		return nil, ErrInvalidAmount
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id":     userID,
		"principal":   req.Principal,
		"term_months": req.TermMonths,
	})
	log.Info("Originating loan")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	checking, err := s.accountRepo.GetAccountForUpdate(tx, userID, model.AccountChecking)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	// The loan row and the disbursement share one transaction: no loan may
	// exist whose principal was never credited.
	loan := &model.Loan{
		ID:              uuid.NewString(),
		UserID:          userID,
		Principal:       req.Principal,
		AnnualRate:      req.AnnualRate,
		TermMonths:      req.TermMonths,
		MonthlyPayment:  monthlyPayment(req.Principal, req.AnnualRate, req.TermMonths),
		CurrentBalance:  req.Principal,
		NextPaymentDate: time.Now().AddDate(0, 1, 0),
	}
	if err := s.loanRepo.CreateLoan(tx, loan); err != nil {
		return nil, fmt.Errorf("could not create loan record: %w", err)
	}

	if err := s.accountRepo.UpdateAccountBalance(tx, checking.ID, checking.Balance.Add(req.Principal)); err != nil {
		return nil, fmt.Errorf("could not disburse loan: %w", err)
	}

	detail, _ := json.Marshal(map[string]string{"loan_id": loan.ID})
	disbursement := &model.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		AccountType: model.AccountChecking,
		Kind:        model.KindDeposit,
		Amount:      req.Principal,
		Currency:    checking.Currency,
		Status:      model.StatusCompleted,
		Detail:      detail,
	}
	if err := s.transactionRepo.CreateTransaction(tx, disbursement); err != nil {
		return nil, fmt.Errorf("could not record disbursement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	return loan, nil
}

// MakePayment applies a payment to a loan: the checking sub-account is
// debited, the loan balance decreases (clamped at zero), payments made is
// incremented, the next due date moves one month, and the status flips to
// paid exactly when the balance reaches zero.
func (s *LoanService) MakePayment(ctx context.Context, loanID string, userID int, amount decimal.Decimal) (*model.Loan, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	log := logger.Log.WithFields(logrus.Fields{
		"loan_id": loanID,
		"user_id": userID,
		"amount":  amount,
	})
	log.Info("Processing loan payment")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	loan, err := s.loanRepo.GetLoanForUpdate(tx, loanID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	if loan.UserID != userID {
		return nil, ErrPermissionDenied
	}
	if loan.Status == model.LoanPaid {
		return nil, ErrLoanAlreadyPaid
	}

	checking, err := s.accountRepo.GetAccountForUpdate(tx, userID, model.AccountChecking)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if checking.Balance.LessThan(amount) {
		return nil, ErrInsufficientFunds
	}

	if err := s.accountRepo.UpdateAccountBalance(tx, checking.ID, checking.Balance.Sub(amount)); err != nil {
		return nil, fmt.Errorf("could not debit checking account: %w", err)
	}

	loan.CurrentBalance = loan.CurrentBalance.Sub(amount)
	if loan.CurrentBalance.IsNegative() {
		loan.CurrentBalance = decimal.Zero
	}
	loan.PaymentsMade++
	loan.NextPaymentDate = loan.NextPaymentDate.AddDate(0, 1, 0)
	if loan.CurrentBalance.IsZero() {
		loan.Status = model.LoanPaid
	}

	if err := s.loanRepo.UpdateLoanPaymentState(tx, loan); err != nil {
		return nil, fmt.Errorf("could not update loan state: %w", err)
	}

	detail, _ := json.Marshal(map[string]string{"loan_id": loan.ID})
	payment := &model.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		AccountType: model.AccountChecking,
		Kind:        model.KindLoanPayment,
		Amount:      amount,
		Currency:    checking.Currency,
		Status:      model.StatusCompleted,
		Detail:      detail,
	}
	if err := s.transactionRepo.CreateTransaction(tx, payment); err != nil {
		return nil, fmt.Errorf("could not record loan payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	log.WithField("status", loan.Status).Info("Loan payment applied")
	return loan, nil
}

// ListLoans returns the caller's loans, or every loan for admins.
func (s *LoanService) ListLoans(userID int, all bool) ([]*model.Loan, error) {
	if all {
		return s.loanRepo.GetAllLoans()
	}
	return s.loanRepo.GetLoansByUserID(userID)
}

// GetLoan returns one loan, owner or admin only.
func (s *LoanService) GetLoan(id string, userID int, isAdmin bool) (*model.Loan, error) {
	loan, err := s.loanRepo.GetLoanByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	if loan.UserID != userID && !isAdmin {
		return nil, ErrPermissionDenied
	}
	return loan, nil
}
