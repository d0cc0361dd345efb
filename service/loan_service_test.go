// service/loan_service_test.go
package service

import (
	"context"
	"database/sql"
	"errors"
	"stellarone-api/model"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLoanRepository is a mock for ILoanRepository.
type MockLoanRepository struct{ mock.Mock }

func (m *MockLoanRepository) CreateLoan(tx *sql.Tx, loan *model.Loan) error {
	args := m.Called(tx, loan)
	return args.Error(0)
}
func (m *MockLoanRepository) GetLoanForUpdate(tx *sql.Tx, id string) (*model.Loan, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Loan), args.Error(1)
}
func (m *MockLoanRepository) UpdateLoanPaymentState(tx *sql.Tx, loan *model.Loan) error {
	args := m.Called(tx, loan)
	return args.Error(0)
}
func (m *MockLoanRepository) GetLoanByID(id string) (*model.Loan, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Loan), args.Error(1)
}

// Unused methods needed to satisfy the interface
func (m *MockLoanRepository) GetLoansByUserID(int) ([]*model.Loan, error) { return nil, nil }
func (m *MockLoanRepository) GetAllLoans() ([]*model.Loan, error)        { return nil, nil }

func newLoanFixture(t *testing.T) (*LoanService, sqlmock.Sqlmock, *MockLoanRepository, *MockAccountRepository, *MockTransactionRepository) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mockLoans := new(MockLoanRepository)
	mockAccounts := new(MockAccountRepository)
	mockTxns := new(MockTransactionRepository)
	svc := NewLoanService(db, mockLoans, mockAccounts, mockTxns)
	return svc, dbMock, mockLoans, mockAccounts, mockTxns
}

func TestMonthlyPayment(t *testing.T) {
	t.Run("amortized", func(t *testing.T) {
		// 10000 at 12% over 12 months: the textbook answer is 888.49.
		payment := monthlyPayment(decimal.NewFromInt(10000), decimal.NewFromFloat(0.12), 12)
		assert.True(t, payment.Equal(decimal.NewFromFloat(888.49)), "got %s", payment)
	})

	t.Run("zero rate divides evenly", func(t *testing.T) {
		payment := monthlyPayment(decimal.NewFromInt(1200), decimal.Zero, 12)
		assert.True(t, payment.Equal(decimal.NewFromInt(100)), "got %s", payment)
	})
}

func TestLoanService_CreateLoan(t *testing.T) {
	svc, dbMock, mockLoans, mockAccounts, mockTxns := newLoanFixture(t)

	checking := &model.Account{ID: 10, UserID: 1, Type: model.AccountChecking,
		Balance: decimal.NewFromInt(500), Currency: "USD"}

	dbMock.ExpectBegin()
	mockAccounts.On("GetAccountForUpdate", mock.Anything, 1, model.AccountChecking).Return(checking, nil).Once()
	mockLoans.On("CreateLoan", mock.Anything, mock.MatchedBy(func(l *model.Loan) bool {
		return l.UserID == 1 && l.CurrentBalance.Equal(decimal.NewFromInt(10000)) && l.PaymentsMade == 0
	})).Return(nil).Once()
	mockAccounts.On("UpdateAccountBalance", mock.Anything, 10, decimalEq(decimal.NewFromInt(10500))).Return(nil).Once()
	mockTxns.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tr *model.Transaction) bool {
		return tr.Kind == model.KindDeposit && tr.Amount.Equal(decimal.NewFromInt(10000))
	})).Return(nil).Once()
	dbMock.ExpectCommit()

	loan, err := svc.CreateLoan(context.Background(), 1, model.CreateLoanRequest{
		Principal:  decimal.NewFromInt(10000),
		AnnualRate: decimal.NewFromFloat(0.12),
		TermMonths: 12,
	})

	require.NoError(t, err)
	assert.True(t, loan.MonthlyPayment.Equal(decimal.NewFromFloat(888.49)))
	mockAccounts.AssertExpectations(t)
	mockTxns.AssertExpectations(t)
}

func TestLoanService_CreateLoan_InvalidPrincipal(t *testing.T) {
	svc, _, _, _, _ := newLoanFixture(t)

	_, err := svc.CreateLoan(context.Background(), 1, model.CreateLoanRequest{
		Principal:  decimal.Zero,
		AnnualRate: decimal.NewFromFloat(0.1),
		TermMonths: 12,
	})
	assert.Equal(t, ErrInvalidAmount, err)
}

func TestLoanService_CreateLoan_AtomicWithDisbursement(t *testing.T) {
	t.Run("missing checking account leaves no loan behind", func(t *testing.T) {
		svc, dbMock, mockLoans, mockAccounts, _ := newLoanFixture(t)

		dbMock.ExpectBegin()
		mockAccounts.On("GetAccountForUpdate", mock.Anything, 1, model.AccountChecking).
			Return(nil, sql.ErrNoRows).Once()
		dbMock.ExpectRollback()

		_, err := svc.CreateLoan(context.Background(), 1, model.CreateLoanRequest{
			Principal:  decimal.NewFromInt(10000),
			AnnualRate: decimal.NewFromFloat(0.12),
			TermMonths: 12,
		})

		assert.Equal(t, ErrAccountNotFound, err)
		mockLoans.AssertNotCalled(t, "CreateLoan", mock.Anything, mock.Anything)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("failed disbursement rolls the loan insert back", func(t *testing.T) {
		svc, dbMock, mockLoans, mockAccounts, _ := newLoanFixture(t)

		checking := &model.Account{ID: 10, UserID: 1, Type: model.AccountChecking,
			Balance: decimal.NewFromInt(500), Currency: "USD"}

		dbMock.ExpectBegin()
		mockAccounts.On("GetAccountForUpdate", mock.Anything, 1, model.AccountChecking).Return(checking, nil).Once()
		mockLoans.On("CreateLoan", mock.Anything, mock.Anything).Return(nil).Once()
		mockAccounts.On("UpdateAccountBalance", mock.Anything, 10, mock.Anything).
			Return(errors.New("connection reset")).Once()
		dbMock.ExpectRollback()

		_, err := svc.CreateLoan(context.Background(), 1, model.CreateLoanRequest{
			Principal:  decimal.NewFromInt(10000),
			AnnualRate: decimal.NewFromFloat(0.12),
			TermMonths: 12,
		})

		assert.Error(t, err)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestLoanService_MakePayment(t *testing.T) {
	dueDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("regular payment", func(t *testing.T) {
		svc, dbMock, mockLoans, mockAccounts, mockTxns := newLoanFixture(t)

		loan := &model.Loan{ID: "loan-1", UserID: 1, Principal: decimal.NewFromInt(1200),
			CurrentBalance: decimal.NewFromInt(1200), TermMonths: 12, PaymentsMade: 0,
			NextPaymentDate: dueDate, Status: model.LoanCurrent}
		checking := &model.Account{ID: 10, UserID: 1, Type: model.AccountChecking,
			Balance: decimal.NewFromInt(500), Currency: "USD"}

		dbMock.ExpectBegin()
		mockLoans.On("GetLoanForUpdate", mock.Anything, "loan-1").Return(loan, nil).Once()
		mockAccounts.On("GetAccountForUpdate", mock.Anything, 1, model.AccountChecking).Return(checking, nil).Once()
		mockAccounts.On("UpdateAccountBalance", mock.Anything, 10, decimalEq(decimal.NewFromInt(400))).Return(nil).Once()
		mockLoans.On("UpdateLoanPaymentState", mock.Anything, mock.Anything).Return(nil).Once()
		mockTxns.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tr *model.Transaction) bool {
			return tr.Kind == model.KindLoanPayment && tr.Amount.Equal(decimal.NewFromInt(100))
		})).Return(nil).Once()
		dbMock.ExpectCommit()

		updated, err := svc.MakePayment(context.Background(), "loan-1", 1, decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.True(t, updated.CurrentBalance.Equal(decimal.NewFromInt(1100)))
		assert.Equal(t, 1, updated.PaymentsMade)
		assert.Equal(t, dueDate.AddDate(0, 1, 0), updated.NextPaymentDate)
		assert.Equal(t, model.LoanCurrent, updated.Status)
		assert.Equal(t, 11, updated.PaymentsRemaining())
	})

	t.Run("overpayment clamps the balance at zero and marks the loan paid", func(t *testing.T) {
		svc, dbMock, mockLoans, mockAccounts, mockTxns := newLoanFixture(t)

		loan := &model.Loan{ID: "loan-2", UserID: 1, Principal: decimal.NewFromInt(1200),
			CurrentBalance: decimal.NewFromInt(80), TermMonths: 12, PaymentsMade: 11,
			NextPaymentDate: dueDate, Status: model.LoanCurrent}
		checking := &model.Account{ID: 10, UserID: 1, Type: model.AccountChecking,
			Balance: decimal.NewFromInt(500), Currency: "USD"}

		dbMock.ExpectBegin()
		mockLoans.On("GetLoanForUpdate", mock.Anything, "loan-2").Return(loan, nil).Once()
		mockAccounts.On("GetAccountForUpdate", mock.Anything, 1, model.AccountChecking).Return(checking, nil).Once()
		mockAccounts.On("UpdateAccountBalance", mock.Anything, 10, decimalEq(decimal.NewFromInt(400))).Return(nil).Once()
		mockLoans.On("UpdateLoanPaymentState", mock.Anything, mock.Anything).Return(nil).Once()
		mockTxns.On("CreateTransaction", mock.Anything, mock.Anything).Return(nil).Once()
		dbMock.ExpectCommit()

		updated, err := svc.MakePayment(context.Background(), "loan-2", 1, decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.True(t, updated.CurrentBalance.IsZero())
		assert.Equal(t, model.LoanPaid, updated.Status)
		assert.True(t, updated.ProgressPercent().Equal(decimal.NewFromInt(100)))
	})

	t.Run("paid loan rejects further payments", func(t *testing.T) {
		svc, dbMock, mockLoans, _, _ := newLoanFixture(t)

		loan := &model.Loan{ID: "loan-3", UserID: 1, Status: model.LoanPaid}
		dbMock.ExpectBegin()
		mockLoans.On("GetLoanForUpdate", mock.Anything, "loan-3").Return(loan, nil).Once()
		dbMock.ExpectRollback()

		_, err := svc.MakePayment(context.Background(), "loan-3", 1, decimal.NewFromInt(100))
		assert.Equal(t, ErrLoanAlreadyPaid, err)
	})

	t.Run("someone else's loan is off limits", func(t *testing.T) {
		svc, dbMock, mockLoans, _, _ := newLoanFixture(t)

		loan := &model.Loan{ID: "loan-4", UserID: 2, Status: model.LoanCurrent}
		dbMock.ExpectBegin()
		mockLoans.On("GetLoanForUpdate", mock.Anything, "loan-4").Return(loan, nil).Once()
		dbMock.ExpectRollback()

		_, err := svc.MakePayment(context.Background(), "loan-4", 1, decimal.NewFromInt(100))
		assert.Equal(t, ErrPermissionDenied, err)
	})

	t.Run("insufficient checking balance", func(t *testing.T) {
		svc, dbMock, mockLoans, mockAccounts, _ := newLoanFixture(t)

		loan := &model.Loan{ID: "loan-5", UserID: 1, CurrentBalance: decimal.NewFromInt(500),
			Status: model.LoanCurrent}
		checking := &model.Account{ID: 10, UserID: 1, Type: model.AccountChecking,
			Balance: decimal.NewFromInt(10), Currency: "USD"}

		dbMock.ExpectBegin()
		mockLoans.On("GetLoanForUpdate", mock.Anything, "loan-5").Return(loan, nil).Once()
		mockAccounts.On("GetAccountForUpdate", mock.Anything, 1, model.AccountChecking).Return(checking, nil).Once()
		dbMock.ExpectRollback()

		_, err := svc.MakePayment(context.Background(), "loan-5", 1, decimal.NewFromInt(100))
		assert.Equal(t, ErrInsufficientFunds, err)
		mockAccounts.AssertNotCalled(t, "UpdateAccountBalance")
	})
}

func TestLoanService_GetLoan_Ownership(t *testing.T) {
	svc, _, mockLoans, _, _ := newLoanFixture(t)

	loan := &model.Loan{ID: "loan-6", UserID: 2}
	mockLoans.On("GetLoanByID", "loan-6").Return(loan, nil)

	_, err := svc.GetLoan("loan-6", 1, false)
	assert.Equal(t, ErrPermissionDenied, err)

	got, err := svc.GetLoan("loan-6", 1, true)
	assert.NoError(t, err)
	assert.Equal(t, loan, got)
}
