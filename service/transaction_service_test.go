// service/transaction_service_test.go
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"stellarone-api/model"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAccountRepository is a mock for IAccountRepository.
type MockAccountRepository struct{ mock.Mock }

func (m *MockAccountRepository) GetAccountForUpdate(tx *sql.Tx, userID int, accountType model.AccountType) (*model.Account, error) {
	args := m.Called(tx, userID, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}
func (m *MockAccountRepository) GetAccountForUpdateByNumber(tx *sql.Tx, accountNumber string, accountType model.AccountType) (*model.Account, error) {
	args := m.Called(tx, accountNumber, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}
func (m *MockAccountRepository) UpdateAccountBalance(tx *sql.Tx, accountID int, newBalance decimal.Decimal) error {
	args := m.Called(tx, accountID, newBalance)
	return args.Error(0)
}

// Unused methods needed to satisfy the interface
func (m *MockAccountRepository) CreateAccount(*model.Account) error                { return nil }
func (m *MockAccountRepository) GetAccountsByUserID(int) ([]*model.Account, error) { return nil, nil }
func (m *MockAccountRepository) GetAllAccounts() ([]*model.Account, error)         { return nil, nil }

// MockTransactionRepository is a mock for ITransactionRepository.
type MockTransactionRepository struct{ mock.Mock }

func (m *MockTransactionRepository) CreateTransaction(tx *sql.Tx, tr *model.Transaction) error {
	args := m.Called(tx, tr)
	return args.Error(0)
}
func (m *MockTransactionRepository) GetTransactionForUpdate(tx *sql.Tx, id string) (*model.Transaction, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}
func (m *MockTransactionRepository) UpdateTransactionStatus(tx *sql.Tx, id string, status model.TransactionStatus) error {
	args := m.Called(tx, id, status)
	return args.Error(0)
}
func (m *MockTransactionRepository) GetTransactionByID(id string) (*model.Transaction, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}
func (m *MockTransactionRepository) DeleteTransaction(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// Unused methods needed to satisfy the interface
func (m *MockTransactionRepository) GetTransactionsByUserID(int) ([]*model.Transaction, error) {
	return nil, nil
}
func (m *MockTransactionRepository) GetAllTransactions() ([]*model.Transaction, error) {
	return nil, nil
}
func (m *MockTransactionRepository) GetTransactionsForPeriod(int, model.AccountType, time.Time, time.Time) ([]*model.Transaction, error) {
	return nil, nil
}

// MockCurrencyRepository is a mock for ICurrencyRepository.
type MockCurrencyRepository struct{ mock.Mock }

func (m *MockCurrencyRepository) CurrencyExists(code string) (bool, error) {
	args := m.Called(code)
	return args.Bool(0), args.Error(1)
}

// Unused methods needed to satisfy the interface
func (m *MockCurrencyRepository) CreateCurrency(*model.Currency) error { return nil }
func (m *MockCurrencyRepository) GetCurrencyByCode(string) (*model.Currency, error) {
	return nil, nil
}
func (m *MockCurrencyRepository) GetAllCurrencies() ([]*model.Currency, error) { return nil, nil }
func (m *MockCurrencyRepository) UpdateCurrency(string, string, decimal.Decimal) error {
	return nil
}
func (m *MockCurrencyRepository) DeleteCurrency(string) error { return nil }

func decimalEq(expected decimal.Decimal) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(expected) })
}

func newLedgerFixture(t *testing.T) (*TransactionService, sqlmock.Sqlmock, *MockAccountRepository, *MockTransactionRepository, *MockCurrencyRepository) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mockAccounts := new(MockAccountRepository)
	mockTxns := new(MockTransactionRepository)
	mockCurrencies := new(MockCurrencyRepository)
	svc := NewTransactionService(db, mockAccounts, mockTxns, mockCurrencies)
	return svc, dbMock, mockAccounts, mockTxns, mockCurrencies
}

func TestTransactionService_Deposit(t *testing.T) {
	svc, dbMock, mockAccounts, mockTxns, mockCurrencies := newLedgerFixture(t)

	account := &model.Account{ID: 10, UserID: 1, Type: model.AccountChecking,
		Balance: decimal.NewFromInt(100), Currency: "USD"}

	mockCurrencies.On("CurrencyExists", "USD").Return(true, nil)
	dbMock.ExpectBegin()
	mockAccounts.On("GetAccountForUpdate", mock.Anything, 1, model.AccountChecking).Return(account, nil).Once()
	mockAccounts.On("UpdateAccountBalance", mock.Anything, 10, decimalEq(decimal.NewFromInt(150))).Return(nil).Once()
	mockTxns.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tr *model.Transaction) bool {
		return tr.Kind == model.KindDeposit && tr.Status == model.StatusCompleted && tr.Amount.Equal(decimal.NewFromInt(50))
	})).Return(nil).Once()
	dbMock.ExpectCommit()

	transaction, err := svc.CreateTransaction(context.Background(), 1, model.CreateTransactionRequest{
		AccountType: model.AccountChecking,
		Kind:        model.KindDeposit,
		Amount:      decimal.NewFromInt(50),
		Currency:    "USD",
	})

	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, transaction.Status)
	mockAccounts.AssertExpectations(t)
	mockTxns.AssertExpectations(t)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestTransactionService_CreateTransaction_Validation(t *testing.T) {
	t.Run("non-positive amount", func(t *testing.T) {
		svc, _, _, _, _ := newLedgerFixture(t)
		_, err := svc.CreateTransaction(context.Background(), 1, model.CreateTransactionRequest{
			AccountType: model.AccountChecking,
			Kind:        model.KindDeposit,
			Amount:      decimal.NewFromInt(-5),
			Currency:    "USD",
		})
		assert.Equal(t, ErrInvalidAmount, err)
	})

	t.Run("unknown currency", func(t *testing.T) {
		svc, _, _, _, mockCurrencies := newLedgerFixture(t)
		mockCurrencies.On("CurrencyExists", "XXX").Return(false, nil)

		_, err := svc.CreateTransaction(context.Background(), 1, model.CreateTransactionRequest{
			AccountType: model.AccountChecking,
			Kind:        model.KindDeposit,
			Amount:      decimal.NewFromInt(5),
			Currency:    "XXX",
		})
		assert.Equal(t, ErrUnknownCurrency, err)
	})

	t.Run("transfer without detail", func(t *testing.T) {
		svc, dbMock, mockAccounts, _, mockCurrencies := newLedgerFixture(t)
		account := &model.Account{ID: 10, UserID: 1, Type: model.AccountChecking,
			Balance: decimal.NewFromInt(100), Currency: "USD"}

		mockCurrencies.On("CurrencyExists", "USD").Return(true, nil)
		dbMock.ExpectBegin()
		mockAccounts.On("GetAccountForUpdate", mock.Anything, 1, model.AccountChecking).Return(account, nil).Once()
		dbMock.ExpectRollback()

		_, err := svc.CreateTransaction(context.Background(), 1, model.CreateTransactionRequest{
			AccountType: model.AccountChecking,
			Kind:        model.KindTransfer,
			Amount:      decimal.NewFromInt(5),
			Currency:    "USD",
		})
		assert.Equal(t, ErrMalformedDetail, err)
	})
}

func TestTransactionService_Withdrawal_InsufficientFunds(t *testing.T) {
	svc, dbMock, mockAccounts, _, mockCurrencies := newLedgerFixture(t)

	account := &model.Account{ID: 10, UserID: 1, Type: model.AccountChecking,
		Balance: decimal.NewFromInt(20), Currency: "USD"}

	mockCurrencies.On("CurrencyExists", "USD").Return(true, nil)
	dbMock.ExpectBegin()
	mockAccounts.On("GetAccountForUpdate", mock.Anything, 1, model.AccountChecking).Return(account, nil).Once()
	dbMock.ExpectRollback()

	_, err := svc.CreateTransaction(context.Background(), 1, model.CreateTransactionRequest{
		AccountType: model.AccountChecking,
		Kind:        model.KindWithdrawal,
		Amount:      decimal.NewFromInt(50),
		Currency:    "USD",
	})

	assert.Equal(t, ErrInsufficientFunds, err)
	mockAccounts.AssertNotCalled(t, "UpdateAccountBalance")
}

func TestTransactionService_InternalTransfer(t *testing.T) {
	svc, dbMock, mockAccounts, mockTxns, mockCurrencies := newLedgerFixture(t)

	source := &model.Account{ID: 10, UserID: 1, Type: model.AccountChecking,
		Balance: decimal.NewFromInt(200), Currency: "USD"}
	destination := &model.Account{ID: 20, UserID: 2, Type: model.AccountChecking,
		Balance: decimal.NewFromInt(30), Currency: "USD"}

	detail, _ := json.Marshal(model.TransferDetail{DestinationAccount: "20300000002"})

	mockCurrencies.On("CurrencyExists", "USD").Return(true, nil)
	dbMock.ExpectBegin()
	mockAccounts.On("GetAccountForUpdate", mock.Anything, 1, model.AccountChecking).Return(source, nil).Once()
	mockAccounts.On("GetAccountForUpdateByNumber", mock.Anything, "20300000002", model.AccountChecking).Return(destination, nil).Once()
	mockAccounts.On("UpdateAccountBalance", mock.Anything, 10, decimalEq(decimal.NewFromInt(125))).Return(nil).Once()
	mockAccounts.On("UpdateAccountBalance", mock.Anything, 20, decimalEq(decimal.NewFromInt(105))).Return(nil).Once()
	mockTxns.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tr *model.Transaction) bool {
		return tr.Kind == model.KindTransfer && tr.Status == model.StatusCompleted
	})).Return(nil).Once()
	dbMock.ExpectCommit()

	transaction, err := svc.CreateTransaction(context.Background(), 1, model.CreateTransactionRequest{
		AccountType: model.AccountChecking,
		Kind:        model.KindTransfer,
		Amount:      decimal.NewFromInt(75),
		Currency:    "USD",
		Detail:      detail,
	})

	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, transaction.Status)
	mockAccounts.AssertExpectations(t)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestTransactionService_ChequeDepositStartsPending(t *testing.T) {
	svc, dbMock, mockAccounts, mockTxns, mockCurrencies := newLedgerFixture(t)

	account := &model.Account{ID: 10, UserID: 1, Type: model.AccountChecking,
		Balance: decimal.NewFromInt(100), Currency: "USD"}

	detail, _ := json.Marshal(model.ChequeDetail{FrontImage: "front.png", BackImage: "back.png"})

	mockCurrencies.On("CurrencyExists", "USD").Return(true, nil)
	dbMock.ExpectBegin()
	mockAccounts.On("GetAccountForUpdate", mock.Anything, 1, model.AccountChecking).Return(account, nil).Once()
	mockTxns.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tr *model.Transaction) bool {
		return tr.Kind == model.KindChequeDeposit && tr.Status == model.StatusPending
	})).Return(nil).Once()
	dbMock.ExpectCommit()

	transaction, err := svc.CreateTransaction(context.Background(), 1, model.CreateTransactionRequest{
		AccountType: model.AccountChecking,
		Kind:        model.KindChequeDeposit,
		Amount:      decimal.NewFromInt(40),
		Currency:    "USD",
		Detail:      detail,
	})

	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, transaction.Status)
	// Pending deposits must not touch the balance until reviewed.
	mockAccounts.AssertNotCalled(t, "UpdateAccountBalance")
}

func TestTransactionService_ReviewTransaction(t *testing.T) {
	t.Run("completing a cheque deposit credits the account", func(t *testing.T) {
		svc, dbMock, mockAccounts, mockTxns, _ := newLedgerFixture(t)

		pending := &model.Transaction{ID: "tx-1", UserID: 1, AccountType: model.AccountChecking,
			Kind: model.KindChequeDeposit, Amount: decimal.NewFromInt(40), Currency: "USD",
			Status: model.StatusPending}
		account := &model.Account{ID: 10, UserID: 1, Type: model.AccountChecking,
			Balance: decimal.NewFromInt(100), Currency: "USD"}

		dbMock.ExpectBegin()
		mockTxns.On("GetTransactionForUpdate", mock.Anything, "tx-1").Return(pending, nil).Once()
		mockAccounts.On("GetAccountForUpdate", mock.Anything, 1, model.AccountChecking).Return(account, nil).Once()
		mockAccounts.On("UpdateAccountBalance", mock.Anything, 10, decimalEq(decimal.NewFromInt(140))).Return(nil).Once()
		mockTxns.On("UpdateTransactionStatus", mock.Anything, "tx-1", model.StatusCompleted).Return(nil).Once()
		dbMock.ExpectCommit()

		reviewed, err := svc.ReviewTransaction(context.Background(), "tx-1", model.StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, reviewed.Status)
		mockAccounts.AssertExpectations(t)
	})

	t.Run("already settled transaction conflicts", func(t *testing.T) {
		svc, dbMock, _, mockTxns, _ := newLedgerFixture(t)

		settled := &model.Transaction{ID: "tx-2", Status: model.StatusCompleted}
		dbMock.ExpectBegin()
		mockTxns.On("GetTransactionForUpdate", mock.Anything, "tx-2").Return(settled, nil).Once()
		dbMock.ExpectRollback()

		_, err := svc.ReviewTransaction(context.Background(), "tx-2", model.StatusFailed)
		assert.Equal(t, ErrTransactionNotPending, err)
	})

	t.Run("failing an external transfer refunds the debit", func(t *testing.T) {
		svc, dbMock, mockAccounts, mockTxns, _ := newLedgerFixture(t)

		pending := &model.Transaction{ID: "tx-3", UserID: 1, AccountType: model.AccountChecking,
			Kind: model.KindTransfer, Amount: decimal.NewFromInt(60), Currency: "USD",
			Status: model.StatusPending}
		account := &model.Account{ID: 10, UserID: 1, Type: model.AccountChecking,
			Balance: decimal.NewFromInt(40), Currency: "USD"}

		dbMock.ExpectBegin()
		mockTxns.On("GetTransactionForUpdate", mock.Anything, "tx-3").Return(pending, nil).Once()
		mockAccounts.On("GetAccountForUpdate", mock.Anything, 1, model.AccountChecking).Return(account, nil).Once()
		mockAccounts.On("UpdateAccountBalance", mock.Anything, 10, decimalEq(decimal.NewFromInt(100))).Return(nil).Once()
		mockTxns.On("UpdateTransactionStatus", mock.Anything, "tx-3", model.StatusFailed).Return(nil).Once()
		dbMock.ExpectCommit()

		_, err := svc.ReviewTransaction(context.Background(), "tx-3", model.StatusFailed)
		require.NoError(t, err)
		mockAccounts.AssertExpectations(t)
	})
}

func TestTransactionService_DeleteTransaction(t *testing.T) {
	svc, _, _, mockTxns, _ := newLedgerFixture(t)

	t.Run("completed records are immutable", func(t *testing.T) {
		mockTxns.On("GetTransactionByID", "tx-done").
			Return(&model.Transaction{ID: "tx-done", Status: model.StatusCompleted}, nil).Once()

		err := svc.DeleteTransaction("tx-done")
		assert.Equal(t, ErrCompletedImmutable, err)
		mockTxns.AssertNotCalled(t, "DeleteTransaction")
	})

	t.Run("failed records can be removed", func(t *testing.T) {
		mockTxns.On("GetTransactionByID", "tx-failed").
			Return(&model.Transaction{ID: "tx-failed", Status: model.StatusFailed}, nil).Once()
		mockTxns.On("DeleteTransaction", "tx-failed").Return(nil).Once()

		err := svc.DeleteTransaction("tx-failed")
		assert.NoError(t, err)
		mockTxns.AssertExpectations(t)
	})
}

func TestTransactionService_AdminAdjustBalance(t *testing.T) {
	svc, dbMock, mockAccounts, mockTxns, _ := newLedgerFixture(t)

	account := &model.Account{ID: 10, UserID: 3, Type: model.AccountChecking,
		Balance: decimal.NewFromInt(100), Currency: "USD"}

	dbMock.ExpectBegin()
	mockAccounts.On("GetAccountForUpdate", mock.Anything, 3, model.AccountChecking).Return(account, nil).Once()
	mockAccounts.On("UpdateAccountBalance", mock.Anything, 10, decimalEq(decimal.NewFromInt(250))).Return(nil).Once()
	mockTxns.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tr *model.Transaction) bool {
		return tr.Kind == model.KindAdminAdjustment && tr.Status == model.StatusCompleted &&
			tr.Amount.Equal(decimal.NewFromInt(150))
	})).Return(nil).Once()
	dbMock.ExpectCommit()

	transaction, err := svc.AdminAdjustBalance(context.Background(), 3, model.AdminBalanceRequest{
		AccountType: model.AccountChecking,
		Mode:        "set",
		Amount:      decimal.NewFromInt(250),
	})

	require.NoError(t, err)
	assert.Equal(t, model.KindAdminAdjustment, transaction.Kind)
	mockAccounts.AssertExpectations(t)
	mockTxns.AssertExpectations(t)
}
