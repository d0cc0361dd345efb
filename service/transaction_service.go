package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"stellarone-api/common"
	"stellarone-api/logger"
	"stellarone-api/model"
	"stellarone-api/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
	ErrAccountNotFound         = errors.New("account not found")
	ErrReceiverAccountNotFound = errors.New("destination account not found")
	ErrSameAccountTransfer     = errors.New("cannot transfer money to the same account")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrCurrencyMismatch        = errors.New("currency mismatch between accounts")
	ErrMalformedDetail         = errors.New("malformed transaction detail")
	ErrTransactionNotFound     = errors.New("transaction not found")
	ErrTransactionNotPending   = errors.New("transaction is not pending")
	ErrCompletedImmutable      = errors.New("completed transactions cannot be deleted")
	ErrPermissionDenied        = errors.New("you can only access your own transactions")
)

// TransactionService applies every ledger mutation: deposits, withdrawals,
// transfers, admin adjustments, and the settlement of pending transactions.
// Each mutation runs inside a single sql transaction with row locks on the
// touched accounts, so a transfer's debit and credit commit together.
type TransactionService struct {
	db              *sql.DB
	accountRepo     repository.IAccountRepository
	transactionRepo repository.ITransactionRepository
	currencyRepo    repository.ICurrencyRepository
}

func NewTransactionService(db *sql.DB, accountRepo repository.IAccountRepository,
	transactionRepo repository.ITransactionRepository, currencyRepo repository.ICurrencyRepository) *TransactionService {
	return &TransactionService{
		db:              db,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		currencyRepo:    currencyRepo,
	}
}

// CreateTransaction validates and applies a client-initiated ledger operation.
// Plain deposits, withdrawals, payments, and internal same-currency transfers
// complete immediately; crypto and cheque deposits are recorded pending until
// reviewed; external transfers debit immediately and settle pending.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID int, req model.CreateTransactionRequest) (*model.Transaction, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":      userID,
		"kind":         req.Kind,
		"account_type": req.AccountType,
		"amount":       req.Amount,
	})
	log.Info("Starting ledger operation")

	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	exists, err := s.currencyRepo.CurrencyExists(req.Currency)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUnknownCurrency
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	account, err := s.accountRepo.GetAccountForUpdate(tx, userID, req.AccountType)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if account.Currency != req.Currency {
		return nil, ErrCurrencyMismatch
	}

	transaction := &model.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		AccountType: req.AccountType,
		Kind:        req.Kind,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Detail:      req.Detail,
	}

	switch req.Kind {
	case model.KindDeposit:
		transaction.Status = model.StatusCompleted
		if err := s.accountRepo.UpdateAccountBalance(tx, account.ID, account.Balance.Add(req.Amount)); err != nil {
			return nil, fmt.Errorf("could not credit account: %w", err)
		}

	case model.KindCryptoDeposit:
		var detail model.CryptoDetail
		if err := decodeDetail(req.Detail, &detail); err != nil {
			return nil, err
		}
		// Held for review; no balance change until an admin settles it.
		transaction.Status = model.StatusPending

	case model.KindChequeDeposit:
		var detail model.ChequeDetail
		if err := decodeDetail(req.Detail, &detail); err != nil {
			return nil, err
		}
		transaction.Status = model.StatusPending

	case model.KindWithdrawal, model.KindPayment:
		if account.Balance.LessThan(req.Amount) {
			return nil, ErrInsufficientFunds
		}
		transaction.Status = model.StatusCompleted
		if err := s.accountRepo.UpdateAccountBalance(tx, account.ID, account.Balance.Sub(req.Amount)); err != nil {
			return nil, fmt.Errorf("could not debit account: %w", err)
		}

	case model.KindTransfer:
		status, err := s.applyTransfer(tx, account, req)
		if err != nil {
			return nil, err
		}
		transaction.Status = status

	default:
		return nil, ErrMalformedDetail
	}

	if err := s.transactionRepo.CreateTransaction(tx, transaction); err != nil {
		return nil, fmt.Errorf("could not create transaction record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	log.WithField("transaction_id", transaction.ID).Info("Ledger operation completed")
	return transaction, nil
}

// applyTransfer debits the source account and, for internal transfers, credits
// the destination in the same sql transaction. External transfers settle
// pending after the debit.
func (s *TransactionService) applyTransfer(tx *sql.Tx, source *model.Account, req model.CreateTransactionRequest) (model.TransactionStatus, error) {
	var detail model.TransferDetail
	if err := decodeDetail(req.Detail, &detail); err != nil {
		return "", err
	}

	if source.Balance.LessThan(req.Amount) {
		return "", ErrInsufficientFunds
	}

	if detail.DestinationBank != "" {
		// External transfer. Debit now, settle when the outbound leg clears.
		if err := s.accountRepo.UpdateAccountBalance(tx, source.ID, source.Balance.Sub(req.Amount)); err != nil {
			return "", fmt.Errorf("could not debit source account: %w", err)
		}
		return model.StatusPending, nil
	}

	destination, err := s.accountRepo.GetAccountForUpdateByNumber(tx, detail.DestinationAccount, model.AccountChecking)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrReceiverAccountNotFound
		}
		return "", err
	}
	if destination.ID == source.ID {
		return "", ErrSameAccountTransfer
	}
	if destination.Currency != source.Currency {
		return "", ErrCurrencyMismatch
	}

	if err := s.accountRepo.UpdateAccountBalance(tx, source.ID, source.Balance.Sub(req.Amount)); err != nil {
		return "", fmt.Errorf("could not debit source account: %w", err)
	}
	if err := s.accountRepo.UpdateAccountBalance(tx, destination.ID, destination.Balance.Add(req.Amount)); err != nil {
		return "", fmt.Errorf("could not credit destination account: %w", err)
	}
	return model.StatusCompleted, nil
}

func decodeDetail(raw json.RawMessage, detail interface{}) error {
	if len(raw) == 0 {
		return ErrMalformedDetail
	}
	if err := json.Unmarshal(raw, detail); err != nil {
		return ErrMalformedDetail
	}
	if err := common.ValidateStruct(detail); err != nil {
		return ErrMalformedDetail
	}
	return nil
}

// ReviewTransaction settles a pending transaction (admin only). Completing a
// pending deposit credits the account; failing a pending external transfer
// refunds the earlier debit.
func (s *TransactionService) ReviewTransaction(ctx context.Context, id string, status model.TransactionStatus) (*model.Transaction, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"transaction_id": id,
		"status":         status,
	})
	log.Info("Reviewing pending transaction")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	transaction, err := s.transactionRepo.GetTransactionForUpdate(tx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if transaction.Status != model.StatusPending {
		return nil, ErrTransactionNotPending
	}

	switch {
	case status == model.StatusCompleted && (transaction.Kind == model.KindCryptoDeposit || transaction.Kind == model.KindChequeDeposit):
		account, err := s.accountRepo.GetAccountForUpdate(tx, transaction.UserID, transaction.AccountType)
		if err != nil {
			return nil, err
		}
		if err := s.accountRepo.UpdateAccountBalance(tx, account.ID, account.Balance.Add(transaction.Amount)); err != nil {
			return nil, fmt.Errorf("could not credit account: %w", err)
		}

	case status == model.StatusFailed && transaction.Kind == model.KindTransfer:
		account, err := s.accountRepo.GetAccountForUpdate(tx, transaction.UserID, transaction.AccountType)
		if err != nil {
			return nil, err
		}
		if err := s.accountRepo.UpdateAccountBalance(tx, account.ID, account.Balance.Add(transaction.Amount)); err != nil {
			return nil, fmt.Errorf("could not refund account: %w", err)
		}
	}

	if err := s.transactionRepo.UpdateTransactionStatus(tx, id, status); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	transaction.Status = status
	return transaction, nil
}

// ListTransactions returns the caller's history, or every user's history when
// an admin asks for the full ledger.
func (s *TransactionService) ListTransactions(userID int, all bool) ([]*model.Transaction, error) {
	if all {
		return s.transactionRepo.GetAllTransactions()
	}
	return s.transactionRepo.GetTransactionsByUserID(userID)
}

// GetTransaction returns one transaction, owner or admin only.
func (s *TransactionService) GetTransaction(id string, userID int, isAdmin bool) (*model.Transaction, error) {
	transaction, err := s.transactionRepo.GetTransactionByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if transaction.UserID != userID && !isAdmin {
		return nil, ErrPermissionDenied
	}
	return transaction, nil
}

// DeleteTransaction removes a pending or failed record. Completed transactions
// are immutable audit history.
func (s *TransactionService) DeleteTransaction(id string) error {
	transaction, err := s.transactionRepo.GetTransactionByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrTransactionNotFound
		}
		return err
	}
	if transaction.Status == model.StatusCompleted {
		return ErrCompletedImmutable
	}
	return s.transactionRepo.DeleteTransaction(id)
}

// AdminAdjustBalance sets or offsets a user's sub-account balance directly and
// records an admin-adjustment transaction for audit.
func (s *TransactionService) AdminAdjustBalance(ctx context.Context, targetUserID int, req model.AdminBalanceRequest) (*model.Transaction, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"target_user_id": targetUserID,
		"account_type":   req.AccountType,
		"mode":           req.Mode,
		"amount":         req.Amount,
	})
	log.Warn("Admin balance adjustment requested")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	account, err := s.accountRepo.GetAccountForUpdate(tx, targetUserID, req.AccountType)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	var newBalance decimal.Decimal
	if req.Mode == "set" {
		newBalance = req.Amount
	} else {
		newBalance = account.Balance.Add(req.Amount)
	}

	if err := s.accountRepo.UpdateAccountBalance(tx, account.ID, newBalance); err != nil {
		return nil, fmt.Errorf("could not update account balance: %w", err)
	}

	detail, _ := json.Marshal(map[string]string{
		"mode":             req.Mode,
		"previous_balance": account.Balance.String(),
		"new_balance":      newBalance.String(),
	})

	transaction := &model.Transaction{
		ID:          uuid.NewString(),
		UserID:      targetUserID,
		AccountType: req.AccountType,
		Kind:        model.KindAdminAdjustment,
		Amount:      newBalance.Sub(account.Balance).Abs(),
		Currency:    account.Currency,
		Status:      model.StatusCompleted,
		Detail:      detail,
	}
	if err := s.transactionRepo.CreateTransaction(tx, transaction); err != nil {
		return nil, fmt.Errorf("could not create audit transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	return transaction, nil
}
