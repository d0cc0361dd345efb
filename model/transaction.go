package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindDeposit         TransactionKind = "deposit"
	KindWithdrawal      TransactionKind = "withdrawal"
	KindTransfer        TransactionKind = "transfer"
	KindPayment         TransactionKind = "payment"
	KindCryptoDeposit   TransactionKind = "crypto-deposit"
	KindChequeDeposit   TransactionKind = "cheque-deposit"
	KindLoanPayment     TransactionKind = "loan-payment"
	KindAdminAdjustment TransactionKind = "admin-adjustment"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// Transaction is an immutable record of a balance-affecting event. Kind and
// amount never change after insert; only status may transition, and only from
// pending to completed or failed.
type Transaction struct {
	ID          string            `json:"id"`
	UserID      int               `json:"user_id"`
	AccountType AccountType       `json:"account_type"`
	Kind        TransactionKind   `json:"kind"`
	Amount      decimal.Decimal   `json:"amount"`
	Currency    string            `json:"currency"`
	Status      TransactionStatus `json:"status"`
	Detail      json.RawMessage   `json:"detail,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// TransferDetail is the detail block for transfer transactions. Internal
// transfers carry only the destination account number; external transfers add
// the receiving bank.
type TransferDetail struct {
	DestinationAccount string `json:"destination_account" validate:"required,len=11,numeric"`
	DestinationBank    string `json:"destination_bank,omitempty"`
}

// ChequeDetail references the uploaded cheque images.
type ChequeDetail struct {
	FrontImage string `json:"front_image" validate:"required"`
	BackImage  string `json:"back_image" validate:"required"`
}

// CryptoDetail identifies the wallet a crypto deposit arrives from.
type CryptoDetail struct {
	Wallet  string `json:"wallet" validate:"required"`
	Network string `json:"network" validate:"required"`
}
