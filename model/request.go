package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// RegisterRequest defines the payload for creating a new user. Validation tags
// guard data integrity at the entry point.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Currency string `json:"currency" validate:"required,len=3"`
}

// LoginRequest starts the two-factor login flow.
type LoginRequest struct {
	AccountNumber string `json:"account_number" validate:"required,len=11,numeric"`
	Password      string `json:"password" validate:"required,min=8"`
}

type ResendOTPRequest struct {
	AccountNumber string `json:"account_number" validate:"required,len=11,numeric"`
}

type VerifyOTPRequest struct {
	AccountNumber string `json:"account_number" validate:"required,len=11,numeric"`
	Code          string `json:"code" validate:"required,len=6,numeric"`
}

type ForgotPasswordRequest struct {
	AccountNumber string `json:"account_number" validate:"required,len=11,numeric"`
}

type ResetPasswordRequest struct {
	AccountNumber string `json:"account_number" validate:"required,len=11,numeric"`
	Code          string `json:"code" validate:"required,len=6,numeric"`
	NewPassword   string `json:"new_password" validate:"required,min=8"`
}

// CreateTransactionRequest covers every client-initiated ledger operation.
// Amount positivity and detail shape are checked in the service, which knows
// the rules per kind.
type CreateTransactionRequest struct {
	AccountType AccountType     `json:"account_type" validate:"required,oneof=checking loan investment"`
	Kind        TransactionKind `json:"kind" validate:"required,oneof=deposit withdrawal transfer payment crypto-deposit cheque-deposit"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency" validate:"required,len=3"`
	Detail      json.RawMessage `json:"detail,omitempty"`
}

// ReviewTransactionRequest settles a pending transaction (admin only).
type ReviewTransactionRequest struct {
	Status TransactionStatus `json:"status" validate:"required,oneof=completed failed"`
}

type CreateLoanRequest struct {
	Principal  decimal.Decimal `json:"principal"`
	AnnualRate decimal.Decimal `json:"annual_rate"`
	TermMonths int             `json:"term_months" validate:"required,gt=0,lte=480"`
}

type LoanPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CreateNotificationRequest posts a message to one user, or to everyone when
// user_id is omitted.
type CreateNotificationRequest struct {
	UserID *int   `json:"user_id,omitempty"`
	Title  string `json:"title" validate:"required,max=200"`
	Body   string `json:"body" validate:"required"`
}

type UpdateNotificationRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"required"`
}

type UpsertCurrencyRequest struct {
	Code    string          `json:"code" validate:"required,len=3,alpha"`
	Name    string          `json:"name" validate:"required"`
	USDRate decimal.Decimal `json:"usd_rate"`
}

// AdminBalanceRequest sets or offsets a sub-account balance directly,
// bypassing normal transaction semantics. Recorded as an admin-adjustment
// transaction for audit.
type AdminBalanceRequest struct {
	AccountType AccountType     `json:"account_type" validate:"required,oneof=checking loan investment"`
	Mode        string          `json:"mode" validate:"required,oneof=set adjust"`
	Amount      decimal.Decimal `json:"amount"`
}

type UpdateUserRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=ADMIN USER"`
}

type UpdateUserLevelRequest struct {
	AccountLevel AccountLevel `json:"account_level" validate:"required,oneof=standard premier private"`
}

type UpdateUserStatusRequest struct {
	Status UserStatus `json:"status" validate:"required,oneof=active frozen closed"`
}

type CreateStatementRequest struct {
	AccountType AccountType     `json:"account_type" validate:"required,oneof=checking loan investment"`
	PeriodStart time.Time       `json:"period_start" validate:"required"`
	PeriodEnd   time.Time       `json:"period_end" validate:"required"`
	Format      StatementFormat `json:"format" validate:"required,oneof=pdf csv xlsx"`
}
