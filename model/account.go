package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountLoan       AccountType = "loan"
	AccountInvestment AccountType = "investment"
)

type Account struct {
	ID        int             `json:"id"`
	UserID    int             `json:"user_id"`
	Type      AccountType     `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}
