package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	LoanCurrent    LoanStatus = "current"
	LoanDelinquent LoanStatus = "delinquent"
	LoanPaid       LoanStatus = "paid"
)

type Loan struct {
	ID              string          `json:"id"`
	UserID          int             `json:"user_id"`
	Principal       decimal.Decimal `json:"principal"`
	AnnualRate      decimal.Decimal `json:"annual_rate"`
	TermMonths      int             `json:"term_months"`
	MonthlyPayment  decimal.Decimal `json:"monthly_payment"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	PaymentsMade    int             `json:"payments_made"`
	NextPaymentDate time.Time       `json:"next_payment_date"`
	Status          LoanStatus      `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// StatusAt derives the effective status at a point in time: an unpaid loan
// whose next payment date has passed is delinquent. Nothing schedules a
// background transition, so delinquency is computed on read.
func (l *Loan) StatusAt(now time.Time) LoanStatus {
	if l.Status == LoanPaid {
		return LoanPaid
	}
	if l.CurrentBalance.IsPositive() && l.NextPaymentDate.Before(now) {
		return LoanDelinquent
	}
	return l.Status
}

// PaymentsRemaining is derived from the term, never stored.
func (l *Loan) PaymentsRemaining() int {
	remaining := l.TermMonths - l.PaymentsMade
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ProgressPercent reports how much of the principal has been repaid.
func (l *Loan) ProgressPercent() decimal.Decimal {
	if l.Principal.IsZero() {
		return decimal.NewFromInt(100)
	}
	paid := l.Principal.Sub(l.CurrentBalance)
	return paid.Div(l.Principal).Mul(decimal.NewFromInt(100)).Round(2)
}
