// model/loan_test.go
package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoanStatusAt(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("current while the next payment is not yet due", func(t *testing.T) {
		loan := &Loan{Status: LoanCurrent, CurrentBalance: decimal.NewFromInt(500),
			NextPaymentDate: now.AddDate(0, 0, 10)}
		assert.Equal(t, LoanCurrent, loan.StatusAt(now))
	})

	t.Run("missed payment reads as delinquent", func(t *testing.T) {
		loan := &Loan{Status: LoanCurrent, CurrentBalance: decimal.NewFromInt(500),
			NextPaymentDate: now.AddDate(0, 0, -1)}
		assert.Equal(t, LoanDelinquent, loan.StatusAt(now))
	})

	t.Run("paid loans never become delinquent", func(t *testing.T) {
		loan := &Loan{Status: LoanPaid, CurrentBalance: decimal.Zero,
			NextPaymentDate: now.AddDate(0, 0, -30)}
		assert.Equal(t, LoanPaid, loan.StatusAt(now))
	})

	t.Run("zero balance with a stale due date is not delinquent", func(t *testing.T) {
		loan := &Loan{Status: LoanCurrent, CurrentBalance: decimal.Zero,
			NextPaymentDate: now.AddDate(0, 0, -1)}
		assert.Equal(t, LoanCurrent, loan.StatusAt(now))
	})
}

func TestLoanDerivedProgress(t *testing.T) {
	loan := &Loan{Principal: decimal.NewFromInt(1000), CurrentBalance: decimal.NewFromInt(250),
		TermMonths: 12, PaymentsMade: 9}

	assert.Equal(t, 3, loan.PaymentsRemaining())
	assert.True(t, loan.ProgressPercent().Equal(decimal.NewFromInt(75)))
}
