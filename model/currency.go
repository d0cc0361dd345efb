package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Currency struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	USDRate   decimal.Decimal `json:"usd_rate"`
	UpdatedAt time.Time       `json:"updated_at"`
}
