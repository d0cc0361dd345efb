package model

import "time"

type StatementFormat string

const (
	FormatPDF  StatementFormat = "pdf"
	FormatCSV  StatementFormat = "csv"
	FormatXLSX StatementFormat = "xlsx"
)

// Statement is the metadata of a generated account statement. The content is
// rendered on retrieval from the transaction history inside the period.
type Statement struct {
	ID          string          `json:"id"`
	UserID      int             `json:"user_id"`
	AccountType AccountType     `json:"account_type"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	Format      StatementFormat `json:"format"`
	GeneratedAt time.Time       `json:"generated_at"`
}
