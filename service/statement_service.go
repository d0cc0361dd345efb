package service

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"stellarone-api/model"
	"stellarone-api/repository"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/tealeg/xlsx"
)

var (
	ErrStatementNotFound = errors.New("statement not found")
	ErrInvalidPeriod     = errors.New("statement period end must be after start")
)

// StatementService generates account statements. Metadata is persisted;
// content is rendered on retrieval from the transaction history in the period.
type StatementService struct {
	statementRepo   repository.IStatementRepository
	transactionRepo repository.ITransactionRepository
}

func NewStatementService(statementRepo repository.IStatementRepository,
	transactionRepo repository.ITransactionRepository) *StatementService {
	return &StatementService{
		statementRepo:   statementRepo,
		transactionRepo: transactionRepo,
	}
}

// RequestStatement records a statement for a date range and account type.
func (s *StatementService) RequestStatement(userID int, req model.CreateStatementRequest) (*model.Statement, error) {
	if !req.PeriodEnd.After(req.PeriodStart) {
		return nil, ErrInvalidPeriod
	}

	statement := &model.Statement{
		ID:          uuid.NewString(),
		UserID:      userID,
		AccountType: req.AccountType,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		Format:      req.Format,
	}
	if err := s.statementRepo.CreateStatement(statement); err != nil {
		return nil, err
	}
	return statement, nil
}

func (s *StatementService) ListStatements(userID int) ([]*model.Statement, error) {
	return s.statementRepo.GetStatementsByUserID(userID)
}

// GetStatement returns the statement metadata after the ownership check.
// Admins may retrieve any statement.
func (s *StatementService) GetStatement(id string, userID int, isAdmin bool) (*model.Statement, error) {
	statement, err := s.statementRepo.GetStatementByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStatementNotFound
		}
		return nil, err
	}
	if statement.UserID != userID && !isAdmin {
		return nil, ErrPermissionDenied
	}
	return statement, nil
}

// Render produces the statement content in its stored format and returns the
// bytes, content type, and a download filename.
func (s *StatementService) Render(statement *model.Statement) ([]byte, string, string, error) {
	transactions, err := s.transactionRepo.GetTransactionsForPeriod(
		statement.UserID, statement.AccountType, statement.PeriodStart, statement.PeriodEnd)
	if err != nil {
		return nil, "", "", err
	}

	base := fmt.Sprintf("statement_%s_%s_%s", statement.AccountType,
		statement.PeriodStart.Format("2006-01-02"), statement.PeriodEnd.Format("2006-01-02"))

	switch statement.Format {
	case model.FormatPDF:
		content, err := renderPDF(statement, transactions)
		return content, "application/pdf", base + ".pdf", err
	case model.FormatCSV:
		content, err := renderCSV(transactions)
		return content, "text/csv", base + ".csv", err
	case model.FormatXLSX:
		content, err := renderXLSX(transactions)
		return content, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", base + ".xlsx", err
	}
	return nil, "", "", fmt.Errorf("unsupported statement format %q", statement.Format)
}

func renderPDF(statement *model.Statement, transactions []*model.Transaction) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "StellarOne Account Statement")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(40, 8, fmt.Sprintf("Account: %s   Period: %s to %s",
		statement.AccountType,
		statement.PeriodStart.Format("2006-01-02"),
		statement.PeriodEnd.Format("2006-01-02")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(45, 7, "Date", "1", 0, "", false, 0, "")
	pdf.CellFormat(40, 7, "Kind", "1", 0, "", false, 0, "")
	pdf.CellFormat(35, 7, "Amount", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 7, "Currency", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 7, "Status", "1", 0, "", false, 0, "")
	pdf.Ln(7)

	pdf.SetFont("Arial", "", 11)
	for _, t := range transactions {
		pdf.CellFormat(45, 7, t.CreatedAt.Format("2006-01-02 15:04:05"), "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 7, string(t.Kind), "1", 0, "", false, 0, "")
		pdf.CellFormat(35, 7, t.Amount.StringFixed(2), "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 7, t.Currency, "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, string(t.Status), "1", 0, "", false, 0, "")
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderCSV(transactions []*model.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"date", "kind", "amount", "currency", "status"}); err != nil {
		return nil, err
	}
	for _, t := range transactions {
		record := []string{
			t.CreatedAt.Format("2006-01-02 15:04:05"),
			string(t.Kind),
			t.Amount.StringFixed(2),
			t.Currency,
			string(t.Status),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderXLSX(transactions []*model.Transaction) ([]byte, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Statement")
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, h := range []string{"Date", "Kind", "Amount", "Currency", "Status"} {
		header.AddCell().SetString(h)
	}
	for _, t := range transactions {
		row := sheet.AddRow()
		row.AddCell().SetString(t.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetString(string(t.Kind))
		row.AddCell().SetString(t.Amount.StringFixed(2))
		row.AddCell().SetString(t.Currency)
		row.AddCell().SetString(string(t.Status))
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
