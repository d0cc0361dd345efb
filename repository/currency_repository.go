package repository

import (
	"database/sql"
	"stellarone-api/model"

	"github.com/shopspring/decimal"
)

// ICurrencyRepository defines the contract for currency reference data.
type ICurrencyRepository interface {
	CreateCurrency(currency *model.Currency) error
	GetCurrencyByCode(code string) (*model.Currency, error)
	GetAllCurrencies() ([]*model.Currency, error)
	CurrencyExists(code string) (bool, error)
	UpdateCurrency(code, name string, usdRate decimal.Decimal) error
	DeleteCurrency(code string) error
}

type CurrencyRepository struct {
	DB *sql.DB
}

func NewCurrencyRepository(db *sql.DB) *CurrencyRepository {
	return &CurrencyRepository{DB: db}
}

func (r *CurrencyRepository) CreateCurrency(currency *model.Currency) error {
	query := `INSERT INTO currencies (code, name, usd_rate) VALUES ($1, $2, $3) RETURNING updated_at`
	return r.DB.QueryRow(query, currency.Code, currency.Name, currency.USDRate).Scan(&currency.UpdatedAt)
}

func (r *CurrencyRepository) GetCurrencyByCode(code string) (*model.Currency, error) {
	c := &model.Currency{}
	query := `SELECT code, name, usd_rate, updated_at FROM currencies WHERE code = $1`
	err := r.DB.QueryRow(query, code).Scan(&c.Code, &c.Name, &c.USDRate, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CurrencyRepository) GetAllCurrencies() ([]*model.Currency, error) {
	query := `SELECT code, name, usd_rate, updated_at FROM currencies ORDER BY code`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var currencies []*model.Currency
	for rows.Next() {
		c := &model.Currency{}
		if err := rows.Scan(&c.Code, &c.Name, &c.USDRate, &c.UpdatedAt); err != nil {
			return nil, err
		}
		currencies = append(currencies, c)
	}
	return currencies, rows.Err()
}

func (r *CurrencyRepository) CurrencyExists(code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM currencies WHERE code = $1)`
	err := r.DB.QueryRow(query, code).Scan(&exists)
	return exists, err
}

func (r *CurrencyRepository) UpdateCurrency(code, name string, usdRate decimal.Decimal) error {
	query := `UPDATE currencies SET name = $1, usd_rate = $2, updated_at = now() WHERE code = $3`
	res, err := r.DB.Exec(query, name, usdRate, code)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *CurrencyRepository) DeleteCurrency(code string) error {
	query := `DELETE FROM currencies WHERE code = $1`
	res, err := r.DB.Exec(query, code)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
