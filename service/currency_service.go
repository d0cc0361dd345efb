package service

import (
	"database/sql"
	"errors"
	"stellarone-api/model"
	"stellarone-api/repository"
)

var (
	ErrCurrencyNotFound = errors.New("currency not found")
	ErrCurrencyExists   = errors.New("currency already exists")
	ErrCurrencyInUse    = errors.New("currency is referenced by existing accounts")
)

// CurrencyService maintains the currency reference data. Mutations are
// admin-only, enforced at the route level.
type CurrencyService struct {
	repo repository.ICurrencyRepository
}

func NewCurrencyService(repo repository.ICurrencyRepository) *CurrencyService {
	return &CurrencyService{repo: repo}
}

func (s *CurrencyService) Create(req model.UpsertCurrencyRequest) (*model.Currency, error) {
	if !req.USDRate.IsPositive() {
		return nil, ErrInvalidAmount
	}
	currency := &model.Currency{
		Code:    req.Code,
		Name:    req.Name,
		USDRate: req.USDRate,
	}
	if err := s.repo.CreateCurrency(currency); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrCurrencyExists
		}
		return nil, err
	}
	return currency, nil
}

func (s *CurrencyService) Get(code string) (*model.Currency, error) {
	currency, err := s.repo.GetCurrencyByCode(code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCurrencyNotFound
		}
		return nil, err
	}
	return currency, nil
}

func (s *CurrencyService) List() ([]*model.Currency, error) {
	return s.repo.GetAllCurrencies()
}

func (s *CurrencyService) Update(code string, req model.UpsertCurrencyRequest) (*model.Currency, error) {
	if !req.USDRate.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if err := s.repo.UpdateCurrency(code, req.Name, req.USDRate); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCurrencyNotFound
		}
		return nil, err
	}
	return s.Get(code)
}

func (s *CurrencyService) Delete(code string) error {
	err := s.repo.DeleteCurrency(code)
	if err == sql.ErrNoRows {
		return ErrCurrencyNotFound
	}
	if repository.IsForeignKeyViolation(err) {
		return ErrCurrencyInUse
	}
	return err
}
