package handler

import (
	"net/http"
	"stellarone-api/common"
	"stellarone-api/model"
	"stellarone-api/service"
	"strings"
)

type CurrencyHandler struct {
	service *service.CurrencyService
}

func NewCurrencyHandler(s *service.CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{service: s}
}

func (h *CurrencyHandler) List(w http.ResponseWriter, r *http.Request) *common.AppError {
	currencies, err := h.service.List()
	if err != nil {
		return serviceError(err, "Could not retrieve currencies")
	}
	common.WriteJSON(w, http.StatusOK, currencies)
	return nil
}

func (h *CurrencyHandler) Get(w http.ResponseWriter, r *http.Request) *common.AppError {
	currency, err := h.service.Get(strings.ToUpper(r.PathValue("code")))
	if err != nil {
		return serviceError(err, "Could not retrieve currency")
	}
	common.WriteJSON(w, http.StatusOK, currency)
	return nil
}

// Create adds a currency to the reference table; admin only.
func (h *CurrencyHandler) Create(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpsertCurrencyRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}
	req.Code = strings.ToUpper(req.Code)

	currency, err := h.service.Create(req)
	if err != nil {
		return serviceError(err, "Could not create currency")
	}
	common.WriteJSON(w, http.StatusCreated, currency)
	return nil
}

// Update changes a currency's name or conversion rate; admin only.
func (h *CurrencyHandler) Update(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpsertCurrencyRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	currency, err := h.service.Update(strings.ToUpper(r.PathValue("code")), req)
	if err != nil {
		return serviceError(err, "Could not update currency")
	}
	common.WriteJSON(w, http.StatusOK, currency)
	return nil
}

// Delete removes a currency unless accounts still reference it; admin only.
func (h *CurrencyHandler) Delete(w http.ResponseWriter, r *http.Request) *common.AppError {
	if err := h.service.Delete(strings.ToUpper(r.PathValue("code"))); err != nil {
		return serviceError(err, "Could not delete currency")
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
