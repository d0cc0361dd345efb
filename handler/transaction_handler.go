package handler

import (
	"net/http"
	"stellarone-api/common"
	"stellarone-api/model"
	"stellarone-api/service"
)

// TransactionHandler holds dependencies for ledger endpoints.
type TransactionHandler struct {
	service        *service.TransactionService
	accountService *service.AccountService
}

func NewTransactionHandler(s *service.TransactionService, accountService *service.AccountService) *TransactionHandler {
	return &TransactionHandler{service: s, accountService: accountService}
}

// List godoc
// @Summary      List transactions
// @Description  Returns the caller's transactions. With ?admin=true, returns every user's transactions (admin only).
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Transaction
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Router       /transactions [get]
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, role, appErr := userFromContext(r)
	if appErr != nil {
		return appErr
	}

	all := r.URL.Query().Get("admin") == "true"
	if all && !isAdmin(role) {
		return common.NewAppError(common.KindForbidden, "Access denied. Admin privileges required.", nil)
	}

	transactions, err := h.service.ListTransactions(userID, all)
	if err != nil {
		return serviceError(err, "Could not retrieve transactions")
	}
	common.WriteJSON(w, http.StatusOK, transactions)
	return nil
}

// Create godoc
// @Summary      Create a transaction
// @Description  Applies a ledger operation: deposit, withdrawal, payment, transfer, crypto deposit, or cheque deposit.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        transaction body model.CreateTransactionRequest true "Operation details"
// @Success      201  {object}  model.Transaction
// @Failure      400  {object}  common.AppError "Invalid amount, unknown currency, or malformed detail"
// @Failure      404  {object}  common.AppError "Account not found"
// @Router       /transactions [post]
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, _, appErr := userFromContext(r)
	if appErr != nil {
		return appErr
	}

	var req model.CreateTransactionRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	transaction, err := h.service.CreateTransaction(r.Context(), userID, req)
	if err != nil {
		return serviceError(err, "Could not process transaction")
	}
	h.accountService.InvalidateAccountCache(r.Context(), userID)

	common.WriteJSON(w, http.StatusCreated, transaction)
	return nil
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, role, appErr := userFromContext(r)
	if appErr != nil {
		return appErr
	}

	transaction, err := h.service.GetTransaction(r.PathValue("id"), userID, isAdmin(role))
	if err != nil {
		return serviceError(err, "Could not retrieve transaction")
	}
	common.WriteJSON(w, http.StatusOK, transaction)
	return nil
}

// Review settles a pending transaction; admin only, enforced by the route.
func (h *TransactionHandler) Review(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.ReviewTransactionRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	transaction, err := h.service.ReviewTransaction(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		return serviceError(err, "Could not review transaction")
	}
	h.accountService.InvalidateAccountCache(r.Context(), transaction.UserID)

	common.WriteJSON(w, http.StatusOK, transaction)
	return nil
}

// Delete removes a pending or failed transaction; completed records are
// immutable audit history. Admin only, enforced by the route.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) *common.AppError {
	if err := h.service.DeleteTransaction(r.PathValue("id")); err != nil {
		return serviceError(err, "Could not delete transaction")
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
