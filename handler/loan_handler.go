package handler

import (
	"net/http"
	"stellarone-api/common"
	"stellarone-api/model"
	"stellarone-api/service"
	"time"

	"github.com/shopspring/decimal"
)

type LoanHandler struct {
	service        *service.LoanService
	accountService *service.AccountService
}

func NewLoanHandler(s *service.LoanService, accountService *service.AccountService) *LoanHandler {
	return &LoanHandler{service: s, accountService: accountService}
}

// loanView augments a loan with its derived fields. Status is the effective
// status, so an overdue loan reads as delinquent without a stored transition.
type loanView struct {
	*model.Loan
	Status            model.LoanStatus `json:"status"`
	PaymentsRemaining int              `json:"payments_remaining"`
	ProgressPercent   decimal.Decimal  `json:"progress_percent"`
}

func viewLoan(loan *model.Loan) loanView {
	return loanView{
		Loan:              loan,
		Status:            loan.StatusAt(time.Now()),
		PaymentsRemaining: loan.PaymentsRemaining(),
		ProgressPercent:   loan.ProgressPercent(),
	}
}

func viewLoans(loans []*model.Loan) []loanView {
	views := make([]loanView, 0, len(loans))
	for _, loan := range loans {
		views = append(views, viewLoan(loan))
	}
	return views
}

func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, role, appErr := userFromContext(r)
	if appErr != nil {
		return appErr
	}

	all := r.URL.Query().Get("admin") == "true"
	if all && !isAdmin(role) {
		return common.NewAppError(common.KindForbidden, "Access denied. Admin privileges required.", nil)
	}

	loans, err := h.service.ListLoans(userID, all)
	if err != nil {
		return serviceError(err, "Could not retrieve loans")
	}
	common.WriteJSON(w, http.StatusOK, viewLoans(loans))
	return nil
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, role, appErr := userFromContext(r)
	if appErr != nil {
		return appErr
	}

	loan, err := h.service.GetLoan(r.PathValue("id"), userID, isAdmin(role))
	if err != nil {
		return serviceError(err, "Could not retrieve loan")
	}
	common.WriteJSON(w, http.StatusOK, viewLoan(loan))
	return nil
}

// Create originates a loan and disburses the principal to checking.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, _, appErr := userFromContext(r)
	if appErr != nil {
		return appErr
	}

	var req model.CreateLoanRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	loan, err := h.service.CreateLoan(r.Context(), userID, req)
	if err != nil {
		return serviceError(err, "Could not originate loan")
	}
	h.accountService.InvalidateAccountCache(r.Context(), userID)

	common.WriteJSON(w, http.StatusCreated, viewLoan(loan))
	return nil
}

// Payment godoc
// @Summary      Make a loan payment
// @Description  Debits checking, decrements the loan balance (clamped at zero), and flips the status to paid when the balance reaches zero.
// @Tags         loans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  string                   true "Loan ID"
// @Param        payment body  model.LoanPaymentRequest true "Payment amount"
// @Success      200  {object}  model.Loan
// @Failure      400  {object}  common.AppError "Non-positive amount or insufficient funds"
// @Failure      403  {object}  common.AppError "Not the borrower"
// @Failure      404  {object}  common.AppError "Loan not found"
// @Router       /loans/{id}/payment [post]
func (h *LoanHandler) Payment(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, _, appErr := userFromContext(r)
	if appErr != nil {
		return appErr
	}

	var req model.LoanPaymentRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	loan, err := h.service.MakePayment(r.Context(), r.PathValue("id"), userID, req.Amount)
	if err != nil {
		return serviceError(err, "Could not process loan payment")
	}
	h.accountService.InvalidateAccountCache(r.Context(), userID)

	common.WriteJSON(w, http.StatusOK, viewLoan(loan))
	return nil
}
