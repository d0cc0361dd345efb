package handler

import (
	"net/http"
	"stellarone-api/common"
	"stellarone-api/logger"
	"stellarone-api/model"
	"stellarone-api/service"
	"strconv"

	"github.com/sirupsen/logrus"
)

// UserHandler serves the authenticated user's profile and the admin user
// management endpoints.
type UserHandler struct {
	userService        *service.UserService
	accountService     *service.AccountService
	transactionService *service.TransactionService
}

func NewUserHandler(userService *service.UserService, accountService *service.AccountService,
	transactionService *service.TransactionService) *UserHandler {
	return &UserHandler{
		userService:        userService,
		accountService:     accountService,
		transactionService: transactionService,
	}
}

// Me returns the caller's profile and sub-accounts.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, _, appErr := userFromContext(r)
	if appErr != nil {
		return appErr
	}

	user, err := h.userService.GetUser(userID)
	if err != nil {
		return serviceError(err, "Could not load profile")
	}
	accounts, err := h.accountService.ListAccountsForUser(r.Context(), userID)
	if err != nil {
		return serviceError(err, "Could not load accounts")
	}

	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":     user,
		"accounts": accounts,
	})
	return nil
}

// ListUsers godoc
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.User
// @Failure      403  {object}  common.AppError
// @Router       /admin/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	users, err := h.userService.ListUsers()
	if err != nil {
		return serviceError(err, "Could not list users")
	}
	common.WriteJSON(w, http.StatusOK, users)
	return nil
}

// ListAccounts returns every sub-account across all users, for the admin
// dashboard's balance overview.
func (h *UserHandler) ListAccounts(w http.ResponseWriter, r *http.Request) *common.AppError {
	accounts, err := h.accountService.GetAllAccounts()
	if err != nil {
		return serviceError(err, "Could not list accounts")
	}
	common.WriteJSON(w, http.StatusOK, accounts)
	return nil
}

func pathUserID(r *http.Request) (int, *common.AppError) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return 0, common.NewAppError(common.KindValidation, "Invalid user ID in URL path", err)
	}
	return id, nil
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) *common.AppError {
	targetID, appErr := pathUserID(r)
	if appErr != nil {
		return appErr
	}
	var req model.UpdateUserRoleRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	if err := h.userService.UpdateUserRole(targetID, req.Role); err != nil {
		return serviceError(err, "Could not update role")
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "role_updated"})
	return nil
}

func (h *UserHandler) UpdateLevel(w http.ResponseWriter, r *http.Request) *common.AppError {
	targetID, appErr := pathUserID(r)
	if appErr != nil {
		return appErr
	}
	var req model.UpdateUserLevelRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	if err := h.userService.UpdateUserLevel(targetID, req.AccountLevel); err != nil {
		return serviceError(err, "Could not update account level")
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "level_updated"})
	return nil
}

func (h *UserHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) *common.AppError {
	targetID, appErr := pathUserID(r)
	if appErr != nil {
		return appErr
	}
	var req model.UpdateUserStatusRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	if err := h.userService.UpdateUserStatus(targetID, req.Status); err != nil {
		return serviceError(err, "Could not update status")
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "status_updated"})
	return nil
}

// AdjustBalance godoc
// @Summary      Adjust a user's balance
// @Description  Sets or offsets a sub-account balance directly, recording an admin-adjustment transaction for audit.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id         path  int                       true "Target user ID"
// @Param        adjustment body  model.AdminBalanceRequest true "Adjustment details"
// @Success      200  {object}  model.Transaction
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError "Account not found"
// @Router       /admin/users/{id}/balance [post]
func (h *UserHandler) AdjustBalance(w http.ResponseWriter, r *http.Request) *common.AppError {
	targetID, appErr := pathUserID(r)
	if appErr != nil {
		return appErr
	}
	var req model.AdminBalanceRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	adminID, _, appErr := userFromContext(r)
	if appErr != nil {
		return appErr
	}
	logger.Log.WithFields(logrus.Fields{
		"admin_id":       adminID,
		"target_user_id": targetID,
	}).Warn("Admin balance adjustment")

	transaction, err := h.transactionService.AdminAdjustBalance(r.Context(), targetID, req)
	if err != nil {
		return serviceError(err, "Could not adjust balance")
	}
	h.accountService.InvalidateAccountCache(r.Context(), targetID)

	common.WriteJSON(w, http.StatusOK, transaction)
	return nil
}
