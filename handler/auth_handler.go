package handler

import (
	"net/http"
	"stellarone-api/common"
	"stellarone-api/logger"
	"stellarone-api/model"
	"stellarone-api/service"
)

// AuthHandler exposes the two-factor login flow and account registration.
type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(s *service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a user with a generated account number and checking, loan, and investment sub-accounts.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        registration body model.RegisterRequest true "Registration details"
// @Success      201  {object}  model.User
// @Failure      400  {object}  common.AppError
// @Failure      409  {object}  common.AppError "Email already registered"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, accounts, err := h.service.Register(req)
	if err != nil {
		return serviceError(err, "Could not register user")
	}

	common.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"user":     user,
		"accounts": accounts,
	})
	return nil
}

// Login godoc
// @Summary      Start login
// @Description  Verifies credentials and emails a one-time code to the registered address.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "Account number and password"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  common.AppError "Invalid credentials"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	if err := h.service.RequestLogin(r.Context(), req.AccountNumber, req.Password); err != nil {
		return serviceError(err, "Could not start login")
	}

	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "otp_sent"})
	return nil
}

// ResendOTP invalidates the outstanding code and issues a fresh one.
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.ResendOTPRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	if err := h.service.ResendOTP(r.Context(), req.AccountNumber); err != nil {
		return serviceError(err, "Could not resend code")
	}

	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "otp_sent"})
	return nil
}

// VerifyOTP godoc
// @Summary      Complete login
// @Description  Verifies the one-time code, mints a bearer token, and sets the session cookies.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        verification body model.VerifyOTPRequest true "Account number and code"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  common.AppError "Invalid or expired code"
// @Router       /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.VerifyOTPRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	token, snapshot, err := h.service.VerifyOTP(r.Context(), req.AccountNumber, req.Code)
	if err != nil {
		return serviceError(err, "Could not verify code")
	}

	if err := SetSessionCookies(w, token, snapshot); err != nil {
		return common.NewAppError(common.KindInternal, "Could not establish session", err)
	}

	logger.Log.WithField("account_number", req.AccountNumber).Info("Login completed")
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  snapshot,
	})
	return nil
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.ForgotPasswordRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	if err := h.service.ForgotPassword(r.Context(), req.AccountNumber); err != nil {
		return serviceError(err, "Could not send reset code")
	}

	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "reset_sent"})
	return nil
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.ResetPasswordRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	if err := h.service.ResetPassword(r.Context(), req.AccountNumber, req.Code, req.NewPassword); err != nil {
		return serviceError(err, "Could not reset password")
	}

	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "password_reset"})
	return nil
}

// Logout clears the session cookies. The bearer token itself simply ages out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	ClearSessionCookies(w)
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
	return nil
}
