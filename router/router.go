package router

import (
	"net/http"
	"stellarone-api/common"
	"stellarone-api/handler"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "stellarone-api/docs"
)

// NewRouter wires every route with its middleware chain. API routes go through
// AuthMiddleware (and AdminMiddleware where required); the dashboard page
// prefixes go through the redirecting page gate.
func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	transactionHandler *handler.TransactionHandler,
	loanHandler *handler.LoanHandler,
	notificationHandler *handler.NotificationHandler,
	currencyHandler *handler.CurrencyHandler,
	statementHandler *handler.StatementHandler,
) http.Handler {
	mux := http.NewServeMux()

	authed := func(h func(http.ResponseWriter, *http.Request) *common.AppError) http.Handler {
		return handler.AuthMiddleware(handler.ErrorHandlingMiddleware(h))
	}
	adminOnly := func(h func(http.ResponseWriter, *http.Request) *common.AppError) http.Handler {
		return handler.AuthMiddleware(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(h)))
	}

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("/swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if authHandler != nil {
		mux.Handle("POST /auth/register", handler.ErrorHandlingMiddleware(authHandler.Register))
		mux.Handle("POST /auth/login", handler.ErrorHandlingMiddleware(authHandler.Login))
		mux.Handle("POST /auth/verify-otp", handler.ErrorHandlingMiddleware(authHandler.VerifyOTP))
		mux.Handle("POST /auth/resend-otp", handler.ErrorHandlingMiddleware(authHandler.ResendOTP))
		mux.Handle("POST /auth/forgot-password", handler.ErrorHandlingMiddleware(authHandler.ForgotPassword))
		mux.Handle("POST /auth/reset-password", handler.ErrorHandlingMiddleware(authHandler.ResetPassword))
		mux.Handle("POST /auth/logout", handler.ErrorHandlingMiddleware(authHandler.Logout))
	}

	if userHandler != nil {
		mux.Handle("GET /me", authed(userHandler.Me))
		mux.Handle("GET /admin/users", adminOnly(userHandler.ListUsers))
		mux.Handle("GET /admin/accounts", adminOnly(userHandler.ListAccounts))
		mux.Handle("PUT /admin/users/{id}/role", adminOnly(userHandler.UpdateRole))
		mux.Handle("PUT /admin/users/{id}/level", adminOnly(userHandler.UpdateLevel))
		mux.Handle("PUT /admin/users/{id}/status", adminOnly(userHandler.UpdateStatus))
		mux.Handle("POST /admin/users/{id}/balance", adminOnly(userHandler.AdjustBalance))
	}

	if transactionHandler != nil {
		mux.Handle("GET /transactions", authed(transactionHandler.List))
		mux.Handle("POST /transactions", authed(transactionHandler.Create))
		mux.Handle("GET /transactions/{id}", authed(transactionHandler.Get))
		mux.Handle("PUT /transactions/{id}", adminOnly(transactionHandler.Review))
		mux.Handle("DELETE /transactions/{id}", adminOnly(transactionHandler.Delete))
	}

	if loanHandler != nil {
		mux.Handle("GET /loans", authed(loanHandler.List))
		mux.Handle("POST /loans", authed(loanHandler.Create))
		mux.Handle("GET /loans/{id}", authed(loanHandler.Get))
		mux.Handle("POST /loans/{id}/payment", authed(loanHandler.Payment))
	}

	if notificationHandler != nil {
		mux.Handle("GET /notifications", authed(notificationHandler.List))
		mux.Handle("POST /notifications", adminOnly(notificationHandler.Create))
		mux.Handle("PUT /notifications/{id}", adminOnly(notificationHandler.Update))
		mux.Handle("PATCH /notifications/{id}", authed(notificationHandler.MarkRead))
		mux.Handle("DELETE /notifications/{id}", adminOnly(notificationHandler.Delete))
	}

	if currencyHandler != nil {
		mux.Handle("GET /currencies", authed(currencyHandler.List))
		mux.Handle("GET /currencies/{code}", authed(currencyHandler.Get))
		mux.Handle("POST /currencies", adminOnly(currencyHandler.Create))
		mux.Handle("PUT /currencies/{code}", adminOnly(currencyHandler.Update))
		mux.Handle("DELETE /currencies/{code}", adminOnly(currencyHandler.Delete))
	}

	if statementHandler != nil {
		mux.Handle("POST /statements", authed(statementHandler.Create))
		mux.Handle("GET /statements", authed(statementHandler.List))
		mux.Handle("GET /statements/{id}", authed(statementHandler.Get))
	}

	// Browser page routes. The gate redirects unauthenticated navigations to
	// the login page.
	mux.Handle("GET /login", handler.DashboardPage("Sign in"))
	mux.Handle("GET /user-dashboard", handler.PageGateMiddleware(false, handler.DashboardPage("Dashboard")))
	mux.Handle("GET /user-dashboard/", handler.PageGateMiddleware(false, handler.DashboardPage("Dashboard")))
	mux.Handle("GET /admin-dashboard", handler.PageGateMiddleware(true, handler.DashboardPage("Admin")))
	mux.Handle("GET /admin-dashboard/", handler.PageGateMiddleware(true, handler.DashboardPage("Admin")))

	return mux
}
