package handler

import (
	"stellarone-api/common"
	"stellarone-api/service"
)

// serviceError translates the service layer's sentinel errors into the closed
// error taxonomy. Anything unrecognized becomes an internal error with the
// fallback message, so internals never reach the client.
func serviceError(err error, fallback string) *common.AppError {
	switch err {
	case service.ErrInvalidAmount, service.ErrMalformedDetail, service.ErrUnknownCurrency,
		service.ErrCurrencyMismatch, service.ErrInsufficientFunds, service.ErrSameAccountTransfer,
		service.ErrInvalidPeriod:
		return common.NewAppError(common.KindValidation, err.Error(), err)
	case service.ErrInvalidCredentials, service.ErrInvalidOrExpiredOTP:
		return common.NewAppError(common.KindUnauthorized, err.Error(), err)
	case service.ErrPermissionDenied, service.ErrAccountNotActive, service.ErrBroadcastReadOnly:
		return common.NewAppError(common.KindForbidden, err.Error(), err)
	case service.ErrUserNotFound, service.ErrAccountNotFound, service.ErrReceiverAccountNotFound,
		service.ErrTransactionNotFound, service.ErrLoanNotFound, service.ErrNotificationNotFound,
		service.ErrCurrencyNotFound, service.ErrStatementNotFound:
		return common.NewAppError(common.KindNotFound, err.Error(), err)
	case service.ErrEmailTaken, service.ErrCurrencyExists, service.ErrCurrencyInUse,
		service.ErrTransactionNotPending, service.ErrCompletedImmutable, service.ErrLoanAlreadyPaid:
		return common.NewAppError(common.KindConflict, err.Error(), err)
	default:
		return common.NewAppError(common.KindInternal, fallback, err)
	}
}
