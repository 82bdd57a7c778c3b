package handlers

import (
	"errors"
	"net/http"

	request "billing_gateway/internal/adapter/http/dto/request"
	response "billing_gateway/internal/adapter/http/dto/response"
	"billing_gateway/internal/usecase"
	"billing_gateway/internal/usecase/interfaces"
	"billing_gateway/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidRequest = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
)

// mapGatewayOperationError translates usecase errors to the HTTP envelope.
// Specific sentinels are checked before the taxonomy kinds they wrap.
func mapGatewayOperationError(err error) *pkg.AppError {
	var appErr *pkg.AppError
	switch {
	case errors.Is(err, request.ErrInvalidID), errors.Is(err, request.ErrInvalidAmount):
		appErr = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrAccountNotBound):
		appErr = pkg.NewDomainErrorSimple("ACCOUNT_NOT_BOUND", "Account has no payment gateway", http.StatusNotFound)
	case errors.Is(err, usecase.ErrMethodNotFound):
		appErr = pkg.NewDomainErrorSimple("PAYMENT_METHOD_NOT_FOUND", "Payment method not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrMethodAlreadyExists):
		appErr = pkg.NewDomainErrorSimple("PAYMENT_METHOD_EXISTS", "Billing method id is already in use", http.StatusConflict)
	case errors.Is(err, usecase.ErrOperationNotFound):
		appErr = pkg.NewDomainErrorSimple("OPERATION_NOT_FOUND", "Payment operation not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrIdempotencyKeyReused):
		appErr = pkg.NewDomainErrorSimple("IDEMPOTENCY_KEY_REUSED", "Idempotency key was used for a different operation", http.StatusConflict)
	case errors.Is(err, usecase.ErrOriginalNotSettled):
		appErr = pkg.NewDomainErrorSimple("ORIGINAL_PAYMENT_NOT_SETTLED", "Original payment has no settled charge", http.StatusConflict)
	case errors.Is(err, usecase.ErrGatewayNotRegistered):
		appErr = pkg.NewDomainErrorSimple("GATEWAY_NOT_AVAILABLE", "Payment gateway not available", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrValidation):
		appErr = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrCapabilityUnsupported):
		appErr = pkg.NewDomainErrorSimple("GATEWAY_CAPABILITY_UNSUPPORTED", "Operation not supported by the payment gateway", http.StatusNotImplemented)
	case errors.Is(err, usecase.ErrOperationInFlight):
		appErr = pkg.NewDomainErrorSimple("OPERATION_IN_FLIGHT", "Operation is being processed", http.StatusConflict)
	case errors.Is(err, interfaces.ErrVersionConflict):
		appErr = pkg.NewDomainErrorSimple("PAYMENT_METHODS_CHANGED", "Payment methods changed concurrently, retry", http.StatusConflict)
	case errors.Is(err, usecase.ErrMethodIntegrity):
		appErr = pkg.NewDomainError("PAYMENT_METHOD_INTEGRITY", "Gateway reported a different token for a known payment method", err, http.StatusInternalServerError)
	case errors.Is(err, usecase.ErrDeclined):
		appErr = pkg.NewDomainErrorSimple("PAYMENT_DECLINED", "Payment declined", http.StatusPaymentRequired)
	case errors.Is(err, usecase.ErrPermanent):
		appErr = pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_REJECTED", "Payment provider rejected the request", http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrInDoubt):
		appErr = pkg.NewDomainErrorSimple("PAYMENT_IN_DOUBT", "Payment outcome unknown, it will be reconciled", http.StatusConflict)
	case errors.Is(err, usecase.ErrTransport):
		appErr = pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAVAILABLE", "Payment provider unavailable", http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}

	var opErr *usecase.OperationError
	if errors.As(err, &opErr) {
		if opErr.IdempotencyKey != "" {
			appErr.WithDetail("idempotency_key", opErr.IdempotencyKey)
		}
		if opErr.Reason != "" {
			appErr.WithDetail("reason", opErr.Reason)
		}
		if rec := response.FromGatewayRecord(opErr.Record); rec != nil {
			appErr.WithDetail("gateway_record", rec)
		}
	}
	return appErr
}

func writeError(c *gin.Context, err error) {
	appErr := mapGatewayOperationError(err)
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
