package handlers

import (
	"net/http"

	request "billing_gateway/internal/adapter/http/dto/request"
	response "billing_gateway/internal/adapter/http/dto/response"
	"billing_gateway/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentOperationHandler exposes charges, refunds and their operation log to
// the billing core.
type PaymentOperationHandler struct {
	dispatcher usecase.IGatewayDispatcher
	log        *zap.Logger
}

func NewPaymentOperationHandler(dispatcher usecase.IGatewayDispatcher, log *zap.Logger) *PaymentOperationHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentOperationHandler{dispatcher: dispatcher, log: log}
}

// ProcessPayment godoc
// @Summary      Charge a stored payment method
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request  body      request.ChargeRequest  true  "Charge"
// @Success      200      {object}  response.PaymentOperationResponse
// @Failure      400,402,404,409,422,503  {object}  pkg.HTTPError
// @Router       /payments [post]
func (h *PaymentOperationHandler) ProcessPayment(c *gin.Context) {
	var payload request.ChargeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidRequest.HTTPStatus, errInvalidRequest.ToHTTPError())
		return
	}
	req, err := payload.ToOperationRequest()
	if err != nil {
		writeError(c, err)
		return
	}

	op, err := h.dispatcher.ProcessPayment(callContext(c, req.AccountID), req)
	if err != nil {
		h.log.Info("[payment][handler] charge not completed",
			zap.String("billing_payment_id", req.BillingPaymentID.String()),
			zap.String("status", string(op.Status)),
			zap.Error(err),
		)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentOperation(op))
}

// ProcessRefund godoc
// @Summary      Refund a settled charge
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request  body      request.RefundRequest  true  "Refund"
// @Success      200      {object}  response.PaymentOperationResponse
// @Failure      400,402,404,409,422,503  {object}  pkg.HTTPError
// @Router       /refunds [post]
func (h *PaymentOperationHandler) ProcessRefund(c *gin.Context) {
	var payload request.RefundRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidRequest.HTTPStatus, errInvalidRequest.ToHTTPError())
		return
	}
	req, err := payload.ToOperationRequest()
	if err != nil {
		writeError(c, err)
		return
	}

	op, err := h.dispatcher.ProcessRefund(callContext(c, req.AccountID), req)
	if err != nil {
		h.log.Info("[payment][handler] refund not completed",
			zap.String("billing_payment_id", req.BillingPaymentID.String()),
			zap.String("original_payment_id", req.OriginalPaymentID.String()),
			zap.Error(err),
		)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentOperation(op))
}

// ListOperationsByPayment godoc
// @Summary      Charge and refund operations of a billing payment
// @Tags         payments
// @Produce      json
// @Param        billing_payment_id  path  string  true  "Billing payment id"
// @Success      200  {array}   response.PaymentOperationResponse
// @Router       /payments/{billing_payment_id}/operations [get]
func (h *PaymentOperationHandler) ListOperationsByPayment(c *gin.Context) {
	paymentID, err := request.ParseID("billing_payment_id", c.Param("billing_payment_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	ops, err := h.dispatcher.ListOperationsByPayment(c.Request.Context(), paymentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentOperations(ops))
}

// GetOperation godoc
// @Summary      Payment operation by idempotency key
// @Tags         operations
// @Produce      json
// @Param        idempotency_key  path  string  true  "Idempotency key"
// @Success      200  {object}  response.PaymentOperationResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /operations/{idempotency_key} [get]
func (h *PaymentOperationHandler) GetOperation(c *gin.Context) {
	op, err := h.dispatcher.GetOperation(c.Request.Context(), c.Param("idempotency_key"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentOperation(op))
}

// ReconcileOperation godoc
// @Summary      Ask the gateway for the outcome of an in-doubt operation
// @Tags         operations
// @Produce      json
// @Param        idempotency_key  path  string  true  "Idempotency key"
// @Success      200  {object}  response.PaymentOperationResponse
// @Failure      402,404,409,501,503  {object}  pkg.HTTPError
// @Router       /operations/{idempotency_key}/reconcile [post]
func (h *PaymentOperationHandler) ReconcileOperation(c *gin.Context) {
	key := c.Param("idempotency_key")
	op, err := h.dispatcher.ReconcileOperation(c.Request.Context(), key)
	if err != nil {
		h.log.Info("[payment][handler] reconcile not resolved",
			zap.String("idempotency_key", key),
			zap.String("status", string(op.Status)),
			zap.Error(err),
		)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentOperation(op))
}
