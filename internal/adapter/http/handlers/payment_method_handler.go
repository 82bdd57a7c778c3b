package handlers

import (
	"net/http"
	"strconv"

	request "billing_gateway/internal/adapter/http/dto/request"
	response "billing_gateway/internal/adapter/http/dto/response"
	"billing_gateway/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentMethodHandler manages the stored payment methods of an account.
type PaymentMethodHandler struct {
	reconciler usecase.IPaymentMethodReconciler
	log        *zap.Logger
}

func NewPaymentMethodHandler(reconciler usecase.IPaymentMethodReconciler, log *zap.Logger) *PaymentMethodHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentMethodHandler{reconciler: reconciler, log: log}
}

// ListMethods godoc
// @Summary      Payment methods of an account
// @Tags         payment-methods
// @Produce      json
// @Param        account_id  path   string  true   "Account id"
// @Param        refresh     query  bool    false  "Merge the gateway list first"
// @Success      200  {array}   response.PaymentMethodResponse
// @Router       /accounts/{account_id}/payment-methods [get]
func (h *PaymentMethodHandler) ListMethods(c *gin.Context) {
	accountID, err := request.ParseID("account_id", c.Param("account_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	refresh, ok := refreshParam(c)
	if !ok {
		return
	}
	methods, err := h.reconciler.ListMethods(callContext(c, accountID), accountID, refresh)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentMethods(methods))
}

// ResetMethods godoc
// @Summary      Replace the cached payment method list
// @Tags         payment-methods
// @Accept       json
// @Produce      json
// @Param        account_id  path  string                              true  "Account id"
// @Param        request     body  request.ResetPaymentMethodsRequest  true  "Methods"
// @Success      200  {array}   response.PaymentMethodResponse
// @Router       /accounts/{account_id}/payment-methods [put]
func (h *PaymentMethodHandler) ResetMethods(c *gin.Context) {
	accountID, err := request.ParseID("account_id", c.Param("account_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	var payload request.ResetPaymentMethodsRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidRequest.HTTPStatus, errInvalidRequest.ToHTTPError())
		return
	}
	methods, err := payload.ToPaymentMethods()
	if err != nil {
		writeError(c, err)
		return
	}
	saved, err := h.reconciler.ResetMethods(callContext(c, accountID), accountID, methods)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentMethods(saved))
}

// AddMethod godoc
// @Summary      Attach a payment method at the gateway
// @Tags         payment-methods
// @Accept       json
// @Produce      json
// @Param        account_id  path  string                           true  "Account id"
// @Param        request     body  request.AddPaymentMethodRequest  true  "Method"
// @Success      201  {object}  response.PaymentMethodResponse
// @Failure      400,409  {object}  pkg.HTTPError
// @Router       /accounts/{account_id}/payment-methods [post]
func (h *PaymentMethodHandler) AddMethod(c *gin.Context) {
	accountID, err := request.ParseID("account_id", c.Param("account_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	var payload request.AddPaymentMethodRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidRequest.HTTPStatus, errInvalidRequest.ToHTTPError())
		return
	}
	in, err := payload.ToNewPaymentMethod()
	if err != nil {
		writeError(c, err)
		return
	}
	added, err := h.reconciler.AddMethod(callContext(c, accountID), accountID, in)
	if err != nil {
		h.log.Info("[payment][handler] add method failed", zap.String("account_id", accountID.String()), zap.Error(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromPaymentMethod(added))
}

// GetMethod godoc
// @Summary      One payment method
// @Tags         payment-methods
// @Produce      json
// @Param        account_id  path   string  true   "Account id"
// @Param        method_id   path   string  true   "Billing method id"
// @Param        refresh     query  bool    false  "Fetch details from the gateway"
// @Success      200  {object}  response.PaymentMethodResponse
// @Router       /accounts/{account_id}/payment-methods/{method_id} [get]
func (h *PaymentMethodHandler) GetMethod(c *gin.Context) {
	accountID, methodID, ok := methodPath(c)
	if !ok {
		return
	}
	refresh, ok := refreshParam(c)
	if !ok {
		return
	}
	m, err := h.reconciler.GetMethodDetail(callContext(c, accountID), accountID, methodID, refresh)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentMethod(m))
}

// DeleteMethod godoc
// @Summary      Detach a payment method
// @Tags         payment-methods
// @Param        account_id  path  string  true  "Account id"
// @Param        method_id   path  string  true  "Billing method id"
// @Success      204
// @Router       /accounts/{account_id}/payment-methods/{method_id} [delete]
func (h *PaymentMethodHandler) DeleteMethod(c *gin.Context) {
	accountID, methodID, ok := methodPath(c)
	if !ok {
		return
	}
	if err := h.reconciler.DeleteMethod(callContext(c, accountID), accountID, methodID); err != nil {
		h.log.Info("[payment][handler] delete method failed", zap.String("account_id", accountID.String()), zap.Error(err))
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetDefaultMethod godoc
// @Summary      Make a payment method the default
// @Tags         payment-methods
// @Produce      json
// @Param        account_id  path  string  true  "Account id"
// @Param        method_id   path  string  true  "Billing method id"
// @Success      200  {object}  response.PaymentMethodResponse
// @Failure      501  {object}  pkg.HTTPError
// @Router       /accounts/{account_id}/payment-methods/{method_id}/default [put]
func (h *PaymentMethodHandler) SetDefaultMethod(c *gin.Context) {
	accountID, methodID, ok := methodPath(c)
	if !ok {
		return
	}
	m, err := h.reconciler.SetDefaultMethod(callContext(c, accountID), accountID, methodID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentMethod(m))
}

func methodPath(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	accountID, err := request.ParseID("account_id", c.Param("account_id"))
	if err != nil {
		writeError(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	methodID, err := request.ParseID("method_id", c.Param("method_id"))
	if err != nil {
		writeError(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	return accountID, methodID, true
}

func refreshParam(c *gin.Context) (bool, bool) {
	raw := c.Query("refresh")
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		c.JSON(errInvalidRequest.HTTPStatus, errInvalidRequest.ToHTTPError())
		return false, false
	}
	return v, true
}
