package routes

import (
	"billing_gateway/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathPayments   = "/payments"
	PathRefunds    = "/refunds"
	PathOperations = "/operations"
	PathAccounts   = "/accounts"
)

func addBillingRoutes(
	rg *gin.RouterGroup,
	operationHandler *handlers.PaymentOperationHandler,
	methodHandler *handlers.PaymentMethodHandler,
	bindingHandler *handlers.AccountBindingHandler,
) {
	payments := rg.Group(PathPayments)
	{
		payments.POST("", operationHandler.ProcessPayment)
		payments.GET("/:billing_payment_id/operations", operationHandler.ListOperationsByPayment)
	}
	rg.POST(PathRefunds, operationHandler.ProcessRefund)

	operations := rg.Group(PathOperations)
	{
		operations.GET("/:idempotency_key", operationHandler.GetOperation)
		operations.POST("/:idempotency_key/reconcile", operationHandler.ReconcileOperation)
	}

	accounts := rg.Group(PathAccounts + "/:account_id")
	{
		accounts.PUT("/gateway", bindingHandler.PutBinding)
		accounts.GET("/gateway", bindingHandler.GetBinding)

		methods := accounts.Group("/payment-methods")
		methods.GET("", methodHandler.ListMethods)
		methods.PUT("", methodHandler.ResetMethods)
		methods.POST("", methodHandler.AddMethod)
		methods.GET("/:method_id", methodHandler.GetMethod)
		methods.DELETE("/:method_id", methodHandler.DeleteMethod)
		methods.PUT("/:method_id/default", methodHandler.SetDefaultMethod)
	}
}
