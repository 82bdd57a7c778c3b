package handlers

import (
	"net/http"

	request "billing_gateway/internal/adapter/http/dto/request"
	response "billing_gateway/internal/adapter/http/dto/response"
	"billing_gateway/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AccountBindingHandler struct {
	usecase usecase.IAccountBindingUseCase
}

func NewAccountBindingHandler(uc usecase.IAccountBindingUseCase) *AccountBindingHandler {
	return &AccountBindingHandler{usecase: uc}
}

// PutBinding godoc
// @Summary      Bind an account to a payment gateway customer
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        account_id  path  string                         true  "Account id"
// @Param        request     body  request.AccountBindingRequest  true  "Binding"
// @Success      200  {object}  response.AccountBindingResponse
// @Router       /accounts/{account_id}/gateway [put]
func (h *AccountBindingHandler) PutBinding(c *gin.Context) {
	var payload request.AccountBindingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidRequest.HTTPStatus, errInvalidRequest.ToHTTPError())
		return
	}
	binding, err := payload.ToAccountBinding(c.Param("account_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	saved, err := h.usecase.Bind(c.Request.Context(), binding)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromAccountBinding(saved))
}

// GetBinding godoc
// @Summary      Gateway binding of an account
// @Tags         accounts
// @Produce      json
// @Param        account_id  path  string  true  "Account id"
// @Success      200  {object}  response.AccountBindingResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /accounts/{account_id}/gateway [get]
func (h *AccountBindingHandler) GetBinding(c *gin.Context) {
	accountID, err := request.ParseID("account_id", c.Param("account_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	b, err := h.usecase.Get(c.Request.Context(), accountID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromAccountBinding(b))
}
