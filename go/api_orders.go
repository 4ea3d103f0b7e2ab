package ordersserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	ordershttpmapper "github.com/Apurer/go-gin-orders-api/internal/domains/orders/adapters/http/mapper"
	ordersapp "github.com/Apurer/go-gin-orders-api/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/go-gin-orders-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-orders-api/internal/domains/orders/ports"
)

// OrdersAPI wires HTTP transport with the orders service.
type OrdersAPI struct {
	service ordersports.Service
}

// NewOrdersAPI creates an OrdersAPI backed by the provided service.
func NewOrdersAPI(service ordersports.Service) OrdersAPI {
	return OrdersAPI{service: service}
}

// ListOrdersParams defines parameters for ListOrders.
type ListOrdersParams struct {
	Status *string `form:"status,omitempty" json:"status,omitempty"`
	Limit  *int    `form:"limit,omitempty" json:"limit,omitempty"`
}

// Post /api/order
// Record an order for a payment the client already completed
func (api *OrdersAPI) CreateOrder(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var payload ordershttpmapper.DirectOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := api.service.CreateOrder(c.Request.Context(), ordershttpmapper.ToDirectOrderInput(principal.SubjectID, payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordershttpmapper.FromDomainOrder(order))
}

// Get /api/orders
// List the caller's orders, newest first
func (api *OrdersAPI) ListOrders(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var params ListOrdersParams
	if err := runtime.BindQueryParameter("form", true, false, "status", c.Request.URL.Query(), &params.Status); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid format for parameter status: %w", err))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", c.Request.URL.Query(), &params.Limit); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid format for parameter limit: %w", err))
		return
	}
	filter := ordersports.ListFilter{}
	if params.Status != nil {
		filter.Status = ordersdomain.Status(*params.Status)
	}
	if params.Limit != nil {
		if *params.Limit < 1 {
			respondServiceError(c, fmt.Errorf("%w: limit must be at least 1", ordersapp.ErrValidation))
			return
		}
		filter.Limit = *params.Limit
	}
	orders, err := api.service.ListOrders(c.Request.Context(), principal.SubjectID, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordershttpmapper.FromDomainOrders(orders))
}
