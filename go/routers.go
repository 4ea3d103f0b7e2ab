package ordersserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Public routes skip bearer authentication.
	Public bool
	// Middleware runs after authentication and before HandlerFunc.
	Middleware []gin.HandlerFunc
}

// ApiHandleFunctions bundles the HTTP handlers and the middleware they need.
type ApiHandleFunctions struct {
	OrdersAPI   OrdersAPI
	PaymentsAPI PaymentsAPI
	SystemAPI   SystemAPI
	// Auth guards every non-public route.
	Auth gin.HandlerFunc
	// KeyLimiter throttles the public key endpoint.
	KeyLimiter gin.HandlerFunc
}

// NewEngine returns a bare gin engine with logging, panic recovery, and the given
// middleware installed. Middleware must be attached before routes are registered.
func NewEngine(middleware ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	engine.Use(middleware...)
	return engine
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := make([]gin.HandlerFunc, 0, len(route.Middleware)+2)
		if !route.Public && handleFunctions.Auth != nil {
			handlers = append(handlers, handleFunctions.Auth)
		}
		handlers = append(handlers, route.Middleware...)
		handlers = append(handlers, route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, handlers...)
	}
	return router
}

// DefaultHandleFunc is the default handler for not yet implemented routes.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	var keyMiddleware []gin.HandlerFunc
	if handleFunctions.KeyLimiter != nil {
		keyMiddleware = append(keyMiddleware, handleFunctions.KeyLimiter)
	}
	return []Route{
		{
			Name:        "CreateOrder",
			Method:      http.MethodPost,
			Pattern:     "/api/order",
			HandlerFunc: handleFunctions.OrdersAPI.CreateOrder,
		},
		{
			Name:        "ListOrders",
			Method:      http.MethodGet,
			Pattern:     "/api/orders",
			HandlerFunc: handleFunctions.OrdersAPI.ListOrders,
		},
		{
			Name:        "CreatePaymentIntent",
			Method:      http.MethodPost,
			Pattern:     "/api/create-order",
			HandlerFunc: handleFunctions.PaymentsAPI.CreatePaymentIntent,
		},
		{
			Name:        "SaveOrder",
			Method:      http.MethodPost,
			Pattern:     "/api/save-order",
			HandlerFunc: handleFunctions.PaymentsAPI.VerifyPayment,
		},
		{
			Name:        "VerifyPayment",
			Method:      http.MethodPost,
			Pattern:     "/api/verify-payment",
			HandlerFunc: handleFunctions.PaymentsAPI.VerifyPayment,
		},
		{
			Name:        "RazorpayKey",
			Method:      http.MethodGet,
			Pattern:     "/api/razorpay-key",
			HandlerFunc: handleFunctions.PaymentsAPI.RazorpayKey,
			Public:      true,
			Middleware:  keyMiddleware,
		},
		{
			Name:        "ConfigCheck",
			Method:      http.MethodGet,
			Pattern:     "/api/config-check",
			HandlerFunc: handleFunctions.SystemAPI.ConfigCheck,
			Public:      true,
		},
		{
			Name:        "Healthz",
			Method:      http.MethodGet,
			Pattern:     "/healthz",
			HandlerFunc: handleFunctions.SystemAPI.Healthz,
			Public:      true,
		},
	}
}
