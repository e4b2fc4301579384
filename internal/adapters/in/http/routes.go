package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface lists the operations of openapi.yaml.
type ServerInterface interface {
	// (POST /api/v1/auth/login)
	Login(ctx echo.Context) error
	// (POST /api/v1/auth/register)
	Register(ctx echo.Context) error
	// (POST /api/v1/auth/logout)
	Logout(ctx echo.Context) error
	// (GET /api/v1/auth/me)
	GetCurrentUser(ctx echo.Context) error
	// (GET /api/v1/delivery-partners)
	GetDeliveryPartners(ctx echo.Context) error
	// (GET /api/v1/orders)
	GetOrders(ctx echo.Context, params GetOrdersParams) error
	// (GET /api/v1/orders/{orderId})
	GetOrder(ctx echo.Context, orderId string) error
	// (POST /api/v1/orders/{orderId}/assign)
	AssignDeliveryPartner(ctx echo.Context, orderId string) error
	// (POST /api/v1/orders/{orderId}/start)
	StartDelivery(ctx echo.Context, orderId string) error
	// (POST /api/v1/orders/{orderId}/complete)
	CompleteDelivery(ctx echo.Context, orderId string) error
	// (GET /api/v1/orders/{orderId}/session)
	GetDeliverySession(ctx echo.Context, orderId string) error
	// (POST /api/v1/orders/{orderId}/session/locations)
	UpdateLocation(ctx echo.Context, orderId string) error
	// (POST /api/v1/orders/{orderId}/simulation)
	StartSimulation(ctx echo.Context, orderId string) error
	// (DELETE /api/v1/orders/{orderId}/simulation)
	StopSimulation(ctx echo.Context, orderId string) error
	// (GET /api/v1/orders/{orderId}/events)
	GetOrderEvents(ctx echo.Context, orderId string) error
}

// ServerInterfaceWrapper binds request parameters before calling the server.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func bindOrderID(ctx echo.Context) (string, error) {
	var orderId string
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}
	return orderId, nil
}

// withOrderID adapts an operation taking the orderId path parameter.
func withOrderID(op func(echo.Context, string) error) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		orderId, err := bindOrderID(ctx)
		if err != nil {
			return err
		}
		return op(ctx, orderId)
	}
}

func (w *ServerInterfaceWrapper) GetOrders(ctx echo.Context) error {
	var params GetOrdersParams

	for name, dest := range map[string]**string{
		"vendorId":          &params.VendorId,
		"customerId":        &params.CustomerId,
		"deliveryPartnerId": &params.DeliveryPartnerId,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, ctx.QueryParams(), dest); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
		}
	}

	return w.Handler.GetOrders(ctx, params)
}

// EchoRouter is the subset of echo used to register routes, satisfied by *echo.Echo
// and *echo.Group.
type EchoRouter interface {
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds every operation to router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL adds every operation to router under baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/api/v1/auth/login", si.Login)
	router.POST(baseURL+"/api/v1/auth/register", si.Register)
	router.POST(baseURL+"/api/v1/auth/logout", si.Logout)
	router.GET(baseURL+"/api/v1/auth/me", si.GetCurrentUser)
	router.GET(baseURL+"/api/v1/delivery-partners", si.GetDeliveryPartners)
	router.GET(baseURL+"/api/v1/orders", wrapper.GetOrders)
	router.GET(baseURL+"/api/v1/orders/:orderId", withOrderID(si.GetOrder))
	router.POST(baseURL+"/api/v1/orders/:orderId/assign", withOrderID(si.AssignDeliveryPartner))
	router.POST(baseURL+"/api/v1/orders/:orderId/start", withOrderID(si.StartDelivery))
	router.POST(baseURL+"/api/v1/orders/:orderId/complete", withOrderID(si.CompleteDelivery))
	router.GET(baseURL+"/api/v1/orders/:orderId/session", withOrderID(si.GetDeliverySession))
	router.POST(baseURL+"/api/v1/orders/:orderId/session/locations", withOrderID(si.UpdateLocation))
	router.POST(baseURL+"/api/v1/orders/:orderId/simulation", withOrderID(si.StartSimulation))
	router.DELETE(baseURL+"/api/v1/orders/:orderId/simulation", withOrderID(si.StopSimulation))
	router.GET(baseURL+"/api/v1/orders/:orderId/events", withOrderID(si.GetOrderEvents))
}
