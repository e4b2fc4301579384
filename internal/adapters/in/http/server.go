// Package http exposes the tracking service over a JSON API described by openapi.yaml.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"delivertrack/internal/adapters/out/realtime"
	"delivertrack/internal/core/application/usecases/commands"
	"delivertrack/internal/core/application/usecases/queries"
	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/core/domain/model/user"
	"delivertrack/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Commands are the write use cases behind the API.
type Commands struct {
	AssignDeliveryPartner commands.AssignDeliveryPartnerCommandHandler
	StartDelivery         commands.StartDeliveryCommandHandler
	CompleteDelivery      commands.CompleteDeliveryCommandHandler
	UpdateLocation        commands.UpdateLocationCommandHandler
	Auth                  commands.AuthCommandHandler
}

// Queries are the read use cases behind the API.
type Queries struct {
	GetOrders           queries.GetOrdersQueryHandler
	GetOrder            queries.GetOrderQueryHandler
	GetDeliverySession  queries.GetDeliverySessionQueryHandler
	GetDeliveryPartners queries.GetDeliveryPartnersQueryHandler
	GetCurrentUser      queries.GetCurrentUserQueryHandler
}

// Simulations starts and stops simulated location feeds; jobs.SimulationManager.
type Simulations interface {
	Start(ctx context.Context, orderID kernel.ID) (bool, error)
	Stop(orderID kernel.ID) bool
}

// Server implements ServerInterface.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	commands    Commands
	queries     Queries
	simulations Simulations
	hub         *realtime.Hub
	keepAlive   time.Duration
	logger      *slog.Logger
}

// NewServer creates a server. hub feeds the event stream endpoint.
func NewServer(
	cmds Commands,
	qs Queries,
	simulations Simulations,
	hub *realtime.Hub,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		commands:    cmds,
		queries:     qs,
		simulations: simulations,
		hub:         hub,
		keepAlive:   15 * time.Second,
		logger:      logger.With("component", "HTTPServer"),
	}
}

// authorize fails with ErrForbidden unless the signed-in user has role.
func (s *Server) authorize(ctx echo.Context, role user.Role) error {
	ok, err := s.queries.GetCurrentUser.HasRole(ctx.Request().Context(), role)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s role required", ErrForbidden, role)
	}
	return nil
}

// Login handles POST /api/v1/auth/login.
func (s *Server) Login(ctx echo.Context) error {
	var body Credentials
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: "Invalid request body"})
	}

	role, err := user.ParseRole(body.Role)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	cmd, err := commands.NewLoginCommand(body.Email, body.Password, role)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	u, err := s.commands.Auth.Login(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, toUser(queries.NewUserResponse(u)))
}

// Register handles POST /api/v1/auth/register.
func (s *Server) Register(ctx echo.Context) error {
	var body Registration
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: "Invalid request body"})
	}

	role, err := user.ParseRole(body.Role)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	cmd, err := commands.NewRegisterCommand(body.Name, body.Email, body.Password, role)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	u, err := s.commands.Auth.Register(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusCreated, toUser(queries.NewUserResponse(u)))
}

// Logout handles POST /api/v1/auth/logout.
func (s *Server) Logout(ctx echo.Context) error {
	if err := s.commands.Auth.Logout(ctx.Request().Context()); err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetCurrentUser handles GET /api/v1/auth/me.
func (s *Server) GetCurrentUser(ctx echo.Context) error {
	u, err := s.queries.GetCurrentUser.Handle(ctx.Request().Context())
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, toUser(u))
}

// GetDeliveryPartners handles GET /api/v1/delivery-partners.
func (s *Server) GetDeliveryPartners(ctx echo.Context) error {
	partners, err := s.queries.GetDeliveryPartners.Handle(ctx.Request().Context())
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	response := make([]User, len(partners))
	for i, p := range partners {
		response[i] = toUser(p)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrders handles GET /api/v1/orders. Exactly one filter must be given.
func (s *Server) GetOrders(ctx echo.Context, params GetOrdersParams) error {
	var (
		filter queries.OrdersFilter
		raw    *string
		given  int
	)
	for f, value := range map[queries.OrdersFilter]*string{
		queries.ByVendor:          params.VendorId,
		queries.ByCustomer:        params.CustomerId,
		queries.ByDeliveryPartner: params.DeliveryPartnerId,
	} {
		if value != nil {
			filter, raw = f, value
			given++
		}
	}
	if given != 1 {
		return writeError(ctx, s.logger, errs.NewValueIsInvalidErrorWithCause("filter",
			errors.New("exactly one of vendorId, customerId or deliveryPartnerId is required")))
	}

	id, err := kernel.IDFromString(*raw)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	query, err := queries.NewGetOrdersQuery(filter, id)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	orders, err := s.queries.GetOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	response := make([]Order, len(orders))
	for i, o := range orders {
		response[i] = toOrder(o)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderId string) error {
	id, err := kernel.IDFromString(orderId)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return s.respondWithOrder(ctx, id)
}

func (s *Server) respondWithOrder(ctx echo.Context, id kernel.ID) error {
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	o, err := s.queries.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, toOrder(o))
}

// AssignDeliveryPartner handles POST /api/v1/orders/{orderId}/assign. Vendors only.
func (s *Server) AssignDeliveryPartner(ctx echo.Context, orderId string) error {
	if err := s.authorize(ctx, user.Vendor); err != nil {
		return writeError(ctx, s.logger, err)
	}

	var body PartnerRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: "Invalid request body"})
	}

	orderID, partnerID, err := parseIDs(orderId, body.DeliveryPartnerId)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	cmd, err := commands.NewAssignDeliveryPartnerCommand(orderID, partnerID)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	if err = s.commands.AssignDeliveryPartner.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, s.logger, err)
	}
	return s.respondWithOrder(ctx, orderID)
}

// StartDelivery handles POST /api/v1/orders/{orderId}/start. Delivery partners only.
func (s *Server) StartDelivery(ctx echo.Context, orderId string) error {
	if err := s.authorize(ctx, user.Delivery); err != nil {
		return writeError(ctx, s.logger, err)
	}

	var body PartnerRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: "Invalid request body"})
	}

	orderID, partnerID, err := parseIDs(orderId, body.DeliveryPartnerId)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	cmd, err := commands.NewStartDeliveryCommand(orderID, partnerID)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	started, err := s.commands.StartDelivery.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, toDeliverySession(queries.NewDeliverySessionResponse(started)))
}

// CompleteDelivery handles POST /api/v1/orders/{orderId}/complete. Delivery partners only.
func (s *Server) CompleteDelivery(ctx echo.Context, orderId string) error {
	if err := s.authorize(ctx, user.Delivery); err != nil {
		return writeError(ctx, s.logger, err)
	}

	orderID, err := kernel.IDFromString(orderId)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	cmd, err := commands.NewCompleteDeliveryCommand(orderID)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	if err = s.commands.CompleteDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, s.logger, err)
	}
	return s.respondWithOrder(ctx, orderID)
}

// GetDeliverySession handles GET /api/v1/orders/{orderId}/session.
func (s *Server) GetDeliverySession(ctx echo.Context, orderId string) error {
	orderID, err := kernel.IDFromString(orderId)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	query, err := queries.NewGetDeliverySessionQuery(orderID)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	found, err := s.queries.GetDeliverySession.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.JSON(http.StatusOK, toDeliverySession(found))
}

// UpdateLocation handles POST /api/v1/orders/{orderId}/session/locations. Delivery
// partners only. A sample without a timestamp is stamped with the time of receipt.
func (s *Server) UpdateLocation(ctx echo.Context, orderId string) error {
	if err := s.authorize(ctx, user.Delivery); err != nil {
		return writeError(ctx, s.logger, err)
	}

	var body LocationRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: "Invalid request body"})
	}
	if body.Lat == nil || body.Lng == nil {
		return writeError(ctx, s.logger, errs.NewValueIsRequiredError("lat and lng"))
	}

	orderID, err := kernel.IDFromString(orderId)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	var location kernel.Location
	if body.Timestamp != nil {
		location, err = kernel.LocationFromMillis(*body.Lat, *body.Lng, *body.Timestamp)
	} else {
		location, err = kernel.NewLocation(*body.Lat, *body.Lng, time.Now())
	}
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	cmd, err := commands.NewUpdateLocationCommand(orderID, location)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}
	if err = s.commands.UpdateLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, s.logger, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// StartSimulation handles POST /api/v1/orders/{orderId}/simulation. Delivery partners only.
func (s *Server) StartSimulation(ctx echo.Context, orderId string) error {
	if err := s.authorize(ctx, user.Delivery); err != nil {
		return writeError(ctx, s.logger, err)
	}

	orderID, err := kernel.IDFromString(orderId)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	started, err := s.simulations.Start(ctx.Request().Context(), orderID)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	code := http.StatusOK
	if started {
		code = http.StatusCreated
	}
	return ctx.JSON(code, Simulation{OrderId: orderID.String(), Running: true})
}

// StopSimulation handles DELETE /api/v1/orders/{orderId}/simulation. Delivery partners only.
func (s *Server) StopSimulation(ctx echo.Context, orderId string) error {
	if err := s.authorize(ctx, user.Delivery); err != nil {
		return writeError(ctx, s.logger, err)
	}

	orderID, err := kernel.IDFromString(orderId)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	if !s.simulations.Stop(orderID) {
		return writeError(ctx, s.logger, errs.NewObjectNotFoundError("simulation", orderID))
	}
	return ctx.NoContent(http.StatusNoContent)
}

func parseIDs(orderRaw string, partnerRaw string) (kernel.ID, kernel.ID, error) {
	orderID, orderErr := kernel.IDFromString(orderRaw)
	partnerID, partnerErr := kernel.IDFromString(partnerRaw)
	if err := errors.Join(orderErr, partnerErr); err != nil {
		return kernel.ID{}, kernel.ID{}, err
	}
	return orderID, partnerID, nil
}
