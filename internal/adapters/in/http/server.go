// Package http exposes the dashboard API over echo. The server translates
// HTTP requests into commands and queries and maps domain errors onto
// status codes; it holds no business logic of its own.
package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// AssignRequest is the body of POST /api/v1/orders/:id/assign.
type AssignRequest struct {
	Provider string `json:"provider"`
}

// StoreConfigRequest is the body of PUT /api/v1/config/store.
type StoreConfigRequest struct {
	URL            string `json:"url"`
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
	Connected      bool   `json:"connected"`
}

// StoreConfigResponse reports the storefront connection state. Secrets are
// never echoed back.
type StoreConfigResponse struct {
	URL       string `json:"url"`
	Connected bool   `json:"connected"`
}

// CourierConfigRequest is the body of PUT /api/v1/config/couriers/:provider.
type CourierConfigRequest struct {
	Connected bool              `json:"connected"`
	Fields    map[string]string `json:"fields"`
}

// CourierConfigResponse reports one courier network's connection state.
type CourierConfigResponse struct {
	Provider  string `json:"provider"`
	Connected bool   `json:"connected"`
}

// OrderResponse is the body of GET /api/v1/orders/:id.
type OrderResponse struct {
	ID              string   `json:"id"`
	Date            string   `json:"date"`
	CustomerName    string   `json:"customer_name"`
	CustomerPhone   string   `json:"customer_phone"`
	CustomerAddress string   `json:"customer_address"`
	CustomerCity    string   `json:"customer_city"`
	TotalAmount     float64  `json:"total_amount"`
	LineItems       []string `json:"line_items"`
	Status          string   `json:"status"`
	CourierProvider string   `json:"courier_provider"`
	CourierStatus   string   `json:"courier_status"`
	TrackingID      string   `json:"tracking_id,omitempty"`
	RiderName       string   `json:"rider_name,omitempty"`
	RiderPhone      string   `json:"rider_phone,omitempty"`
	RiderNote       string   `json:"rider_note,omitempty"`
}

// SyncResponse reports one reconciliation pass.
type SyncResponse struct {
	Synced  int                 `json:"synced"`
	Skipped int                 `json:"skipped"`
	Errors  []SyncErrorResponse `json:"errors,omitempty"`
}

// SyncErrorResponse is one skipped record in a sync report.
type SyncErrorResponse struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// Server wires the HTTP surface to the application handlers.
type Server struct {
	syncHandler   *commands.SyncOrdersCommandHandler
	assignHandler commands.AssignCourierCommandHandler
	applyHandler  commands.ApplyCourierEventCommandHandler

	getOrdersHandler queries.GetOrdersQueryHandler
	riskHandler      queries.GetCustomerRiskQueryHandler

	adapters   ports.CourierAdapterRegistry
	uowFactory ports.UnitOfWorkFactory
	config     ports.ConfigRepository

	metricsHandler http.Handler
}

// NewServer creates the HTTP server over the given handlers.
func NewServer(
	syncHandler *commands.SyncOrdersCommandHandler,
	assignHandler commands.AssignCourierCommandHandler,
	applyHandler commands.ApplyCourierEventCommandHandler,
	getOrdersHandler queries.GetOrdersQueryHandler,
	riskHandler queries.GetCustomerRiskQueryHandler,
	adapters ports.CourierAdapterRegistry,
	uowFactory ports.UnitOfWorkFactory,
	config ports.ConfigRepository,
	metricsHandler http.Handler,
) *Server {
	return &Server{
		syncHandler:      syncHandler,
		assignHandler:    assignHandler,
		applyHandler:     applyHandler,
		getOrdersHandler: getOrdersHandler,
		riskHandler:      riskHandler,
		adapters:         adapters,
		uowFactory:       uowFactory,
		config:           config,
		metricsHandler:   metricsHandler,
	}
}

// RegisterRoutes mounts all routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(s.metricsHandler))

	api := e.Group("/api/v1")
	api.GET("/orders", s.GetOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/sync", s.SyncOrders)
	api.POST("/orders/:id/assign", s.AssignCourier)
	api.POST("/webhooks/:provider", s.CourierWebhook)
	api.GET("/customers/:phone/risk", s.GetCustomerRisk)
	api.GET("/config/store", s.GetStoreConfig)
	api.PUT("/config/store", s.SaveStoreConfig)
	api.GET("/config/couriers/:provider", s.GetCourierConfig)
	api.PUT("/config/couriers/:provider", s.SaveCourierConfig)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// GetOrders handles GET /api/v1/orders with optional status and search
// query parameters.
func (s *Server) GetOrders(ctx echo.Context) error {
	query, err := queries.NewGetOrdersQuery(
		ctx.QueryParam("status"), ctx.QueryParam("search"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	orders, err := s.getOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, http.StatusInternalServerError, err)
	}

	return ctx.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	target, err := s.uowFactory.Create().OrderRepository().
		Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return errorJSON(ctx, http.StatusNotFound, err)
		}
		return errorJSON(ctx, http.StatusInternalServerError, err)
	}

	assignment := target.Courier()
	return ctx.JSON(http.StatusOK, OrderResponse{
		ID:              target.ID(),
		Date:            target.Date().Format("2006-01-02"),
		CustomerName:    target.Customer().Name(),
		CustomerPhone:   target.Customer().Phone().String(),
		CustomerAddress: target.Customer().Address(),
		CustomerCity:    target.Customer().City(),
		TotalAmount:     target.TotalAmount(),
		LineItems:       target.LineItems(),
		Status:          target.Status().String(),
		CourierProvider: assignment.Provider().String(),
		CourierStatus:   assignment.Status().String(),
		TrackingID:      assignment.TrackingID(),
		RiderName:       assignment.RiderName(),
		RiderPhone:      assignment.RiderPhone(),
		RiderNote:       assignment.RiderNote(),
	})
}

// SyncOrders handles POST /api/v1/orders/sync, triggering one
// reconciliation pass. A pass already in flight answers 409.
func (s *Server) SyncOrders(ctx echo.Context) error {
	report, err := s.syncHandler.Handle(ctx.Request().Context(), commands.NewSyncOrdersCommand())
	if err != nil {
		if errors.Is(err, commands.ErrSyncInProgress) {
			return errorJSON(ctx, http.StatusConflict, err)
		}
		return errorJSON(ctx, http.StatusBadGateway, err)
	}

	response := SyncResponse{Synced: report.Synced, Skipped: report.Skipped}
	for _, recordErr := range report.Errors {
		response.Errors = append(response.Errors, SyncErrorResponse{
			OrderID: recordErr.OrderID,
			Reason:  recordErr.Reason,
		})
	}
	return ctx.JSON(http.StatusOK, response)
}

// AssignCourier handles POST /api/v1/orders/:id/assign.
func (s *Server) AssignCourier(ctx echo.Context) error {
	var request AssignRequest
	if err := ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	provider, err := courier.ProviderFromString(request.Provider)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	command, err := commands.NewAssignCourierCommand(ctx.Param("id"), provider)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	if err = s.assignHandler.Handle(ctx.Request().Context(), command); err != nil {
		return errorJSON(ctx, assignStatus(err), err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// CourierWebhook handles POST /api/v1/webhooks/:provider. The provider's
// adapter decodes the payload, the tracking id locates the order, and the
// event goes through the regular apply path. Stale and duplicate deliveries
// answer 200 like any other no-op.
func (s *Server) CourierWebhook(ctx echo.Context) error {
	provider, err := providerFromParam(ctx.Param("provider"))
	if err != nil {
		return errorJSON(ctx, http.StatusNotFound, err)
	}

	adapter, err := s.adapters.Adapter(provider)
	if err != nil {
		return errorJSON(ctx, http.StatusNotFound, err)
	}

	payload, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	event, err := adapter.ParseStatusEvent(payload)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	target, err := s.uowFactory.Create().OrderRepository().
		GetByTrackingID(ctx.Request().Context(), event.TrackingID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return errorJSON(ctx, http.StatusNotFound, err)
		}
		return errorJSON(ctx, http.StatusInternalServerError, err)
	}

	command, err := commands.NewApplyCourierEventCommand(target.ID(), event)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	if err = s.applyHandler.Handle(ctx.Request().Context(), command); err != nil {
		if errors.Is(err, courier.ErrIllegalTransition) {
			return errorJSON(ctx, http.StatusUnprocessableEntity, err)
		}
		return errorJSON(ctx, http.StatusInternalServerError, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// GetCustomerRisk handles GET /api/v1/customers/:phone/risk.
func (s *Server) GetCustomerRisk(ctx echo.Context) error {
	query, err := queries.NewGetCustomerRiskQuery(ctx.Param("phone"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	profile, err := s.riskHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, http.StatusInternalServerError, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"total_parcels":   profile.TotalParcels,
		"delivered":       profile.Delivered,
		"returned":        profile.Returned,
		"success_rate":    profile.SuccessRate,
		"last_order_date": profile.LastOrderDate,
		"label":           profile.Label.String(),
	})
}

// GetStoreConfig handles GET /api/v1/config/store.
func (s *Server) GetStoreConfig(ctx echo.Context) error {
	creds, err := s.config.StoreCredentials(ctx.Request().Context())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return errorJSON(ctx, http.StatusNotFound, err)
		}
		return errorJSON(ctx, http.StatusInternalServerError, err)
	}

	return ctx.JSON(http.StatusOK, StoreConfigResponse{
		URL:       creds.URL,
		Connected: creds.IsConnected,
	})
}

// SaveStoreConfig handles PUT /api/v1/config/store, connecting the
// storefront.
func (s *Server) SaveStoreConfig(ctx echo.Context) error {
	var request StoreConfigRequest
	if err := ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	err := s.config.SaveStoreCredentials(ctx.Request().Context(), ports.StoreCredentials{
		URL:            request.URL,
		ConsumerKey:    request.ConsumerKey,
		ConsumerSecret: request.ConsumerSecret,
		IsConnected:    request.Connected,
	})
	if err != nil {
		if errors.Is(err, errs.ErrValueIsRequired) {
			return errorJSON(ctx, http.StatusBadRequest, err)
		}
		return errorJSON(ctx, http.StatusInternalServerError, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetCourierConfig handles GET /api/v1/config/couriers/:provider.
func (s *Server) GetCourierConfig(ctx echo.Context) error {
	provider, err := providerFromParam(ctx.Param("provider"))
	if err != nil {
		return errorJSON(ctx, http.StatusNotFound, err)
	}

	creds, err := s.config.CourierCredentials(ctx.Request().Context(), provider)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return errorJSON(ctx, http.StatusNotFound, err)
		}
		return errorJSON(ctx, http.StatusInternalServerError, err)
	}

	return ctx.JSON(http.StatusOK, CourierConfigResponse{
		Provider:  creds.Provider.String(),
		Connected: creds.Connected,
	})
}

// SaveCourierConfig handles PUT /api/v1/config/couriers/:provider,
// connecting one courier network.
func (s *Server) SaveCourierConfig(ctx echo.Context) error {
	provider, err := providerFromParam(ctx.Param("provider"))
	if err != nil {
		return errorJSON(ctx, http.StatusNotFound, err)
	}

	var request CourierConfigRequest
	if err = ctx.Bind(&request); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	err = s.config.SaveCourierCredentials(ctx.Request().Context(), ports.CourierCredentials{
		Provider:  provider,
		Connected: request.Connected,
		Fields:    request.Fields,
	})
	if err != nil {
		return errorJSON(ctx, http.StatusInternalServerError, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// assignStatus maps assignment failures onto status codes.
func assignStatus(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, courier.ErrAlreadyAssigned):
		return http.StatusConflict
	case errors.Is(err, errs.ErrAdapterFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// providerFromParam resolves a URL path segment like "pathao" to a
// provider. Path segments are matched case-insensitively.
func providerFromParam(param string) (courier.Provider, error) {
	for _, provider := range []courier.Provider{
		courier.Pathao, courier.RedX, courier.Steadfast, courier.Paperfly, courier.ECourier,
	} {
		if strings.EqualFold(provider.String(), param) {
			return provider, nil
		}
	}
	return courier.None, errs.NewValueIsInvalidError("courier provider")
}

func errorJSON(ctx echo.Context, code int, err error) error {
	return ctx.JSON(code, ErrorResponse{Code: code, Message: err.Error()})
}
