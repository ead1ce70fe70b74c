// Package http exposes the dispatch use cases over a REST API.
package http

import (
	"errors"
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createDeliveryHandler        commands.CreateDeliveryCommandHandler
	transitionDeliveryHandler    commands.TransitionDeliveryCommandHandler
	assignDriverHandler          commands.AssignDriverCommandHandler
	registerDriverHandler        commands.RegisterDriverCommandHandler
	setDriverAvailabilityHandler commands.SetDriverAvailabilityCommandHandler
	reportDriverLocationHandler  commands.ReportDriverLocationCommandHandler
	runAssignmentPassHandler     commands.RunAssignmentPassCommandHandler

	// Query handlers
	getDeliveryHandler         queries.GetDeliveryQueryHandler
	getDeliveriesHandler       queries.GetDeliveriesQueryHandler
	getAvailableDriversHandler queries.GetAvailableDriversQueryHandler
	getDriverStatsHandler      queries.GetDriverStatsQueryHandler

	versionConflicts prometheus.Counter
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	createDeliveryHandler commands.CreateDeliveryCommandHandler,
	transitionDeliveryHandler commands.TransitionDeliveryCommandHandler,
	assignDriverHandler commands.AssignDriverCommandHandler,
	registerDriverHandler commands.RegisterDriverCommandHandler,
	setDriverAvailabilityHandler commands.SetDriverAvailabilityCommandHandler,
	reportDriverLocationHandler commands.ReportDriverLocationCommandHandler,
	runAssignmentPassHandler commands.RunAssignmentPassCommandHandler,
	getDeliveryHandler queries.GetDeliveryQueryHandler,
	getDeliveriesHandler queries.GetDeliveriesQueryHandler,
	getAvailableDriversHandler queries.GetAvailableDriversQueryHandler,
	getDriverStatsHandler queries.GetDriverStatsQueryHandler,
	versionConflicts prometheus.Counter,
) *Server {
	return &Server{
		createDeliveryHandler:        createDeliveryHandler,
		transitionDeliveryHandler:    transitionDeliveryHandler,
		assignDriverHandler:          assignDriverHandler,
		registerDriverHandler:        registerDriverHandler,
		setDriverAvailabilityHandler: setDriverAvailabilityHandler,
		reportDriverLocationHandler:  reportDriverLocationHandler,
		runAssignmentPassHandler:     runAssignmentPassHandler,
		getDeliveryHandler:           getDeliveryHandler,
		getDeliveriesHandler:         getDeliveriesHandler,
		getAvailableDriversHandler:   getAvailableDriversHandler,
		getDriverStatsHandler:        getDriverStatsHandler,
		versionConflicts:             versionConflicts,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/deliveries", s.CreateDelivery)
	api.GET("/deliveries", s.GetDeliveries)
	api.GET("/deliveries/:id", s.GetDelivery)
	api.POST("/deliveries/:id/transition", s.TransitionDelivery)
	api.POST("/deliveries/:id/assign", s.AssignDriver)

	api.POST("/drivers", s.RegisterDriver)
	api.GET("/drivers/available", s.GetAvailableDrivers)
	api.GET("/drivers/:id/stats", s.GetDriverStats)
	api.PUT("/drivers/:id/availability", s.SetDriverAvailability)
	api.PUT("/drivers/:id/location", s.ReportDriverLocation)

	api.POST("/dispatch/run", s.RunDispatchPass)
}

// CreateDelivery handles POST /api/v1/deliveries.
func (s *Server) CreateDelivery(ctx echo.Context) error {
	var req CreateDeliveryRequest
	if err := ctx.Bind(&req); err != nil {
		return bindError(ctx)
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	priority, err := delivery.PriorityFromString(req.Priority)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	var location *kernel.GeoPoint
	if req.Customer.Latitude != nil && req.Customer.Longitude != nil {
		point, locErr := kernel.NewGeoPoint(*req.Customer.Latitude, *req.Customer.Longitude)
		if locErr != nil {
			return s.errorResponse(ctx, locErr)
		}
		location = &point
	}

	customer, err := delivery.NewCustomer(
		req.Customer.Name, req.Customer.Phone, req.Customer.Street, location)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	items := make([]delivery.Item, 0, len(req.Items))
	for _, line := range req.Items {
		item, itemErr := delivery.NewItem(line.Name, line.Quantity)
		if itemErr != nil {
			return s.errorResponse(ctx, itemErr)
		}
		items = append(items, item)
	}

	deliveryID := kernel.NewUUID()
	cmd, err := commands.NewCreateDeliveryCommand(
		deliveryID, orderID, customer, items, priority,
		req.ScheduledTime, req.EstimatedDelivery,
		req.DistanceMiles, req.DeliveryFee, req.Notes)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err = s.createDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: deliveryID.String()})
}

// GetDeliveries handles GET /api/v1/deliveries with optional search, status,
// priority, and driver_id filters.
func (s *Server) GetDeliveries(ctx echo.Context) error {
	var status *delivery.Status
	if raw := ctx.QueryParam("status"); raw != "" {
		parsed, err := delivery.StatusFromString(raw)
		if err != nil {
			return s.errorResponse(ctx, err)
		}
		status = &parsed
	}

	var priority *delivery.Priority
	if raw := ctx.QueryParam("priority"); raw != "" {
		parsed, err := delivery.PriorityFromString(raw)
		if err != nil {
			return s.errorResponse(ctx, err)
		}
		priority = &parsed
	}

	var driverID *kernel.UUID
	if raw := ctx.QueryParam("driver_id"); raw != "" {
		parsed, err := kernel.UUIDFromString(raw)
		if err != nil {
			return s.errorResponse(ctx, err)
		}
		driverID = &parsed
	}

	query, err := queries.NewGetDeliveriesQuery(
		ctx.QueryParam("search"), status, priority, driverID)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	deliveries, err := s.getDeliveriesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	response := make([]DeliveryResponse, len(deliveries))
	for i, d := range deliveries {
		response[i] = toDeliveryResponse(d)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetDelivery handles GET /api/v1/deliveries/:id.
func (s *Server) GetDelivery(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	query, err := queries.NewGetDeliveryQuery(deliveryID)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	result, err := s.getDeliveryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toDeliveryResponse(result))
}

// TransitionDelivery handles POST /api/v1/deliveries/:id/transition.
// The request carries the version the caller last read; a stale version is
// rejected with 409 so the client can re-read and retry.
func (s *Server) TransitionDelivery(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	var req TransitionDeliveryRequest
	if err = ctx.Bind(&req); err != nil {
		return bindError(ctx)
	}

	target, err := delivery.StatusFromString(req.Target)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	var driverID *kernel.UUID
	if req.DriverID != "" {
		parsed, idErr := kernel.UUIDFromString(req.DriverID)
		if idErr != nil {
			return s.errorResponse(ctx, idErr)
		}
		driverID = &parsed
	}

	cmd, err := commands.NewTransitionDeliveryCommand(
		deliveryID, req.ExpectedVersion, target, driverID, req.Reason)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err = s.transitionDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AssignDriver handles POST /api/v1/deliveries/:id/assign - manual driver
// assignment by an admin.
func (s *Server) AssignDriver(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	var req AssignDriverRequest
	if err = ctx.Bind(&req); err != nil {
		return bindError(ctx)
	}

	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	cmd, err := commands.NewAssignDriverCommand(deliveryID, driverID, req.ExpectedVersion)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err = s.assignDriverHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RegisterDriver handles POST /api/v1/drivers.
func (s *Server) RegisterDriver(ctx echo.Context) error {
	var req RegisterDriverRequest
	if err := ctx.Bind(&req); err != nil {
		return bindError(ctx)
	}

	driverID := kernel.NewUUID()
	cmd, err := commands.NewRegisterDriverCommand(
		driverID, req.Name, req.Phone, req.Vehicle, req.MaxActive)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err = s.registerDriverHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: driverID.String()})
}

// GetAvailableDrivers handles GET /api/v1/drivers/available. With lat and lon
// query parameters the result is sorted nearest first.
func (s *Server) GetAvailableDrivers(ctx echo.Context) error {
	var near *kernel.GeoPoint
	latRaw, lonRaw := ctx.QueryParam("lat"), ctx.QueryParam("lon")
	if latRaw != "" || lonRaw != "" {
		var req nearParams
		if err := echo.QueryParamsBinder(ctx).
			Float64("lat", &req.Lat).
			Float64("lon", &req.Lon).
			BindError(); err != nil {
			return bindError(ctx)
		}

		point, err := kernel.NewGeoPoint(req.Lat, req.Lon)
		if err != nil {
			return s.errorResponse(ctx, err)
		}
		near = &point
	}

	query, err := queries.NewGetAvailableDriversQuery(near)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	drivers, err := s.getAvailableDriversHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	response := make([]AvailableDriverResponse, len(drivers))
	for i, d := range drivers {
		response[i] = AvailableDriverResponse{
			ID:               d.ID.String(),
			Name:             d.Name,
			Phone:            d.Phone,
			Vehicle:          d.Vehicle,
			ActiveDeliveries: d.ActiveDeliveries,
			MaxActive:        d.MaxActive,
			DistanceMiles:    d.DistanceMiles,
		}
		if d.Location != nil {
			response[i].Latitude = ptrFloat(d.Location.Latitude())
			response[i].Longitude = ptrFloat(d.Location.Longitude())
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetDriverStats handles GET /api/v1/drivers/:id/stats.
func (s *Server) GetDriverStats(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	query, err := queries.NewGetDriverStatsQuery(driverID)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	stats, err := s.getDriverStatsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	response := DriverStatsResponse{
		ID:               stats.ID.String(),
		Name:             stats.Name,
		Phone:            stats.Phone,
		Vehicle:          stats.Vehicle,
		Availability:     stats.Availability,
		ActiveDeliveries: stats.ActiveDeliveries,
		MaxActive:        stats.MaxActive,
		CompletedToday:   stats.CompletedToday,
		EarningsToday:    stats.EarningsToday,
		CompletionRate:   stats.CompletionRate,
	}
	if stats.Location != nil {
		response.Latitude = ptrFloat(stats.Location.Latitude())
		response.Longitude = ptrFloat(stats.Location.Longitude())
	}
	return ctx.JSON(http.StatusOK, response)
}

// SetDriverAvailability handles PUT /api/v1/drivers/:id/availability.
func (s *Server) SetDriverAvailability(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	var req SetAvailabilityRequest
	if err = ctx.Bind(&req); err != nil {
		return bindError(ctx)
	}

	target, err := driver.AvailabilityFromString(req.Availability)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	cmd, err := commands.NewSetDriverAvailabilityCommand(driverID, target)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err = s.setDriverAvailabilityHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReportDriverLocation handles PUT /api/v1/drivers/:id/location.
func (s *Server) ReportDriverLocation(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	var req ReportLocationRequest
	if err = ctx.Bind(&req); err != nil {
		return bindError(ctx)
	}

	location, err := kernel.NewGeoPoint(req.Latitude, req.Longitude)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	cmd, err := commands.NewReportDriverLocationCommand(driverID, location)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err = s.reportDriverLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RunDispatchPass handles POST /api/v1/dispatch/run, the manual admin trigger
// for one dispatcher sweep over the Pending backlog.
func (s *Server) RunDispatchPass(ctx echo.Context) error {
	cmd, err := commands.NewRunAssignmentPassCommand()
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	report, err := s.runAssignmentPassHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toDispatchPassResponse(report))
}

type nearParams struct {
	Lat float64
	Lon float64
}

func toDeliveryResponse(d queries.GetDeliveryQueryResponse) DeliveryResponse {
	response := DeliveryResponse{
		ID:                d.ID.String(),
		OrderID:           d.OrderID.String(),
		CustomerName:      d.CustomerName,
		CustomerPhone:     d.CustomerPhone,
		CustomerStreet:    d.CustomerStreet,
		Status:            d.Status,
		Priority:          d.Priority,
		ScheduledTime:     d.ScheduledTime,
		EstimatedDelivery: d.EstimatedDelivery,
		ActualDelivery:    d.ActualDelivery,
		DistanceMiles:     d.DistanceMiles,
		DeliveryFee:       d.DeliveryFee,
		Notes:             d.Notes,
		FailureReason:     d.FailureReason,
		Version:           d.Version,
	}

	if d.DriverID != nil {
		id := d.DriverID.String()
		response.DriverID = &id
	}
	if d.Location != nil {
		response.Latitude = ptrFloat(d.Location.Latitude())
		response.Longitude = ptrFloat(d.Location.Longitude())
	}

	response.Items = make([]ItemResponse, len(d.Items))
	for i, item := range d.Items {
		response.Items[i] = ItemResponse{Name: item.Name, Quantity: item.Quantity}
	}
	return response
}

func toDispatchPassResponse(report commands.AssignmentReport) DispatchPassResponse {
	response := DispatchPassResponse{
		Assigned:  report.AssignedCount(),
		Unmatched: report.UnmatchedCount(),
		Results:   make([]DispatchResultResponse, len(report.Results)),
	}

	for i, result := range report.Results {
		entry := DispatchResultResponse{DeliveryID: result.DeliveryID.String()}
		if result.DriverID != nil {
			driverID := result.DriverID.String()
			entry.DriverID = &driverID
		}
		if result.Err != nil {
			entry.Error = result.Err.Error()
		}
		response.Results[i] = entry
	}
	return response
}

func ptrFloat(f float64) *float64 {
	return &f
}

func bindError(ctx echo.Context) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: "Invalid request body",
	})
}

// errorResponse maps domain errors to HTTP status codes: validation failures
// are 400, unknown objects 404, and state conflicts (stale version, invalid
// transition, duplicate registration) 409. Version conflicts are counted so
// hot aggregates show up in the metrics.
func (s *Server) errorResponse(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrVersionConflict),
		errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrDuplicateDriver),
		errors.Is(err, driver.ErrDriverIsOffline),
		errors.Is(err, driver.ErrDriverAtCapacity):
		status = http.StatusConflict
	}

	if errors.Is(err, errs.ErrVersionConflict) && s.versionConflicts != nil {
		s.versionConflicts.Inc()
	}

	return ctx.JSON(status, ErrorResponse{
		Code:    status,
		Message: err.Error(),
	})
}

// Request and response shapes for the REST API.

type CreateDeliveryRequest struct {
	OrderID           string          `json:"order_id"`
	Customer          CustomerRequest `json:"customer"`
	Items             []ItemRequest   `json:"items"`
	Priority          string          `json:"priority"`
	ScheduledTime     time.Time       `json:"scheduled_time"`
	EstimatedDelivery time.Time       `json:"estimated_delivery"`
	DistanceMiles     float64         `json:"distance_miles"`
	DeliveryFee       float64         `json:"delivery_fee"`
	Notes             string          `json:"notes"`
}

type CustomerRequest struct {
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Street    string   `json:"street"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type ItemRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type TransitionDeliveryRequest struct {
	Target          string `json:"target"`
	ExpectedVersion int    `json:"expected_version"`
	DriverID        string `json:"driver_id,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

type AssignDriverRequest struct {
	DriverID        string `json:"driver_id"`
	ExpectedVersion int    `json:"expected_version"`
}

type RegisterDriverRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Vehicle   string `json:"vehicle"`
	MaxActive int    `json:"max_active"`
}

type SetAvailabilityRequest struct {
	Availability string `json:"availability"`
}

type ReportLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

type DeliveryResponse struct {
	ID       string  `json:"id"`
	OrderID  string  `json:"order_id"`
	DriverID *string `json:"driver_id,omitempty"`

	CustomerName   string   `json:"customer_name"`
	CustomerPhone  string   `json:"customer_phone"`
	CustomerStreet string   `json:"customer_street"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`

	Items []ItemResponse `json:"items"`

	Status   string `json:"status"`
	Priority string `json:"priority"`

	ScheduledTime     time.Time  `json:"scheduled_time"`
	EstimatedDelivery time.Time  `json:"estimated_delivery"`
	ActualDelivery    *time.Time `json:"actual_delivery,omitempty"`

	DistanceMiles float64 `json:"distance_miles"`
	DeliveryFee   float64 `json:"delivery_fee"`
	Notes         string  `json:"notes,omitempty"`
	FailureReason string  `json:"failure_reason,omitempty"`

	Version int `json:"version"`
}

type ItemResponse struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type AvailableDriverResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Phone            string   `json:"phone"`
	Vehicle          string   `json:"vehicle"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	ActiveDeliveries int      `json:"active_deliveries"`
	MaxActive        int      `json:"max_active"`
	DistanceMiles    *float64 `json:"distance_miles,omitempty"`
}

type DriverStatsResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Phone            string   `json:"phone"`
	Vehicle          string   `json:"vehicle"`
	Availability     string   `json:"availability"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	ActiveDeliveries int      `json:"active_deliveries"`
	MaxActive        int      `json:"max_active"`
	CompletedToday   int      `json:"completed_today"`
	EarningsToday    float64  `json:"earnings_today"`
	CompletionRate   *float64 `json:"completion_rate,omitempty"`
}

type DispatchPassResponse struct {
	Assigned  int                      `json:"assigned"`
	Unmatched int                      `json:"unmatched"`
	Results   []DispatchResultResponse `json:"results"`
}

type DispatchResultResponse struct {
	DeliveryID string  `json:"delivery_id"`
	DriverID   *string `json:"driver_id,omitempty"`
	Error      string  `json:"error,omitempty"`
}

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
