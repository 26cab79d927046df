package location

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"staybook/infras/otel"
	"staybook/internal/domains/location/model/dto"
	"staybook/internal/domains/location/service"
	"staybook/shared/constant"
	gDto "staybook/shared/dto"
	"staybook/shared/failure"
	"staybook/shared/validator"
	"staybook/transport/http/response"
)

type Handler struct {
	service service.Location
	otel    otel.Otel
}

func New(service service.Location, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	// Registered as flat method routes so that the booking and review
	// handlers can hang their own routes off /locations/{id}.
	router.Get("/locations", handler.GetLocations)
	router.Post("/locations", handler.CreateLocation)
	router.Get("/locations/{id}", handler.GetLocationByID)
	router.Patch("/locations/{id}", handler.UpdateLocation)
	router.Delete("/locations/{id}", handler.DeleteLocation)
}

// parseDateParam accepts a plain date or a full RFC3339 timestamp. A plain
// date marks midnight UTC.
func parseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse(constant.DateOnlyFormat, value); err == nil {
		return t, nil
	}

	return time.Parse(constant.DateFormat, value)
}

// GetLocations lists the location catalog.
// @Summary List locations
// @Description List locations with optional name search, availability window, and sorting.
// @Tags Location
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param q query string false "Case-insensitive substring match on name"
// @Param start_date query string false "Availability window start (date or RFC3339; requires end_date)"
// @Param end_date query string false "Availability window end (date or RFC3339; requires start_date)"
// @Param sort_by query string false "Sort key (name, price, rating)"
// @Success 200 {object} response.Data[dto.GetLocationsResponse] "List of locations"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/locations [get]
func (handler *Handler) GetLocations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLocations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	search := dto.SearchLocationsQuery{
		Query: r.URL.Query().Get(constant.RequestParamQuery),
	}

	startRaw := r.URL.Query().Get(constant.RequestParamStartDate)
	endRaw := r.URL.Query().Get(constant.RequestParamEndDate)

	if (startRaw == "") != (endRaw == "") {
		response.WithError(w, failure.BadRequestFromString("start_date and end_date are required together"))

		return
	}

	if startRaw != "" {
		start, err := parseDateParam(startRaw)
		if err != nil {
			response.WithError(w, failure.BadRequestFromString("start_date must be a date or an RFC3339 timestamp"))

			return
		}

		end, err := parseDateParam(endRaw)
		if err != nil {
			response.WithError(w, failure.BadRequestFromString("end_date must be a date or an RFC3339 timestamp"))

			return
		}

		search.StartDate = &start
		search.EndDate = &end
	}

	locations, err := handler.service.GetAll(ctx, queryParams, search)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get locations")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Locations retrieved successfully")

	response.WithJSON(w, http.StatusOK, locations)
}

// GetLocationByID retrieves a location with its reviews.
// @Summary Get a location by ID
// @Description Retrieve a location's details, its reviews, and the caller's own review if present.
// @Tags Location
// @Accept json
// @Produce json
// @Param id path string true "Location ID"
// @Success 200 {object} response.Data[dto.LocationDetailResponse] "Location details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/locations/{id} [get]
func (handler *Handler) GetLocationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLocationByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	location, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get location")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Location retrieved successfully")

	response.WithJSON(w, http.StatusOK, location)
}

// CreateLocation creates a new location.
// @Summary Create a new location
// @Description Create a new location with the provided details. Admin only.
// @Tags Location
// @Accept json
// @Produce json
// @Param request body dto.CreateLocationRequest true "Create Location Request"
// @Success 201 {object} response.Data[dto.LocationResponse] "Location created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/locations [post]
// @Security BearerAuth
func (handler *Handler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateLocation")
	defer scope.End()

	req := dto.CreateLocationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	location, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create location")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Location created successfully")

	response.WithJSON(w, http.StatusCreated, location)
}

// UpdateLocation updates a location by its ID.
// @Summary Update a location by ID
// @Description Update an existing location's fields. Admin only.
// @Tags Location
// @Accept json
// @Produce json
// @Param id path string true "Location ID"
// @Param request body dto.UpdateLocationRequest true "Update Location Request"
// @Success 200 {object} response.Data[dto.LocationResponse] "Location updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/locations/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateLocation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateLocationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	location, err := handler.service.Update(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update location")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Location updated successfully")

	response.WithJSON(w, http.StatusOK, location)
}

// DeleteLocation deletes a location by its ID.
// @Summary Delete a location by ID
// @Description Delete an existing location. Admin only.
// @Tags Location
// @Accept json
// @Produce json
// @Param id path string true "Location ID"
// @Success 200 {object} response.Message "Location deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/locations/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteLocation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete location")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Location deleted successfully")

	response.WithMessage(w, http.StatusOK, "Location deleted successfully")
}
