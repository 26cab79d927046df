package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"staybook/infras/otel"
	"staybook/internal/domains/booking/model/dto"
	"staybook/internal/domains/booking/service"
	"staybook/shared/constant"
	gDto "staybook/shared/dto"
	"staybook/shared/validator"
	"staybook/transport/http/response"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/locations/{id}/book", handler.CreateBooking)
	router.Get("/activate/{token}", handler.ActivateBooking)
	router.Get("/bookings/mybookings", handler.GetMyBookings)
}

// CreateBooking reserves a location for a date range.
// @Summary Book a location
// @Description Create a pending booking for the location over the requested interval. The booking must be confirmed via the emailed activation link.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Location ID"
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse] "Booking created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "Location already booked for the requested interval"
// @Failure 500 {object} response.Error
// @Router /v1/locations/{id}/book [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	locationID := chi.URLParam(r, constant.RequestParamID)

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Create(ctx, locationID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, booking)
}

// ActivateBooking redeems an activation token.
// @Summary Activate a booking
// @Description Confirm a pending booking using the token from the activation email. Idempotent.
// @Tags Booking
// @Accept json
// @Produce json
// @Param token path string true "Activation token"
// @Success 200 {object} response.Data[dto.ActivateBookingResponse] "Booking confirmed"
// @Failure 404 {object} response.Error "Unknown activation token"
// @Failure 500 {object} response.Error
// @Router /v1/activate/{token} [get]
func (handler *Handler) ActivateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ActivateBooking")
	defer scope.End()

	token := chi.URLParam(r, constant.RequestParamToken)

	res, err := handler.service.Activate(ctx, token)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to activate booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking activated successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetMyBookings lists the authenticated user's bookings.
// @Summary Get my bookings
// @Description Retrieve all bookings belonging to the authenticated user.
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/mybookings [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	bookings, err := handler.service.GetMine(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("User bookings retrieved successfully for user " + userID)

	response.WithJSON(w, http.StatusOK, bookings)
}
