package reaction

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"staybook/infras/otel"
	"staybook/internal/domains/reaction/model/dto"
	"staybook/internal/domains/reaction/service"
	"staybook/shared/constant"
	"staybook/transport/http/response"
)

type Handler struct {
	service service.Reaction
	otel    otel.Otel
}

func New(service service.Reaction, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/like/{location_id}", handler.ToggleLike)
	router.Post("/dislike/{location_id}", handler.ToggleDislike)
	router.Post("/favourite/{location_id}", handler.ToggleFavourite)
}

// ToggleLike flips the caller's like on a location.
// @Summary Toggle like
// @Description Add or remove a like on the location. Adding a like removes an existing dislike.
// @Tags Reaction
// @Accept json
// @Produce json
// @Param location_id path string true "Location ID"
// @Success 200 {object} response.Data[dto.ToggleReactionResponse] "Reaction toggled"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/like/{location_id} [post]
// @Security BearerAuth
func (handler *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	handler.toggle(w, r, "ToggleLike", handler.service.ToggleLike)
}

// ToggleDislike flips the caller's dislike on a location.
// @Summary Toggle dislike
// @Description Add or remove a dislike on the location. Adding a dislike removes an existing like.
// @Tags Reaction
// @Accept json
// @Produce json
// @Param location_id path string true "Location ID"
// @Success 200 {object} response.Data[dto.ToggleReactionResponse] "Reaction toggled"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/dislike/{location_id} [post]
// @Security BearerAuth
func (handler *Handler) ToggleDislike(w http.ResponseWriter, r *http.Request) {
	handler.toggle(w, r, "ToggleDislike", handler.service.ToggleDislike)
}

// ToggleFavourite flips the caller's favourite on a location.
// @Summary Toggle favourite
// @Description Add or remove a favourite on the location. Favourites do not affect likes or dislikes.
// @Tags Reaction
// @Accept json
// @Produce json
// @Param location_id path string true "Location ID"
// @Success 200 {object} response.Data[dto.ToggleReactionResponse] "Reaction toggled"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/favourite/{location_id} [post]
// @Security BearerAuth
func (handler *Handler) ToggleFavourite(w http.ResponseWriter, r *http.Request) {
	handler.toggle(w, r, "ToggleFavourite", handler.service.ToggleFavourite)
}

func (handler *Handler) toggle(w http.ResponseWriter, r *http.Request, op string, toggleFn func(context.Context, string) (dto.ToggleReactionResponse, error)) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+op)
	defer scope.End()

	locationID := chi.URLParam(r, constant.RequestParamLocationID)

	res, err := toggleFn(ctx, locationID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to toggle reaction")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reaction toggled successfully")

	response.WithJSON(w, http.StatusOK, res)
}
