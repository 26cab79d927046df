package router

import (
	"github.com/go-chi/chi/v5"

	"staybook/internal/handlers/booking"
	"staybook/internal/handlers/location"
	"staybook/internal/handlers/reaction"
	"staybook/internal/handlers/review"
)

type DomainHandlers struct {
	Location location.Handler
	Booking  booking.Handler
	Review   review.Handler
	Reaction reaction.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Location.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Review.Router(routerGroup)
		r.DomainHandlers.Reaction.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
