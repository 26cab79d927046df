//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"staybook/config"
	"staybook/infras/jwt"
	"staybook/infras/kafka"
	"staybook/infras/mailer"
	"staybook/infras/otel"
	"staybook/infras/postgres"
	"staybook/infras/redis"
	"staybook/internal/events"
	"staybook/permissions"
	"staybook/shared/cache"
	"staybook/transport/http"
	"staybook/transport/http/middleware"
	"staybook/transport/http/router"

	bookingRepository "staybook/internal/domains/booking/repository"
	bookingService "staybook/internal/domains/booking/service"
	locationRepository "staybook/internal/domains/location/repository"
	locationService "staybook/internal/domains/location/service"
	reactionRepository "staybook/internal/domains/reaction/repository"
	reactionService "staybook/internal/domains/reaction/service"
	reviewRepository "staybook/internal/domains/review/repository"
	reviewService "staybook/internal/domains/review/service"

	bookingHandler "staybook/internal/handlers/booking"
	locationHandler "staybook/internal/handlers/location"
	reactionHandler "staybook/internal/handlers/reaction"
	reviewHandler "staybook/internal/handlers/review"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	mailer.New,
	permissions.Get,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	events.New,
)

var locationDomain = wire.NewSet(
	locationRepository.New,
	locationService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var reviewDomain = wire.NewSet(
	reviewRepository.New,
	reviewService.New,
)

var reactionDomain = wire.NewSet(
	reactionRepository.New,
	reactionService.New,
)

var domains = wire.NewSet(
	locationDomain,
	bookingDomain,
	reviewDomain,
	reactionDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	locationHandler.New,
	bookingHandler.New,
	reviewHandler.New,
	reactionHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
