//go:build wireinject
// +build wireinject

package di

import (
	"clinic/config"
	"clinic/infras/jwt"
	"clinic/infras/otel"
	"clinic/infras/postgres"
	"clinic/infras/redis"
	"clinic/permissions"
	"clinic/shared/cache"
	"clinic/transport/http"
	"clinic/transport/http/middleware"
	"clinic/transport/http/router"

	authService "clinic/internal/domains/auth/service"
	bookingRepository "clinic/internal/domains/booking/repository"
	bookingService "clinic/internal/domains/booking/service"
	catalogRepository "clinic/internal/domains/catalog/repository"
	catalogService "clinic/internal/domains/catalog/service"
	ledgerRepository "clinic/internal/domains/ledger/repository"
	ledgerService "clinic/internal/domains/ledger/service"
	scheduleRepository "clinic/internal/domains/schedule/repository"
	scheduleService "clinic/internal/domains/schedule/service"
	userRepository "clinic/internal/domains/user/repository"
	userService "clinic/internal/domains/user/service"

	authHandler "clinic/internal/handlers/auth"
	bookingHandler "clinic/internal/handlers/booking"
	catalogHandler "clinic/internal/handlers/catalog"
	ledgerHandler "clinic/internal/handlers/ledger"
	scheduleHandler "clinic/internal/handlers/schedule"
	userHandler "clinic/internal/handlers/user"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	wire.Bind(new(postgres.TxRunner), new(*postgres.Connection)),
	otel.New,
	redis.New,
	jwt.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var catalogDomain = wire.NewSet(
	catalogRepository.New,
	catalogService.New,
)

var scheduleDomain = wire.NewSet(
	scheduleRepository.New,
	scheduleService.New,
)

var ledgerDomain = wire.NewSet(
	ledgerRepository.NewCard,
	ledgerRepository.NewPayment,
	ledgerService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	userDomain,
	authDomain,
	catalogDomain,
	scheduleDomain,
	ledgerDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	catalogHandler.New,
	scheduleHandler.New,
	bookingHandler.New,
	ledgerHandler.New,
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
