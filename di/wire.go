//go:build wireinject
// +build wireinject

package di

import (
	"airpark/config"
	"airpark/infras/jwt"
	"airpark/infras/kafka"
	"airpark/infras/otel"
	"airpark/infras/postgres"
	"airpark/infras/redis"
	"airpark/infras/s3"
	"airpark/permissions"
	"airpark/shared/cache"
	"airpark/shared/clock"
	"airpark/transport/consumer"
	"airpark/transport/http"
	"airpark/transport/http/middleware"
	"airpark/transport/http/router"
	"airpark/transport/scheduler"
	"airpark/transport/worker"

	availabilityService "airpark/internal/domains/availability/service"
	bookingRepository "airpark/internal/domains/booking/repository"
	bookingService "airpark/internal/domains/booking/service"
	cleanupService "airpark/internal/domains/cleanup/service"
	occupancyService "airpark/internal/domains/occupancy/service"
	settingRepository "airpark/internal/domains/setting/repository"
	settingService "airpark/internal/domains/setting/service"

	availabilityHandler "airpark/internal/handlers/availability"
	bookingHandler "airpark/internal/handlers/booking"
	cronHandler "airpark/internal/handlers/cron"
	occupancyHandler "airpark/internal/handlers/occupancy"
	settingHandler "airpark/internal/handlers/setting"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
	s3.New,
	jwt.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	clock.New,
)

var settingDomain = wire.NewSet(
	settingRepository.New,
	settingService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
	cleanupService.New,
)

var reportingDomain = wire.NewSet(
	availabilityService.New,
	occupancyService.New,
)

var domains = wire.NewSet(
	settingDomain,
	bookingDomain,
	reportingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	availabilityHandler.New,
	bookingHandler.New,
	occupancyHandler.New,
	settingHandler.New,
	cronHandler.New,
	router.New,
)

var background = wire.NewSet(
	scheduler.New,
	consumer.New,
	worker.New,
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

func InitializeWorker() *worker.Worker {
	wire.Build(
		config.Get,
		postgres.New,
		otel.New,
		redis.New,
		kafka.New,
		sharedHelpers,
		settingDomain,
		bookingDomain,
		background,
	)

	return &worker.Worker{}
}
