package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airport/api"
	"github.com/Domenick1991/airport/config"
	"github.com/Domenick1991/airport/internal/auth"
	"github.com/Domenick1991/airport/internal/bootstrap"
	"github.com/Domenick1991/airport/internal/cache"
	"github.com/Domenick1991/airport/internal/kafka"
	"github.com/Domenick1991/airport/internal/repository"
	"github.com/Domenick1991/airport/internal/service/booking"
	"github.com/Domenick1991/airport/internal/service/catalog"
	"github.com/Domenick1991/airport/internal/service/flights"
	"github.com/Domenick1991/airport/internal/service/routes"
	"github.com/Domenick1991/airport/internal/service/users"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.WithError(err).Fatal("connect postgres")
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool); err != nil {
		logger.WithError(err).Fatal("migrate schema")
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.FlightsCacheTTL(), logger)
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		logger.WithError(err).Warn("redis unavailable, continuing without warm cache")
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers, logger)
	defer producer.Close()

	tx := repository.NewTxManager(pool)
	airportRepo := repository.NewAirportRepository(pool)
	airplaneTypeRepo := repository.NewAirplaneTypeRepository(pool)
	airplaneRepo := repository.NewAirplaneRepository(pool)
	crewRepo := repository.NewCrewRepository(pool)
	routeRepo := repository.NewRouteRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())

	userService := users.NewUserService(userRepo, tokens, logger)
	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		if err := userService.EnsureStaff(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			logger.WithError(err).Fatal("seed staff account")
		}
	}

	flightService := flights.NewFlightService(flightRepo, routeRepo, airplaneRepo, ticketRepo, tx, logger,
		flights.WithCache(redisCache),
		flights.WithCreateLead(cfg.Booking.CreateLead()),
	)
	orderService := booking.NewOrderService(orderRepo, ticketRepo, flightRepo, userRepo, tx, logger,
		booking.WithCache(redisCache, cfg.Booking.SeatLockTTL()),
		booking.WithProducer(producer, cfg.Kafka.OrdersTopic),
	)

	handlers := api.Handlers{
		Airports: api.NewAirportHandler(catalog.NewAirportService(airportRepo, logger,
			catalog.WithFlightCache(redisCache))),
		Airplanes: api.NewAirplaneHandler(catalog.NewAirplaneService(airplaneTypeRepo, airplaneRepo, ticketRepo, tx, logger,
			catalog.WithFlightCache(redisCache))),
		Crews: api.NewCrewHandler(catalog.NewCrewService(crewRepo, logger,
			catalog.WithFlightCache(redisCache))),
		Routes: api.NewRouteHandler(routes.NewRouteService(routeRepo, airportRepo, tx, logger,
			routes.WithFlightCache(redisCache))),
		Flights:   api.NewFlightHandler(flightService),
		Orders:    api.NewOrderHandler(orderService),
		Users:     api.NewUserHandler(userService),
	}
	checks := map[string]bootstrap.Pinger{
		"postgres": pool,
		"redis":    redisCache,
		"kafka":    bootstrap.PingFunc(producer.CheckConnection),
	}
	router := bootstrap.NewRouter(cfg, handlers, tokens, checks, logger)

	if err := bootstrap.Run(ctx, cfg, router, logger); err != nil {
		logger.WithError(err).Fatal("server error")
	}
}
