package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/bootstrap"
	"github.com/Domenick1991/flightbooking/internal/cache"
	"github.com/Domenick1991/flightbooking/internal/catalog"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/checkout"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := config.LoadEnv(".env"); err != nil {
		logrus.Fatalf("load .env: %v", err)
	}
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	flightRepo := repository.NewFlightRepository()
	if err := catalog.Seed(ctx, flightRepo, cfg.Catalog, time.Now()); err != nil {
		log.WithError(err).Fatal("seed catalog")
	}
	bookingRepo := repository.NewBookingRepository()

	var (
		flightCache flights.FlightCache
		opts        = []booking.BookingServiceOption{
			booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
			booking.WithRefundPolicy(cfg.Booking.RefundWindow(), cfg.Booking.RefundPercent),
		}
	)
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.CacheTTL())
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			log.WithError(err).Warn("redis unavailable, flights cache disabled")
		} else {
			flightCache = redisCache
			opts = append(opts, booking.WithCache(redisCache))
		}
	}

	var producer booking.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		p := kafka.NewProducer(cfg.Kafka.Brokers, log)
		defer p.Close()
		if err := p.CheckConnection(ctx); err != nil {
			log.WithError(err).Warn("kafka unavailable, booking events will fail to publish")
		}
		producer = p
	}

	flightService := flights.NewFlightService(flightRepo, flightCache, cfg.Booking.CacheTTL(), log)
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		producer,
		cfg.Kafka.BookingTopic,
		log,
		opts...,
	)
	checkoutService := checkout.NewService(bookingService, bookingRepo, log,
		checkout.WithProcessingDelay(cfg.Payment.ProcessingDelay()),
	)

	if err := bootstrap.Run(ctx, cfg, bootstrap.Services{
		Flights:  flightService,
		Bookings: bookingService,
		Checkout: checkoutService,
	}, log); err != nil {
		log.WithError(err).Fatal("server error")
	}
}
