// Command server runs the foodbridge API: donation lifecycle, geospatial
// matching and NGO profiles over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"foodbridge/internal/donation/claimlock"
	"foodbridge/internal/donation/events"
	donationhandler "foodbridge/internal/donation/handler"
	donationmetrics "foodbridge/internal/donation/metrics"
	donationservice "foodbridge/internal/donation/service"
	donationstore "foodbridge/internal/donation/store"
	jwttoken "foodbridge/internal/jwt_token"
	"foodbridge/internal/matching"
	ngohandler "foodbridge/internal/ngo/handler"
	ngoservice "foodbridge/internal/ngo/service"
	ngostore "foodbridge/internal/ngo/store"
	"foodbridge/internal/platform/config"
	"foodbridge/internal/platform/httpserver"
	"foodbridge/internal/platform/logger"
	"foodbridge/internal/platform/metrics"
	"foodbridge/internal/platform/postgres"
	platformredis "foodbridge/internal/platform/redis"
	httptransport "foodbridge/internal/transport/http"
)

// main wires dependencies and owns the server lifecycle. Every external
// system is optional: without Postgres the stores are in-memory, without
// Redis claim locking is process-local, without Kafka events are dropped.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}

	var (
		donationStore donationstore.Store
		profileStore  ngostore.Store
	)
	if db != nil {
		donationStore = donationstore.NewPostgres(db)
		profileStore = ngostore.NewPostgres(db)
		defer db.Close()
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		donationStore = donationstore.NewInMemory()
		profileStore = ngostore.NewInMemory()
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	var locker claimlock.Locker = claimlock.NewMemory()
	if redisClient != nil {
		locker = claimlock.NewRedis(redisClient.Client)
		defer redisClient.Close()
	}

	var publisher events.Publisher = events.Nop{}
	if kafka, err := events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic); err != nil {
		log.Error("kafka connection failed", "error", err)
		os.Exit(1)
	} else if kafka != nil {
		publisher = kafka
		defer kafka.Close()
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "foodbridge")
	httpMetrics := metrics.New()
	lifecycleMetrics := donationmetrics.New()

	donations := donationservice.New(donationStore,
		donationservice.WithLocker(locker),
		donationservice.WithPublisher(publisher),
		donationservice.WithMetrics(lifecycleMetrics),
		donationservice.WithLogger(log),
	)
	ngos := ngoservice.New(profileStore, log)
	matcher := matching.New(donationStore, ngos, lifecycleMetrics)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:       log,
		Metrics:      httpMetrics,
		JWTValidator: jwtService,
		Handlers: []httptransport.Registrar{
			donationhandler.New(donations, matcher, log),
			ngohandler.New(ngos, log),
		},
		Health: func(ctx context.Context) error {
			if db != nil {
				if err := db.PingContext(ctx); err != nil {
					return err
				}
			}
			if redisClient != nil {
				return redisClient.Health(ctx)
			}
			return nil
		},
		Timeout: cfg.RequestTimeout,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting foodbridge", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
