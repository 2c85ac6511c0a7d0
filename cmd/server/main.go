package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/ljbyon/almacen-v3-g/internal/booking"
	"github.com/ljbyon/almacen-v3-g/internal/cache"
	"github.com/ljbyon/almacen-v3-g/internal/config"
	"github.com/ljbyon/almacen-v3-g/internal/credential"
	"github.com/ljbyon/almacen-v3-g/internal/handler"
	"github.com/ljbyon/almacen-v3-g/internal/ledger"
	"github.com/ljbyon/almacen-v3-g/internal/model"
	"github.com/ljbyon/almacen-v3-g/internal/notifier"
	"github.com/ljbyon/almacen-v3-g/internal/queue"
	"github.com/ljbyon/almacen-v3-g/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := ledger.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("ledger: open failed: %v", err)
	}
	store := ledger.NewMySQLStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsurePartition(ctx, model.BookingPartition, model.BookingHeaders); err != nil {
		log.Fatalf("ledger: %v", err)
	}
	if err := store.EnsurePartition(ctx, model.CredentialPartition, model.CredentialHeaders); err != nil {
		log.Fatalf("ledger: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; snapshot caching disabled")
	}
	snap := cache.New(store, rdb, cfg.SnapshotTTL)

	clock := booking.SystemClock()
	probe := booking.NewProbe(store, clock, cfg.BackoffUnit, cfg.VerifyTailWindow)
	coord := booking.NewCoordinator(store, snap, probe, clock, booking.Config{
		SettleInterval: cfg.SettleInterval,
		VerifyAttempts: cfg.VerifyAttempts,
		SaveAttempts:   cfg.SaveAttempts,
		BackoffUnit:    cfg.BackoffUnit,
	})

	creds := credential.NewStore(store)
	notif := notifier.NewAMQP(cfg.AMQPURL)

	// Background consumer appends committed-booking confirmations to
	// logs/booking.log. It reconnects on broker failures forever.
	go func() {
		if err := queue.StartCommittedConsumer(); err != nil {
			log.Printf("committed-consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, creds))
	router.RegisterBooking(e, handler.NewBookingHandler(coord, snap, notif, clock), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
