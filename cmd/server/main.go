package main // Entry point package

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/driveaway/car-rental-api/internal/config"
	"github.com/driveaway/car-rental-api/internal/database"
	"github.com/driveaway/car-rental-api/internal/handler"
	"github.com/driveaway/car-rental-api/internal/middleware"
	"github.com/driveaway/car-rental-api/internal/queue"
	"github.com/driveaway/car-rental-api/internal/repository"
	"github.com/driveaway/car-rental-api/internal/router"
	queue_publisher "github.com/driveaway/car-rental-api/internal/service"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	// Redis is optional; a nil client disables the response cache.
	rdb := config.NewRedisClient()
	if rdb == nil {
		slog.Warn("redis unavailable, response cache disabled")
	}

	users := repository.NewUserRepo(db)
	rentals := repository.NewRentalRepo(db)

	authH := handler.NewAuthHandler(cfg, users)
	rentalH := handler.NewRentalHandler(rentals, queue_publisher.PublishRentalEvent)

	// Background consumer that records rental events to logs/rentals.log.
	// It reconnects forever and never takes the server down.
	go func() {
		if err := queue.StartRentalConsumer(); err != nil {
			slog.Error("rental consumer stopped", "err", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.SlogRequests())
	e.Use(middleware.CORS(cfg.CORSOrigins))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH)
	router.RegisterRentals(e, rentalH, cfg.JWTSecret, config.LoadCacheConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
