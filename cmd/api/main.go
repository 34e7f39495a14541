package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pkl-club-api/internal/client"
	"pkl-club-api/internal/config"
	"pkl-club-api/internal/repository"
	"pkl-club-api/internal/server"
	"pkl-club-api/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db := client.InitPostgresClient(cfg.DatabaseURL)
	stripeClient := client.NewStripeClient(&cfg.Stripe)

	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	eventRepo := repository.NewEventRepository(db)
	tournamentRepo := repository.NewTournamentRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	locationRepo := repository.NewLocationRepository(db)

	authService := service.NewAuthService(&cfg.JWT, userRepo)
	userService := service.NewUserService(userRepo)
	locationService := service.NewLocationService(locationRepo)
	tournamentService := service.NewTournamentService(tournamentRepo, locationRepo, userRepo)
	registrationService := service.NewRegistrationService(registrationRepo, tournamentRepo, userRepo)
	eventService := service.NewEventService(eventRepo, userRepo)
	paymentService := service.NewPaymentService(stripeClient, &cfg.Stripe, userRepo, paymentRepo, eventRepo)
	dashboardService := service.NewDashboardService(locationRepo, tournamentRepo, registrationRepo, userRepo)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(
		cfg.JWT.Secret,
		authService,
		userService,
		locationService,
		tournamentService,
		registrationService,
		eventService,
		paymentService,
		dashboardService,
	)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
