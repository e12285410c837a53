package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	grpcapi "menu-booking-backend/internal/api/grpc"
	httpapi "menu-booking-backend/internal/api/http"
	"menu-booking-backend/internal/config"
	"menu-booking-backend/internal/events"
	"menu-booking-backend/internal/logger"
	"menu-booking-backend/internal/service"
	"menu-booking-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting booking backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress())
	logger.Info("Booking configuration", "driver", cfg.Database.Driver, "lock_timeout", cfg.LockTimeout())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize store
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	// Initialize event publisher
	var publisher service.EventPublisher = events.NoopPublisher{}
	if len(cfg.Events.Brokers) > 0 {
		kafka, err := events.NewKafkaPublisher(cfg.Events.Brokers, cfg.Events.Topic)
		if err != nil {
			logger.Error("Failed to connect to Kafka", "error", err, "brokers", cfg.Events.Brokers)
			log.Fatalf("Failed to connect to Kafka: %v", err)
		}
		defer kafka.Close()
		publisher = kafka
		logger.Info("Publishing booking events", "brokers", cfg.Events.Brokers, "topic", cfg.Events.Topic)
	} else {
		logger.Info("No Kafka brokers configured, booking events are discarded")
	}

	// Initialize services
	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	availabilitySvc := service.NewAvailabilityService(store.Items(), store.Rules())
	bookingSvc := service.NewBookingService(store.Items(), store.Reservations(), availabilitySvc, emailSvc, publisher)

	// Set up HTTP server
	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           httpapi.NewRouter(bookingSvc, availabilitySvc, store.Ping),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	// Set up gRPC server
	var grpcServer *grpc.Server
	var health *grpcapi.HealthReporter
	if addr := cfg.GetGRPCAddress(); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", addr)
			log.Fatalf("Failed to listen: %v", err)
		}
		health = grpcapi.NewHealthReporter(store, cfg.HealthInterval())
		grpcServer = grpcapi.NewServer(health, bookingSvc)
		go health.Run(ctx)
		go func() {
			logger.Info("gRPC server listening", "address", addr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("Failed to serve gRPC", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if grpcServer != nil {
		health.Shutdown()
		grpcServer.GracefulStop()
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
