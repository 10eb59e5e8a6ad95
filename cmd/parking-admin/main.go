package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"smart-parking/internal/auth"
	"smart-parking/internal/config"
	"smart-parking/internal/logging"
	"smart-parking/internal/parking"
	"smart-parking/internal/server"
	"smart-parking/internal/storage"
)

var (
	mode = flag.String("mode", "server", "Mode to run: cli, server, or both")
	port = flag.String("port", "", "Port for HTTP server (overrides PORT)")
)

func main() {
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	if *port != "" {
		cfg.Port = *port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryProvider, err := parking.NewTelemetryProvider()
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}
	logging.Init(cfg.OTel.ServiceName, cfg.Environment)

	store, err := storage.NewCSVStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open CSV store: %v", err)
	}

	ledger := parking.NewLedger(cfg.TotalSlots, cfg.RatePerHour, store)
	if cfg.RestoreOnStart {
		restoreOccupancy(ctx, ledger, store)
	}

	instrumented, err := parking.NewInstrumentedLedger(ledger, telemetryProvider)
	if err != nil {
		log.Fatalf("Failed to instrument ledger: %v", err)
	}

	authService, err := auth.NewService(cfg.AdminUsername, cfg.AdminPassword, cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}

	handler := server.NewHandler(instrumented, store, authService, cfg.PaymentPayeeID)
	srv := server.NewServer(cfg.Port, handler, authService)
	shell := parking.NewShell(instrumented, telemetryProvider)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	switch *mode {
	case "cli":
		runCLI(ctx, cancel, shell, telemetryProvider, sigChan)
	case "server":
		runServer(ctx, cancel, srv, telemetryProvider, sigChan)
	case "both":
		runBoth(ctx, cancel, srv, shell, telemetryProvider, sigChan)
	default:
		log.Fatalf("Invalid mode: %s. Must be cli, server, or both", *mode)
	}
}

func restoreOccupancy(ctx context.Context, ledger *parking.Ledger, store *storage.CSVStore) {
	events, err := store.ParkingEvents()
	if err != nil {
		log.Fatalf("Failed to read parking log: %v", err)
	}
	billed, err := store.BillingRows()
	if err != nil {
		log.Fatalf("Failed to read billing log: %v", err)
	}

	ledger.Restore(events, billed)
	counts := ledger.OccupancyCounts()
	logging.Info(ctx, "occupancy restored from logs",
		"events", len(events),
		"billed", len(billed),
		"occupied", counts.Occupied,
	)
}

func runCLI(ctx context.Context, cancel context.CancelFunc, shell *parking.Shell, telemetryProvider *parking.TelemetryProvider, sigChan chan os.Signal) {
	go func() {
		<-sigChan
		log.Println("Shutting down...")
		cancel()
	}()

	shell.Run(ctx)

	shutdownTelemetry(telemetryProvider)
}

func runServer(ctx context.Context, cancel context.CancelFunc, srv *server.Server, telemetryProvider *parking.TelemetryProvider, sigChan chan os.Signal) {
	go func() {
		<-sigChan
		log.Println("Received shutdown signal...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}

		cancel()
	}()

	log.Printf("Starting server mode on %s", srv.GetAddress())
	if err := srv.Start(); err != nil && err != context.Canceled {
		log.Printf("Server error: %v", err)
	}

	shutdownTelemetry(telemetryProvider)
}

func runBoth(ctx context.Context, cancel context.CancelFunc, srv *server.Server, shell *parking.Shell, telemetryProvider *parking.TelemetryProvider, sigChan chan os.Signal) {
	serverDone := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on %s", srv.GetAddress())
		serverDone <- srv.Start()
	}()

	cliDone := make(chan bool, 1)
	go func() {
		shell.Run(ctx)
		cliDone <- true
	}()

	go func() {
		<-sigChan
		log.Println("Received shutdown signal...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}

		cancel()
	}()

	select {
	case err := <-serverDone:
		if err != nil && err != context.Canceled {
			log.Printf("Server error: %v", err)
		}
	case <-cliDone:
		log.Println("CLI exited")
	case <-ctx.Done():
		log.Println("Context cancelled")
	}

	shutdownTelemetry(telemetryProvider)
}

func shutdownTelemetry(telemetryProvider *parking.TelemetryProvider) {
	log.Println("Shutting down telemetry...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := telemetryProvider.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down telemetry: %v", err)
	}
}
