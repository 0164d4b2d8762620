package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/tled/pkg/advertise"
	"github.com/urmzd/tled/pkg/api"
	"github.com/urmzd/tled/pkg/db"
	"github.com/urmzd/tled/pkg/service"

	_ "github.com/urmzd/tled/docs"
)

// @title           tled API
// @version         1.0
// @description     REST API for controlling an ELK-BLEDOM LED fixture

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

const shutdownTimeout = 5 * time.Second

func main() {
	// Configure logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Parse flags
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/tled/tled.db)")
	profile := flag.String("profile", "", "Fixture profile to activate, created on first use (default: active profile)")
	linkKind := flag.String("link", "", "Device link: sim, serial, mqtt or none (default: stored setting)")
	serialPort := flag.String("port", "", "Serial port of the BLE bridge (default: stored setting)")
	baud := flag.Int("baud", 0, "Serial baud rate (default: stored setting)")
	issueToken := flag.String("issue-token", "", "Print a bearer token for this subject and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "Lifetime of tokens printed by -issue-token")
	var assignments []string
	flag.Func("set", "Store a setting for the profile, as key=value (repeatable)", func(v string) error {
		assignments = append(assignments, v)
		return nil
	})
	flag.Parse()

	ctx := context.Background()

	// Open database, run migrations and bootstrap on first run
	database, err := db.OpenAndMigrate(ctx, *dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	log.Info().Str("path", database.Path()).Msg("Database opened")

	if *profile != "" {
		if _, err := database.UseProfile(ctx, *profile); err != nil {
			log.Fatal().Err(err).Str("profile", *profile).Msg("Failed to activate profile")
		}
	}

	// Load configuration
	cfg, err := database.ActiveConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := database.StoreAssignments(ctx, cfg, assignments); err != nil {
		log.Fatal().Err(err).Msg("Failed to store settings")
	}

	if *linkKind != "" {
		cfg.Set(db.KeyLinkKind, *linkKind)
	}
	if *serialPort != "" {
		cfg.Set(db.KeySerialPort, *serialPort)
	}
	if *baud > 0 {
		cfg.Set(db.KeySerialBaud, strconv.Itoa(*baud))
	}

	secret := cfg.String(db.KeyAuthSecret, "")

	if *issueToken != "" {
		token, err := api.IssueToken(secret, *issueToken, *tokenTTL)
		if err != nil {
			log.Fatal().Err(err).Msgf("Failed to issue token (set %s first)", db.KeyAuthSecret)
		}
		fmt.Println(token)
		return
	}

	log.Info().
		Str("profile", cfg.Profile.Name).
		Str("link", cfg.String(db.KeyLinkKind, service.LinkSim)).
		Str("api_address", cfg.APIAddress()).
		Bool("auth", secret != "").
		Msg("Configuration loaded")

	// One daemon per fixture: the link cannot be shared
	lock, err := acquireLock()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to acquire instance lock")
	}
	defer func() { _ = lock.Unlock() }()

	svc, err := service.New(ctx, cfg, database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to assemble device stack")
	}
	defer svc.Close()

	// Create API router
	router := api.NewRouter(svc.Dispatcher, svc.Broadcaster, api.Options{
		Events:     database.Events(),
		AuthSecret: secret,
	})

	server := &http.Server{
		Addr:              cfg.APIAddress(),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Announce on the LAN
	if cfg.Bool(db.KeyMDNSEnabled, true) {
		announcement, err := advertise.Start(cfg.String(db.KeyMDNSInstance, ""), cfg.APIPort(), "path=/api/v1")
		if err != nil {
			log.Warn().Err(err).Msg("mDNS announcement unavailable")
		} else {
			defer func() { _ = announcement.Shutdown() }()
		}
	}

	// Handle shutdown gracefully
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to shut down server")
		}
	}()

	// Start server
	log.Info().Str("address", server.Addr).Msg("Starting API server")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Server failed")
	}
}

func acquireLock() (*flock.Flock, error) {
	dir, err := db.ConfigDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, "tled.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", lock.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("another tled daemon holds %s", lock.Path())
	}
	return lock, nil
}
