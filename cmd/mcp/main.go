package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/tled/pkg/db"
	tledmcp "github.com/urmzd/tled/pkg/mcp"
	"github.com/urmzd/tled/pkg/service"
)

func main() {
	// Logging must go to stderr, stdout is the MCP transport
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Parse flags
	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/tled/tled.db)")
	profile := flag.String("profile", "", "Fixture profile to activate, created on first use (default: active profile)")
	linkKind := flag.String("link", "", "Device link: sim, serial, mqtt or none (default: stored setting)")
	serialPort := flag.String("port", "", "Serial port of the BLE bridge (default: stored setting)")
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

	svc, err := service.New(ctx, cfg, database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to assemble device stack")
	}
	defer svc.Close()

	// Create and start MCP server
	mcpServer := tledmcp.NewServer(svc.Dispatcher, database.Events())

	log.Info().Msg("Starting MCP server on stdio")

	if err := mcpServer.ServeStdio(); err != nil {
		log.Error().Err(err).Msg("MCP server failed")
	}
}
