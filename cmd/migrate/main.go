package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/invoicing/backend/internal/infrastructure/config"
	"github.com/invoicing/backend/internal/infrastructure/logger"
	"github.com/invoicing/backend/internal/infrastructure/migration"
	"github.com/invoicing/backend/internal/infrastructure/persistence"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var (
		migrationsPath string
		connection     string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Read migrations from this directory instead of the embedded set")
	flag.StringVar(&connection, "connection", persistence.DefaultConnection, `Database connection to migrate, or "all"`)
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{Level: logLevel, Format: "console", Output: "stdout", TimeFormat: "2006-01-02 15:04:05"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	targets, err := selectTargets(&cfg.Database, connection)
	if err != nil {
		log.Fatal("Invalid connection", zap.Error(err))
	}

	for _, target := range targets {
		connLog := log.With(zap.String("connection", target.name))
		if err := run(target.cfg, migrationsPath, args, connLog); err != nil {
			connLog.Fatal("Migration command failed", zap.String("command", args[0]), zap.Error(err))
		}
	}
}

type target struct {
	name string
	cfg  config.DatabaseConfig
}

func selectTargets(db *config.DatabaseConfig, connection string) ([]target, error) {
	all := []target{{name: persistence.DefaultConnection, cfg: *db}}
	for _, name := range db.ConnectionNames() {
		all = append(all, target{name: name, cfg: db.Connections[name]})
	}
	if connection == "all" {
		return all, nil
	}
	for _, t := range all {
		if t.name == connection {
			return []target{t}, nil
		}
	}
	return nil, fmt.Errorf("unknown connection %q", connection)
}

func run(cfg config.DatabaseConfig, migrationsPath string, args []string, log *zap.Logger) error {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	var m *migration.Migrator
	if migrationsPath != "" {
		m, err = migration.NewFromPath(db, migrationsPath, log)
	} else {
		m, err = migration.New(db, log)
	}
	if err != nil {
		return err
	}
	defer m.Close()

	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		if len(args) < 2 {
			return fmt.Errorf("usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[1])
		}
		return m.Steps(n)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		return m.Force(version)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printUsage() {
	fmt.Println(`Invoicing database migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                Apply all pending migrations
  down              Roll back all migrations
  step <n>          Apply n migrations (negative rolls back)
  version           Show the current migration version
  force <version>   Set the version without migrating (clears a dirty state)

Flags:
  -connection name  Connection to migrate: default, a named partition or "all"
  -path dir         Read migrations from a directory instead of the binary
  -log-level level  debug, info, warn or error (default: info)`)
}
