package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/MarkoPoloResearchLab/payments/internal/audit"
	"github.com/MarkoPoloResearchLab/payments/internal/replay"
	"github.com/MarkoPoloResearchLab/payments/pkg/engine"
	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	flagOutput             = "output"
	flagAuditDatabase      = "audit-db"
	configKeyOutput        = "output_path"
	configKeyAuditDatabase = "audit_database_url"
)

type runtimeConfig struct {
	InputPath        string
	OutputPath       string
	AuditDatabaseURL string
}

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "payments: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := &runtimeConfig{}
	cmd := &cobra.Command{
		Use:           "payments <transactions.csv>",
		Short:         "Replay a transaction stream and print final account states",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.InputPath = args[0]
			return loadConfig(cmd, cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runReplay(ctx, cfg)
		},
	}

	cmd.Flags().String(flagOutput, "", "account snapshot destination (default stdout)")
	cmd.Flags().String(flagAuditDatabase, "", "optional audit journal database URL (sqlite:// or postgres://)")

	return cmd
}

func loadConfig(cmd *cobra.Command, cfg *runtimeConfig) error {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindEnv(configKeyOutput, "OUTPUT_PATH"); err != nil {
		return err
	}
	if err := viper.BindEnv(configKeyAuditDatabase, "AUDIT_DATABASE_URL"); err != nil {
		return err
	}

	if err := viper.BindPFlag(configKeyOutput, cmd.Flags().Lookup(flagOutput)); err != nil {
		return err
	}
	if err := viper.BindPFlag(configKeyAuditDatabase, cmd.Flags().Lookup(flagAuditDatabase)); err != nil {
		return err
	}

	cfg.OutputPath = viper.GetString(configKeyOutput)
	cfg.AuditDatabaseURL = viper.GetString(configKeyAuditDatabase)
	if cfg.InputPath == "" {
		return fmt.Errorf("input path is required")
	}
	return nil
}

func runReplay(ctx context.Context, cfg *runtimeConfig) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	input, err := os.Open(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("input open: %w", err)
	}
	defer func() { _ = input.Close() }()

	mutationLoggers := []engine.MutationLogger{replay.NewMutationZapLogger(logger)}
	if cfg.AuditDatabaseURL != "" {
		gormDB, cleanup, driver, err := openDatabase(ctx, cfg.AuditDatabaseURL)
		if err != nil {
			return fmt.Errorf("audit database open: %w", err)
		}
		defer func() { _ = cleanup() }()
		if err := prepareSchema(gormDB, driver); err != nil {
			return err
		}
		journal := audit.NewJournal(gormDB, audit.WithErrorHandler(func(journalErr error) {
			logger.Warn("audit write failed", zap.Error(journalErr))
		}))
		mutationLoggers = append(mutationLoggers, journal)
	}

	replayEngine := engine.NewEngine(engine.WithMutationLogger(replay.CombineMutationLoggers(mutationLoggers...)))
	if err := replay.Run(ctx, replayEngine, replay.NewReader(input), logger); err != nil {
		return err
	}

	destination := os.Stdout
	if cfg.OutputPath != "" {
		file, err := os.Create(cfg.OutputPath)
		if err != nil {
			return fmt.Errorf("output create: %w", err)
		}
		defer func() { _ = file.Close() }()
		destination = file
	}
	return replay.WriteSnapshot(destination, replayEngine)
}

func openDatabase(ctx context.Context, dsn string) (*gorm.DB, func() error, string, error) {
	driver, sqlitePath, err := resolveDriver(dsn)
	if err != nil {
		return nil, nil, "", err
	}

	var db *gorm.DB
	cfg := &gorm.Config{}
	switch driver {
	case "postgres":
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(sqlitePath), cfg)
	default:
		return nil, nil, "", fmt.Errorf("unsupported database scheme %q", driver)
	}
	if err != nil {
		return nil, nil, "", err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, "", err
	}
	cleanup := func() error { return sqlDB.Close() }
	return db.WithContext(ctx), cleanup, driver, nil
}

func resolveDriver(dsn string) (string, string, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres", "", nil
	}
	if strings.HasPrefix(dsn, "sqlite://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", "", fmt.Errorf("parse sqlite url: %w", err)
		}
		path := u.Path
		if path == "" {
			path = u.Host
		}
		if path == "" || path == "/" {
			path = "audit.db"
		}
		sqlitePath, err := normalizeSQLitePath(path)
		return "sqlite", sqlitePath, err
	}
	// Treat everything else as a direct sqlite path.
	sqlitePath, err := normalizeSQLitePath(dsn)
	return "sqlite", sqlitePath, err
}

func normalizeSQLitePath(path string) (string, error) {
	if path == ":memory:" {
		return path, nil
	}
	if strings.HasPrefix(path, "/") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		return path, nil
	}
	abs := filepath.Join(".", path)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	return abs, nil
}

func prepareSchema(db *gorm.DB, driver string) error {
	if driver != "sqlite" {
		return nil
	}
	if err := audit.Migrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
