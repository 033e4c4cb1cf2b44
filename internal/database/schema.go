package database

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"parley/internal/config"
	"parley/internal/middleware"

	"gorm.io/gorm"
)

// Schema modes. SQL migrations are the source of truth for constraints the
// models cannot express (the comment uniqueness index lives there); gorm
// AutoMigrate only ever adds columns on top in development.
const (
	SchemaModeHybrid = "hybrid" // SQL migrations everywhere, AutoMigrate only outside prod-like envs
	SchemaModeSQL    = "sql"    // SQL migrations only
	SchemaModeAuto   = "auto"   // AutoMigrate only; gated in prod-like envs
)

// SchemaStatus reports what ApplySchema would do for the current config,
// plus the ledger state when SQL migrations are in play.
type SchemaStatus struct {
	Mode               string
	Environment        string
	WillRunSQL         bool
	WillRunAutoMigrate bool
	AppliedVersions    []int
	PendingMigrations  []Migration
}

var prodLikeEnvs = []string{"production", "prod", "staging", "stage"}

func isProdLikeEnv(env string) bool {
	return slices.Contains(prodLikeEnvs, strings.ToLower(strings.TrimSpace(env)))
}

func normalizedSchemaMode(cfg *config.Config) string {
	mode := strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode))
	if mode == "" {
		return SchemaModeHybrid
	}
	return mode
}

// schemaPolicy decides which schema mechanisms run for the given config.
// AutoMigrate in a prod-like environment needs the explicit destructive
// override, since it can drop or retype columns.
func schemaPolicy(cfg *config.Config) (runSQL bool, runAuto bool, err error) {
	prodLike := isProdLikeEnv(cfg.Env)

	switch mode := normalizedSchemaMode(cfg); mode {
	case SchemaModeSQL:
		return true, false, nil
	case SchemaModeAuto:
		if prodLike && !cfg.DBAutoMigrateAllowDestructive {
			return false, false, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q without DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true", cfg.Env)
		}
		return false, true, nil
	case SchemaModeHybrid:
		return true, !prodLike, nil
	default:
		return false, false, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", mode)
	}
}

// ApplySchema brings the database up to date per the configured schema mode.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	runSQL, runAuto, err := schemaPolicy(cfg)
	if err != nil {
		return err
	}

	if runSQL {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}

	if runAuto {
		mode := normalizedSchemaMode(cfg)
		if mode == SchemaModeAuto && cfg.DBAutoMigrateAllowDestructive {
			middleware.Logger.Warn("Destructive AutoMigrate enabled; review schema diffs before deploying")
		}
		middleware.Logger.Info("Running GORM AutoMigrate",
			slog.String("mode", mode), slog.String("env", cfg.Env))
		if err := db.AutoMigrate(PersistentModels()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}

	return nil
}

// GetSchemaStatus describes the pending work without performing any of it.
// The migrate CLI's status command prints this.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	runSQL, runAuto, err := schemaPolicy(cfg)
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{
		Mode:               normalizedSchemaMode(cfg),
		Environment:        cfg.Env,
		WillRunSQL:         runSQL,
		WillRunAutoMigrate: runAuto,
	}
	if !runSQL {
		return status, nil
	}

	applied, err := NewMigrationStore(db).GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	status.AppliedVersions = applied

	for _, m := range GetMigrations() {
		if !slices.Contains(applied, m.Version) {
			status.PendingMigrations = append(status.PendingMigrations, m)
		}
	}
	return status, nil
}
