package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/certwise/coiguard/internal/analysis"
	"github.com/certwise/coiguard/internal/catalog"
	"github.com/certwise/coiguard/internal/engine"
	"github.com/certwise/coiguard/internal/storage"
)

// initStorage initializes the sqlite store with proper path expansion.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/coiguard/coiguard.db"
	}
	dbPath = expandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initEngine loads the requirement catalog and trade table and builds the
// validation engine. Without a configured catalog file the engine runs
// with an empty catalog: numeric checks are skipped but exclusion checks
// still apply.
func initEngine() (*engine.Engine, error) {
	cat, trades, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	return engine.New(cat, trades), nil
}

// loadCatalog reads the configured catalog file, falling back to an empty
// catalog with the built-in trade table.
func loadCatalog() (*catalog.Catalog, *catalog.TradeTable, error) {
	catalogPath := viper.GetString("catalog.path")
	if catalogPath == "" {
		return catalog.New(nil), catalog.DefaultTradeTable(), nil
	}

	cat, trades, err := catalog.Load(expandPath(catalogPath))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, trades, nil
}

// initAnalyzer builds the narrative analyzer from config; nil means
// external analysis is disabled.
func initAnalyzer() (analysis.Analyzer, error) {
	return analysis.NewAnalyzer(analysis.Config{
		Provider: viper.GetString("analysis.provider"),
		APIKey:   viper.GetString("analysis.api_key"),
		Model:    viper.GetString("analysis.model"),
	})
}

// analysisTimeout returns the configured external-call timeout.
func analysisTimeout() time.Duration {
	if d := viper.GetDuration("analysis.timeout"); d > 0 {
		return d
	}
	return analysis.DefaultTimeout
}

// expandPath expands $HOME, environment variables and a leading tilde.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}
