package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	pdfexport "github.com/bnema/snookertab/internal/adapters/export/pdf"
	boltrepo "github.com/bnema/snookertab/internal/adapters/repo/bolt"
	"github.com/bnema/snookertab/internal/application"
	"github.com/bnema/snookertab/internal/domain"
	"github.com/bnema/snookertab/internal/ports"
)

const ratesFileName = "rates.toml"

type app struct {
	engine   *application.Engine
	exporter ports.ReportExporter
	now      func() time.Time
	log      zerolog.Logger
}

func wireApp() (*app, error) {
	log := newLogger()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	configDir := filepath.Join(homeDir, ".snookertab")

	catalog, err := domain.LoadCatalog(filepath.Join(configDir, ratesFileName))
	if err != nil {
		return nil, fmt.Errorf("wire rate catalog: %w", err)
	}

	store, err := boltrepo.NewStore(viper.New(), ports.SystemClock{}, log)
	if err != nil {
		return nil, fmt.Errorf("wire ledger store: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	return &app{
		engine:   application.NewEngine(store, catalog, ports.SystemClock{}, log),
		exporter: pdfexport.New(workDir),
		now:      time.Now,
		log:      log,
	}, nil
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if raw := os.Getenv("SNOOKERTAB_LOG"); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
