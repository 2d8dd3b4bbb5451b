package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	httpadapter "petquest/internal/adapter/http"
	metricsinmem "petquest/internal/adapter/metrics/inmemory"
	gormrepo "petquest/internal/adapter/repo/gorm"
	"petquest/internal/app/adventure"
	"petquest/internal/app/decay"
	"petquest/internal/app/gate"
	"petquest/internal/app/interaction"
	"petquest/internal/app/journal"
	"petquest/internal/app/pet"
	"petquest/internal/app/policy"
	"petquest/internal/app/ports"
	"petquest/internal/app/settings"
	"petquest/internal/domain/calendar"

	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

var errMissingDSN = errors.New("PETQUEST_DB_DSN is required")

type config struct {
	Driver         string
	DSN            string
	Addr           string
	TimeZone       string
	DecayEnabled   bool
	MigrateOnStart bool
}

// loadConfig reads flags from c and its parents; serve-only flags are zero
// for other commands.
func loadConfig(c *cli.Command) (config, error) {
	cfg := config{
		Driver:         strings.ToLower(strings.TrimSpace(c.String("db-driver"))),
		DSN:            strings.TrimSpace(c.String("db-dsn")),
		Addr:           c.String("addr"),
		TimeZone:       c.String("timezone"),
		DecayEnabled:   c.Bool("decay"),
		MigrateOnStart: c.Bool("migrate"),
	}
	if cfg.DSN == "" {
		return config{}, errMissingDSN
	}
	return cfg, nil
}

type application struct {
	db       *gorm.DB
	settings *settings.Provider
	zone     calendar.Zone
	decay    decay.Runner
	handler  httpadapter.Handler
}

func buildApp(ctx context.Context, cfg config, logger *slog.Logger, metrics *metricsinmem.Recorder) (*application, error) {
	db, err := gormrepo.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	a := &application{db: db}
	if cfg.MigrateOnStart {
		if err := gormrepo.RunMigrations(ctx, db); err != nil {
			a.close()
			return nil, err
		}
	}

	provider := settings.NewProvider(gormrepo.NewSettingsRepo(db))
	zone, err := resolveZone(ctx, provider, cfg.TimeZone)
	if err != nil {
		a.close()
		return nil, err
	}
	a.settings = provider
	a.zone = zone

	var engineMetrics ports.EngineMetrics
	if metrics != nil {
		engineMetrics = metrics
	}

	txManager := gormrepo.NewTxManager(db)
	pets := gormrepo.NewPetRepo(db)
	sessions := gormrepo.NewSessionRepo(db)
	events := gormrepo.NewEventRepo(db)
	policies := gormrepo.NewDailyLimitPolicyRepo(db)
	limitGate := gate.Gate{Policies: policies, Sessions: sessions, Settings: provider, Calendar: zone}

	a.decay = decay.Runner{
		TxManager: txManager,
		Pets:      pets,
		Runs:      gormrepo.NewDecayRunRepo(db),
		Events:    events,
		Settings:  provider,
		Calendar:  zone,
		Metrics:   engineMetrics,
	}
	a.handler = httpadapter.Handler{
		PetUC: pet.UseCase{TxManager: txManager, Pets: pets, Events: events, Calendar: zone},
		InteractionUC: interaction.UseCase{
			TxManager: txManager,
			Pets:      pets,
			Events:    events,
			Settings:  provider,
			Calendar:  zone,
			Metrics:   engineMetrics,
		},
		AdventureUC: adventure.UseCase{
			TxManager: txManager,
			Pets:      pets,
			Sessions:  sessions,
			Ledger:    gormrepo.NewPlayLedgerRepo(db),
			Events:    events,
			Gate:      limitGate,
			Settings:  provider,
			Calendar:  zone,
			Metrics:   engineMetrics,
		},
		PolicyUC:  policy.UseCase{Policies: policies, Gate: limitGate, Calendar: zone},
		JournalUC: journal.UseCase{Pets: pets, Events: events},
		Settings:  provider,
		Decay:     a.decay,
		Logger:    logger,
	}
	if metrics != nil {
		a.handler.KPI = metrics
	}
	return a, nil
}

func (a *application) close() {
	if a == nil || a.db == nil {
		return
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// resolveZone prefers the App.TimeZone setting over the configured fallback.
func resolveZone(ctx context.Context, s ports.Settings, fallback string) (calendar.Zone, error) {
	name, err := s.String(ctx, settings.KeyTimeZone, fallback)
	if err != nil {
		return calendar.Zone{}, fmt.Errorf("read %s: %w", settings.KeyTimeZone, err)
	}
	if strings.TrimSpace(name) == "" {
		name = fallback
	}
	return calendar.LoadZone(name, nil)
}
