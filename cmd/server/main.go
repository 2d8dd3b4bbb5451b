package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	metricsinmem "petquest/internal/adapter/metrics/inmemory"
	gormrepo "petquest/internal/adapter/repo/gorm"
	"petquest/internal/app/decay"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/urfave/cli/v3"
)

func main() {
	root := &cli.Command{
		Name:  "petquest",
		Usage: "Pet vitality and adventure progression server",
		Flags: mainFlags(),
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			decayCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func mainFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "db-driver", Value: gormrepo.DriverPostgres, Usage: "postgres or sqlite", Sources: cli.EnvVars("PETQUEST_DB_DRIVER")},
		&cli.StringFlag{Name: "db-dsn", Usage: "database DSN, or file path for sqlite", Sources: cli.EnvVars("PETQUEST_DB_DSN")},
		&cli.StringFlag{Name: "timezone", Value: "UTC", Usage: "IANA zone for day boundaries", Sources: cli.EnvVars("PETQUEST_TIMEZONE")},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API and the daily decay scheduler",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: ":8080", Usage: "HTTP listen address", Sources: cli.EnvVars("PETQUEST_HTTP_ADDR")},
			&cli.BoolFlag{Name: "decay", Value: true, Usage: "run the daily decay scheduler", Sources: cli.EnvVars("PETQUEST_DECAY_ENABLED")},
			&cli.BoolFlag{Name: "migrate", Value: true, Usage: "apply migrations before serving", Sources: cli.EnvVars("PETQUEST_MIGRATE_ON_START")},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			return runServe(ctx, cfg)
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply database migrations",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			cfg.MigrateOnStart = true
			a, err := buildApp(ctx, cfg, slog.Default(), nil)
			if err != nil {
				return err
			}
			defer a.close()
			version, err := gormrepo.MigrationVersion(ctx, a.db)
			if err != nil {
				return err
			}
			fmt.Printf("database at version %d\n", version)
			return nil
		},
	}
}

func decayCommand() *cli.Command {
	return &cli.Command{
		Name:  "decay",
		Usage: "Daily decay operations",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Apply today's decay once if it has not run yet",
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					a, err := buildApp(ctx, cfg, slog.Default(), nil)
					if err != nil {
						return err
					}
					defer a.close()
					res, err := a.decay.RunOnce(ctx)
					if err != nil {
						return err
					}
					fmt.Println(res.Message)
					return nil
				},
			},
		},
	}
}

func runServe(ctx context.Context, cfg config) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	kpiRecorder := metricsinmem.NewRecorder()
	a, err := buildApp(ctx, cfg, logger, kpiRecorder)
	if err != nil {
		return err
	}
	defer a.close()

	schedCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.DecayEnabled {
		sched := decay.Scheduler{
			Runner:     a.decay,
			Settings:   a.settings,
			Calendar:   a.zone,
			Logger:     logger.With("component", "decay"),
			RunOnStart: true,
		}
		go func() {
			if err := sched.Run(schedCtx); err != nil && schedCtx.Err() == nil {
				logger.Error("decay scheduler stopped", "error", err)
			}
		}()
	}

	s := server.Default(server.WithHostPorts(cfg.Addr), server.WithExitWaitTime(5*time.Second))
	a.handler.RegisterRoutes(s)

	logger.Info("petquest server listening", "addr", cfg.Addr, "timezone", a.zone.Location().String())
	s.Spin()
	return nil
}
