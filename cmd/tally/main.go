package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/tally/internal/cli"
	"github.com/alexanderramin/tally/internal/config"
	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/logger"
	"github.com/alexanderramin/tally/internal/remote"
	"github.com/alexanderramin/tally/internal/remote/sheets"
	"github.com/alexanderramin/tally/internal/repository"
	"github.com/alexanderramin/tally/internal/service"
	"github.com/alexanderramin/tally/internal/syncer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	activityRepo := repository.NewSQLiteActivityRepo(database)
	sessionRepo := repository.NewSQLiteSessionRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewLogUseCaseObserver(log)

	activityReplica := service.NewActivityReplica(activityRepo, sessionRepo, uow, observer)
	sessionReplica := service.NewSessionReplica(sessionRepo, uow, observer)

	app := &cli.App{
		Activities:    service.NewActivityService(activityRepo, sessionRepo, uow, observer),
		Sessions:      service.NewSessionService(sessionRepo, uow, observer),
		Data:          service.NewDataService(uow, observer),
		IsInteractive: cli.TerminalInteractive,
		NewSyncRunner: func(ctx context.Context, dryRun bool) (cli.SyncRunner, error) {
			var gw remote.Gateway = remote.NewMemory()
			if !dryRun {
				g, err := sheets.New(ctx, log, sheets.ClientOptions(cfg.Credentials)...)
				if err != nil {
					return nil, err
				}
				gw = g
			}
			orch := syncer.NewOrchestrator(gw, activityReplica, sessionReplica, log)
			return syncer.NewRunner(orch, cfg.Container), nil
		},
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(context.Background())
}
