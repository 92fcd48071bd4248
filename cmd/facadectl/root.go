package main

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/facade-admin/access"
	"github.com/facade-admin/cascade"
	"github.com/facade-admin/config"
	"github.com/facade-admin/database"
	"github.com/facade-admin/dto"
	"github.com/facade-admin/guard"
	"github.com/facade-admin/logging"
	"github.com/facade-admin/repositories"
	"github.com/facade-admin/services"
	"github.com/facade-admin/store/gormstore"
)

// projectOps is the part of the project service the CLI drives
type projectOps interface {
	PreviewDelete(ctx context.Context, principal access.Principal, id string) (dto.DependentsResponse, error)
	DeleteProject(ctx context.Context, principal access.Principal, id string, opts services.DeleteOptions) (cascade.Outcome, error)
}

// migrations is the part of database.Migrator the CLI drives
type migrations interface {
	Up(ctx context.Context) error
	Status(ctx context.Context) error
	Down(ctx context.Context, targetVersion int64) error
}

// app holds the lazily built dependencies of the commands. Tests replace
// the open functions.
type app struct {
	in  io.Reader
	cfg config.Config

	openProjects   func(cfg config.Config) (projectOps, func(), error)
	openAccounts   func(cfg config.Config) (accounts, func(), error)
	openMigrations func(cfg config.Config) (migrations, error)
}

func newApp(in io.Reader) *app {
	return &app{
		in:             in,
		openProjects:   openProjects,
		openAccounts:   openAccounts,
		openMigrations: openMigrations,
	}
}

func newRootCmd(a *app) *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "facadectl",
		Short:         "Operate the facade admin backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.cfg = config.Load()
			if cmd.Flags().Changed("log-level") || a.cfg.LogLevel == "" {
				a.cfg.LogLevel = logLevel
			}
			logging.Configure(logrus.StandardLogger(), a.cfg.LogLevel, a.cfg.LogFormat, "stderr")
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newMigrateCmd(a))
	root.AddCommand(newProjectCmd(a))
	root.AddCommand(newUserCmd(a))
	root.AddCommand(newSimulateCmd())
	return root
}

func openMigrations(cfg config.Config) (migrations, error) {
	return database.NewMigrator(cfg.DatabaseURL, logging.Component("migrate"))
}

func openDB(cfg config.Config) (*gorm.DB, func(), error) {
	db, err := database.Open(database.Options{
		URL:      cfg.DatabaseURL,
		LogLevel: logrus.GetLevel(),
	}, logging.Component("database"))
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}, nil
}

func openAccounts(cfg config.Config) (accounts, func(), error) {
	db, closeDB, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return services.NewAuthService(repositories.NewUserRepository(db), cfg.JWTSecret, cfg.TokenTTL, logging.Component("auth")), closeDB, nil
}

// openGuard returns the delete lock shared with the API server. Without Redis
// the lock only covers this process, which is worth a warning: a server
// running at the same time can delete the same project.
func openGuard(cfg config.Config, log *logrus.Entry) (guard.Guard, func(), error) {
	if !cfg.UseRedis() {
		log.Warn("REDIS_ADDR is not set; the delete lock does not cover a running API server")
		return guard.NewMemory(), func() {}, nil
	}
	g, err := guard.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.DeleteLockTTL, log)
	if err != nil {
		return nil, nil, err
	}
	return g, func() { _ = g.Close() }, nil
}

func openProjects(cfg config.Config) (projectOps, func(), error) {
	db, closeDB, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	inflight, closeGuard, err := openGuard(cfg, logging.Component("guard"))
	if err != nil {
		closeDB()
		return nil, nil, err
	}

	deleter := cascade.NewDeleter(gormstore.New(db), nil, cascade.WithLogger(logging.Component("cascade")))
	svc := services.NewProjectService(
		repositories.NewProjectRepository(db),
		repositories.NewCustomerRepository(db),
		repositories.NewDeletionLogRepository(db),
		deleter,
		inflight,
		logging.Component("projects"),
	)
	closeAll := func() {
		closeGuard()
		closeDB()
	}
	return svc, closeAll, nil
}
