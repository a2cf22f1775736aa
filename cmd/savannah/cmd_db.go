package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/savannah/config"
	"github.com/shashiranjanraj/savannah/database/seeders"
	"github.com/shashiranjanraj/savannah/pkg/database"
	"github.com/shashiranjanraj/savannah/pkg/logger"
	"github.com/shashiranjanraj/savannah/pkg/migration"
)

// bootDB loads config and opens the database connection without the rest
// of the server wiring. The returned close func flushes the logger.
func bootDB() (*gorm.DB, *slog.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	log, closeLog := logger.New(cfg)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		closeLog()
		return nil, nil, nil, err
	}
	return db, log, closeLog, nil
}

// savannah migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, log, closeLog, err := bootDB()
		if err != nil {
			return err
		}
		defer closeLog()
		fmt.Println("Running migrations…")
		return migration.New(db, log).Run()
	},
}

// savannah migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, log, closeLog, err := bootDB()
		if err != nil {
			return err
		}
		defer closeLog()
		fmt.Println("Rolling back last batch…")
		return migration.New(db, log).Rollback()
	},
}

// savannah migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, log, closeLog, err := bootDB()
		if err != nil {
			return err
		}
		defer closeLog()
		return migration.New(db, log).Status()
	},
}

// savannah seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, closeLog, err := bootDB()
		if err != nil {
			return err
		}
		defer closeLog()
		fmt.Println("Running seeders…")
		return seeders.RunAll(db)
	},
}
