package main

import (
	"context"
	"database/sql"
	"fmt"

	"naspac/internal/db/migrations"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Apply pending database migrations",
	Action: func(c *cli.Context) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := context.Background()

		pgxConfig, err := pgx.ParseConfig(config.DatabaseURL)
		if err != nil {
			return fmt.Errorf("parse database url: %w", err)
		}
		sqlDB := sql.OpenDB(stdlib.GetConnector(*pgxConfig))
		defer sqlDB.Close()

		goose.SetBaseFS(migrations.Migrations)
		if err := goose.SetDialect("pgx"); err != nil {
			return fmt.Errorf("set goose dialect: %w", err)
		}

		if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}

		return nil
	},
}
