package main

import (
	"context"
	"fmt"

	"naspac/internal/db"
	"naspac/internal/seed"
	"naspac/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with initial data",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		datastore := store.NewPostgres(pool)

		logrus.Info("Seeding departments...")
		if err := seed.SeedDepartments(ctx, datastore); err != nil {
			return fmt.Errorf("failed to seed departments: %w", err)
		}

		logrus.Info("Seeding users...")
		if err := seed.SeedUsers(ctx, datastore); err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}

		logrus.Info("Seed completed successfully")

		return nil
	},
}
