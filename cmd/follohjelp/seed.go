package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"follohjelp/internal/seed"

	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Create the base category and location vocabulary in the record store",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "fake-providers",
			Usage: "Also create this many demo providers",
		},
	},
	Action: func(c *cli.Context) error {
		config, err := loadConfig(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := newLogger(config)
		app := buildComponents(config, logger)
		ctx := context.Background()

		logger.Info("Seeding categories...")
		if err := seed.SeedCategories(ctx, app.categories, os.Stdout); err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}

		logger.Info("Seeding locations...")
		if err := seed.SeedLocations(ctx, app.locations, os.Stdout); err != nil {
			return fmt.Errorf("failed to seed locations: %w", err)
		}

		if count := c.Int("fake-providers"); count > 0 {
			app.options.Invalidate()
			rng := rand.New(rand.NewSource(time.Now().UnixNano()))
			if err := seed.SeedFakeProviders(ctx, app.providers, app.options, count, rng, os.Stdout); err != nil {
				return fmt.Errorf("failed to seed fake providers: %w", err)
			}
		}

		logger.Info("Vocabulary seeded successfully")
		return nil
	},
}
