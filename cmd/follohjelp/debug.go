package main

import (
	"context"
	"fmt"

	"follohjelp/pkg/types"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var debugCommand = &cli.Command{
	Name:  "debug",
	Usage: "Dump record store contents as the service sees them",
	Subcommands: []*cli.Command{
		{
			Name:  "providers",
			Usage: "Print active providers with resolved categories and locations",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "category", Usage: "Filter by category name, slug or id"},
				&cli.StringFlag{Name: "location", Usage: "Filter by location name, slug or id"},
			},
			Action: func(c *cli.Context) error {
				config, err := loadConfig(c)
				if err != nil {
					return err
				}

				app := buildComponents(config, newLogger(config))
				providers, err := app.providers.ListProviders(context.Background(), types.ProviderFilter{
					Category: c.String("category"),
					Location: c.String("location"),
				})
				if err != nil {
					return err
				}

				pp.Println(providers)
				fmt.Printf("%d providers\n", len(providers))
				return nil
			},
		},
		{
			Name:  "leads",
			Usage: "Print the most recent leads",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "limit", Value: 20},
			},
			Action: func(c *cli.Context) error {
				config, err := loadConfig(c)
				if err != nil {
					return err
				}

				app := buildComponents(config, newLogger(config))
				leads, err := app.leads.LatestLeads(context.Background(), c.Int("limit"))
				if err != nil {
					return err
				}

				pp.Println(leads)
				return nil
			},
		},
	},
}
