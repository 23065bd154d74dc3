package main

import (
	"fmt"

	"follohjelp/internal/search"

	"github.com/urfave/cli/v2"
)

var slugCommand = &cli.Command{
	Name:      "slug",
	Usage:     "Print the slug for each argument",
	ArgsUsage: "<name>...",
	Action: func(c *cli.Context) error {
		for _, arg := range c.Args().Slice() {
			fmt.Println(search.Slugify(arg))
		}
		return nil
	},
}
