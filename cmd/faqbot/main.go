package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	app := &cli.Command{
		Name:    "faqbot",
		Usage:   "Occupational safety FAQ bot",
		Version: version,
		Commands: []*cli.Command{
			serveCmd(),
			mcpCmd(),
			searchCmd(),
			categoriesCmd(),
			browseCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
