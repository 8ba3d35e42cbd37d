package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dgallion1/faqbot/internal/config"
	"github.com/dgallion1/faqbot/internal/faq"
	"github.com/dgallion1/faqbot/internal/mcpserver"
	"github.com/dgallion1/faqbot/internal/watch"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	cli "github.com/urfave/cli/v3"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the FAQ as MCP tools over stdio",
		Flags: []cli.Flag{docFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// stdout carries the protocol.
			log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
			paths := documents(cmd)

			faqs := faq.NewStore(faq.Load(paths, log))
			if config.Load().FAQWatch {
				w, err := watch.New(paths, faqs, watch.DefaultDebounce, log)
				if err != nil {
					return err
				}
				defer w.Close()
				go w.Run(ctx)
			}

			server := mcpserver.NewServer(faqs, version)
			log.Info("mcp server starting", "version", version, "questions", faqs.Index().Len())
			return server.Run(ctx, &mcp.StdioTransport{})
		},
	}
}
