package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/faqbot/internal/api"
	"github.com/dgallion1/faqbot/internal/bot"
	"github.com/dgallion1/faqbot/internal/broadcast"
	"github.com/dgallion1/faqbot/internal/config"
	"github.com/dgallion1/faqbot/internal/content"
	"github.com/dgallion1/faqbot/internal/faq"
	"github.com/dgallion1/faqbot/internal/outbox"
	"github.com/dgallion1/faqbot/internal/session"
	"github.com/dgallion1/faqbot/internal/store"
	"github.com/dgallion1/faqbot/internal/watch"
	cli "github.com/urfave/cli/v3"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API for the chat gateway and the daily broadcast",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	catalog, err := loadCatalog(cfg.ContentFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	faqs := faq.NewStore(faq.Load(cfg.FAQDocuments, log))
	sessions := session.NewStore(cfg.SessionTTL)
	go sessions.RunCleanup(ctx, 5*time.Minute)

	if cfg.FAQWatch {
		w, err := watch.New(cfg.FAQDocuments, faqs, watch.DefaultDebounce, log)
		if err != nil {
			return err
		}
		defer w.Close()
		go w.Run(ctx)
	}

	// Bot and scheduler share the session store, so /sabiasque and the daily
	// broadcast advance the same rotation.
	var (
		subs  bot.Subscriber
		sched *broadcast.Scheduler
		stats *outbox.Stats
	)
	if cfg.OutboxURL != "" {
		db, err := store.Open(ctx, cfg.StorePath)
		if err != nil {
			return err
		}
		defer db.Close()

		sender := outbox.NewClient(cfg.OutboxURL, cfg.OutboxAPIKey, log)
		defer sender.Close()
		stats = sender.Stats

		sched = broadcast.NewScheduler(db, sender, bot.NewFacts(sessions, catalog), broadcast.Config{
			Hour:     cfg.BroadcastHour,
			Minute:   cfg.BroadcastMinute,
			Location: loc,
			Tick:     cfg.BroadcastTick,
		}, log)
		subs = sched
	} else {
		log.Info("daily broadcast disabled", "reason", "OUTBOX_URL not set")
	}

	b := bot.New(faqs, catalog, sessions, subs, log)
	if sched != nil {
		sched.Start(ctx)
		defer sched.Stop()
	}
	srv := api.NewServer(b, faqs, stats, cfg.APIKey, log)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting faqbot", "port", cfg.Port, "version", version, "questions", faqs.Index().Len())
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// loadCatalog reads the texts from path, or the embedded defaults when empty.
func loadCatalog(path string) (*content.Catalog, error) {
	if path == "" {
		return content.Default()
	}
	return content.Load(path)
}
