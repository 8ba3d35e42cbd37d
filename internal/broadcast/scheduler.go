// Package broadcast sends the daily "¿Sabías que…?" fact to subscribed chats.
package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/faqbot/internal/outbox"
	"github.com/dgallion1/faqbot/internal/store"
)

// Repository is the subscription storage the scheduler needs.
type Repository interface {
	Subscribe(ctx context.Context, chatID string, hour, minute int) (store.Subscription, error)
	Unsubscribe(ctx context.Context, chatID string) error
	List(ctx context.Context) ([]store.Subscription, error)
	MarkSent(ctx context.Context, id string, day time.Time) error
}

// Sender delivers one message to a chat.
type Sender interface {
	Send(ctx context.Context, msg outbox.Message) error
}

// FactSource hands out each chat's fact rotation. Peek must not advance; the
// scheduler calls Advance only once the fact has been delivered.
type FactSource interface {
	Peek(chatID string) string
	Advance(chatID string)
}

// Config controls when deliveries happen.
type Config struct {
	Hour     int
	Minute   int
	Location *time.Location
	Tick     time.Duration
}

// Scheduler delivers one fact per subscribed chat per day.
type Scheduler struct {
	repo   Repository
	sender Sender
	facts  FactSource
	cfg    Config
	log    *slog.Logger
	now    func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(repo Repository, sender Sender, facts FactSource, cfg Config, log *slog.Logger) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Tick <= 0 {
		cfg.Tick = 30 * time.Second
	}
	return &Scheduler{
		repo:   repo,
		sender: sender,
		facts:  facts,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
	}
}

// Subscribe enables the daily fact for chatID. When today's delivery time has
// already passed, the first delivery happens tomorrow.
func (s *Scheduler) Subscribe(ctx context.Context, chatID string) (store.Subscription, error) {
	sub, err := s.repo.Subscribe(ctx, chatID, s.cfg.Hour, s.cfg.Minute)
	if err != nil {
		return store.Subscription{}, err
	}
	local := s.now().In(s.cfg.Location)
	if due(sub, local) {
		if err := s.repo.MarkSent(ctx, sub.ID, local); err != nil {
			return store.Subscription{}, err
		}
		sub.LastSentOn = local.Format("2006-01-02")
	}
	return sub, nil
}

// Unsubscribe disables the daily fact for chatID.
func (s *Scheduler) Unsubscribe(ctx context.Context, chatID string) error {
	return s.repo.Unsubscribe(ctx, chatID)
}

// Start launches the delivery loop.
func (s *Scheduler) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.cfg.Tick)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				if _, err := s.RunDue(loopCtx, s.now()); err != nil {
					s.log.Error("broadcast run failed", "error", err)
				}
			}
		}
	}()
}

// Stop halts the delivery loop and waits for an in-flight run.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// RunDue delivers to every subscription whose time of day has passed and that
// has not been served today. It returns the number of delivered messages.
// Failed deliveries stay due and are retried on the next run.
func (s *Scheduler) RunDue(ctx context.Context, now time.Time) (int, error) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list subscriptions: %w", err)
	}

	local := now.In(s.cfg.Location)
	sent := 0
	for _, sub := range subs {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		if !due(sub, local) {
			continue
		}
		text := s.facts.Peek(sub.ChatID)
		if text == "" {
			continue
		}
		if err := s.sender.Send(ctx, outbox.Message{ChatID: sub.ChatID, Text: text}); err != nil {
			s.log.Warn("daily fact delivery failed", "chat_id", sub.ChatID, "error", err)
			continue
		}
		s.facts.Advance(sub.ChatID)
		if err := s.repo.MarkSent(ctx, sub.ID, local); err != nil {
			s.log.Error("mark sent failed", "chat_id", sub.ChatID, "error", err)
			continue
		}
		sent++
	}
	if sent > 0 {
		s.log.Info("daily facts delivered", "count", sent)
	}
	return sent, nil
}

func due(sub store.Subscription, local time.Time) bool {
	if sub.SentOn(local) {
		return false
	}
	h, m := local.Hour(), local.Minute()
	return h > sub.Hour || (h == sub.Hour && m >= sub.Minute)
}
