package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"time"

	"chatops-hq/purgebot/pkg/platform"
	"chatops-hq/purgebot/pkg/purge"
	"chatops-hq/purgebot/pkg/store"
	"chatops-hq/purgebot/pkg/telemetry/metrics"
	"chatops-hq/purgebot/pkg/timewindow"
)

// DefaultLifetime is the message lifetime assigned when purging is
// first activated. It is long enough to keep everything until an admin
// sets a real window.
const DefaultLifetime = 36500 * 24 * time.Hour

// Config contains configuration for the Bot.
type Config struct {
	// DefaultLifetime is the lifetime assigned on activation.
	// Default: 36500d.
	DefaultLifetime time.Duration
}

// Bot is the event loop that drives purgebot.
//
// A single goroutine consumes platform updates and sweep requests and
// handles each event to completion before the next. All store mutation
// and all purge passes happen on that goroutine.
type Bot struct {
	cfg       Config
	messenger platform.Messenger
	store     store.Store
	engine    *purge.Engine
	collector *metrics.Collector
	logger    *slog.Logger

	sweepCh chan struct{}
}

// New creates a Bot. The collector may be nil, in which case the bot
// runs uninstrumented.
func New(cfg Config, messenger platform.Messenger, st store.Store, engine *purge.Engine, collector *metrics.Collector, logger *slog.Logger) *Bot {
	if cfg.DefaultLifetime <= 0 {
		cfg.DefaultLifetime = DefaultLifetime
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Bot{
		cfg:       cfg,
		messenger: messenger,
		store:     st,
		engine:    engine,
		collector: collector,
		logger:    logger.With("component", "bot"),
		sweepCh:   make(chan struct{}, 1),
	}
}

// Run starts the update stream and processes events until the context
// is cancelled or the stream closes. It returns nil on clean shutdown.
func (b *Bot) Run(ctx context.Context) error {
	updates, err := b.messenger.Updates(ctx)
	if err != nil {
		return fmt.Errorf("start update stream: %w", err)
	}

	b.logger.Info("event loop started")
	b.refreshGroupGauge(ctx)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("event loop stopping")
			return nil
		case update, ok := <-updates:
			if !ok {
				b.logger.Info("update stream closed")
				return nil
			}
			b.dispatch(ctx, update)
		case <-b.sweepCh:
			b.runSweep(ctx)
		}
	}
}

// RequestSweep asks the event loop to run a sweep pass over all
// tracked groups. The request is dropped when one is already pending,
// so callers never block.
func (b *Bot) RequestSweep() {
	select {
	case b.sweepCh <- struct{}{}:
	default:
	}
}

// dispatch classifies one update and runs its handler. Handler panics
// are logged and never escape to the loop.
func (b *Bot) dispatch(ctx context.Context, update platform.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				"chat_id", update.ChatID,
				"message_id", update.MessageID,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	if update.IsCommand() {
		if b.handleCommand(ctx, update) {
			b.recordUpdate("command")
			return
		}
	}

	// Unrecognized commands fall through here and are tracked like any
	// other group message.
	if update.IsGroup && update.Text != "" {
		b.recordUpdate("message")
		b.handleMessage(ctx, update)
		return
	}

	b.recordUpdate("ignored")
}

// runSweep purges every tracked group at the current time. Sweeps
// cover groups whose messages age out without new traffic.
func (b *Bot) runSweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("sweep panicked",
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	started := time.Now()

	chatIDs, err := b.store.ChatIDs(ctx)
	if err != nil {
		b.logger.Error("listing groups for sweep failed", "error", err)
		return
	}

	for _, chatID := range chatIDs {
		b.purgeAfter(ctx, chatID, time.Now(), purge.TriggerSweep)
	}

	b.logger.Debug("sweep completed",
		"groups", len(chatIDs),
		"elapsed", time.Since(started),
	)
}

// GroupInfo describes one tracked group in the ops listing.
type GroupInfo struct {
	ChatID                 int64     `json:"chat_id"`
	Lifetime               string    `json:"lifetime"`
	TrackedMessages        int       `json:"tracked_messages"`
	LatestDeletedMessageID int       `json:"latest_deleted_message_id"`
	ActivatedAt            time.Time `json:"activated_at"`
}

// Snapshot returns the current group listing, sorted by chat id. The
// ops server calls it from its own goroutine; it only reads.
func (b *Bot) Snapshot(ctx context.Context) ([]GroupInfo, error) {
	chatIDs, err := b.store.ChatIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	infos := make([]GroupInfo, 0, len(chatIDs))
	for _, chatID := range chatIDs {
		state, err := b.store.Get(ctx, chatID)
		if err != nil {
			return nil, fmt.Errorf("load group %d: %w", chatID, err)
		}
		if state == nil {
			continue
		}
		infos = append(infos, GroupInfo{
			ChatID:                 chatID,
			Lifetime:               timewindow.Format(state.Lifetime),
			TrackedMessages:        len(state.Messages),
			LatestDeletedMessageID: state.LatestDeletedMessageID,
			ActivatedAt:            state.ActivatedAt,
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].ChatID < infos[j].ChatID })

	return infos, nil
}

// recordUpdate counts a classified update.
func (b *Bot) recordUpdate(result string) {
	if b.collector != nil {
		b.collector.RecordUpdate(result)
	}
}

// recordCommand counts a handled command.
func (b *Bot) recordCommand(command, status string) {
	if b.collector != nil {
		b.collector.RecordCommand(command, status)
	}
}

// refreshGroupGauge updates the tracked group count gauge.
func (b *Bot) refreshGroupGauge(ctx context.Context) {
	if b.collector == nil {
		return
	}
	if count, err := b.store.Len(ctx); err == nil {
		b.collector.SetTrackedGroups(count)
	}
}

// refreshGauges updates the tracked state gauges after a mutation of
// the given group.
func (b *Bot) refreshGauges(ctx context.Context, chatID int64) {
	if b.collector == nil {
		return
	}

	b.refreshGroupGauge(ctx)

	state, err := b.store.Get(ctx, chatID)
	if err != nil {
		return
	}
	if state == nil {
		b.collector.RemoveTrackedMessages(chatID)
		return
	}
	b.collector.SetTrackedMessages(chatID, len(state.Messages))
}
