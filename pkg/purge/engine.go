package purge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"chatops-hq/purgebot/pkg/platform"
	"chatops-hq/purgebot/pkg/store"
	"chatops-hq/purgebot/pkg/telemetry/metrics"

	"github.com/google/uuid"
)

// Trigger identifies what initiated a purge pass.
type Trigger string

const (
	// TriggerMessage is a pass run after recording an incoming message.
	TriggerMessage Trigger = "message"
	// TriggerCommand is a pass run after handling a bot command.
	TriggerCommand Trigger = "command"
	// TriggerSweep is a pass run by the periodic sweep scheduler.
	TriggerSweep Trigger = "sweep"
)

// Result summarizes a completed purge pass.
type Result struct {
	// Deleted is the number of messages removed from the chat
	Deleted int

	// Tolerated is the number of ids skipped because the platform
	// reported the message already gone
	Tolerated int

	// From and Through bound the id range the pass walked.
	// Both are zero when nothing qualified for deletion.
	From, Through int
}

// Engine runs purge passes over tracked groups.
//
// A pass deletes every message id from the resume point through the
// highest expired id, skipping the pinned message, and records the
// progress in the group state so the next pass resumes where this one
// left off.
type Engine struct {
	store     store.Store
	messenger platform.Messenger
	collector *metrics.Collector
	logger    *slog.Logger
}

// NewEngine creates a purge engine. The collector may be nil, in which
// case passes are not instrumented.
func NewEngine(st store.Store, messenger platform.Messenger, collector *metrics.Collector, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		store:     st,
		messenger: messenger,
		collector: collector,
		logger:    logger.With("component", "purge.engine"),
	}
}

// Purge runs one purge pass for the given group, evaluating message
// ages against now. Groups without activated purging are a silent
// no-op.
//
// A pass that fails partway keeps the progress it made: deletions
// already performed are recorded in the group state and flushed before
// the error is returned.
func (e *Engine) Purge(ctx context.Context, chatID int64, now time.Time, trigger Trigger) (Result, error) {
	passID := uuid.New().String()
	started := time.Now()

	logger := e.logger.With(
		"pass_id", passID,
		"chat_id", chatID,
		"trigger", string(trigger),
	)

	result, err := e.run(ctx, logger, chatID, now)

	if e.collector != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		e.collector.RecordPurgePass(string(trigger), status, time.Since(started), result.Deleted, result.Tolerated)
	}

	return result, err
}

// run executes the pass body. It is separated from Purge so that the
// instrumentation wrapper sees every return path.
func (e *Engine) run(ctx context.Context, logger *slog.Logger, chatID int64, now time.Time) (Result, error) {
	state, err := e.store.Get(ctx, chatID)
	if err != nil {
		return Result{}, fmt.Errorf("load group state: %w", err)
	}
	if state == nil {
		return Result{}, nil
	}

	deleteFrom := state.LatestDeletedMessageID

	qualifying := expired(state, now)
	if len(qualifying) == 0 {
		logger.Debug("no expired messages", "tracked", len(state.Messages))
		return Result{}, nil
	}

	deleteThrough := qualifying[len(qualifying)-1]
	if qualifying[0] < deleteFrom {
		deleteFrom = qualifying[0]
	}

	// The exclusion set holds ids the walk must never delete.
	// Currently that is at most the pinned message.
	pinnedID, err := e.messenger.PinnedMessageID(ctx, chatID)
	if err != nil {
		return Result{}, fmt.Errorf("fetch pinned message: %w", err)
	}

	exclude := make(map[int]struct{})
	lowestExcluded := 0
	if pinnedID != 0 {
		exclude[pinnedID] = struct{}{}
		lowestExcluded = pinnedID
	}

	logger.Info("purge pass started",
		"delete_from", deleteFrom,
		"delete_through", deleteThrough,
		"expired", len(qualifying),
		"pinned_message_id", pinnedID,
	)

	result := Result{From: deleteFrom, Through: deleteThrough}

	// Walk every id in the range, not just tracked ones. Gaps come
	// from messages the bot never saw (posted before activation, or
	// service messages); the platform reports those as already gone
	// and the pass tolerates that.
	var walkErr error
	for id := deleteFrom; id <= deleteThrough; id++ {
		if _, skip := exclude[id]; skip {
			continue
		}

		err := e.messenger.DeleteMessage(ctx, chatID, id)
		switch {
		case err == nil:
			result.Deleted++
		case errors.Is(err, platform.ErrMessageNotFound):
			result.Tolerated++
		default:
			walkErr = fmt.Errorf("delete message %d: %w", id, err)
		}
		if walkErr != nil {
			break
		}

		delete(state.Messages, id)

		// Resume below the lowest exclusion on the next pass, so ids
		// behind a pin are retried once the pin moves or is removed.
		latest := id
		if lowestExcluded != 0 && lowestExcluded < latest {
			latest = lowestExcluded
		}
		state.LatestDeletedMessageID = latest
	}

	if putErr := e.store.Put(ctx, chatID, state); putErr != nil {
		if walkErr == nil {
			walkErr = fmt.Errorf("persist group state: %w", putErr)
		} else {
			logger.Error("persisting partial pass state failed", "error", putErr)
		}
	} else if flushErr := e.store.Flush(ctx); flushErr != nil {
		if walkErr == nil {
			walkErr = fmt.Errorf("flush store: %w", flushErr)
		} else {
			logger.Error("flushing partial pass state failed", "error", flushErr)
		}
	}

	if walkErr != nil {
		logger.Error("purge pass aborted",
			"deleted", result.Deleted,
			"tolerated", result.Tolerated,
			"error", walkErr,
		)
		return result, walkErr
	}

	logger.Info("purge pass finished",
		"deleted", result.Deleted,
		"tolerated", result.Tolerated,
		"latest_deleted_message_id", state.LatestDeletedMessageID,
		"remaining", len(state.Messages),
	)

	return result, nil
}

// expired returns the ids of tracked messages whose age meets or
// exceeds the group lifetime, sorted ascending.
func expired(state *store.GroupState, now time.Time) []int {
	var ids []int
	for id, record := range state.Messages {
		if now.Sub(record.SentAt) >= state.Lifetime {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}
