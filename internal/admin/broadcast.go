package admin

import (
	"context"
	"time"

	"github.com/dmitrijs2005/driveaccess/internal/logging"
)

const DefaultBroadcastInterval = 50 * time.Millisecond

// Sender delivers a plain text message to one chat.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// Report counts a broadcast run.
type Report struct {
	Total int
	Sent  int
}

// Broadcaster pushes one message to many chats with a pause after each
// successful delivery. Individual failures are logged and skipped.
type Broadcaster struct {
	sender   Sender
	interval time.Duration
	logger   logging.Logger
	wait     func(ctx context.Context, d time.Duration) error
}

func NewBroadcaster(sender Sender, interval time.Duration, logger logging.Logger) *Broadcaster {
	if interval <= 0 {
		interval = DefaultBroadcastInterval
	}
	return &Broadcaster{
		sender:   sender,
		interval: interval,
		logger:   logger.With("module", "broadcast"),
		wait:     sleepCtx,
	}
}

// Send delivers text to every id. It stops early only when ctx is done; the
// report then covers the ids handled so far and ctx.Err() is returned.
func (b *Broadcaster) Send(ctx context.Context, ids []int64, text string) (Report, error) {
	rep := Report{Total: len(ids)}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		if err := b.sender.SendText(ctx, id, text); err != nil {
			b.logger.Warn(ctx, "broadcast delivery failed", "chat_id", id, "error", err)
			continue
		}
		rep.Sent++

		if err := b.wait(ctx, b.interval); err != nil {
			return rep, err
		}
	}

	b.logger.Info(ctx, "broadcast finished", "sent", rep.Sent, "total", rep.Total)
	return rep, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
