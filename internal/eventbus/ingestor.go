package eventbus

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rpggio/bidboard/internal/domain/history"
	"gocloud.dev/pubsub"
)

const (
	defaultRecordAttempts = 3
	defaultRetryInterval  = 100 * time.Millisecond
)

// Recorder persists history entries.
type Recorder interface {
	Record(ctx context.Context, owner string, entry *history.Entry) error
}

// Ingestor drains a subscription into the history.
type Ingestor struct {
	sub      *pubsub.Subscription
	recorder Recorder
	logger   *slog.Logger

	attempts      uint
	retryInterval time.Duration
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithRecordRetry sets how many times a message is recorded before it is
// nacked, and the first delay between attempts. Later delays grow
// exponentially.
func WithRecordRetry(attempts uint, interval time.Duration) IngestorOption {
	return func(i *Ingestor) {
		if attempts > 0 {
			i.attempts = attempts
		}
		if interval > 0 {
			i.retryInterval = interval
		}
	}
}

// NewIngestor creates an Ingestor reading from sub.
func NewIngestor(sub *pubsub.Subscription, recorder Recorder, logger *slog.Logger, opts ...IngestorOption) *Ingestor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	i := &Ingestor{
		sub:           sub,
		recorder:      recorder,
		logger:        logger.With("module", "history-ingestor"),
		attempts:      defaultRecordAttempts,
		retryInterval: defaultRetryInterval,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run receives messages until ctx is cancelled or the subscription fails.
// Cancellation is not reported as an error.
func (i *Ingestor) Run(ctx context.Context) error {
	for {
		msg, err := i.sub.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			i.logger.Warn("receive failed", "error", err)
			return err
		}
		i.handle(ctx, msg)
	}
}

func (i *Ingestor) handle(ctx context.Context, msg *pubsub.Message) {
	event, err := Decode(msg.Body)
	if err != nil {
		// Drop.
		i.logger.Warn("invalid message", "error", err, "metadata", msg.Metadata)
		msg.Ack()
		return
	}

	entry, err := history.EntryFromEvent(event)
	if err != nil {
		i.logger.Warn("invalid event", "error", err, "type", event.Type)
		msg.Ack()
		return
	}

	if err := i.record(ctx, event.Owner, &entry); err != nil {
		i.logger.Error("record history", "error", err, "owner", event.Owner, "project_id", event.Project.ID)
		if msg.Nackable() {
			msg.Nack()
		} else {
			msg.Ack()
		}
		return
	}

	i.logger.Debug("event recorded", "owner", event.Owner, "project_id", event.Project.ID, "type", event.Type)
	msg.Ack()
}

// record retries Record with exponential backoff, giving up after the
// configured attempts or when ctx ends.
func (i *Ingestor) record(ctx context.Context, owner string, entry *history.Entry) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = i.retryInterval
	b.MaxInterval = 20 * i.retryInterval

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, i.recorder.Record(ctx, owner, entry)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(i.attempts),
		backoff.WithNotify(func(err error, wait time.Duration) {
			i.logger.Warn("record history failed, retrying", "error", err, "owner", owner, "wait", wait)
		}),
	)
	return err
}
