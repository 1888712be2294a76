package worker

import (
	"context"
	"log/slog"
	"time"

	"fitbook/internal/infra/repository"
	"fitbook/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgxpool"
)

const dispatchBatchSize = 100

// Publisher delivers one domain fact to downstream consumers. Delivery is
// at-least-once: a fact published but not yet marked dispatched will be
// published again after a crash.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// LogPublisher emits facts as structured log lines. It stands in for a real
// broker client; consumers tail the stream.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	slog.InfoContext(ctx, "domain fact",
		slog.String("topic", topic),
		slog.String("payload", string(payload)),
	)
	return nil
}

// Dispatcher drains the outbox on a fixed interval. Multiple instances can
// run concurrently; SKIP LOCKED row claims keep them from double-publishing
// within one polling round.
type Dispatcher struct {
	pool      *pgxpool.Pool
	publisher Publisher
	interval  time.Duration
	stop      chan struct{}
	done      chan struct{}
}

func NewDispatcher(pool *pgxpool.Pool, publisher Publisher, interval time.Duration) *Dispatcher {
	return &Dispatcher{
		pool:      pool,
		publisher: publisher,
		interval:  interval,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (d *Dispatcher) Start() {
	go d.run()
}

func (d *Dispatcher) Stop(ctx context.Context) error {
	close(d.stop)
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), d.interval)
			if n, err := d.drainOnce(ctx); err != nil {
				slog.Error("outbox drain failed", slog.Any("error", err))
			} else if n > 0 {
				slog.Debug("dispatched domain facts", slog.Int("count", n))
			}
			cancel()
		}
	}
}

// drainOnce claims, publishes and marks one batch inside a single
// transaction. A publish failure aborts the batch; the unmarked rows are
// picked up on the next tick.
func (d *Dispatcher) drainOnce(ctx context.Context) (int, error) {
	pgtx, err := d.pool.Begin(ctx)
	if err != nil {
		return 0, errs.Wrap(err, "failed to begin outbox transaction")
	}
	defer func() {
		_ = pgtx.Rollback(ctx)
	}()

	outbox := repository.NewOutboxRepository(pgtx)
	pending, err := outbox.ListPending(ctx, dispatchBatchSize)
	if err != nil {
		return 0, err
	}

	for _, fact := range pending {
		if err := d.publisher.Publish(ctx, fact.Topic, fact.Payload); err != nil {
			return 0, errs.Wrap(err, "failed to publish fact")
		}
		if err := outbox.MarkDispatched(ctx, fact.ID); err != nil {
			return 0, err
		}
	}

	if err := pgtx.Commit(ctx); err != nil {
		return 0, errs.Wrap(err, "failed to commit outbox transaction")
	}
	return len(pending), nil
}
