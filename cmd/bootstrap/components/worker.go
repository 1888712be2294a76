package components

import (
	"context"

	"fitbook/internal/pkg/config"
	"fitbook/internal/worker"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		func() worker.Publisher { return worker.LogPublisher{} },
		NewDispatcher,
	),
	fx.Invoke(StartDispatcher),
)

func NewDispatcher(pool *pgxpool.Pool, publisher worker.Publisher, cfg config.BookingConfig) *worker.Dispatcher {
	return worker.NewDispatcher(pool, publisher, cfg.DispatchInterval)
}

func StartDispatcher(lc fx.Lifecycle, d *worker.Dispatcher) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			d.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return d.Stop(ctx)
		},
	})
}
