// internal/docstore/guarded.go
package docstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"
)

// GuardOptions tunes a GuardedStore.
type GuardOptions struct {
	// WritesPerSecond limits Put and Delete. Zero disables the limiter.
	WritesPerSecond float64
	Burst           int
	// ConsecutiveFailures opens the breaker. Zero means 5.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open. Zero means 30s.
	OpenTimeout time.Duration
	// Meters records the docstore.operations counter. Nil means the
	// global provider.
	Meters metric.MeterProvider
}

// GuardedStore decorates a Store with write rate limiting and a circuit
// breaker. ErrNotFound does not count as a failure.
type GuardedStore struct {
	next    Store
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	ops     metric.Int64Counter
}

func NewGuardedStore(next Store, opts GuardOptions) *GuardedStore {
	if opts.ConsecutiveFailures == 0 {
		opts.ConsecutiveFailures = 5
	}
	if opts.OpenTimeout == 0 {
		opts.OpenTimeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.WritesPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.WritesPerSecond), burst)
	}

	failures := opts.ConsecutiveFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "docstore",
		Timeout: opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	meters := opts.Meters
	if meters == nil {
		meters = otel.GetMeterProvider()
	}
	ops, err := meters.Meter("shelvesadmin/docstore").Int64Counter("docstore.operations",
		metric.WithDescription("Document store operations by collection, operation and outcome"),
	)
	if err != nil {
		log.Printf("docstore: create operations counter: %v", err)
	}

	return &GuardedStore{next: next, limiter: limiter, breaker: breaker, ops: ops}
}

func (g *GuardedStore) Put(ctx context.Context, collection, key string, doc bson.D) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, key, err)
	}
	_, err := g.run(ctx, "put", collection, func() (interface{}, error) {
		return nil, g.next.Put(ctx, collection, key, doc)
	})
	return err
}

func (g *GuardedStore) Get(ctx context.Context, collection, key string) (bson.D, error) {
	v, err := g.run(ctx, "get", collection, func() (interface{}, error) {
		return g.next.Get(ctx, collection, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(bson.D), nil
}

func (g *GuardedStore) Delete(ctx context.Context, collection, key string) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, key, err)
	}
	_, err := g.run(ctx, "delete", collection, func() (interface{}, error) {
		return nil, g.next.Delete(ctx, collection, key)
	})
	return err
}

func (g *GuardedStore) List(ctx context.Context, collection string) ([]Entry, error) {
	v, err := g.run(ctx, "list", collection, func() (interface{}, error) {
		return g.next.List(ctx, collection)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Entry), nil
}

func (g *GuardedStore) Close(ctx context.Context) error {
	return g.next.Close(ctx)
}

// State reports the breaker state.
func (g *GuardedStore) State() gobreaker.State {
	return g.breaker.State()
}

func (g *GuardedStore) run(ctx context.Context, op, collection string, fn func() (interface{}, error)) (interface{}, error) {
	v, err := g.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%s %s: %w", op, collection, ErrUnavailable)
	}

	if g.ops != nil {
		outcome := "ok"
		switch {
		case errors.Is(err, ErrNotFound):
			outcome = "not_found"
		case errors.Is(err, ErrUnavailable):
			outcome = "rejected"
		case err != nil:
			outcome = "error"
		}
		g.ops.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", op),
			attribute.String("collection", collection),
			attribute.String("outcome", outcome),
		))
	}
	return v, err
}
