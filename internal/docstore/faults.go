// internal/docstore/faults.go
package docstore

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var ErrInjectedFault = errors.New("injected fault")

// FaultOptions describes the faults a FaultyStore injects.
type FaultOptions struct {
	Latency time.Duration
	Jitter  time.Duration
	// FailureRate is the fraction of calls, 0.0 to 1.0, that fail with
	// ErrInjectedFault instead of reaching the wrapped store.
	FailureRate float64
	// Rand drives jitter and failures. Nil means a randomly seeded source.
	Rand *rand.Rand
}

// Enabled reports whether the options inject anything at all.
func (o FaultOptions) Enabled() bool {
	return o.Latency > 0 || o.Jitter > 0 || o.FailureRate > 0
}

// FaultyStore delays and fails calls to a Store, for exercising the guarded
// store and callers against a degraded backend.
type FaultyStore struct {
	next   Store
	opts   FaultOptions
	mu     sync.Mutex
	rnd    *rand.Rand
	tracer trace.Tracer
}

func NewFaultyStore(next Store, opts FaultOptions) *FaultyStore {
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &FaultyStore{
		next:   next,
		opts:   opts,
		rnd:    rnd,
		tracer: otel.Tracer("shelvesadmin/docstore/faults"),
	}
}

func (f *FaultyStore) Put(ctx context.Context, collection, key string, doc bson.D) error {
	if err := f.inject(ctx, "put", collection); err != nil {
		return err
	}
	return f.next.Put(ctx, collection, key, doc)
}

func (f *FaultyStore) Get(ctx context.Context, collection, key string) (bson.D, error) {
	if err := f.inject(ctx, "get", collection); err != nil {
		return nil, err
	}
	return f.next.Get(ctx, collection, key)
}

func (f *FaultyStore) Delete(ctx context.Context, collection, key string) error {
	if err := f.inject(ctx, "delete", collection); err != nil {
		return err
	}
	return f.next.Delete(ctx, collection, key)
}

func (f *FaultyStore) List(ctx context.Context, collection string) ([]Entry, error) {
	if err := f.inject(ctx, "list", collection); err != nil {
		return nil, err
	}
	return f.next.List(ctx, collection)
}

func (f *FaultyStore) Close(ctx context.Context) error {
	return f.next.Close(ctx)
}

func (f *FaultyStore) inject(ctx context.Context, op, collection string) error {
	delay, fail := f.roll()
	if delay == 0 && !fail {
		return nil
	}

	ctx, span := f.tracer.Start(ctx, "docstore.fault", trace.WithAttributes(
		attribute.String("docstore.operation", op),
		attribute.String("docstore.collection", collection),
	))
	defer span.End()

	if delay > 0 {
		span.AddEvent("injecting_latency", trace.WithAttributes(attribute.Int64("latency_ms", delay.Milliseconds())))
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	if fail {
		span.AddEvent("injecting_failure")
		return ErrInjectedFault
	}
	return nil
}

func (f *FaultyStore) roll() (time.Duration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delay := f.opts.Latency
	if f.opts.Jitter > 0 {
		delay += time.Duration(f.rnd.Int64N(int64(f.opts.Jitter)))
	}
	fail := f.opts.FailureRate > 0 && f.rnd.Float64() < f.opts.FailureRate
	return delay, fail
}
