// internal/docstore/faults_test.go
package docstore

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFaultyStore(t *testing.T) {
	ctx := context.Background()
	doc := bson.D{{Key: "title", Value: "x"}}

	t.Run("no faults passes through", func(t *testing.T) {
		f := NewFaultyStore(NewMemoryStore(), FaultOptions{})
		assert.False(t, FaultOptions{}.Enabled())

		require.NoError(t, f.Put(ctx, "books", "k", doc))
		got, err := f.Get(ctx, "books", "k")
		require.NoError(t, err)
		assert.Equal(t, doc, got)
	})

	t.Run("always failing", func(t *testing.T) {
		next := new(mockStore)
		f := NewFaultyStore(next, FaultOptions{FailureRate: 1})

		assert.ErrorIs(t, f.Put(ctx, "books", "k", doc), ErrInjectedFault)
		_, err := f.List(ctx, "books")
		assert.ErrorIs(t, err, ErrInjectedFault)
		next.AssertNotCalled(t, "Put")
		next.AssertNotCalled(t, "List")
	})

	t.Run("latency honours context", func(t *testing.T) {
		f := NewFaultyStore(NewMemoryStore(), FaultOptions{Latency: time.Hour})
		short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()

		_, err := f.Get(short, "books", "k")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("seeded failure rate", func(t *testing.T) {
		f := NewFaultyStore(NewMemoryStore(), FaultOptions{
			FailureRate: 0.5,
			Rand:        rand.New(rand.NewPCG(1, 2)),
		})

		failures := 0
		for i := 0; i < 200; i++ {
			if _, err := f.List(ctx, "books"); err != nil {
				failures++
			}
		}
		assert.Greater(t, failures, 50)
		assert.Less(t, failures, 150)
	})

	t.Run("jitter stays within bounds", func(t *testing.T) {
		f := NewFaultyStore(NewMemoryStore(), FaultOptions{
			Latency: 10 * time.Millisecond,
			Jitter:  5 * time.Millisecond,
			Rand:    rand.New(rand.NewPCG(3, 4)),
		})

		for i := 0; i < 100; i++ {
			delay, fail := f.roll()
			assert.False(t, fail)
			assert.GreaterOrEqual(t, delay, 10*time.Millisecond)
			assert.Less(t, delay, 15*time.Millisecond)
		}
	})

	t.Run("trips the guarded store breaker", func(t *testing.T) {
		faulty := NewFaultyStore(NewMemoryStore(), FaultOptions{FailureRate: 1})
		g := NewGuardedStore(faulty, GuardOptions{ConsecutiveFailures: 2, OpenTimeout: time.Minute})

		for i := 0; i < 2; i++ {
			_, err := g.Get(ctx, "books", "k")
			assert.ErrorIs(t, err, ErrInjectedFault)
		}
		_, err := g.Get(ctx, "books", "k")
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Equal(t, gobreaker.StateOpen, g.State())
	})
}
