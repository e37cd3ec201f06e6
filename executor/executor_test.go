package executor_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ilkerhalil/kvlite/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRunsTask(t *testing.T) {
	p := executor.New(2, nil)
	defer p.Close()

	var ran atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)
	p.Submit(context.Background(), "test", func(ctx context.Context) error {
		defer wg.Done()
		ran.Store(true)
		return nil
	})
	wg.Wait()
	assert.True(t, ran.Load())
}

func TestSubmitDegradesSynchronouslyWhenSaturated(t *testing.T) {
	p := executor.New(1, nil)
	defer p.Close()

	block := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	p.Submit(context.Background(), "hold", func(ctx context.Context) error {
		defer wg.Done()
		<-block
		return nil
	})

	// The single slot is held; a second Submit must run synchronously on
	// this goroutine rather than block forever waiting for a slot.
	var ran atomic.Bool
	p.Submit(context.Background(), "degraded", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	assert.True(t, ran.Load(), "Submit should have run the task synchronously in-line")

	close(block)
	wg.Wait()
}

func TestCloseIsIdempotentAndWaits(t *testing.T) {
	p := executor.New(4, nil)

	var done atomic.Bool
	p.Submit(context.Background(), "work", func(ctx context.Context) error {
		done.Store(true)
		return nil
	})

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.True(t, done.Load())

	select {
	case <-p.Closing():
	default:
		t.Fatal("Closing() channel should be closed after Close")
	}
}
