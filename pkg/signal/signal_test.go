package signal_test

import (
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasura-metrics-adapter/pkg/signal"
)

func TestSleepElapses(t *testing.T) {
	term := signal.NewTerminator()
	start := time.Now()
	assert.Equal(t, signal.Elapsed, term.Sleep(20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.False(t, term.Fired())
}

func TestSleepCancelledByFire(t *testing.T) {
	term := signal.NewTerminator()
	go func() {
		time.Sleep(10 * time.Millisecond)
		term.Fire()
	}()

	start := time.Now()
	assert.Equal(t, signal.Cancelled, term.Sleep(time.Minute))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestFireIsIdempotentAndBroadcast(t *testing.T) {
	term := signal.NewTerminator()

	var wg sync.WaitGroup
	outcomes := make([]signal.Outcome, 3)
	for i := range outcomes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = term.Sleep(time.Minute)
		}()
	}

	term.Fire()
	term.Fire()
	wg.Wait()

	for _, o := range outcomes {
		assert.Equal(t, signal.Cancelled, o)
	}
	assert.True(t, term.Fired())
	// 已触发后再次等待立即返回
	assert.Equal(t, signal.Cancelled, term.Sleep(time.Minute))
}

func TestNotifyOnSignal(t *testing.T) {
	term := signal.NewTerminator()
	stop := signal.NotifyOnSignal(term, syscall.SIGUSR1)
	defer stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))

	select {
	case <-term.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("terminator was not fired by signal")
	}
}

func TestNotifyStopDoesNotFire(t *testing.T) {
	term := signal.NewTerminator()
	stop := signal.NotifyOnSignal(term, syscall.SIGUSR2)
	stop()
	stop()
	assert.False(t, term.Fired())
}
