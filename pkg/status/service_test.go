package status

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coralstor/console/pkg/logger"
	"github.com/coralstor/console/pkg/models"
)

// fakeClock hands the poll loop a tick channel the test controls.
type fakeClock struct {
	ticks chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{ticks: make(chan time.Time)}
}

func (*fakeClock) Now() time.Time { return time.Now() }

func (f *fakeClock) After(_ time.Duration) <-chan time.Time { return f.ticks }

type fetchResult struct {
	status *models.ClusterStatus
	err    error
}

// scriptedService runs a service whose fetches block until the test supplies
// an outcome.
func scriptedService(t *testing.T, opts ...Option) (*Service, chan fetchResult, *fakeClock) {
	t.Helper()

	results := make(chan fetchResult)
	clock := newFakeClock()

	fetch := func(ctx context.Context) (*models.ClusterStatus, error) {
		select {
		case r := <-results:
			return r.status, r.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	opts = append([]Option{WithClock(clock), WithLogger(logger.NewTestLogger())}, opts...)
	svc := New(fetch, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = svc.Start(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
		_ = svc.Stop(context.Background())
	})

	return svc, results, clock
}

func healthyStatus(msg string) *models.ClusterStatus {
	return &models.ClusterStatus{Health: models.ServiceStatus{Code: models.StatusOK, Message: msg}}
}

func recv(t *testing.T, ch <-chan *models.ClusterStatus) *models.ClusterStatus {
	t.Helper()

	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for published status")
		return nil
	}
}

func assertEmpty(t *testing.T, ch <-chan *models.ClusterStatus) {
	t.Helper()

	select {
	case v := <-ch:
		t.Fatalf("unexpected value on subscriber channel: %+v", v)
	default:
	}
}

func TestPublishReachesAllSubscribersExactlyOnce(t *testing.T) {
	svc, results, _ := scriptedService(t)

	sub1, _ := svc.Subscribe()
	sub2, _ := svc.Subscribe()

	first := healthyStatus("all good")
	results <- fetchResult{status: first}

	assert.Same(t, first, recv(t, sub1))
	assert.Same(t, first, recv(t, sub2))

	// Exactly once: nothing further until the next successful fetch.
	assertEmpty(t, sub1)
	assertEmpty(t, sub2)
}

func TestLateSubscriberReceivesLatestImmediately(t *testing.T) {
	svc, results, _ := scriptedService(t)

	first := healthyStatus("all good")
	results <- fetchResult{status: first}

	require.Eventually(t, func() bool { return svc.Latest() != nil }, 5*time.Second, time.Millisecond)

	late, _ := svc.Subscribe()
	assert.Same(t, first, recv(t, late))
}

func TestFailedFetchPublishesNothing(t *testing.T) {
	svc, results, clock := scriptedService(t)

	sub, _ := svc.Subscribe()

	first := healthyStatus("all good")
	results <- fetchResult{status: first}
	assert.Same(t, first, recv(t, sub))

	clock.ticks <- time.Time{}
	results <- fetchResult{err: errors.New("connection refused")}

	require.Eventually(t, svc.Degraded, 5*time.Second, time.Millisecond)
	assertEmpty(t, sub)
	assert.Same(t, first, svc.Latest(), "last good value stays latest")

	// Recovery resets the failure count and publishes again.
	second := healthyStatus("recovered")
	clock.ticks <- time.Time{}
	results <- fetchResult{status: second}

	assert.Same(t, second, recv(t, sub))
	require.Eventually(t, func() bool { return !svc.Degraded() }, 5*time.Second, time.Millisecond)
	assert.Equal(t, 0, svc.Failures())
}

func TestSlowSubscriberIsConflatedToNewest(t *testing.T) {
	svc, results, clock := scriptedService(t)

	sub, _ := svc.Subscribe()

	first := healthyStatus("one")
	results <- fetchResult{status: first}

	require.Eventually(t, func() bool { return svc.Latest() == first }, 5*time.Second, time.Millisecond)

	second := healthyStatus("two")
	clock.ticks <- time.Time{}
	results <- fetchResult{status: second}

	require.Eventually(t, func() bool { return svc.Latest() == second }, 5*time.Second, time.Millisecond)

	// The subscriber never read "one"; it must now see only "two".
	assert.Same(t, second, recv(t, sub))
	assertEmpty(t, sub)
}

func TestSkipWhileGatesFetch(t *testing.T) {
	var gated atomic.Bool

	gated.Store(true)

	var calls atomic.Int32

	clock := newFakeClock()

	fetch := func(_ context.Context) (*models.ClusterStatus, error) {
		calls.Add(1)
		return healthyStatus("ok"), nil
	}

	svc := New(fetch,
		WithClock(clock),
		WithLogger(logger.NewTestLogger()),
		WithSkipWhile(func() bool { return gated.Load() }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = svc.Start(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
		_ = svc.Stop(context.Background())
	})

	// First cycle is gated: the loop reaches its wait without fetching.
	clock.ticks <- time.Time{}
	assert.Equal(t, int32(0), calls.Load())

	gated.Store(false)
	clock.ticks <- time.Time{}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 5*time.Second, time.Millisecond)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	svc, results, _ := scriptedService(t)

	sub, unsubscribe := svc.Subscribe()
	unsubscribe()
	unsubscribe() // idempotent

	_, open := <-sub
	assert.False(t, open)

	// Publishing after unsubscribe must not panic.
	results <- fetchResult{status: healthyStatus("ok")}
	require.Eventually(t, func() bool { return svc.Latest() != nil }, 5*time.Second, time.Millisecond)
}

func TestStopClosesSubscribers(t *testing.T) {
	results := make(chan fetchResult, 1)
	clock := newFakeClock()

	fetch := func(_ context.Context) (*models.ClusterStatus, error) {
		r := <-results
		return r.status, r.err
	}

	svc := New(fetch, WithClock(clock), WithLogger(logger.NewTestLogger()))

	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = svc.Start(context.Background())
	}()

	sub, _ := svc.Subscribe()

	results <- fetchResult{status: healthyStatus("ok")}
	recv(t, sub)

	require.NoError(t, svc.Stop(context.Background()))
	<-done

	_, open := <-sub
	assert.False(t, open)
}
