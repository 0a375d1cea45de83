/*
 * Copyright 2025 CoralStor, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package status polls the cluster status endpoint and fans the latest value
// out to subscribers.
package status

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/coralstor/console/pkg/logger"
	"github.com/coralstor/console/pkg/models"
)

const (
	defaultInterval = 5 * time.Second
	maxFailureDelay = 60 * time.Second
)

// Fetcher fetches the current cluster status.
type Fetcher func(ctx context.Context) (*models.ClusterStatus, error)

// Service republishes the latest cluster status to any number of subscribers.
//
// The loop has two states: waiting out the delay, and awaiting a fetch result.
// At most one fetch is in flight; the next one never starts before the delay
// after the previous result. Fetch failures are invisible to subscribers, who
// keep seeing the last good value; the service tracks consecutive failures so
// the UI can surface staleness, and backs the retry delay off exponentially
// (capped, reset on success) instead of holding the fixed cadence against a
// dead backend.
type Service struct {
	fetch     Fetcher
	interval  time.Duration
	skipWhile func() bool
	clock     Clock
	logger    logger.Logger

	mu       sync.Mutex
	subs     map[int]chan *models.ClusterStatus
	nextSub  int
	latest   *models.ClusterStatus
	failures int

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Option adjusts Service construction.
type Option func(*Service)

// WithInterval overrides the poll delay after a successful fetch.
func WithInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithSkipWhile suppresses fetching while the predicate returns true. The
// console uses it to avoid authenticated calls while the login view is active.
func WithSkipWhile(predicate func() bool) Option {
	return func(s *Service) { s.skipWhile = predicate }
}

// WithClock replaces the wall clock, for tests.
func WithClock(clock Clock) Option {
	return func(s *Service) { s.clock = clock }
}

// WithLogger attaches a logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) { s.logger = log }
}

// New creates the status service. Call Start to begin polling.
func New(fetch Fetcher, opts ...Option) *Service {
	s := &Service{
		fetch:    fetch,
		interval: defaultInterval,
		clock:    realClock{},
		logger:   logger.NewLogger(),
		subs:     make(map[int]chan *models.ClusterStatus),
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start runs the poll loop until ctx is cancelled or Stop is called.
func (s *Service) Start(ctx context.Context) error {
	s.wg.Add(1)
	defer s.wg.Done()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.interval
	policy.MaxInterval = maxFailureDelay
	policy.MaxElapsedTime = 0
	policy.Reset()

	s.logger.Info().Dur("interval", s.interval).Msg("Starting status polling")

	for {
		delay := s.interval

		if s.skipWhile != nil && s.skipWhile() {
			s.logger.Debug().Msg("Status fetch gated, skipping cycle")
		} else if err := s.poll(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			delay = s.recordFailure(err, policy)
		} else {
			s.recordSuccess(policy)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case <-s.clock.After(delay):
		}
	}
}

// Stop ends the loop and closes all subscriber channels.
func (s *Service) Stop(_ context.Context) error {
	s.stopOnce.Do(func() { close(s.done) })
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}

	return nil
}

// Subscribe registers a subscriber. The channel holds the latest value only; a
// slow subscriber is overwritten with the newest status, never blocked on. A
// late subscriber immediately receives the most recent value. The returned
// func unsubscribes and closes the channel.
func (s *Service) Subscribe() (<-chan *models.ClusterStatus, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++

	ch := make(chan *models.ClusterStatus, 1)
	if s.latest != nil {
		ch <- s.latest
	}

	s.subs[id] = ch

	var once sync.Once

	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}

	return ch, unsubscribe
}

// Latest returns the most recently published status, or nil before the first
// successful fetch.
func (s *Service) Latest() *models.ClusterStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.latest
}

// Degraded reports whether the most recent fetch attempts have been failing,
// i.e. Latest may be stale.
func (s *Service) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.failures > 0
}

// Failures returns the current consecutive-failure count.
func (s *Service) Failures() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.failures
}

func (s *Service) poll(ctx context.Context) error {
	current, err := s.fetch(ctx)
	if err != nil {
		return err
	}

	s.publish(current)

	return nil
}

func (s *Service) publish(current *models.ClusterStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = current

	for _, ch := range s.subs {
		select {
		case ch <- current:
		default:
			// Conflate: drop the unread value, keep the newest. The drain
			// cannot race another writer since publish holds the lock.
			select {
			case <-ch:
			default:
			}
			ch <- current
		}
	}
}

func (s *Service) recordFailure(err error, policy *backoff.ExponentialBackOff) time.Duration {
	s.mu.Lock()
	s.failures++
	count := s.failures
	s.mu.Unlock()

	delay := policy.NextBackOff()

	s.logger.Debug().
		Err(err).
		Int("consecutive_failures", count).
		Dur("next_attempt_in", delay).
		Msg("Status fetch failed, keeping last known value")

	return delay
}

func (s *Service) recordSuccess(policy *backoff.ExponentialBackOff) {
	s.mu.Lock()
	recovered := s.failures > 0
	s.failures = 0
	s.mu.Unlock()

	policy.Reset()

	if recovered {
		s.logger.Info().Msg("Status polling recovered")
	}
}
