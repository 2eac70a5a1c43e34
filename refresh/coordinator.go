// Package refresh coordinates single-flight access token refresh.
//
// The first caller to observe an expired access token becomes the driver and
// performs the refresh call. Callers arriving while it is in flight queue up
// in FIFO order and are settled together: every waiter receives the new access
// token on success, or ErrRefreshFailed after the failure hook (logout) ran
// once.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-admin-session/apimodel"
	"github.com/jrsteele09/go-admin-session/credentials"
)

const (
	DefaultWaitTimeout    = 30 * time.Second
	DefaultRefreshTimeout = 10 * time.Second
)

var (
	ErrNoRefreshToken = errors.New("no refresh token stored")
	ErrWaitTimeout    = errors.New("timed out waiting for token refresh")
	ErrEmptyTokenPair = errors.New("refresh returned an empty access token")
	ErrSessionEnded   = errors.New("session ended while the refresh was in flight")
)

// Func exchanges a refresh token for a new token pair.
type Func func(ctx context.Context, refreshToken string) (apimodel.TokenPair, error)

// FailureFunc runs when a refresh fails or a waiter gives up. It must be idempotent.
type FailureFunc func(err error)

// TokenStore is the part of the credential store the coordinator reads and writes.
type TokenStore interface {
	Get(kind credentials.Kind) (string, bool)
	SetIf(expectedRefresh, accessToken, refreshToken string) bool
}

type result struct {
	token string
	err   error
}

// pending is a queued caller. ch has capacity 1 and receives exactly one result.
type pending struct {
	ch chan result
}

type Stats struct {
	Refreshes  int // refresh attempts driven
	Failures   int // attempts that failed
	Queued     int // waiters currently queued
	Refreshing bool
}

type Coordinator struct {
	store          TokenStore
	refresh        Func
	onFailure      FailureFunc
	waitTimeout    time.Duration
	refreshTimeout time.Duration
	logger         zerolog.Logger

	mu         sync.Mutex
	refreshing bool
	queue      []*pending
	refreshes  int
	failures   int
}

type Option func(*Coordinator)

func WithWaitTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.waitTimeout = d
		}
	}
}

func WithRefreshTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.refreshTimeout = d
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// OnFailure sets the hook run on refresh failure, typically a forced logout.
func OnFailure(fn FailureFunc) Option {
	return func(c *Coordinator) {
		c.onFailure = fn
	}
}

func NewCoordinator(store TokenStore, fn Func, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:          store,
		refresh:        fn,
		onFailure:      func(error) {},
		waitTimeout:    DefaultWaitTimeout,
		refreshTimeout: DefaultRefreshTimeout,
		logger:         log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh returns a fresh access token, driving the refresh call or joining the one in flight.
// Every failure matches apimodel.ErrRefreshFailed, except a waiter whose ctx
// ended, which gets the context error.
func (c *Coordinator) Refresh(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.refreshing {
		p := &pending{ch: make(chan result, 1)}
		c.queue = append(c.queue, p)
		queued := len(c.queue)
		c.mu.Unlock()

		c.logger.Debug().Int("position", queued).Msg("Waiting for token refresh in flight")
		return c.wait(ctx, p)
	}
	c.refreshing = true
	c.refreshes++
	c.mu.Unlock()

	return c.drive(ctx)
}

func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Refreshes:  c.refreshes,
		Failures:   c.failures,
		Queued:     len(c.queue),
		Refreshing: c.refreshing,
	}
}

func (c *Coordinator) drive(ctx context.Context) (string, error) {
	pair, used, err := c.exchange(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", apimodel.ErrRefreshFailed, err)
		c.logger.Warn().Err(err).Msg("Token refresh failed")

		// The hook runs while the flag is still set, so requests arriving during
		// teardown queue up and are rejected with the rest.
		c.onFailure(err)
		c.settle(result{err: err}, true)
		return "", err
	}

	// A logout or a new login during the call owns the store now. The new pair
	// is dropped and the hook is not run again, so neither is undone.
	if !c.store.SetIf(used, pair.AccessToken, pair.RefreshToken) {
		err := fmt.Errorf("%w: %w", apimodel.ErrRefreshFailed, ErrSessionEnded)
		c.logger.Info().Msg("Session ended during token refresh, discarding new tokens")
		c.settle(result{err: err}, true)
		return "", err
	}

	n := c.settle(result{token: pair.AccessToken}, false)
	c.logger.Debug().Int("replayed", n).Msg("Token refreshed")
	return pair.AccessToken, nil
}

// exchange calls the refresh endpoint and also returns the refresh token it spent.
func (c *Coordinator) exchange(ctx context.Context) (apimodel.TokenPair, string, error) {
	refreshToken, ok := c.store.Get(credentials.RefreshToken)
	if !ok {
		return apimodel.TokenPair{}, "", ErrNoRefreshToken
	}

	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
	defer cancel()

	pair, err := c.refresh(rctx, refreshToken)
	if err != nil {
		return apimodel.TokenPair{}, "", err
	}
	if pair.AccessToken == "" {
		return apimodel.TokenPair{}, "", ErrEmptyTokenPair
	}
	return pair, refreshToken, nil
}

// settle clears the flag and drains the queue in one critical section.
func (c *Coordinator) settle(res result, failed bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	queue := c.queue
	c.queue = nil
	c.refreshing = false
	if failed {
		c.failures++
	}
	for _, p := range queue {
		p.ch <- res
	}
	return len(queue)
}

func (c *Coordinator) wait(ctx context.Context, p *pending) (string, error) {
	timer := time.NewTimer(c.waitTimeout)
	defer timer.Stop()

	var cause error
	select {
	case res := <-p.ch:
		return res.token, res.err
	case <-timer.C:
		cause = ErrWaitTimeout
	case <-ctx.Done():
		cause = ctx.Err()
	}

	if !c.remove(p) {
		// Settled between the select and the lock; take that result.
		res := <-p.ch
		return res.token, res.err
	}

	if !errors.Is(cause, ErrWaitTimeout) {
		return "", cause
	}

	err := fmt.Errorf("%w: %w", apimodel.ErrRefreshFailed, cause)
	c.logger.Warn().Dur("waited", c.waitTimeout).Msg("Gave up waiting for token refresh")
	c.onFailure(err)
	return "", err
}

func (c *Coordinator) remove(p *pending) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.Index(c.queue, p)
	if i < 0 {
		return false
	}
	c.queue = slices.Delete(c.queue, i, i+1)
	return true
}
