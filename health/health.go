// Package health periodically probes the subscriber store.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/quantonganh/leadmagnet"
)

// DefaultSpec runs the probe once a minute
const DefaultSpec = "@every 1m"

// Status is the outcome of the latest probe
type Status struct {
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Checker pings a database on a cron schedule and remembers the last result
type Checker struct {
	ctx     context.Context
	db      leadmagnet.Database
	timeout time.Duration
	logger  zerolog.Logger
	cron    *cron.Cron

	mu     sync.RWMutex
	status Status
}

// NewChecker returns a checker for db. Probes are bounded by timeout.
func NewChecker(db leadmagnet.Database, timeout time.Duration, logger zerolog.Logger) *Checker {
	if timeout <= 0 {
		timeout = leadmagnet.DefaultTimeout
	}
	return &Checker{
		ctx:     context.Background(),
		db:      db,
		timeout: timeout,
		logger:  logger,
		cron:    cron.New(),
	}
}

// Start runs a first probe and schedules the next ones.
// Probes in flight are canceled with ctx.
func (c *Checker) Start(ctx context.Context, spec string) error {
	c.ctx = ctx
	if spec == "" {
		spec = DefaultSpec
	}
	if _, err := c.cron.AddFunc(spec, c.Check); err != nil {
		return err
	}

	c.Check()
	c.cron.Start()

	return nil
}

// Stop stops the schedule and waits for a running probe
func (c *Checker) Stop() {
	<-c.cron.Stop().Done()
}

// Check probes the database once. A database that cannot be pinged is
// reopened, so a store that was down at startup comes back on its own.
func (c *Checker) Check() {
	ctx, cancel := context.WithTimeout(c.ctx, c.timeout)
	defer cancel()

	c.mu.RLock()
	prev := c.status
	c.mu.RUnlock()

	status := Status{OK: true, CheckedAt: time.Now()}
	if err := c.probe(ctx); err != nil {
		status.OK = false
		status.Error = err.Error()

		if prev.OK || prev.CheckedAt.IsZero() {
			c.logger.Error().Err(err).Msg("Subscriber store is unreachable")
			sentry.CaptureException(err)
		}
	} else if !prev.OK && !prev.CheckedAt.IsZero() {
		c.logger.Info().Msg("Subscriber store is reachable again")
	}

	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
}

func (c *Checker) probe(ctx context.Context) error {
	err := c.db.Ping(ctx)
	if err == nil || ctx.Err() != nil {
		return err
	}

	if openErr := c.db.Open(); openErr != nil {
		return openErr
	}
	return c.db.Ping(ctx)
}

// Status returns the latest probe result
func (c *Checker) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}
