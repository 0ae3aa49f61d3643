package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/timelock"
	"github.com/xraph/timelock/escrow"
	"github.com/xraph/timelock/ext"
	"github.com/xraph/timelock/id"
	"github.com/xraph/timelock/job"
	"github.com/xraph/timelock/middleware"
)

// Operation names reported to middleware.
const (
	OpUpdateDelay      = "update_delay"
	OpSubmitJob        = "submit_job"
	OpExecuteJob       = "execute_job"
	OpSubmitJobAuction = "submit_job_auction"
	OpPlaceBid         = "place_bid"
	OpExecuteBid       = "execute_bid"
	OpCancelAuction    = "cancel_auction"
)

// Store is the persistence surface the engine requires. The aggregate
// store interface in the store package satisfies it.
type Store interface {
	job.Store
	escrow.Store
}

// Engine coordinates the full job lifecycle: submission, bidding,
// execution, and cancellation. All mutating operations are serialized;
// at most one runs at a time.
type Engine struct {
	cfg   timelock.Config
	delay time.Duration

	jobs       job.Store
	ledger     *escrow.Ledger
	dispatcher timelock.Dispatcher
	exts       *ext.Registry
	logger     *slog.Logger
	now        func() time.Time
	chain      middleware.Middleware

	mu sync.Mutex
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	store      Store
	dispatcher timelock.Dispatcher
	bank       timelock.Bank
	logger     *slog.Logger
	now        func() time.Time
	extensions []ext.Extension
	middleware []middleware.Middleware
}

// WithStore sets the backing store. Required.
func WithStore(s Store) Option {
	return func(o *options) { o.store = s }
}

// WithDispatcher sets the dispatcher invoked when a job executes. Required.
func WithDispatcher(d timelock.Dispatcher) Option {
	return func(o *options) { o.dispatcher = d }
}

// WithBank sets the bank used for collecting and paying out funds. Required.
func WithBank(b timelock.Bank) Option {
	return func(o *options) { o.bank = b }
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock overrides the engine's time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithExtension registers an extension with the engine's registry.
func WithExtension(e ext.Extension) Option {
	return func(o *options) { o.extensions = append(o.extensions, e) }
}

// WithMiddleware appends middleware applied to every operation, outermost
// first.
func WithMiddleware(mw ...middleware.Middleware) Option {
	return func(o *options) { o.middleware = append(o.middleware, mw...) }
}

// New builds an Engine from the given configuration. The store,
// dispatcher, and bank options are mandatory.
func New(cfg timelock.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{
		logger: slog.Default(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.store == nil {
		return nil, timelock.ErrNoStore
	}
	if o.dispatcher == nil {
		return nil, timelock.ErrNoDispatcher
	}
	if o.bank == nil {
		return nil, timelock.ErrNoBank
	}

	reg := ext.NewRegistry(o.logger)
	for _, e := range o.extensions {
		reg.Register(e)
	}

	return &Engine{
		cfg:        cfg,
		delay:      cfg.InitialDelay,
		jobs:       o.store,
		ledger:     escrow.NewLedger(o.store, o.bank, escrow.WithLogger(o.logger)),
		dispatcher: o.dispatcher,
		exts:       reg,
		logger:     o.logger,
		now:        o.now,
		chain:      middleware.Chain(o.middleware...),
	}, nil
}

// run serializes an operation and threads it through the middleware chain.
func (e *Engine) run(ctx context.Context, op middleware.Op, fn middleware.Handler) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.chain(ctx, op, fn)
}

// Delay returns the currently enforced execution delay.
func (e *Engine) Delay() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.delay
}

// Config returns the engine's immutable configuration.
func (e *Engine) Config() timelock.Config { return e.cfg }

// Extensions returns the engine's extension registry.
func (e *Engine) Extensions() *ext.Registry { return e.exts }

// Record returns the open job record for a fingerprint.
func (e *Engine) Record(ctx context.Context, fp job.Fingerprint) (*job.Record, error) {
	return e.jobs.GetRecord(ctx, fp)
}

// Held returns the escrow balance held against a fingerprint.
func (e *Engine) Held(ctx context.Context, fp job.Fingerprint) (timelock.Amount, error) {
	return e.ledger.Held(ctx, fp)
}

// TotalHeld returns the sum of all escrow balances.
func (e *Engine) TotalHeld(ctx context.Context) (timelock.Amount, error) {
	return e.ledger.Total(ctx)
}

// UpdateDelay changes the execution delay for all subsequent window
// checks, including those of jobs already open. Only the submitter may
// change the delay, and the new value must stay within bounds.
func (e *Engine) UpdateDelay(ctx context.Context, caller id.AccountID, delay time.Duration) error {
	op := middleware.Op{Name: OpUpdateDelay, Caller: caller}
	return e.run(ctx, op, func(ctx context.Context) error {
		if caller != e.cfg.Submitter {
			return fmt.Errorf("%w: only the submitter may update the delay", timelock.ErrUnauthorized)
		}
		if err := timelock.ValidateDelay(delay); err != nil {
			return err
		}

		old := e.delay
		e.delay = delay
		e.logger.Info("delay updated", "old", old, "new", delay)
		e.exts.EmitDelayUpdated(ctx, old, delay)
		return nil
	})
}
