// Package scheduler drives transfers through their lifecycle on a timer.
// Each transfer gets its own delayed advance chain: wait the configured
// delay for the upcoming transition, apply it through the service, repeat
// until a terminal status. Chains for different transfers run independently;
// advances for a single transfer are strictly sequential.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avelines/remit/internal/transfer"
)

// Advancer applies one lifecycle step. Satisfied by *transfer.Service.
type Advancer interface {
	Advance(ctx context.Context, id uuid.UUID) (*transfer.Transfer, error)
}

// Delay configures the wait before one specific transition is applied.
type Delay struct {
	From transfer.Status
	To   transfer.Status
	Wait time.Duration
}

// Options configures a Runner.
type Options struct {
	// Steps overrides the wait per transition; transitions not listed use
	// DefaultWait.
	Steps       []Delay
	DefaultWait time.Duration

	// Jitter, in [0, 1), randomizes each wait by ±Jitter fraction to mimic
	// uneven processing latency. Zero keeps waits deterministic.
	Jitter float64

	// OnTerminal fires after a transfer reaches FUNDS_ARRIVED. It is not
	// called for rejected transfers.
	OnTerminal func(t *transfer.Transfer)

	Logger *slog.Logger
}

// Runner owns the pending timer chains. It holds no transfer state; every
// step re-reads through the Advancer and the store keeps the canonical copy.
type Runner struct {
	svc  Advancer
	opts Options

	waits map[[2]transfer.Status]time.Duration

	mu     sync.Mutex
	chains map[uuid.UUID]context.CancelFunc
	wg     sync.WaitGroup
}

func New(svc Advancer, opts Options) *Runner {
	if opts.DefaultWait <= 0 {
		opts.DefaultWait = time.Second
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	waits := make(map[[2]transfer.Status]time.Duration, len(opts.Steps))
	for _, d := range opts.Steps {
		waits[[2]transfer.Status{d.From, d.To}] = d.Wait
	}

	return &Runner{
		svc:    svc,
		opts:   opts,
		waits:  waits,
		chains: make(map[uuid.UUID]context.CancelFunc),
	}
}

// Start launches the advance chain for t. A chain already running for the
// same transfer is left alone, preserving strictly sequential advances.
// Starting a terminal transfer is a no-op.
func (r *Runner) Start(ctx context.Context, t *transfer.Transfer) {
	if t.Status.Terminal() {
		return
	}

	r.mu.Lock()

	if _, running := r.chains[t.ID]; running {
		r.mu.Unlock()
		return
	}

	chainCtx, cancel := context.WithCancel(ctx)
	r.chains[t.ID] = cancel

	r.wg.Add(1)
	r.mu.Unlock()

	go r.run(chainCtx, t)
}

// Stop cancels the pending chain for one transfer. Any timer not yet fired
// is cleared and no further advances happen for it.
func (r *Runner) Stop(id uuid.UUID) {
	r.mu.Lock()
	cancel, ok := r.chains[id]
	r.mu.Unlock()

	if ok {
		cancel()
	}
}

// Shutdown cancels every pending chain and waits for the chain goroutines
// to drain.
func (r *Runner) Shutdown() {
	r.mu.Lock()
	for _, cancel := range r.chains {
		cancel()
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Runner) run(ctx context.Context, t *transfer.Transfer) {
	defer r.wg.Done()
	defer r.finish(t.ID)

	log := r.opts.Logger.With("transfer_id", t.ID)

	cur := t
	for !cur.Status.Terminal() {
		next, err := transfer.Next(cur.Status, cur.RequiresAuth)
		if err != nil {
			log.Error("advance chain aborted", "status", cur.Status, "error", err)
			return
		}

		timer := time.NewTimer(r.wait(cur.Status, next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		updated, err := r.svc.Advance(ctx, cur.ID)

		switch {
		case errors.Is(err, transfer.ErrClearanceHeld):
			// Parked for manual review; the reviewer action restarts the
			// chain via Start.
			log.Info("transfer held for clearance review")
			return
		case errors.Is(err, transfer.ErrAlreadyTerminal):
			cur = updated
		case err != nil:
			log.Error("advance failed", "status", cur.Status, "error", err)
			return
		default:
			cur = updated
		}
	}

	if cur.Status == transfer.StatusFundsArrived && r.opts.OnTerminal != nil {
		r.opts.OnTerminal(cur)
	}
}

func (r *Runner) finish(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cancel, ok := r.chains[id]; ok {
		cancel()
		delete(r.chains, id)
	}
}

func (r *Runner) wait(from, to transfer.Status) time.Duration {
	d, ok := r.waits[[2]transfer.Status{from, to}]
	if !ok {
		d = r.opts.DefaultWait
	}

	if r.opts.Jitter > 0 {
		spread := 1 + (rand.Float64()*2-1)*r.opts.Jitter
		d = time.Duration(float64(d) * spread)
	}

	return d
}
