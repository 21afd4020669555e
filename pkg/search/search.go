// Package search runs the parallel vanity address search: a pool of
// worker goroutines generating candidate identities and testing their
// destination hashes against a compiled pattern.
package search

import (
	"context"
	"encoding/hex"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/defidude/revanity/pkg/identity"
	"github.com/defidude/revanity/pkg/matcher"
)

const (
	// DefaultBatchSize is how many candidates a worker tests between
	// stop-signal checks and counter flushes. Larger batches keep the
	// shared counter off the hot path at the cost of up to one batch of
	// wasted work per worker after a match is found.
	DefaultBatchSize = 500

	// DefaultProgressInterval is the poll cadence used by Run.
	DefaultProgressInterval = 500 * time.Millisecond

	// stopGracePeriod bounds how long Stop waits for workers to observe
	// the stop signal. A worker mid-batch past the deadline is abandoned;
	// it exits on its own at the next batch boundary.
	stopGracePeriod = 2 * time.Second
)

// ErrAlreadyRunning is returned by Start when the orchestrator is
// already running.
var ErrAlreadyRunning = errors.New("search is already running")

// State is the orchestrator lifecycle state.
type State int32

const (
	Idle State = iota
	Running
	Stopping
	Stopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Config holds the search configuration. The zero value of optional
// fields selects defaults.
type Config struct {
	Pattern       string
	Mode          matcher.Mode
	CaseSensitive bool   // regex mode only
	Destination   string // default "lxmf.delivery"
	Workers       int    // 0 = max(1, NumCPU-1)
	BatchSize     int    // 0 = DefaultBatchSize
}

// Result is one accepted match together with run statistics at the time
// it was collected.
type Result struct {
	Identity        *identity.Identity
	IdentityHashHex string
	DestHashHex     string
	Destination     string
	Elapsed         time.Duration
	TotalChecked    uint64
	Rate            float64
}

// Stats is a point-in-time progress snapshot.
type Stats struct {
	TotalChecked uint64
	Elapsed      time.Duration
	Rate         float64
	Running      bool
	ResultsFound int
}

// hit is what a worker pushes on a match; timing and totals are filled
// in by the orchestrator when the hit is drained.
type hit struct {
	id          *identity.Identity
	destHashHex string
}

// Orchestrator coordinates the worker pool. All methods are safe for
// concurrent use.
type Orchestrator struct {
	spec        matcher.Spec
	nameHash    [identity.NameHashSize]byte
	destination string
	workers     int
	batchSize   int

	state atomic.Int32

	mu          sync.Mutex // guards the per-run fields below
	attempts    *atomic.Uint64
	startTime   time.Time
	results     []Result
	done        chan struct{}
	stopOnce    *sync.Once
	hits        chan hit
	workersDone chan struct{}
}

// New validates the configuration and returns an idle orchestrator.
// Pattern and destination problems surface here as *matcher.ValidationError,
// before any worker exists.
func New(cfg Config) (*Orchestrator, error) {
	spec, err := matcher.Spec{
		Mode:          cfg.Mode,
		Pattern:       cfg.Pattern,
		CaseSensitive: cfg.CaseSensitive,
	}.Normalize()
	if err != nil {
		return nil, err
	}

	dest := cfg.Destination
	if dest == "" {
		dest = identity.LXMFDelivery
	}
	nameHash, err := identity.ResolveNameHash(dest)
	if err != nil {
		return nil, &matcher.ValidationError{Reason: err.Error()}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU() - 1
		if workers < 1 {
			workers = 1
		}
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}

	return &Orchestrator{
		spec:        spec,
		nameHash:    nameHash,
		destination: dest,
		workers:     workers,
		batchSize:   batch,
	}, nil
}

// Spec returns the normalized pattern specification.
func (o *Orchestrator) Spec() matcher.Spec { return o.spec }

// Destination returns the resolved destination name.
func (o *Orchestrator) Destination() string { return o.destination }

// Workers returns the worker count the pool will use.
func (o *Orchestrator) Workers() int { return o.workers }

// Difficulty returns the cost estimate for the configured pattern.
func (o *Orchestrator) Difficulty() matcher.Difficulty {
	return matcher.Estimate(o.spec)
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// Start spawns the worker pool. It returns ErrAlreadyRunning if the
// orchestrator is already running. A stopped orchestrator may be
// started again; counters and results reset.
func (o *Orchestrator) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if s := State(o.state.Load()); s == Running || s == Stopping {
		return ErrAlreadyRunning
	}

	// The counter is per-run so a straggler from a previous run that is
	// still flushing cannot pollute a restarted search.
	o.attempts = new(atomic.Uint64)
	o.results = nil
	o.startTime = time.Now()
	o.done = make(chan struct{})
	o.stopOnce = new(sync.Once)
	// Each worker pushes at most one hit, so capacity workers guarantees
	// sends never block even if more than one worker matches before
	// observing the stop signal.
	o.hits = make(chan hit, o.workers)
	o.workersDone = make(chan struct{})
	o.state.Store(int32(Running))

	var wg sync.WaitGroup
	wg.Add(o.workers)
	for i := 0; i < o.workers; i++ {
		go o.worker(&wg, o.done, o.stopOnce, o.hits, o.attempts)
	}
	go func(all chan<- struct{}) {
		wg.Wait()
		close(all)
	}(o.workersDone)

	return nil
}

// worker generates and tests candidates until it finds a match, the stop
// signal is raised, or the entropy source fails. The stop signal is only
// checked once per batch; the local attempt count is flushed to the
// shared counter at batch boundaries and on every exit path.
func (o *Orchestrator) worker(wg *sync.WaitGroup, done chan struct{}, once *sync.Once, hits chan<- hit, attempts *atomic.Uint64) {
	defer wg.Done()

	compiled, err := o.spec.Compile()
	if err != nil {
		return // unreachable: the spec was validated in New
	}

	var local uint64
	var hexBuf [identity.HexAddressLen]byte

	for {
		select {
		case <-done:
			attempts.Add(local)
			return
		default:
		}

		for i := 0; i < o.batchSize; i++ {
			id, genErr := identity.Generate()
			if genErr != nil {
				// Entropy failure: abort this worker rather than
				// degrade randomness quality.
				attempts.Add(local)
				return
			}
			local++

			idHash := id.Hash()
			destHash := identity.DestinationHash(o.nameHash, idHash)
			identity.HexEncode(hexBuf[:], destHash[:])

			if compiled.Match(hexBuf[:]) {
				attempts.Add(local)
				hits <- hit{id: id, destHashHex: string(hexBuf[:])}
				once.Do(func() { close(done) })
				return
			}
		}

		attempts.Add(local)
		local = 0
	}
}

// Poll drains any available results and returns a progress snapshot.
// It never blocks. Once the stop signal is set and every worker has
// exited, the orchestrator transitions to Stopped.
func (o *Orchestrator) Poll() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()

	if State(o.state.Load()) == Idle {
		return Stats{}
	}

	o.drainLocked()

	if State(o.state.Load()) == Running {
		select {
		case <-o.done:
			select {
			case <-o.workersDone:
				o.state.Store(int32(Stopped))
			default:
			}
		default:
		}
	}

	return o.statsLocked()
}

// Stop raises the stop signal, waits up to the grace period for workers
// to exit, performs a final drain and returns every result collected
// over the run. It is idempotent; repeated calls return the same slice
// contents.
func (o *Orchestrator) Stop() []Result {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch State(o.state.Load()) {
	case Idle:
		return nil
	case Stopped:
		return append([]Result(nil), o.results...)
	}

	o.state.Store(int32(Stopping))
	o.stopOnce.Do(func() { close(o.done) })

	select {
	case <-o.workersDone:
	case <-time.After(stopGracePeriod):
		// Stragglers are abandoned; they flush and exit at their next
		// batch boundary without anything left to receive from them.
	}

	o.drainLocked()
	o.state.Store(int32(Stopped))
	return append([]Result(nil), o.results...)
}

// Results returns a copy of the results collected so far.
func (o *Orchestrator) Results() []Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Result(nil), o.results...)
}

// Run is a blocking convenience: Start, Poll on a fixed interval with an
// optional progress callback, then Stop. Context cancellation (for the
// CLI that means SIGINT via signal.NotifyContext) stops the search
// cleanly and returns whatever was collected.
func (o *Orchestrator) Run(ctx context.Context, interval time.Duration, onProgress func(Stats)) ([]Result, error) {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	if err := o.Start(); err != nil {
		return nil, err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return o.Stop(), nil
		case <-ticker.C:
			stats := o.Poll()
			if onProgress != nil {
				onProgress(stats)
			}
			if !stats.Running {
				return o.Stop(), nil
			}
		}
	}
}

// drainLocked moves every currently-available hit into results, stamping
// each with run statistics at drain time. Callers hold o.mu.
func (o *Orchestrator) drainLocked() {
	for {
		select {
		case h := <-o.hits:
			elapsed := time.Since(o.startTime)
			total := o.attempts.Load()
			var rate float64
			if secs := elapsed.Seconds(); secs > 0 {
				rate = float64(total) / secs
			}
			idHash := h.id.Hash()
			o.results = append(o.results, Result{
				Identity:        h.id,
				IdentityHashHex: hex.EncodeToString(idHash[:]),
				DestHashHex:     h.destHashHex,
				Destination:     o.destination,
				Elapsed:         elapsed,
				TotalChecked:    total,
				Rate:            rate,
			})
		default:
			return
		}
	}
}

// statsLocked builds a snapshot from the shared counter. Callers hold o.mu.
func (o *Orchestrator) statsLocked() Stats {
	elapsed := time.Since(o.startTime)
	total := o.attempts.Load()
	var rate float64
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(total) / secs
	}
	return Stats{
		TotalChecked: total,
		Elapsed:      elapsed,
		Rate:         rate,
		Running:      State(o.state.Load()) == Running,
		ResultsFound: len(o.results),
	}
}
