// Package parallel provides the fork-join and bulk-fan-out primitives
// used to drive the recursive parallel BLAS GEMM split (fp/blas) and the
// concurrent fill-in of OnceVec (once). It is adapted from the teacher's
// worker-pool idiom (hwy/contrib/workerpool) but keeps the pool only for
// ForEachIndex's bounded fan-out; Join spawns its own goroutines rather
// than routing through the pool, since a recursive join of a bounded
// queue can deadlock (see Join). ForEachIndex is built over
// golang.org/x/sync/errgroup, which hands the first error a branch
// returns back to the caller; Join uses a plain sync.WaitGroup.
package parallel

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Pool bounds the fan-out width of ForEachIndex via errgroup's
// SetLimit. It has no worker goroutines of its own: Join spawns a
// fresh goroutine per split rather than routing work through a fixed
// pool, since a bounded pool can deadlock a recursive fork-join (see
// Join).
type Pool struct {
	numWorkers int
	closeOnce  sync.Once
	closed     bool
	closedMu   sync.RWMutex
}

// New creates a pool that limits ForEachIndex to the given fan-out
// width; numWorkers <= 0 uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	return &Pool{numWorkers: numWorkers}
}

// Close marks the pool closed, after which Join and ForEachIndex run
// their closures sequentially on the caller's goroutine. Safe to call
// multiple times.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closedMu.Lock()
		p.closed = true
		p.closedMu.Unlock()
	})
}

func (p *Pool) isClosed() bool {
	p.closedMu.RLock()
	defer p.closedMu.RUnlock()
	return p.closed
}

// Join runs a and b, a on the caller's goroutine and b on a freshly
// spawned goroutine, and waits for both — the rayon::join primitive
// spec.md §9 names explicitly as sufficient for the recursive parallel
// GEMM split, with the same explicit warning: do not serialize through
// a message queue. A recursive fork-join through a bounded worker pool
// deadlocks once every pool worker is itself blocked in a Join waiting
// on a sibling task still sitting in the queue, since nothing is left
// to drain it; spawning a bare goroutine per split has no such bound.
// The two closures must operate on disjoint state; Join performs no
// synchronization beyond the join itself.
func (p *Pool) Join(a, b func()) {
	if p.isClosed() {
		a()
		b()
		return
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		b()
	}()
	a()
	wg.Wait()
}

// ForEachIndex runs fn(i) for every i in [0, n), at most numWorkers at
// a time, propagating the first error (if fn returns one) via
// errgroup — used by OnceVec.ParExtend.
func (p *Pool) ForEachIndex(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	if p.isClosed() || n == 1 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}
	var g errgroup.Group
	g.SetLimit(p.numWorkers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error { return fn(i) })
	}
	return g.Wait()
}

// defaultPool is the package-level pool used by callers that don't need
// their own, mirroring rayon's implicit global thread pool.
var defaultPool = New(runtime.GOMAXPROCS(0))

// Default returns the shared package-level pool.
func Default() *Pool { return defaultPool }

// Join runs a and b in parallel on the default pool.
func Join(a, b func()) { defaultPool.Join(a, b) }

// ForEachIndex runs fn over [0, n) in parallel on the default pool,
// panicking on the first error since spec.md's error taxonomy treats
// worker-thread failures as fatal to the affected task (§5, §7).
func ForEachIndex(n int, fn func(i int)) {
	err := defaultPool.ForEachIndex(n, func(i int) error {
		fn(i)
		return nil
	})
	if err != nil {
		panic(err)
	}
}
