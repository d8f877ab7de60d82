package sim

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/plife/particle"
	"github.com/pthm-cable/plife/systems"
)

// parallelThreshold is the minimum particle count to use the worker pool.
// Below this, single-threaded is faster than the dispatch overhead.
const parallelThreshold = 64

// snapshot captures one particle's pre-tick state for the force phase.
type snapshot struct {
	ID         uint32
	Type       particle.Type
	PosX, PosY float32
	VelX, VelY float32
}

// intent captures one particle's post-tick state, applied after the
// read-only window closes.
type intent struct {
	PosX, PosY float32
	VelX, VelY float32
}

// workerScratch holds per-worker reusable buffers.
type workerScratch struct {
	neighbors []systems.Entry
}

// workChunk is a snapshot index range for one worker.
type workChunk struct {
	start, end int
}

// parallelState holds the persistent worker pool and the per-tick
// snapshot/intent buffers.
type parallelState struct {
	snapshots []snapshot
	entries   []systems.Entry
	intents   []intent

	scratches  []workerScratch
	numWorkers int

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newParallelState() *parallelState {
	numWorkers := runtime.GOMAXPROCS(0)
	scratches := make([]workerScratch, numWorkers)
	for i := range scratches {
		scratches[i].neighbors = make([]systems.Entry, 0, 64)
	}
	return &parallelState{
		numWorkers: numWorkers,
		scratches:  scratches,
		snapshots:  make([]snapshot, 0, 1024),
		entries:    make([]systems.Entry, 0, 1024),
		intents:    make([]intent, 0, 1024),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(e *Engine) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(e, i)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker processes chunks until stopped. Workers only read the frozen
// snapshot, the grid and the table, and write disjoint intent ranges.
func (p *parallelState) worker(e *Engine, workerID int) {
	defer p.wg.Done()
	scratch := &p.scratches[workerID]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			e.computeChunk(chunk.start, chunk.end, scratch)
			p.doneChan <- struct{}{}
		}
	}
}

// computeParallel dispatches the snapshot range to the worker pool and
// waits for completion.
func (e *Engine) computeParallel(n int) {
	if !e.parallel.running {
		e.parallel.startWorkers(e)
	}

	numWorkers := e.parallel.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	chunksDispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		e.parallel.workChan <- workChunk{start: start, end: end}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-e.parallel.doneChan
	}
}
