package game

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/particlecore/host"
)

// parallelThreshold is the minimum particle count to use parallel physics.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 256

// workChunk represents a range of particles for a worker to step.
type workChunk struct {
	start, end int
	gravity    float64
}

// parallelState holds the physics worker pool. Particles are independent
// during the physics phase, so each worker owns a disjoint slice range.
type parallelState struct {
	batch      []*Particle
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState() *parallelState {
	return &parallelState{
		numWorkers: runtime.GOMAXPROCS(0),
		batch:      make([]*Particle, 0, 1024),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
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

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			stepChunk(p.batch[chunk.start:chunk.end], chunk.gravity)
			p.doneChan <- struct{}{}
		}
	}
}

func stepChunk(ps []*Particle, gravity float64) {
	for _, p := range ps {
		p.step(gravity)
	}
}

// updatePhysics applies base physics to every live particle, spreading the
// work across the pool once the population is large enough.
func (g *Game) updatePhysics(gravity float64) {
	par := g.parallel
	par.batch = par.batch[:0]
	g.core.Each(func(h host.Particle) {
		if p, ok := h.(*Particle); ok && p.Alive() {
			par.batch = append(par.batch, p)
		}
	})

	n := len(par.batch)
	if n == 0 {
		return
	}
	if n < parallelThreshold || par.numWorkers < 2 {
		stepChunk(par.batch, gravity)
		return
	}

	par.startWorkers()
	chunkSize := (n + par.numWorkers - 1) / par.numWorkers

	chunksDispatched := 0
	for w := 0; w < par.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		par.workChan <- workChunk{start: start, end: end, gravity: gravity}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-par.doneChan
	}
}
