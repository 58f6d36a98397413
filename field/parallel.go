package field

import (
	"runtime"
	"sync"
)

// workChunk represents a range of particles for a worker to process.
type workChunk struct {
	start, end int
}

// workerPool runs Step across persistent goroutines in contiguous chunks.
type workerPool struct {
	numWorkers int
	threshold  int
	field      *Field

	workChan chan workChunk // sends work to workers
	doneChan chan int       // workers report flips per chunk
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool
}

// EnableParallel splits Step across workers once the population reaches
// threshold. workers <= 0 uses GOMAXPROCS. Results are identical to the
// serial path because particles do not interact.
func (f *Field) EnableParallel(workers, threshold int) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if threshold < 1 {
		threshold = 1
	}
	f.Close()
	f.pool = &workerPool{
		numWorkers: workers,
		threshold:  threshold,
		field:      f,
	}
}

// Close stops any worker goroutines. The field keeps working serially.
func (f *Field) Close() {
	if f.pool != nil {
		f.pool.stop()
		f.pool = nil
	}
}

// start launches persistent worker goroutines.
func (p *workerPool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan int, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *workerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.doneChan <- p.field.stepRange(chunk.start, chunk.end)
		}
	}
}

// run dispatches one Step and blocks until every chunk is done.
func (p *workerPool) run(f *Field) int {
	if !p.running {
		p.start()
	}

	chunkSize := (f.n + p.numWorkers - 1) / p.numWorkers

	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, f.n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end}
		dispatched++
	}

	flips := 0
	for i := 0; i < dispatched; i++ {
		flips += <-p.doneChan
	}
	return flips
}
