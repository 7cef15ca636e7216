package runners

import (
	"context"
	"sync"

	"github.com/Ahmed-Sermani/pagerank/pipeline"
)

type fixedWorkerPool[T any] struct {
	runners []pipeline.StageRunner[T]
}

// FixedWorkerPool returns a StageRunner that starts a pool of numWorkers FIFO
// runners sharing the same input and output channels, so payloads are
// processed in parallel and may leave the stage out of order.
func FixedWorkerPool[T any](proc pipeline.Processor[T], numWorkers int) pipeline.StageRunner[T] {
	if numWorkers <= 0 {
		panic("FixedWorkerPool: number of workers should be greater than 0")
	}
	runners := make([]pipeline.StageRunner[T], numWorkers)
	for i := range runners {
		runners[i] = FIFO(proc)
	}
	return &fixedWorkerPool[T]{runners: runners}
}

func (p *fixedWorkerPool[T]) Run(ctx context.Context, params pipeline.StageParams[T]) {
	var wg sync.WaitGroup
	wg.Add(len(p.runners))
	for i := range p.runners {
		go func(runnerIdx int) {
			defer wg.Done()
			p.runners[runnerIdx].Run(ctx, params)
		}(i)
	}
	wg.Wait()
}
