package runners

import (
	"context"

	"github.com/Ahmed-Sermani/pagerank/pipeline"
	"golang.org/x/xerrors"
)

type fifo[T any] struct {
	proc pipeline.Processor[T]
}

// FIFO returns a StageRunner that processes payloads in first-in-first-out
// order. Each input is passed to the specified processor and its output to
// the next stage.
func FIFO[T any](proc pipeline.Processor[T]) pipeline.StageRunner[T] {
	return fifo[T]{proc: proc}
}

func (runner fifo[T]) Run(ctx context.Context, params pipeline.StageParams[T]) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, open := <-params.Input():
			if !open {
				return
			}
			out, keep, err := runner.proc.Process(ctx, payload)
			if err != nil {
				emitError(params.Error(), xerrors.Errorf("pipeline stage %d: %w", params.StageIndex(), err))
				return
			}
			// Nothing to do in the next stage.
			if !keep {
				continue
			}

			select {
			case params.Output() <- out:
			case <-ctx.Done():
				return
			}
		}
	}
}
