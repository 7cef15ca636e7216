/*
   Multi-stage processing pipeline used to ingest corpus pages
*/
package pipeline

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Processor is implemented by types that can process a payload as part of a
// pipeline stage.
type Processor[T any] interface {
	// Process takes the input payload and returns the payload to be sent
	// either to the next stage or the output sink. Returning keep == false
	// drops the payload.
	Process(ctx context.Context, in T) (out T, keep bool, err error)
}

// ProcessorFunc is an adapter to allow the use of plain functions as
// Processor instances.
type ProcessorFunc[T any] func(context.Context, T) (T, bool, error)

// Process calls f(ctx, in).
func (f ProcessorFunc[T]) Process(ctx context.Context, in T) (T, bool, error) {
	return f(ctx, in)
}

// StageParams includes the information required for executing a pipeline
// stage. A StageParams instance is passed to the Run method of each stage.
type StageParams[T any] interface {
	// StageIndex returns the position of a stage in the pipeline.
	StageIndex() int
	// Input returns a channel for reading the input payloads of the stage.
	Input() <-chan T
	// Output returns a channel for writing the stage output.
	Output() chan<- T
	// Error returns a channel for writing the errors that were encountered
	// during the stage execution.
	Error() chan<- error
}

// StageRunner is implemented by types that can be chained together to form a
// multi-stage pipeline.
type StageRunner[T any] interface {
	// Run reads payloads from the Input channel and writes its output to the
	// Output channel. Calls to Run are expected to block until the input
	// channel is closed or the context is cancelled.
	Run(context.Context, StageParams[T])
}

// Source is implemented by types that feed payloads into a pipeline.
type Source[T any] interface {
	// Next fetches the next payload. It returns false if there are no more
	// payloads or an error occurred.
	Next(context.Context) bool

	// Payload returns the payload fetched by the last call to Next.
	Payload() T

	// Error returns the last error observed by the source.
	Error() error
}

// Sink is implemented by types that consume the payloads emitted by the
// last pipeline stage.
type Sink[T any] interface {
	Consume(context.Context, T) error
}

// Pipeline is a sequence of stages that every payload of a Source traverses
// before reaching a Sink.
type Pipeline[T any] struct {
	stages []StageRunner[T]
}

// New returns a new Pipeline instance where input payloads will traverse
// each one of the stages in order.
func New[T any](stages ...StageRunner[T]) *Pipeline[T] {
	return &Pipeline[T]{stages: stages}
}

// Process reads the contents of the specified source, sends them through the
// various stages of the pipeline and directs the results to the specified
// sink. All errors reported by the source, the stages and the sink are
// returned together.
//
// Calls to Process block until:
//   - all data from the source has been processed OR
//   - an error occurs OR
//   - the supplied context expires
//
// It is safe to call Process concurrently with different sources and sinks.
func (p *Pipeline[T]) Process(ctx context.Context, source Source[T], sink Sink[T]) error {
	var wg sync.WaitGroup
	ctx, ctxCancel := context.WithCancel(ctx)
	defer ctxCancel()

	// The output of the ith stage is the input of the (i+1)th stage. One
	// extra channel wires the source and the sink.
	stageCh := make([]chan T, len(p.stages)+1)
	errCh := make(chan error, len(p.stages)+2)
	for i := range stageCh {
		stageCh[i] = make(chan T)
	}

	wg.Add(len(p.stages))
	for i := range p.stages {
		go func(stageIdx int) {
			defer wg.Done()
			p.stages[stageIdx].Run(ctx, &WorkerParams[T]{
				Stage: stageIdx,
				InCh:  stageCh[stageIdx],
				OutCh: stageCh[stageIdx+1],
				ErrCh: errCh,
			})
			close(stageCh[stageIdx+1])
		}(i)
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		sourceWorker(ctx, source, stageCh[0], errCh)
		close(stageCh[0])
	}()
	go func() {
		defer wg.Done()
		sinkWorker(ctx, sink, stageCh[len(stageCh)-1], errCh)
	}()

	// Close the error channel once all workers have exited.
	go func() {
		wg.Wait()
		close(errCh)
		ctxCancel()
	}()

	var err error
	for pErr := range errCh {
		err = multierror.Append(err, pErr)
		ctxCancel()
	}
	return err
}
