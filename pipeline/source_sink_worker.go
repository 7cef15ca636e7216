package pipeline

import (
	"context"

	"golang.org/x/xerrors"
)

// sourceWorker pulls payloads from source and pushes them into outCh, the
// input of the first stage.
func sourceWorker[T any](ctx context.Context, source Source[T], outCh chan<- T, errCh chan<- error) {
	for source.Next(ctx) {
		select {
		case outCh <- source.Payload():
		case <-ctx.Done():
			return
		}
	}

	if err := source.Error(); err != nil {
		emitError(errCh, xerrors.Errorf("pipeline source: %w", err))
	}
}

// sinkWorker hands every payload emitted by the last stage to sink.
func sinkWorker[T any](ctx context.Context, sink Sink[T], inCh <-chan T, errCh chan<- error) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, open := <-inCh:
			if !open {
				return
			}
			if err := sink.Consume(ctx, payload); err != nil {
				emitError(errCh, xerrors.Errorf("pipeline sink: %w", err))
			}
		}
	}
}

// emitError publishes err unless the error channel is already full.
func emitError(errCh chan<- error, err error) {
	select {
	case errCh <- err:
	default:
	}
}
