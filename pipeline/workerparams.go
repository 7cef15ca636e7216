package pipeline

// compile time check that WorkerParams implements StageParams
var _ StageParams[struct{}] = (*WorkerParams[struct{}])(nil)

// WorkerParams is the StageParams implementation handed to every stage.
type WorkerParams[T any] struct {
	Stage int

	InCh  <-chan T
	OutCh chan<- T
	ErrCh chan<- error
}

func (wp *WorkerParams[T]) StageIndex() int     { return wp.Stage }
func (wp *WorkerParams[T]) Input() <-chan T     { return wp.InCh }
func (wp *WorkerParams[T]) Output() chan<- T    { return wp.OutCh }
func (wp *WorkerParams[T]) Error() chan<- error { return wp.ErrCh }
