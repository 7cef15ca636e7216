/*
  Contains builtin StageRunner implementations
*/

package runners

// emitError reports err to the pipeline without blocking. Errors are
// dropped once the channel is full.
func emitError(errCh chan<- error, err error) {
	select {
	case errCh <- err:
	default:
	}
}
