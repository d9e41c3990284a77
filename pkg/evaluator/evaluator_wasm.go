//go:build (js && wasm) || wasip1

package evaluator

// init turns off the EvalMany worker pool for all Evaluators created in this process.
//
// On js/wasm the JavaScript runtime is single-threaded: goroutines are multiplexed
// cooperatively on the same OS thread, so a pool of workers only adds scheduling overhead.
// On wasip1 the threading proposal is not supported by the Go runtime either.
func init() {
	defaultConcurrency = false
}
