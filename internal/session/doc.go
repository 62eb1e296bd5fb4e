// Package session holds the per-screen state of the client: which tab is
// active, the code buffer and the last output, plus the run coordinator
// that sends the code to the backend.
//
// All mutation happens on the Bubble Tea update goroutine. Run returns a
// tea.Cmd that performs the request off-loop and reports a progress.Event,
// which Apply folds back into the state. Runs carry sequence numbers and a
// response older than the latest issued run is dropped.
package session
