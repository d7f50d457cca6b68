package script

// Event reports the outcome of one executed (or failed) statement. Events are
// immutable once emitted; the queue hands out copies by value.
type Event struct {
	Statement string
	Line      int
	Logs      string
	Err       *Error
}

// Failed reports whether the statement produced an error of any kind.
func (e Event) Failed() bool {
	return e.Err != nil
}

// Result is the terminal outcome of one run: every statement's logs
// concatenated in source order, plus the governing (first-occurring) error if
// any statement failed. Produced exactly once per run, whether or not the
// run's events were consumed.
type Result struct {
	Logs string
	Err  *Error
}
