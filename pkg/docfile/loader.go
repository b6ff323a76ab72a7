package docfile

import (
	"context"
	"errors"
	"sync"
)

// ErrBusy is returned when a read is requested while another is running.
var ErrBusy = errors.New("a document is already being opened")

// Loader opens documents one at a time in the background and reports the
// result through a callback. There is no cancellation: an abandoned read
// finishes and its callback still runs.
type Loader struct {
	mu   sync.Mutex
	busy bool
	wg   sync.WaitGroup
}

// Open starts reading path. done is called exactly once from another
// goroutine, with either the document or the error. The loader stays busy
// until done returns.
func (l *Loader) Open(path string, done func(*Document, error)) error {
	l.mu.Lock()
	if l.busy {
		l.mu.Unlock()
		return ErrBusy
	}
	l.busy = true
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()

		defer func() {
			l.mu.Lock()
			l.busy = false
			l.mu.Unlock()
		}()

		doc, err := Open(context.Background(), path)
		done(doc, err)
	}()
	return nil
}

// Busy reports whether a read is in flight.
func (l *Loader) Busy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.busy
}

// Wait blocks until every started read has delivered its callback.
func (l *Loader) Wait() {
	l.wg.Wait()
}
