package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// Spinner shows progress while a service call is in flight. On a terminal
// it animates in place; on anything else it prints the message once and
// the outcome on its own line.
type Spinner struct {
	w       io.Writer
	message string
	animate bool

	stopOnce sync.Once
	stop     chan struct{}
	stopped  sync.WaitGroup
}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		message: message,
		animate: isTerminal(w),
		stop:    make(chan struct{}),
	}
}

// Start shows the message.
func (s *Spinner) Start() {
	if !s.animate {
		fmt.Fprintln(s.w, s.message)
		return
	}

	s.stopped.Add(1)
	go func() {
		defer s.stopped.Done()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			fmt.Fprintf(s.w, "\r%c %s", spinnerFrames[i%len(spinnerFrames)], s.message)
			select {
			case <-s.stop:
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop removes the spinner without reporting an outcome. Later calls do
// nothing.
func (s *Spinner) Stop() {
	s.finish("")
}

// Success stops the spinner and reports success.
func (s *Spinner) Success(message string) {
	s.finish("✓ " + message)
}

// Fail stops the spinner and reports failure.
func (s *Spinner) Fail(message string) {
	s.finish("✗ " + message)
}

func (s *Spinner) finish(line string) {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.stopped.Wait()

		if s.animate {
			fmt.Fprint(s.w, "\r\033[K")
		}
		if line != "" {
			fmt.Fprintln(s.w, line)
		}
	})
}

// isTerminal reports whether w is a character device.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
