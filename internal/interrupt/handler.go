// Package interrupt turns Ctrl+C into a two-stage stop for long waits.
// The first signal cancels the wait so the command can still report what it
// has; a second signal within a short window exits immediately.
package interrupt

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// ExitInterrupt is the exit code for interrupt (130 = 128 + SIGINT).
const ExitInterrupt = 130

// abortWindow is the time window for a second Ctrl+C to trigger abort.
const abortWindow = 2 * time.Second

// abortMessage is the message displayed when the user aborts via double Ctrl+C.
const abortMessage = "\nAborted."

// Handler cancels a wait on the first interrupt and exits on a second one
// received within abortWindow.
type Handler struct {
	mu          sync.Mutex
	first       time.Time
	interrupted bool
	stopped     bool
	cancel      context.CancelFunc
	done        chan struct{}
	release     func()

	exit   func(int)
	now    func() time.Time
	stderr io.Writer
	hint   string
}

// Options holds injectable dependencies for testing.
type Options struct {
	SigCh    <-chan os.Signal
	ExitFunc func(int)
	NowFunc  func() time.Time
	// Stderr receives the hint and abort messages. It must be safe for
	// concurrent writes.
	Stderr io.Writer
	// Hint is printed on the first interrupt, e.g. how to abort.
	Hint string
}

// NewHandler listens for SIGINT/SIGTERM and returns a context canceled on the
// first one. hint is written to stderr when that happens.
func NewHandler(parent context.Context, stderr io.Writer, hint string) (*Handler, context.Context) {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	h, ctx := NewHandlerWithOptions(parent, Options{SigCh: sigCh, Stderr: stderr, Hint: hint})
	h.release = func() { signal.Stop(sigCh) }
	return h, ctx
}

// NewHandlerWithOptions creates a handler with injectable dependencies.
// A nil SigCh yields a handler that never fires.
func NewHandlerWithOptions(parent context.Context, opts Options) (*Handler, context.Context) {
	ctx, cancel := context.WithCancel(parent)

	h := &Handler{
		cancel: cancel,
		done:   make(chan struct{}),
		exit:   opts.ExitFunc,
		now:    opts.NowFunc,
		stderr: opts.Stderr,
		hint:   opts.Hint,
	}
	if h.exit == nil {
		h.exit = os.Exit
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.stderr == nil {
		h.stderr = os.Stderr
	}

	if opts.SigCh != nil {
		go h.listen(opts.SigCh)
	}

	return h, ctx
}

func (h *Handler) listen(sigCh <-chan os.Signal) {
	for {
		select {
		case <-h.done:
			return
		case _, ok := <-sigCh:
			if !ok {
				return
			}
			if h.handle() {
				return
			}
		}
	}
}

// handle processes one signal and reports whether the handler aborted.
func (h *Handler) handle() bool {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return true
	}
	now := h.now()

	// A late second signal restarts the window instead of aborting.
	if !h.interrupted || now.Sub(h.first) > abortWindow {
		first := !h.interrupted
		h.interrupted = true
		h.first = now
		h.mu.Unlock()

		if first && h.hint != "" {
			fmt.Fprintln(h.stderr, h.hint)
		}
		h.cancel()
		return false
	}
	h.mu.Unlock()

	fmt.Fprintln(h.stderr, abortMessage)
	h.exit(ExitInterrupt)
	return true
}

// Interrupted reports whether at least one interrupt was received.
func (h *Handler) Interrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}

// Stop releases the signal listener and the derived context. Safe to call
// more than once.
func (h *Handler) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	h.mu.Unlock()

	if h.release != nil {
		h.release()
	}
	close(h.done)
	h.cancel()
}
