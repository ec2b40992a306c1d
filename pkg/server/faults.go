package server

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// FaultTrap converts otherwise-unhandled asynchronous failures (panics
// escaping supervised goroutines and errors nobody handles) into a
// logged message and a deterministic process exit. Such
// failures leave process state untrustworthy; continuing risks serving
// corrupt responses, so there is no retry and no recovery.
//
// Construct one trap at process entry and pass it to everything that
// spawns background work.
type FaultTrap struct {
	logger *slog.Logger
	exit   func(code int)
	once   sync.Once
}

// NewFaultTrap creates a fault trap. exit is the process exit
// function; tests inject a recorder, main passes os.Exit.
func NewFaultTrap(logger *slog.Logger, exit func(code int)) *FaultTrap {
	return &FaultTrap{logger: logger, exit: exit}
}

// Go runs fn on a supervised goroutine. A panic or a returned error is
// fatal: logged, then the process exits non-zero.
func (t *FaultTrap) Go(name string, fn func() error) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				t.fatal("uncaught panic in background task",
					fmt.Errorf("%s: %v", name, rec), string(debug.Stack()))
			}
		}()
		if err := fn(); err != nil {
			t.fatal("unhandled failure in background task", fmt.Errorf("%s: %w", name, err), "")
		}
	}()
}

// Fatal reports an unrecoverable failure and terminates the process
// with a non-zero status.
func (t *FaultTrap) Fatal(msg string, err error) {
	t.fatal(msg, err, "")
}

func (t *FaultTrap) fatal(msg string, err error, stack string) {
	t.once.Do(func() {
		if stack != "" {
			t.logger.Error(msg, "error", err, "stack", stack)
		} else {
			t.logger.Error(msg, "error", err)
		}
		t.exit(1)
	})
}
