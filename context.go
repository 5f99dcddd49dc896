package cbuild

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// InterruptibleContext returns a context callers pass to Orchestrator.Run
// so that an interactive Ctrl-C, or a SIGTERM from a process supervisor,
// stops the build instead of leaving a compiler or linker running
// unsupervised. Run forwards this context into every subprocess it
// starts, so cancellation kills whichever step is currently in flight and
// prevents the next one from starting.
func InterruptibleContext() (context.Context, context.CancelFunc) {
	ctx, canc := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		// A second signal terminates immediately, in case a step's
		// subprocess is ignoring the first one and Run is stuck waiting
		// on it.
		signal.Stop(sig)
		canc()
	}()
	return ctx, canc
}
