package boot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"sync"

	"go.uber.org/zap"
)

const (
	reasonShutdownHook = "Shutdown hook called, shutting down"
	reasonMain         = "Main: Shutting down"
)

// Run configures and starts the web server, then blocks until the user presses
// ENTER, the process receives SIGINT or SIGTERM, or ctx is cancelled. The server is
// stopped exactly once on the way out.
//
// When stdin is not available the server keeps running until it is stopped by a
// signal or by another goroutine calling Stop.
func (b *Boot) Run(ctx context.Context) error {
	if err := b.Configure(); err != nil {
		return err
	}
	if err := b.Start(); err != nil {
		return err
	}

	sigCtx, stopSignals := signal.NotifyContext(ctx, b.signals...)
	defer stopSignals()

	var once sync.Once
	shutdown := func(reason string) {
		once.Do(func() {
			if err := b.Stop(reason); err != nil {
				b.logger.Error("Failed to stop", zap.Error(err))
			}
		})
	}
	hookDone := make(chan struct{})
	go func() {
		defer close(hookDone)
		<-sigCtx.Done()
		shutdown(reasonShutdownHook)
	}()

	b.maybeOpenBrowser()

	fmt.Fprintln(b.out, "Press ENTER or CTRL+C to shutdown")
	keypress := make(chan error, 1)
	go func() {
		keypress <- waitForKey(b.in)
	}()

	select {
	case <-sigCtx.Done():
	case err := <-keypress:
		if err == nil {
			shutdown(reasonMain)
			break
		}
		if !errors.Is(err, io.EOF) {
			b.logger.Debug("Failed to read stdin", zap.Error(err))
		}
		fmt.Fprintln(b.out, "No stdin available. press CTRL+C to shutdown")
		// A stop from elsewhere may already have happened.
		if err := b.Await(sigCtx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, ErrLifecycle) {
			b.logger.Warn("Await interrupted", zap.Error(err))
		}
	}

	// Releases the hook when the server was stopped by other means; Stop is then a no-op.
	stopSignals()
	<-hookDone
	return nil
}

// waitForKey returns nil once at least one byte was read.
func waitForKey(r io.Reader) error {
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (b *Boot) maybeOpenBrowser() {
	d := b.Deployment()
	cfg := b.Config()
	if d == nil || !cfg.OpenBrowserInDevMode || !d.DevelopmentEnvironment || d.ProductionMode {
		return
	}
	if err := b.openBrowser(cfg.URL()); err != nil {
		b.logger.Warn("Failed to open browser", zap.String("url", cfg.URL()), zap.Error(err))
	}
}
