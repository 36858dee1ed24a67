package boot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"webboot/core/config"
	"webboot/core/env"
	"webboot/core/server"

	"go.uber.org/zap"
)

// ErrLifecycle is returned when an operation is invoked in the wrong lifecycle state.
var ErrLifecycle = errors.New("lifecycle violation")

// State is the lifecycle state of a Boot.
type State int

const (
	Created State = iota
	Configured
	Started
	Stopped
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Configured:
		return "configured"
	case Started:
		return "started"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Boot bootstraps an application on an embedded web server and drives it through
// its lifecycle: configure, start, await and stop.
type Boot struct {
	mu sync.Mutex

	server      WebServer
	cfg         server.Config
	bootCfg     config.Boot
	prober      *env.Prober
	logger      *zap.Logger
	out         io.Writer
	in          io.Reader
	openBrowser func(url string) error
	onStarted   func(ws WebServer) error
	signals     []os.Signal

	state      State
	deployment *Deployment
}

// New creates a Boot delegating to ws. Without WithConfig the configuration is
// loaded from the process environment and the .env file of the working directory.
func New(ws WebServer, opts ...Option) (*Boot, error) {
	if ws == nil {
		return nil, errors.New("web server is required")
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	cfg := o.config
	if cfg == nil {
		src := config.OSSources(".", nil)
		if o.sources != nil {
			src = *o.sources
		}
		var err error
		if cfg, err = config.Load(src); err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}
	serverCfg, err := cfg.Server.Normalize()
	if err != nil {
		return nil, err
	}
	b := &Boot{
		server:      ws,
		cfg:         serverCfg,
		bootCfg:     cfg.Boot,
		prober:      o.prober,
		logger:      o.logger,
		out:         o.out,
		in:          o.in,
		openBrowser: o.openBrowser,
		signals:     o.signals,
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	if b.out == nil {
		b.out = os.Stdout
	}
	if b.in == nil {
		b.in = os.Stdin
	}
	if b.openBrowser == nil {
		b.openBrowser = OpenBrowser
	}
	if b.signals == nil {
		b.signals = defaultSignals
	}
	return b, nil
}

// WithPort sets the port to listen on. Fails with server.ErrInvalidPort outside 1..65535.
func (b *Boot) WithPort(port int) error {
	if err := server.ValidatePort(port); err != nil {
		return err
	}
	return b.mutate(func() { b.cfg.Port = port })
}

// ListenOn listens on the given interface only, e.g. "localhost" or "10.0.0.1".
// An empty address listens on all interfaces.
func (b *Boot) ListenOn(address string) error {
	return b.mutate(func() { b.cfg.Address = address })
}

// LocalhostOnly listens on localhost only, making the app unreachable from other hosts.
func (b *Boot) LocalhostOnly() error {
	return b.ListenOn("localhost")
}

// WithContextRoot sets the URL path prefix. "", "/" and "/app/" are normalized to
// "", "" and "/app".
func (b *Boot) WithContextRoot(root string) error {
	return b.mutate(func() { b.cfg.ContextRoot = server.NormalizeContextRoot(root) })
}

// OpenBrowserInDevMode toggles opening the browser after start in a development environment.
func (b *Boot) OpenBrowserInDevMode(open bool) error {
	return b.mutate(func() { b.cfg.OpenBrowserInDevMode = open })
}

// ScanTestClasses also accepts test-classes folders as class locations.
func (b *Boot) ScanTestClasses(scan bool) error {
	return b.mutate(func() { b.bootCfg.ScanTestClasses = scan })
}

// DisableClassScanning skips class location resolution entirely.
func (b *Boot) DisableClassScanning(disable bool) error {
	return b.mutate(func() { b.bootCfg.DisableClassScanning = disable })
}

// OnStarted registers a hook invoked right after the web server started. A hook
// error fails the start.
func (b *Boot) OnStarted(hook func(ws WebServer) error) error {
	return b.mutate(func() { b.onStarted = hook })
}

func (b *Boot) mutate(set func()) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != Created {
		return fmt.Errorf("%w: cannot change settings once %s", ErrLifecycle, b.state)
	}
	set()
	return nil
}

// Config returns the effective server configuration.
func (b *Boot) Config() server.Config {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg
}

// ServerURL returns the URL where the app is running, e.g. http://localhost:8080.
func (b *Boot) ServerURL() string {
	return b.Config().URL()
}

// State returns the current lifecycle state.
func (b *Boot) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Deployment returns what the web server was configured with, or nil before Configure.
func (b *Boot) Deployment() *Deployment {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.deployment
}

// Configure probes the environment and configures the web server.
// On failure the boot ends up stopped and the error is returned.
func (b *Boot) Configure() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != Created {
		return fmt.Errorf("%w: configure called when %s", ErrLifecycle, b.state)
	}

	d, err := b.buildDeployment()
	if err != nil {
		b.logger.Error("Failed to resolve deployment", zap.Error(err))
		b.state = Stopped
		return err
	}
	b.deployment = d
	if err := b.server.Configure(d); err != nil {
		b.stopLocked("Failed to configure")
		return err
	}
	b.state = Configured
	return nil
}

func (b *Boot) buildDeployment() (*Deployment, error) {
	p := b.prober
	if p == nil {
		p = env.NewProber(env.Options{
			Classpath:       env.ParseClasspath(b.bootCfg.Classpath),
			ScanTestClasses: b.bootCfg.ScanTestClasses,
			Logger:          b.logger,
		})
		b.prober = p
	}
	root, err := p.ResolveResourceRoot()
	if err != nil {
		return nil, err
	}
	var classes []env.ClassLocation
	if !b.bootCfg.DisableClassScanning {
		if classes, err = p.ResolveClassLocations(root); err != nil {
			return nil, err
		}
	}
	return &Deployment{
		Server:                 b.cfg,
		ProductionMode:         p.IsProductionMode(),
		DevelopmentEnvironment: p.IsDevelopmentEnvironment(),
		ResourceRoot:           root,
		ClassLocations:         classes,
	}, nil
}

// Start starts the configured web server and prints the banner. On failure the
// web server is stopped and the original error is returned.
func (b *Boot) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != Configured {
		return fmt.Errorf("%w: start called when %s", ErrLifecycle, b.state)
	}

	startedAt := time.Now()
	b.logger.Info("Starting web server",
		zap.String("server", b.server.Name()),
		zap.String("address", b.cfg.ListenAddr()))
	if err := b.server.Start(); err != nil {
		b.stopLocked("Failed to start")
		return err
	}
	b.state = Started
	if b.onStarted != nil {
		if err := b.onStarted(b.server); err != nil {
			b.stopLocked("Failed to start")
			return err
		}
	}
	b.printBanner(time.Since(startedAt))
	return nil
}

func (b *Boot) printBanner(elapsed time.Duration) {
	line := "================================================="
	fmt.Fprintln(b.out, line)
	fmt.Fprintf(b.out, "Started in %s. Running on %s\n", elapsed.Round(time.Millisecond), env.DumpHost())
	fmt.Fprintf(b.out, "Please open %s in your browser.\n", b.cfg.URL())
	if !b.deployment.ProductionMode {
		fmt.Fprintln(b.out, "If you see the 'Unable to determine mode of operation' error, stop me and run "+
			"`./gradlew vaadinPrepareFrontend` or `./mvnw vaadin:prepare-frontend`")
	}
	fmt.Fprintln(b.out, line)
}

// Stop stops the web server, logging reason. Calling Stop on a stopped boot does
// nothing. A failing web server stop is logged and never returned.
func (b *Boot) Stop(reason string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case Created, Configured:
		return fmt.Errorf("%w: stop called when %s", ErrLifecycle, b.state)
	case Stopped:
		return nil
	}
	b.stopLocked(reason)
	return nil
}

func (b *Boot) stopLocked(reason string) {
	b.logger.Info(reason)
	if err := b.server.Stop(); err != nil {
		b.logger.Error("Failed to stop web server", zap.String("server", b.server.Name()), zap.Error(err))
	} else {
		b.logger.Info("Stopped", zap.String("server", b.server.Name()))
	}
	b.state = Stopped
}

// Await blocks until the web server is stopped or ctx is done.
func (b *Boot) Await(ctx context.Context) error {
	if st := b.State(); st != Started {
		return fmt.Errorf("%w: await called when %s", ErrLifecycle, st)
	}
	return b.server.Await(ctx)
}
