package boot

import (
	"io"
	"os"
	"syscall"

	"webboot/core/config"
	"webboot/core/env"

	"go.uber.org/zap"
)

var defaultSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

type options struct {
	config      *config.Config
	sources     *config.Sources
	prober      *env.Prober
	logger      *zap.Logger
	out         io.Writer
	in          io.Reader
	openBrowser func(url string) error
	signals     []os.Signal
}

// Option customizes a Boot.
type Option func(*options)

// WithConfig uses an already loaded configuration.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithSources loads the configuration from src instead of the process environment.
func WithSources(src config.Sources) Option {
	return func(o *options) { o.sources = &src }
}

// WithProber replaces the environment prober built from the boot configuration.
func WithProber(p *env.Prober) Option {
	return func(o *options) { o.prober = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithOutput redirects the operator messages, stdout by default.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithInput replaces stdin as the source of the shutdown keypress.
func WithInput(r io.Reader) Option {
	return func(o *options) { o.in = r }
}

// WithBrowserOpener replaces OpenBrowser.
func WithBrowserOpener(open func(url string) error) Option {
	return func(o *options) { o.openBrowser = open }
}

// WithSignals replaces the signals treated as a termination request.
func WithSignals(sig ...os.Signal) Option {
	return func(o *options) { o.signals = sig }
}
