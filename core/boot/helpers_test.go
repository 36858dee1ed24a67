package boot_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"webboot/core/boot"
	"webboot/core/config"
	"webboot/core/env"
	"webboot/core/server"

	"github.com/stretchr/testify/require"
)

// newProber lays out a minimal packaged app below a temp dir.
func newProber(t *testing.T, prod, dev bool) *env.Prober {
	t.Helper()
	dir := t.TempDir()
	res := filepath.Join(dir, "resources")
	require.NoError(t, os.MkdirAll(filepath.Join(res, "webapp"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(res, "webapp", "ROOT"), []byte("root"), 0o644))
	return env.NewProber(env.Options{
		WorkDir:                dir,
		Classpath:              []string{res},
		ProductionMode:         &prod,
		DevelopmentEnvironment: &dev,
	})
}

func testConfig() *config.Config {
	cfg := &config.Config{Server: server.Default()}
	cfg.Server.Port = 44312
	cfg.Server.Address = "localhost"
	return cfg
}

func newBoot(t *testing.T, ws boot.WebServer, opts ...boot.Option) (*boot.Boot, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	all := append([]boot.Option{
		boot.WithConfig(testConfig()),
		boot.WithProber(newProber(t, true, false)),
		boot.WithOutput(out),
		boot.WithBrowserOpener(func(string) error { return nil }),
	}, opts...)
	b, err := boot.New(ws, all...)
	require.NoError(t, err)
	return b, out
}

// fakeServer records calls and detects Start and Stop running at the same time.
type fakeServer struct {
	mu       sync.Mutex
	starts   int
	stops    int
	inStart  bool
	overlap  bool
	stopErr  error
	delay    time.Duration
	entered  chan struct{}
	done     chan struct{}
	doneOnce sync.Once
}

func newFakeServer() *fakeServer {
	return &fakeServer{entered: make(chan struct{}, 1), done: make(chan struct{})}
}

func (f *fakeServer) Configure(*boot.Deployment) error { return nil }

func (f *fakeServer) Start() error {
	f.mu.Lock()
	f.starts++
	f.inStart = true
	f.mu.Unlock()
	f.entered <- struct{}{}
	time.Sleep(f.delay)
	f.mu.Lock()
	f.inStart = false
	f.mu.Unlock()
	return nil
}

func (f *fakeServer) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	if f.inStart {
		f.overlap = true
	}
	f.doneOnce.Do(func() { close(f.done) })
	return f.stopErr
}

func (f *fakeServer) Await(ctx context.Context) error {
	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeServer) Name() string { return "Fake" }

func (f *fakeServer) counts() (starts, stops int, overlap bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts, f.stops, f.overlap
}

// newDevProber lays out a source checkout with a target/classes folder.
func newDevProber(t *testing.T, prod bool) *env.Prober {
	t.Helper()
	dir := t.TempDir()
	classes := filepath.Join(dir, "target", "classes")
	require.NoError(t, os.MkdirAll(filepath.Join(classes, "webapp"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(classes, "webapp", "ROOT"), []byte("root"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pom.xml"), []byte("<project/>"), 0o644))
	return env.NewProber(env.Options{
		WorkDir:        dir,
		Classpath:      []string{classes},
		ProductionMode: &prod,
	})
}
