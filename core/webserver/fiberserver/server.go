package fiberserver

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"webboot/core/boot"
	"webboot/core/loader"
	"webboot/core/logger"
	"webboot/core/middleware/rayid"
	"webboot/core/webserver"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// ShutdownTimeout bounds the graceful shutdown of in-flight requests.
const ShutdownTimeout = 10 * time.Second

// Server hosts the application on Fiber.
type Server struct {
	logger   *zap.Logger
	features *loader.Manager

	mu     sync.Mutex
	app    *fiber.App
	d      *boot.Deployment
	ln     net.Listener
	static io.Closer

	stopping atomic.Bool
	done     chan struct{}
	doneOnce sync.Once
}

// New creates a Fiber web server hosting features. features may be nil.
func New(logger *zap.Logger, features *loader.Manager) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		logger:   logger.With(zap.String("server", "Fiber")),
		features: features,
		done:     make(chan struct{}),
	}
}

func (s *Server) Name() string {
	return "Fiber"
}

// Configure builds the Fiber app: middleware, feature routes under the context root,
// then the static content.
func (s *Server) Configure(d *boot.Deployment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.app != nil {
		return errors.New("fiber server already configured")
	}

	static, closer, err := webserver.OpenStatic(d)
	if err != nil {
		return err
	}
	s.static = closer

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true, // boot prints its own banner
	})
	app.Use(recover.New())
	app.Use(rayid.New())
	app.Use(requestLogger(s.logger))
	if d.ProductionMode {
		app.Use(compress.New())
	}

	var root fiber.Router = app
	if d.Server.ContextRoot != "" {
		root = app.Group(d.Server.ContextRoot)
	}
	if s.features != nil {
		if err := s.features.LoadAll(router{root}); err != nil {
			return err
		}
	}

	maxAge := 0
	if d.ProductionMode {
		maxAge = webserver.ProductionMaxAge
	}
	root.Use(filesystem.New(filesystem.Config{
		Root:   http.FS(static),
		Index:  "/" + webserver.IndexFile,
		MaxAge: maxAge,
	}))

	s.app = app
	s.d = d
	return nil
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.app == nil {
		return errors.New("fiber server not configured")
	}
	ln, err := webserver.Listen(s.d.Server)
	if err != nil {
		return err
	}
	s.ln = ln
	app := s.app
	go func() {
		if err := app.Listener(ln); err != nil && !s.stopping.Load() {
			s.logger.Error("Server failed", zap.Error(err))
		}
	}()
	s.logger.Info("Listening", zap.Stringer("address", ln.Addr()))
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Stop shuts the server down gracefully and releases the features and archives.
// Safe to call in any state.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopping.Store(true)
	defer s.doneOnce.Do(func() { close(s.done) })

	var errs []error
	if s.ln != nil {
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, err)
		}
		// Shutdown misses a listener the serving goroutine hasn't picked up yet.
		_ = s.ln.Close()
		s.ln = nil
	}
	if s.features != nil {
		errs = append(errs, s.features.Close())
	}
	if s.static != nil {
		errs = append(errs, s.static.Close())
		s.static = nil
	}
	return errors.Join(errs...)
}

// Await blocks until Stop completes or ctx is done.
func (s *Server) Await(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func requestLogger(l *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rl := logger.WithRayID(l, c)
		rl.Debug("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		var fe *fiber.Error
		if err != nil && !(errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError) {
			rl.Error("Request error", zap.Error(err))
		}
		return err
	}
}

// router mounts net/http feature handlers on a Fiber router.
type router struct {
	r fiber.Router
}

func (r router) Handle(method, path string, h http.Handler) {
	r.r.Add(method, path, adaptor.HTTPHandler(h))
}
