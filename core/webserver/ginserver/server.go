package ginserver

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"webboot/core/boot"
	"webboot/core/loader"
	"webboot/core/logger"
	"webboot/core/middleware/rayid"
	"webboot/core/webserver"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"
)

const (
	// ShutdownTimeout bounds the graceful shutdown of in-flight requests.
	ShutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Server hosts the application on Gin behind a net/http server.
type Server struct {
	logger   *zap.Logger
	features *loader.Manager

	mu         sync.Mutex
	engine     *gin.Engine
	httpServer *http.Server
	d          *boot.Deployment
	ln         net.Listener
	static     io.Closer

	done     chan struct{}
	doneOnce sync.Once
}

// New creates a Gin web server hosting features. features may be nil.
func New(logger *zap.Logger, features *loader.Manager) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		logger:   logger.With(zap.String("server", "Gin")),
		features: features,
		done:     make(chan struct{}),
	}
}

func (s *Server) Name() string {
	return "Gin"
}

// Configure builds the engine. Unmatched GET and HEAD requests below the context
// root fall through to the static content.
func (s *Server) Configure(d *boot.Deployment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine != nil {
		return errors.New("gin server already configured")
	}

	static, closer, err := webserver.OpenStatic(d)
	if err != nil {
		return err
	}
	s.static = closer

	// The mode is process wide; set it both ways so an earlier server can't leak its mode.
	if d.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(rayid.Gin())
	engine.Use(requestLogger(s.logger))
	if !d.ProductionMode {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", rayid.HeaderName}
		corsConfig.ExposeHeaders = []string{rayid.HeaderName}
		engine.Use(cors.New(corsConfig))
	}

	if s.features != nil {
		if err := s.features.LoadAll(router{engine.Group(d.Server.ContextRoot)}); err != nil {
			return err
		}
	}

	maxAge := 0
	if d.ProductionMode {
		maxAge = webserver.ProductionMaxAge
	}
	engine.NoRoute(gin.WrapH(webserver.StaticHandler(static, d.Server.ContextRoot, maxAge)))

	var handler http.Handler = engine
	if d.ProductionMode {
		handler = gzhttp.GzipHandler(engine)
	}
	s.httpServer = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	s.engine = engine
	s.d = d
	return nil
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return errors.New("gin server not configured")
	}
	ln, err := webserver.Listen(s.d.Server)
	if err != nil {
		return err
	}
	s.ln = ln
	srv := s.httpServer
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	defer s.doneOnce.Do(func() { close(s.done) })

	var errs []error
	if s.ln != nil {
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
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

func requestLogger(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rl := logger.WithGinRayID(l, c)
		rl.Debug("Request started",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
		)
		c.Next()
		for _, err := range c.Errors {
			rl.Error("Request error", zap.Error(err.Err))
		}
	}
}

// router mounts net/http feature handlers on a Gin route group.
type router struct {
	g *gin.RouterGroup
}

func (r router) Handle(method, path string, h http.Handler) {
	r.g.Handle(method, path, gin.WrapH(h))
}
