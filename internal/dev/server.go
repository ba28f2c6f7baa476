package dev

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vcore/internal/config"
	"github.com/vango-dev/vcore/internal/treefile"
	"github.com/vango-dev/vcore/pkg/engine"
	"github.com/vango-dev/vcore/pkg/host/memhost"
	httpmw "github.com/vango-dev/vcore/pkg/middleware"
	"github.com/vango-dev/vcore/pkg/render"
	"github.com/vango-dev/vcore/pkg/vdom"
)

const (
	// WebSocketPath is the route preview clients connect to.
	WebSocketPath = "/_vcore/ws"

	// MetricsPath is the route serving Prometheus metrics.
	MetricsPath = "/metrics"

	// RootID is the id of the element holding the rendered tree.
	RootID = "vcore-root"
)

// ServerOptions configures the preview server.
type ServerOptions struct {
	// Config is the project configuration.
	Config *config.Config

	// TreePath overrides the tree file named by Config.
	TreePath string

	// Logger receives server logs.
	// Default: slog.Default().With("component", "dev")
	Logger *slog.Logger

	// Registry collects engine metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry

	// OnReload is called after every render pass with the pass number and
	// the number of host mutations it made.
	OnReload func(pass, mutations int)
}

// Server renders a tree file into an in-memory host tree and streams the
// mutations of every re-render to connected browsers.
type Server struct {
	config      *config.Config
	options     ServerOptions
	treePath    string
	logger      *slog.Logger
	registry    *prometheus.Registry
	broadcaster *Broadcaster
	router      chi.Router

	// mu serializes engine passes and guards the render state.
	mu      sync.Mutex
	host    *memhost.Document
	engine  *engine.Engine
	doc     *treefile.Document
	pass    int
	lastErr error

	runMu      sync.Mutex
	running    bool
	watcher    *Watcher
	httpServer *http.Server
}

// NewServer creates a preview server. Nothing is rendered until Start or
// Reload is called.
func NewServer(options ServerOptions) *Server {
	cfg := options.Config
	if cfg == nil {
		cfg = config.New()
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default().With("component", "dev")
	}
	reg := options.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	treePath := options.TreePath
	if treePath == "" {
		treePath = cfg.TreePath()
	}

	opts := append(cfg.EngineOptions(), engine.WithLogger(logger.With("component", "engine")))
	if cfg.Metrics.Enabled {
		opts = append(opts, engine.WithMetrics(engine.NewMetrics(engine.MetricsConfig{
			Namespace: cfg.Metrics.Namespace,
			Registry:  reg,
		})))
	}

	host := memhost.New()
	s := &Server{
		config:      cfg,
		options:     options,
		treePath:    treePath,
		logger:      logger,
		registry:    reg,
		broadcaster: NewBroadcaster(logger),
		host:        host,
		engine:      engine.New(host, opts...),
	}
	s.broadcaster.OnConnect = s.snapshot
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(httpmw.RequestLogger(s.logger))
	r.Use(httpmw.OpenTelemetry(httpmw.WithRequestFilter(func(r *http.Request) bool {
		return r.URL.Path != MetricsPath
	})))
	if s.config.Metrics.Enabled {
		r.Use(httpmw.NewMetrics(
			httpmw.WithNamespace(s.config.Metrics.Namespace),
			httpmw.WithRegistry(s.registry),
		).Handler)
	}

	r.Get("/", s.handlePage)
	r.Get(WebSocketPath, s.broadcaster.HandleWebSocket)
	if s.config.Metrics.Enabled {
		r.Handle(MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// Broadcaster returns the websocket broadcaster.
func (s *Server) Broadcaster() *Broadcaster { return s.broadcaster }

// Reload parses the tree file and renders it into the preview tree. The
// mutations of the pass are broadcast as a patch message. Parse and render
// errors are broadcast as error messages and returned.
func (s *Server) Reload(ctx context.Context) error {
	doc, loadErr := treefile.Load(s.treePath)

	s.mu.Lock()
	defer s.mu.Unlock()

	if loadErr != nil {
		s.fail(loadErr)
		return loadErr
	}

	if changed := doc.Inherit(s.doc); len(changed) > 0 {
		s.engine.InvalidateAll()
		s.logger.Debug("component templates changed", "components", changed)
	}
	s.doc = doc

	s.host.ResetMutations()
	start := time.Now()
	err := s.engine.RenderToTree(ctx, doc.Tree(), s.host.Body())
	mutations := s.host.Mutations()
	s.pass++

	s.broadcaster.Broadcast(Message{
		Type:      MessageTypePatch,
		Pass:      s.pass,
		Mutations: mutations,
		HTML:      s.host.InnerHTML(s.host.Body()),
	})
	s.logger.Info("tree rendered",
		"pass", s.pass,
		"mutations", len(mutations),
		"duration", time.Since(start).Round(time.Microsecond),
	)
	if s.options.OnReload != nil {
		s.options.OnReload(s.pass, len(mutations))
	}

	if err != nil {
		s.fail(err)
		return err
	}
	if s.lastErr != nil {
		s.lastErr = nil
		s.broadcaster.Broadcast(Message{Type: MessageTypeClear})
	}
	return nil
}

// fail records err and reports it to clients. Callers hold s.mu.
func (s *Server) fail(err error) {
	s.lastErr = err
	s.logger.Error("preview render failed", "tree", s.treePath, "error", err)
	s.broadcaster.Broadcast(Message{Type: MessageTypeError, Error: err.Error()})
}

// snapshot returns the messages that bring a new client up to date.
func (s *Server) snapshot() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := []Message{{
		Type: MessageTypePatch,
		Pass: s.pass,
		HTML: s.host.InnerHTML(s.host.Body()),
	}}
	if s.lastErr != nil {
		msgs = append(msgs, Message{Type: MessageTypeError, Error: s.lastErr.Error()})
	}
	return msgs
}

// Markup returns the current markup of the preview tree.
func (s *Server) Markup() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.host.InnerHTML(s.host.Body())
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	markup := s.Markup()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	sr := render.NewStreamingRenderer(w, render.RendererConfig{})
	err := sr.RenderPage(render.PageData{
		Title:   "vcore: " + filepath.Base(s.treePath),
		Body:    vdom.Div(vdom.ID(RootID), vdom.Raw(markup)),
		Styles:  []string{overlayCSS},
		Scripts: []render.ScriptTag{{Inline: clientScript}},
	})
	if err != nil {
		s.logger.Error("page render failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
	}
}

// Start renders the tree, starts watching it and serves the preview until
// ctx is cancelled or the listener fails. A broken tree file does not stop
// the server; the error is shown in the browser until the file is fixed.
func (s *Server) Start(ctx context.Context) error {
	s.runMu.Lock()
	if s.running {
		s.runMu.Unlock()
		return nil
	}
	s.running = true
	s.runMu.Unlock()

	_ = s.Reload(ctx)

	watcher, err := NewWatcher(WatcherConfig{
		Files:    []string{s.treePath},
		Debounce: s.config.DebounceDuration(),
		Logger:   s.logger,
	}, func(paths []string) {
		s.logger.Debug("tree file changed", "paths", paths)
		_ = s.Reload(ctx)
	})
	if err != nil {
		s.Stop()
		return fmt.Errorf("watch %s: %w", s.treePath, err)
	}
	if err := watcher.Start(ctx); err != nil {
		watcher.Stop()
		s.Stop()
		return fmt.Errorf("watch %s: %w", s.treePath, err)
	}

	httpServer := &http.Server{
		Addr:              s.config.DevAddress(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.runMu.Lock()
	s.watcher = watcher
	s.httpServer = httpServer
	s.runMu.Unlock()

	s.logger.Info("preview server running", "url", s.config.DevURL(), "tree", s.treePath)

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		return err
	}
}

// Stop stops the watcher, disconnects clients and shuts the listener down.
func (s *Server) Stop() {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if !s.running {
		return
	}
	s.running = false

	if s.watcher != nil {
		s.watcher.Stop()
		s.watcher = nil
	}
	s.broadcaster.Close()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(ctx)
		s.httpServer = nil
	}
}
