// Package service assembles a running SDN list monitor from configuration:
// the retriever, diff engine, snapshot store, observers, monitor loop, and
// status server.
//
// New initializes every subsystem from its config section. Functional
// options replace individual subsystems, mainly for tests.
//
//	cfg, err := service.LoadConfig("listmonitor.yaml")
//	svc, err := service.New(cfg)
//	defer svc.Close(ctx)
//	err = svc.Run(ctx)
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/tailored-agentic-units/listmonitor/diff"
	"github.com/tailored-agentic-units/listmonitor/monitor"
	"github.com/tailored-agentic-units/listmonitor/observability"
	"github.com/tailored-agentic-units/listmonitor/sdn"
	"github.com/tailored-agentic-units/listmonitor/session"
	"github.com/tailored-agentic-units/listmonitor/status"
	"github.com/tailored-agentic-units/listmonitor/store"
)

// Monitor is the SDN list monitor type.
type Monitor = monitor.Monitor[int, *sdn.Entry]

// Retriever produces SDN list snapshots.
type Retriever = monitor.Retriever[int, *sdn.Entry]

type settings struct {
	retriever   Retriever
	observers   []observability.Observer
	registry    *prometheus.Registry
	logger      *slog.Logger
	changeFuncs []monitor.ChangeFunc
	tracer      trace.TracerProvider
	traceOutput io.Writer
	pointWriter observability.PointWriter
}

// Option configures a Service before its subsystems are built.
type Option func(*settings)

// WithRetriever replaces the config-created SDN retriever.
func WithRetriever(r Retriever) Option {
	return func(s *settings) { s.retriever = r }
}

// WithObserver adds an observer alongside the configured ones.
func WithObserver(o observability.Observer) Option {
	return func(s *settings) { s.observers = append(s.observers, o) }
}

// WithRegistry replaces the service's Prometheus registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(s *settings) { s.registry = r }
}

// WithLogger replaces slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithChangeFunc registers a change listener on the monitor.
func WithChangeFunc(fn monitor.ChangeFunc) Option {
	return func(s *settings) { s.changeFuncs = append(s.changeFuncs, fn) }
}

// WithTracerProvider replaces the config-created tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *settings) { s.tracer = tp }
}

// WithTraceOutput sets where the stdout trace exporter writes. The default
// is os.Stderr.
func WithTraceOutput(w io.Writer) Option {
	return func(s *settings) { s.traceOutput = w }
}

// WithPointWriter replaces the InfluxDB connection used by the influx
// observer.
func WithPointWriter(w observability.PointWriter) Option {
	return func(s *settings) { s.pointWriter = w }
}

// Service is a configured, runnable list monitor.
type Service struct {
	cfg       Config
	logger    *slog.Logger
	retriever Retriever
	monitor   *Monitor
	session   session.Session
	registry  *prometheus.Registry
	router    *gin.Engine
	server    *status.Server
	closers   []func(context.Context) error
}

// New validates cfg and builds every subsystem.
func New(cfg *Config, opts ...Option) (*Service, error) {
	set := settings{logger: slog.Default(), traceOutput: os.Stderr}
	for _, opt := range opts {
		opt(&set)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if set.retriever == nil && cfg.SDN.Source == "" {
		return nil, fmt.Errorf("%w: sdn source is required", ErrInvalidConfig)
	}

	s := &Service{
		cfg:       *cfg,
		logger:    set.logger,
		retriever: set.retriever,
		registry:  set.registry,
	}

	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if s.retriever == nil {
		r, err := sdn.NewRetriever(cfg.SDN, sdn.WithLogger(s.logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create retriever: %w", err)
		}
		s.retriever = r
	}

	tp := set.tracer
	if tp == nil {
		sdkTP, err := observability.NewTracerProvider(context.Background(), cfg.Observability.Tracing, set.traceOutput)
		if err != nil {
			return nil, fmt.Errorf("failed to create tracer provider: %w", err)
		}
		if sdkTP != nil {
			tp = sdkTP
			s.closers = append(s.closers, sdkTP.Shutdown)
		}
	}

	observer, err := s.buildObserver(&set)
	if err != nil {
		s.closeAll(context.Background())
		return nil, err
	}

	engine, err := diff.NewEngine[int, *sdn.Entry](sdn.Equal)
	if err != nil {
		return nil, fmt.Errorf("failed to create diff engine: %w", err)
	}

	monitorOpts := append(cfg.Monitor.Options(), monitor.WithObserver(observer))
	if tp != nil {
		monitorOpts = append(monitorOpts, monitor.WithTracerProvider(tp))
	}
	m, err := monitor.New[int, *sdn.Entry](s.retriever, engine, store.NewMemory[int, *sdn.Entry](), monitorOpts...)
	if err != nil {
		s.closeAll(context.Background())
		return nil, fmt.Errorf("failed to create monitor: %w", err)
	}
	sesh, err := session.New(&cfg.Session)
	if err != nil {
		s.closeAll(context.Background())
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.session = sesh

	listeners := append([]monitor.ChangeFunc{session.Listener(sesh)}, set.changeFuncs...)
	for _, fn := range listeners {
		if err := m.OnChange(fn); err != nil {
			s.closeAll(context.Background())
			return nil, fmt.Errorf("failed to register change listener: %w", err)
		}
	}
	s.monitor = m

	var middleware []gin.HandlerFunc
	if tp != nil {
		middleware = append(middleware, otelgin.Middleware(cfg.Monitor.Source, otelgin.WithTracerProvider(tp)))
	}
	s.router = status.NewRouter(statusProvider{m, sesh}, s.registry, middleware...)
	if cfg.Status.Enabled() {
		s.server = status.NewServer(cfg.Status, s.router, s.logger)
	}

	return s, nil
}

func (s *Service) buildObserver(set *settings) (observability.Observer, error) {
	var observers []observability.Observer

	for _, name := range s.cfg.Observability.Observers {
		switch name {
		case observability.ObserverSlog:
			observers = append(observers, observability.NewSlogObserver(s.logger))
		case observability.ObserverPrometheus:
			observers = append(observers, observability.NewPrometheusObserver(s.registry))
		case observability.ObserverInflux:
			w := set.pointWriter
			if w == nil {
				dialed, closeFn, err := observability.DialInflux(s.cfg.Observability.Influx)
				if err != nil {
					return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
				}
				s.closers = append(s.closers, func(context.Context) error {
					closeFn()
					return nil
				})
				w = dialed
			}
			observers = append(observers, observability.NewInfluxObserver(w, s.cfg.Observability.Influx.Measurement, s.logger))
		default:
			o, err := observability.GetObserver(name)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
			}
			observers = append(observers, o)
		}
	}

	observers = append(observers, set.observers...)
	multi := observability.NewMultiObserver(observers...)
	s.logger.Debug("observers configured", "names", s.cfg.Observability.Observers, "count", multi.Len())
	return multi, nil
}

type statusProvider struct {
	monitor *Monitor
	session session.Session
}

func (p statusProvider) Status() monitor.Status {
	return p.monitor.Status()
}

func (p statusProvider) Changes() []monitor.Notification {
	return p.session.Changes()
}

// Monitor returns the list monitor.
func (s *Service) Monitor() *Monitor {
	return s.monitor
}

// Session returns the change log of the current run.
func (s *Service) Session() session.Session {
	return s.session
}

// Handler returns the status HTTP handler, whether or not the server is
// enabled.
func (s *Service) Handler() http.Handler {
	return s.router
}

// Registry returns the Prometheus registry metrics are recorded on.
func (s *Service) Registry() *prometheus.Registry {
	return s.registry
}

// Server returns the status server, or nil when it is disabled.
func (s *Service) Server() *status.Server {
	return s.server
}

// Run seeds the store if configured, then runs the monitor and the status
// server until ctx is cancelled or either fails. The first failure stops the
// other. Cancellation of ctx is a clean stop and returns nil.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Seed {
		if err := s.seed(ctx); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.monitor.Run(gctx)
	})
	if s.server != nil {
		g.Go(func() error {
			return s.server.Serve(gctx)
		})
	}

	err := g.Wait()
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return nil
	}
	return err
}

func (s *Service) seed(ctx context.Context) error {
	entries, err := s.monitor.Seed(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	s.logger.InfoContext(ctx, "store seeded",
		"source", s.monitor.Source(),
		"entries", entries)
	return nil
}

// Close releases exporter connections. It is safe to call more than once.
func (s *Service) Close(ctx context.Context) error {
	return s.closeAll(ctx)
}

func (s *Service) closeAll(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
