// Package service implements the consensus engine of the registry.
//
// Every operation takes an explicit, already-resolved caller identity; the
// transport collaborator authenticates and injects it. Operations validate
// all preconditions against current state before mutating anything, apply
// their mutation atomically inside one store update, and emit domain events
// only after the update commits. A rejected operation changes nothing and
// emits nothing.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	regmetrics "vouchnet/internal/registry/metrics"
	"vouchnet/internal/registry/models"
	"vouchnet/internal/registry/store"
	id "vouchnet/pkg/domain"
	"vouchnet/pkg/platform/events"
	"vouchnet/pkg/requestcontext"
)

// Store is the single consistency domain holding all registry state.
type Store interface {
	Update(ctx context.Context, fn func(*store.State) error) error
	View(ctx context.Context, fn func(*store.State) error) error
}

// StatusCache is an optional read-side cache for customer views. Best
// effort: the store stays authoritative and cache failures are ignored.
type StatusCache interface {
	Get(ctx context.Context, username id.Username) (CustomerView, bool)
	Set(ctx context.Context, view CustomerView)
	Invalidate(ctx context.Context, username id.Username)
}

// CustomerView is the read model returned by ViewCustomer.
type CustomerView struct {
	Username id.Username `json:"username"`
	Data     string      `json:"data"`
	Approved bool        `json:"approved"`
}

// Service orchestrates the bank registry, customer ledger, request queue and
// vote ledger. The administrator identity is a field, not a global.
type Service struct {
	admin     id.BankID
	store     Store
	publisher events.Publisher
	cache     StatusCache
	metrics   *regmetrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
}

type serviceConfig struct {
	publisher events.Publisher
	cache     StatusCache
	metrics   *regmetrics.Metrics
	logger    *slog.Logger
}

// Option configures the Service.
type Option func(*serviceConfig)

// WithPublisher sets the domain event publisher. Delivery is fail-open.
func WithPublisher(p events.Publisher) Option {
	return func(c *serviceConfig) { c.publisher = p }
}

// WithCache sets the read-side customer view cache.
func WithCache(cache StatusCache) Option {
	return func(c *serviceConfig) { c.cache = cache }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *regmetrics.Metrics) Option {
	return func(c *serviceConfig) { c.metrics = m }
}

// WithLogger sets a logger for event delivery failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) { c.logger = logger }
}

// New constructs the consensus engine. admin is the identity allowed to
// onboard and evict banks.
func New(admin id.BankID, st Store, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		admin:     admin,
		store:     st,
		publisher: cfg.publisher,
		cache:     cfg.cache,
		metrics:   cfg.metrics,
		logger:    logger,
		tracer:    otel.Tracer("vouchnet/internal/registry"),
	}
}

// emit publishes events after a committed mutation. Failures are logged and
// dropped; the operation has already succeeded and stays succeeded.
func (s *Service) emit(ctx context.Context, evs []models.Event) {
	if s.publisher == nil || len(evs) == 0 {
		return
	}
	requestID := requestcontext.RequestID(ctx)
	for _, ev := range evs {
		out := events.Event{
			ID:        uuid.NewString(),
			Type:      string(ev.Type),
			Actor:     ev.Actor.String(),
			Bank:      ev.Bank.String(),
			Username:  ev.Username.String(),
			CanVote:   ev.CanVote,
			RequestID: requestID,
			Timestamp: ev.Timestamp,
		}
		if err := s.publisher.Emit(ctx, out); err != nil {
			s.logger.ErrorContext(ctx, "event delivery failed",
				"type", ev.Type,
				"request_id", requestID,
				"error", err,
			)
		}
	}
}

func (s *Service) invalidate(ctx context.Context, username id.Username) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, username)
	}
}

func (s *Service) setEligiblePool(total, banned uint) {
	if s.metrics != nil {
		s.metrics.SetEligiblePool(total, banned)
	}
}
