// Package service provides the engine facade consumed by the presentation
// layer: session recording, daily snapshots, eligibility gating, difficulty
// advice, and anti-repetition-checked session generation.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/cognigate/internal/adapters/repository"
	"github.com/okian/cognigate/internal/domain/antirep"
	"github.com/okian/cognigate/internal/domain/baseline"
	"github.com/okian/cognigate/internal/domain/decay"
	"github.com/okian/cognigate/internal/domain/dedupe"
	"github.com/okian/cognigate/internal/domain/model"
	"github.com/okian/cognigate/internal/domain/types"
	"github.com/okian/cognigate/pkg/logger"
	"github.com/okian/cognigate/pkg/metrics"
	"github.com/okian/cognigate/pkg/retry"
)

// Service implements the engine's outward-facing operations. All scoring and
// gating underneath is pure; the service adds store access, retries, logging,
// and metrics.
type Service struct {
	mu sync.RWMutex

	// Core components.
	store      repository.Store
	quotas     *repository.Quotas
	calibrator *baseline.Calibrator
	tracker    *decay.Tracker
	engine     *antirep.Engine
	guard      dedupe.Guard

	// Configuration.
	defaultPlan     types.PlanID
	writePolicy     retry.Policy
	comboWindow     int
	comboAttempts   int
	comboRetention  int
	dedupeSize      int
	calibrationDays int

	// State.
	started bool

	// Logging.
	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistence collaborator. Defaults to the in-memory
// reference store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithDefaultPlan sets the plan used when a caller supplies none.
func WithDefaultPlan(id types.PlanID) Option {
	return func(s *Service) {
		if id != "" {
			s.defaultPlan = id
		}
	}
}

// WithWritePolicy sets the retry policy for store writes.
func WithWritePolicy(p retry.Policy) Option {
	return func(s *Service) {
		s.writePolicy = p
	}
}

// WithComboRecentWindow sets how many recent combos generation checks against.
func WithComboRecentWindow(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.comboWindow = n
		}
	}
}

// WithComboMaxAttempts sets the anti-repetition regeneration ceiling.
func WithComboMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.comboAttempts = n
		}
	}
}

// WithComboRetention bounds how much combo history the default in-memory
// store retains per (user, game). Ignored when WithStore supplies a store.
func WithComboRetention(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.comboRetention = n
		}
	}
}

// WithDedupeSize bounds the idempotency guard.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.dedupeSize = n
		}
	}
}

// WithCalibrationWindowDays overrides the baseline calibration window.
func WithCalibrationWindowDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.calibrationDays = days
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultPlan:     types.PlanExpert,
		writePolicy:     retry.NewPolicy(),
		comboWindow:     antirep.DefaultRecentWindow,
		comboAttempts:   antirep.DefaultMaxAttempts,
		dedupeSize:      100_000,
		calibrationDays: baseline.CalibrationWindowDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start wires the components. Safe to call once; subsequent calls no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	if s.store == nil {
		s.store = repository.NewMemStore(repository.WithComboRetention(s.comboRetention))
		s.log.Info(ctx, "using in-memory store")
	}

	s.quotas = repository.NewQuotas(s.store)
	s.calibrator = baseline.New(baseline.WithWindowDays(s.calibrationDays))
	s.tracker = decay.New()
	s.guard = dedupe.NewInMemoryGuard(dedupe.WithMaxSize(s.dedupeSize))
	s.engine = antirep.New(s.store, s.store,
		antirep.WithRecentWindow(s.comboWindow),
		antirep.WithMaxAttempts(s.comboAttempts),
		antirep.WithRecordPolicy(s.writePolicy),
		antirep.WithLogger(s.log),
	)

	s.started = true
	s.log.Info(ctx, "engine started",
		logger.String("default_plan", string(s.defaultPlan)),
		logger.Int("combo_window", s.comboWindow),
		logger.Int("combo_attempts", s.comboAttempts),
	)
	return nil
}

// Stop releases the service. The in-memory components have nothing to flush;
// the hook exists for store implementations that do.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
}

// plan resolves a plan id, falling back to the configured default.
func (s *Service) plan(id types.PlanID) model.Plan {
	if id == "" {
		id = s.defaultPlan
	}
	return model.PlanByID(id)
}

// write runs a store write under the configured retry policy, counting
// retries and terminal failures.
func (s *Service) write(ctx context.Context, fn func(ctx context.Context) error) error {
	first := true
	return retry.Do(ctx, s.writePolicy, func(ctx context.Context) error {
		if !first {
			metrics.RecordStoreRetry()
		}
		first = false
		return fn(ctx)
	})
}

// now is stubbed in tests.
var now = func() time.Time { return time.Now().UTC() }
