package service

import (
	"context"
	"sync"
	"time"

	"github.com/Astemirdum/department-portal/pkg/kafka"
	"github.com/Astemirdum/department-portal/portal/internal/model"
	"github.com/Astemirdum/department-portal/portal/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier receives domain events after a workflow has persisted its state.
type Notifier interface {
	Publish(ctx context.Context, event kafka.EventPortal)
}

type nopNotifier struct{}

func (nopNotifier) Publish(context.Context, kafka.EventPortal) {}

type Service struct {
	log      *zap.Logger
	repo     repository.Repository
	notifier Notifier

	// mu runs workflows one at a time; each is a read-compute-write cycle
	// spanning several buckets.
	mu sync.Mutex

	now   func() time.Time
	newID func() string

	loanPeriod      time.Duration
	restockOnReturn bool
}

type Option func(s *Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

func WithLoanPeriod(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.loanPeriod = d
		}
	}
}

// WithRestockOnReturn makes the Returned transition give the copy back to
// the catalogue.
func WithRestockOnReturn(enabled bool) Option {
	return func(s *Service) {
		s.restockOnReturn = enabled
	}
}

const defaultLoanPeriod = 14 * 24 * time.Hour

func NewService(repo repository.Repository, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:        log.Named("service"),
		repo:       repo,
		notifier:   nopNotifier{},
		now:        time.Now,
		newID:      uuid.NewString,
		loanPeriod: defaultLoanPeriod,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() string {
	return s.now().UTC().Format(model.DateLayout)
}

func (s *Service) publish(ctx context.Context, event kafka.EventPortal) {
	event.Timestamp = s.now().UTC()
	s.notifier.Publish(ctx, event)
}
