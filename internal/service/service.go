// Package service implements the trip application service: it loads state,
// runs the authorization kernel, applies domain transitions, persists the
// result, and emits journal events.
package service

import (
	"time"

	"github.com/wanderlist/wanderlist/internal/platform/id"
	"github.com/wanderlist/wanderlist/internal/storage"
	"github.com/wanderlist/wanderlist/internal/trip/event"
	"github.com/wanderlist/wanderlist/internal/trip/invite"
)

// Stores groups the persistence interfaces the service depends on.
type Stores struct {
	Trips       storage.TripStore
	Members     storage.MemberStore
	Users       storage.UserDirectory
	Expenses    storage.ExpenseStore
	Projections storage.ProjectionStore
	Events      storage.EventStore
}

// Service coordinates trip and membership operations.
type Service struct {
	stores      Stores
	emitter     *event.Emitter
	clock       func() time.Time
	idGenerator func() (string, error)
	// grantSigner issues invitation grants when configured; nil disables
	// grant issuance without affecting the rest of the invitation flow.
	grantSigner *invite.SignerConfig
	// grantVerifier checks invitation grants presented on accept.
	grantVerifier *invite.GrantConfig
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithClock overrides the service clock. Tests use this for fixed time.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides ID generation.
func WithIDGenerator(idGenerator func() (string, error)) Option {
	return func(s *Service) {
		if idGenerator != nil {
			s.idGenerator = idGenerator
		}
	}
}

// WithGrantSigner enables invitation grant issuance.
func WithGrantSigner(cfg invite.SignerConfig) Option {
	return func(s *Service) {
		s.grantSigner = &cfg
	}
}

// WithGrantVerifier enables invitation grant verification on accept.
func WithGrantVerifier(cfg invite.GrantConfig) Option {
	return func(s *Service) {
		s.grantVerifier = &cfg
	}
}

// New creates a trip service over the given stores.
func New(stores Stores, emitter *event.Emitter, opts ...Option) *Service {
	s := &Service{
		stores:      stores,
		emitter:     emitter,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}
