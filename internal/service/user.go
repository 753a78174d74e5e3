// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/userhub/userhub/internal/events"
	"github.com/userhub/userhub/internal/metrics"
	"github.com/userhub/userhub/internal/model"
	"github.com/userhub/userhub/internal/repository"
)

// Service errors.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("user not found")
	ErrInvalidRange    = fmt.Errorf("%w: from must be earlier than or equal to to", ErrInvalidArgument)
)

// ValidationError lists every rule a candidate record violated.
// It matches ErrInvalidArgument under errors.Is.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return "invalid user: " + strings.Join(parts, "; ")
}

// Is reports whether target is ErrInvalidArgument.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// UserService handles user business logic.
//
// Updates are load, merge, validate, save with no transaction around them:
// two concurrent updates of the same id can race and the last save wins.
type UserService struct {
	store     repository.Store
	validator *Validator
	metrics   metrics.Recorder
	events    events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a UserService.
type Option func(*UserService)

// WithClock sets the clock used to decide "today". Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *UserService) { s.now = now }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(recorder metrics.Recorder) Option {
	return func(s *UserService) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// WithEvents sets the publisher notified after every successful mutation.
func WithEvents(publisher events.Publisher) Option {
	return func(s *UserService) {
		if publisher != nil {
			s.events = publisher
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *UserService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewUserService creates a new UserService enforcing the given minimum age.
func NewUserService(store repository.Store, minAge int, opts ...Option) *UserService {
	s := &UserService{
		store:   store,
		metrics: metrics.NewNoop(),
		events:  events.NoopPublisher{},
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.validator = NewValidator(minAge, s.now)
	return s
}

// List returns the users born between from and to inclusive, ascending by birthday.
func (s *UserService) List(ctx context.Context, from, to model.Date) ([]model.User, error) {
	if from.After(to) {
		return nil, ErrInvalidRange
	}

	start := time.Now()
	users := s.store.FindByBirthDateRange(from, to)
	s.metrics.ObserveRangeQuery(time.Since(start), len(users))

	return users, nil
}

// Create validates and stores a new user. Any id on the candidate is discarded.
func (s *UserService) Create(ctx context.Context, candidate model.User) (model.User, error) {
	user := candidate.Clone()
	user.ID = uuid.Nil

	if err := s.validate(ctx, user); err != nil {
		return model.User{}, err
	}

	s.store.Save(&user)
	s.metrics.IncUserCreated()
	s.publish(events.TypeCreated, user.ID)

	return user, nil
}

// PartialUpdate overlays the supplied fields of patch onto the stored user,
// validates the merged record in full and stores it. The stored record is left
// untouched when validation fails. An empty patch returns the stored record
// without writing it.
func (s *UserService) PartialUpdate(ctx context.Context, id uuid.UUID, patch model.UserPatch) (model.User, error) {
	existing, ok := s.store.FindByID(id)
	if !ok {
		s.metrics.IncUserNotFound()
		return model.User{}, ErrNotFound
	}

	if patch.IsEmpty() {
		return existing, nil
	}

	user := patch.Apply(existing)
	user.ID = id

	if err := s.validate(ctx, user); err != nil {
		return model.User{}, err
	}

	s.store.Save(&user)
	s.metrics.IncUserUpdated()
	s.publish(events.TypeUpdated, user.ID)

	return user, nil
}

// Replace validates candidate and stores it under id, creating the record if
// it does not exist. The path id wins over any id on the candidate.
func (s *UserService) Replace(ctx context.Context, id uuid.UUID, candidate model.User) (model.User, error) {
	user := candidate.Clone()
	user.ID = id

	if err := s.validate(ctx, user); err != nil {
		return model.User{}, err
	}

	s.store.Save(&user)
	s.metrics.IncUserReplaced()
	s.publish(events.TypeReplaced, user.ID)

	return user, nil
}

// Delete removes the user. It never fails, whether or not the user existed.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) {
	s.store.Delete(id)
	s.metrics.IncUserDeleted()
	s.publish(events.TypeDeleted, id)
}

func (s *UserService) publish(t events.Type, id uuid.UUID) {
	s.events.PublishAsync(events.New(t, id, s.now()))
}

func (s *UserService) validate(ctx context.Context, user model.User) error {
	violations := s.validator.Validate(user)
	if len(violations) == 0 {
		return nil
	}

	s.metrics.IncValidationFailed()

	verr := &ValidationError{Violations: violations}
	s.logger.DebugContext(ctx, "user_rejected",
		slog.String("user_id", user.ID.String()),
		slog.String("reason", verr.Error()),
	)
	return verr
}
