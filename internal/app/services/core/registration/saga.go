package registration

import (
	"context"
	"errors"
	"net/http"

	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"
	"dococlock-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// Compensation undoes one completed step.
type Compensation func(ctx context.Context) error

type completedStep struct {
	name       string
	compensate Compensation
}

// Saga runs steps in order and remembers how to undo each one. When a step fails the
// completed steps are undone newest first.
type Saga struct {
	Name               string
	Completed          []string
	FailedStep         string
	CompensationErrors []error

	steps []completedStep
	log   *zap.Logger
}

func NewSaga(name string, logger *zap.Logger) *Saga {
	return &Saga{Name: name, log: logger}
}

// Execute runs action. On success compensate (which may be nil) is recorded for later; on
// failure every recorded compensation runs and the step error is returned.
func (s *Saga) Execute(ctx context.Context, name string, action func(ctx context.Context) error, compensate Compensation) error {
	requestID := utils.GetRequestID(ctx)

	err := action(ctx)
	if err != nil {
		s.FailedStep = name
		s.log.Error("saga.Execute step failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOperationKey, s.Name),
			zap.String(constvars.LoggingSagaStepKey, name),
			zap.Error(err),
		)
		s.rollback(ctx)
		return s.failure(err)
	}

	s.Completed = append(s.Completed, name)
	if compensate != nil {
		s.steps = append(s.steps, completedStep{name: name, compensate: compensate})
	}
	s.log.Info("saga.Execute step succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOperationKey, s.Name),
		zap.String(constvars.LoggingSagaStepKey, name),
	)
	return nil
}

// rollback keeps going after a failed compensation so that as much as possible is undone.
// It does not honour ctx cancellation.
func (s *Saga) rollback(ctx context.Context) {
	detached := utils.DetachedContext(ctx)
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.compensate(detached); err != nil {
			s.log.Error("saga.rollback compensation failed",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
				zap.String(constvars.LoggingOperationKey, s.Name),
				zap.String(constvars.LoggingSagaStepKey, step.name),
				zap.Error(err),
			)
			s.CompensationErrors = append(s.CompensationErrors, err)
			continue
		}
		s.log.Info("saga.rollback compensated step",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingOperationKey, s.Name),
			zap.String(constvars.LoggingSagaStepKey, step.name),
		)
	}
	s.steps = nil
}

// failure passes client errors through untouched when the rollback was clean, so a taken
// email still reads as a 400. Everything else becomes a registration failure carrying
// the step error and every compensation error.
func (s *Saga) failure(stepErr error) error {
	var customErr *exceptions.CustomError
	if len(s.CompensationErrors) == 0 && errors.As(stepErr, &customErr) && customErr.StatusCode < http.StatusInternalServerError {
		return stepErr
	}
	joined := errors.Join(append([]error{stepErr}, s.CompensationErrors...)...)
	return exceptions.ErrRegistrationStep(joined, s.FailedStep)
}
