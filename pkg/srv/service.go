// Package srv runs long-lived services and shuts them down together.
package srv

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandevgo/teammem/pkg/log"
)

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Run starts every service in its own goroutine and blocks until ctx is done
// or a service fails to start. All services are then shut down in order with
// a context that is no longer cancelled. The start failure, if any, is
// returned joined with shutdown errors.
func Run(ctx context.Context, services []Service) error {
	logger := log.FromCtx(ctx)
	failed := make(chan error, len(services))

	for _, service := range services {
		go func(service Service) {
			if err := service.Start(ctx); err != nil {
				failed <- fmt.Errorf("%T failed to start: %w", service, err)
			}
		}(service)
	}

	var startErr error
	select {
	case <-ctx.Done():
	case startErr = <-failed:
		logger.Error().Err(startErr).Msg("service failed, shutting down")
	}

	return errors.Join(startErr, Shutdown(context.WithoutCancel(ctx), services))
}

// Shutdown stops services in order and keeps going past failures.
func Shutdown(ctx context.Context, services []Service) error {
	var errs []error
	for _, service := range services {
		if err := service.Shutdown(ctx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", service)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
