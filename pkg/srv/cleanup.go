package srv

import "context"

// cleanupService only does work on shutdown, e.g. closing a database.
type cleanupService struct {
	cleanup func() error
}

func (c *cleanupService) Start(ctx context.Context) error {
	return nil
}

func (c *cleanupService) Shutdown(ctx context.Context) error {
	if c.cleanup != nil {
		return c.cleanup()
	}
	return nil
}

func NewCleanup(fn func() error) Service {
	return &cleanupService{cleanup: fn}
}

// NewCleanupFunc adapts closers that cannot fail.
func NewCleanupFunc(fn func()) Service {
	return NewCleanup(func() error {
		fn()
		return nil
	})
}
