package srv

import "context"

// funcService adapts plain functions to Service.
type funcService struct {
	start   func(ctx context.Context) error
	cleanup func() error
}

func (c *funcService) Start(ctx context.Context) error {
	if c.start != nil {
		return c.start(ctx)
	}
	return nil
}

func (c *funcService) Shutdown(ctx context.Context) error {
	if c.cleanup != nil {
		return c.cleanup()
	}
	return nil
}

// NewCleanup registers fn to run on shutdown.
func NewCleanup(fn func() error) Service {
	return &funcService{cleanup: fn}
}

// NewFunc wraps a blocking start function and an optional cleanup.
func NewFunc(start func(ctx context.Context) error, cleanup func() error) Service {
	return &funcService{start: start, cleanup: cleanup}
}
