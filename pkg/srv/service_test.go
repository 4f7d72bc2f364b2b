package srv

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestShutdownServices_ReverseOrder(t *testing.T) {
	var (
		mu    sync.Mutex
		order []string
	)
	record := func(name string) func() error {
		return func() error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}

	services := []Service{
		NewCleanup(record("db")),
		NewCleanup(record("cache")),
		NewCleanup(record("transport")),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ShutdownServices(ctx, services)

	assert.Equal(t, []string{"transport", "cache", "db"}, order)
}

func TestStartServices_RunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})

	svc := NewFunc(func(ctx context.Context) error {
		<-ctx.Done()
		close(stopped)
		return nil
	}, nil)

	StartServices(ctx, []Service{svc})
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("service did not observe cancellation")
	}
}
