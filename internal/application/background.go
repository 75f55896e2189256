package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/learnpath-auth/pkg/helpers"
)

// Background runs fire-and-forget work detached from the request that
// started it. Failures are logged, and Wait lets shutdown drain pending jobs.
type Background struct {
	wg      sync.WaitGroup
	logger  *logrus.Logger
	timeout time.Duration
}

func NewBackground(logger *logrus.Logger, timeout time.Duration) *Background {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Background{logger: logger, timeout: timeout}
}

// Go runs fn on its own goroutine with a context that keeps ctx's values
// but not its cancellation, bounded by the runner timeout.
func (b *Background) Go(ctx context.Context, name string, fields logrus.Fields, fn func(context.Context) error) {
	detached := context.WithoutCancel(ctx)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		c, cancel := context.WithTimeout(detached, b.timeout)
		defer cancel()

		err := func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			return fn(c)
		}()
		if err != nil && b.logger != nil {
			f := logrus.Fields{"job": name}
			for k, v := range fields {
				f[k] = v
			}
			helpers.LogError(b.logger, "background job failed", err, f)
		}
	}()
}

// Wait blocks until all started jobs finish or ctx ends.
func (b *Background) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
