package inference

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
)

// Limited bounds how many calls reach the wrapped Generator at once and how
// long each may take. Waiting for a slot stops when ctx is done.
type Limited struct {
	next    Generator
	sem     *semaphore.Weighted
	timeout time.Duration
}

func NewLimited(next Generator, concurrency int, timeout time.Duration) *Limited {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Limited{
		next:    next,
		sem:     semaphore.NewWeighted(int64(concurrency)),
		timeout: timeout,
	}
}

func (l *Limited) Generate(ctx context.Context, prompt string) (string, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer l.sem.Release(1)

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	return l.next.Generate(ctx, prompt)
}
