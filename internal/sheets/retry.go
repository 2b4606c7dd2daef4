package sheets

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/sethvargo/go-retry"
	"google.golang.org/api/googleapi"

	"github.com/coletalabs/coleta/internal/repository"
)

// Policy bounds the shared retry behavior for all store calls.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultPolicy matches the spreadsheet API's quota window: a few quick
// attempts with doubling delay and jitter.
var DefaultPolicy = Policy{MaxAttempts: 4, BaseDelay: 500 * time.Millisecond}

func (p Policy) normalize() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultPolicy.MaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultPolicy.BaseDelay
	}
	return p
}

// isTransient reports whether an error is worth retrying: quota and rate
// limits, server-side failures, and network blips. Auth and range errors
// are permanent and surface immediately.
func isTransient(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// do runs op under the policy, retrying only transient errors. When the
// retry budget is spent on a transient error the result wraps
// repository.ErrUnavailable so callers can tell exhaustion from a
// permanent failure.
func (p Policy) do(ctx context.Context, op func(ctx context.Context) error) error {
	p = p.normalize()

	b := retry.NewExponential(p.BaseDelay)
	b = retry.WithJitterPercent(10, b)
	b = retry.WithMaxRetries(uint64(p.MaxAttempts-1), b)

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		if err := op(ctx); err != nil {
			if isTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil && isTransient(err) {
		return fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	return err
}

// retryingStore decorates a RowStore with the shared retry policy so the
// backoff logic lives in exactly one place.
type retryingStore struct {
	inner  RowStore
	policy Policy
}

// WithRetry wraps a RowStore so every call retries transient failures
// under the given policy.
func WithRetry(inner RowStore, policy Policy) RowStore {
	return &retryingStore{inner: inner, policy: policy}
}

func (s *retryingStore) Rows(ctx context.Context, table string) ([][]string, error) {
	var rows [][]string
	err := s.policy.do(ctx, func(ctx context.Context) error {
		var err error
		rows, err = s.inner.Rows(ctx, table)
		return err
	})
	return rows, err
}

func (s *retryingStore) RowAt(ctx context.Context, table string, row int) ([]string, error) {
	var out []string
	err := s.policy.do(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.inner.RowAt(ctx, table, row)
		return err
	})
	return out, err
}

func (s *retryingStore) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	return s.policy.do(ctx, func(ctx context.Context) error {
		return s.inner.UpdateCell(ctx, table, row, col, value)
	})
}

func (s *retryingStore) UpdateRange(ctx context.Context, table string, updates []CellUpdate) error {
	return s.policy.do(ctx, func(ctx context.Context) error {
		return s.inner.UpdateRange(ctx, table, updates)
	})
}

func (s *retryingStore) Append(ctx context.Context, table string, rows [][]string) error {
	return s.policy.do(ctx, func(ctx context.Context) error {
		return s.inner.Append(ctx, table, rows)
	})
}

func (s *retryingStore) EnsureTable(ctx context.Context, table string, header []string) error {
	return s.policy.do(ctx, func(ctx context.Context) error {
		return s.inner.EnsureTable(ctx, table, header)
	})
}
