package db

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// DefaultConnectTimeout bounds how long Connect keeps retrying.
const DefaultConnectTimeout = time.Minute

// Connect opens the repository, retrying with exponential backoff while the
// database is still coming up. A bad configuration fails immediately.
func Connect(ctx context.Context, cfg *Config, logger *zap.Logger, timeout time.Duration) (*Repository, error) {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = timeout

	var repo *Repository
	err := backoff.RetryNotify(func() error {
		r, err := NewRepository(cfg)
		if err != nil {
			if errors.Is(err, ErrUnsupportedDriver) {
				return backoff.Permanent(err)
			}
			return err
		}
		repo = r
		return nil
	}, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		logger.Warn("Database not ready, retrying",
			zap.Error(err),
			zap.Duration("wait", wait),
		)
	})
	if err != nil {
		return nil, err
	}
	return repo, nil
}
