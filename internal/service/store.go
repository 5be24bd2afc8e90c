package service

import (
	"context"
	"database/sql"
	"errors"
	"html"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/microcosm-cc/bluemonday"

	appErrors "github.com/noah-isme/campus-hub-api/pkg/errors"
	"github.com/noah-isme/campus-hub-api/pkg/lock"
)

const defaultStoreTimeout = 5 * time.Second

// storeScope bounds calls into the backing store.
type storeScope struct {
	timeout time.Duration
}

func newStoreScope(timeout time.Duration) storeScope {
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return storeScope{timeout: timeout}
}

// read bounds a read by the store timeout; reads follow the caller's cancellation.
func (s storeScope) read(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// write detaches from the caller's cancellation so an abandoned request still commits,
// then applies the store timeout.
func (s storeScope) write(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
}

// queryCanceled is the Postgres code lib/pq surfaces when a running statement is cancelled,
// which is how a context deadline that fires mid-query arrives.
const queryCanceled = "57014"

// storeError maps a repository failure onto the error taxonomy. ctx is the scoped context the
// failed call ran under.
func storeError(ctx context.Context, err error, notFound, failed string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	case storeTimedOut(ctx, err):
		return appErrors.Wrap(err, appErrors.ErrTimeout.Code, appErrors.ErrTimeout.Status, appErrors.ErrTimeout.Message)
	default:
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, failed)
	}
}

func storeTimedOut(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if ctx != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == queryCanceled
}

// acquire takes the keyed locks under ctx. A caller that cannot get them before the store
// deadline gets a timeout instead of waiting on the holder indefinitely.
func acquire(ctx context.Context, locks *lock.KeyedMutex, keys ...string) (func(), error) {
	unlock, err := locks.LockAll(ctx, keys...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTimeout.Code, appErrors.ErrTimeout.Status, "timed out waiting for a concurrent change")
	}
	return unlock, nil
}

var textPolicy = bluemonday.StrictPolicy()

// sanitizeText strips markup from user text and returns it as plain, trimmed text.
func sanitizeText(raw string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(raw)))
}
