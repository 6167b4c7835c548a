package sync

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when no user or access token is available.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrSyncInProgress is returned when a sync operation is invoked while
// another one is still in flight. Callers should treat it as "try again
// later", not as a fatal error.
var ErrSyncInProgress = errors.New("sync already in progress")

// PushError is a failed push request. StatusCode is 0 when the request
// never reached the server.
type PushError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *PushError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("push failed: %v", e.Err)
	}
	return fmt.Sprintf("push failed: server returned %d: %s", e.StatusCode, e.Body)
}

func (e *PushError) Unwrap() error { return e.Err }

// PullError is a failed pull request. StatusCode is 0 when the request
// never reached the server.
type PullError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *PullError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pull failed: %v", e.Err)
	}
	return fmt.Sprintf("pull failed: server returned %d: %s", e.StatusCode, e.Body)
}

func (e *PullError) Unwrap() error { return e.Err }

// RetryError wraps the last error after all backoff attempts for one sync
// phase are exhausted.
type RetryError struct {
	Phase    string // "pull" or "push"
	Attempts int
	Err      error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Phase, e.Attempts, e.Err)
}

func (e *RetryError) Unwrap() error { return e.Err }
