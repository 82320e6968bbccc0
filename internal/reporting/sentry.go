package reporting

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Reporter forwards unexpected errors to Sentry. A nil Reporter, or one built
// with an empty DSN, drops everything.
type Reporter struct {
	hub *sentry.Hub
}

// New initializes a Sentry client. An empty dsn yields a disabled Reporter.
func New(dsn, environment, release string) (*Reporter, error) {
	if dsn == "" {
		return &Reporter{}, nil
	}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
	})
	if err != nil {
		return nil, fmt.Errorf("init sentry: %w", err)
	}
	return &Reporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// NewWithHub wraps an existing hub.
func NewWithHub(hub *sentry.Hub) *Reporter {
	return &Reporter{hub: hub}
}

// Enabled reports whether events are sent anywhere.
func (r *Reporter) Enabled() bool {
	return r != nil && r.hub != nil && r.hub.Client() != nil
}

// Capture reports err with the given tags.
func (r *Reporter) Capture(err error, tags map[string]string) {
	if !r.Enabled() || err == nil {
		return
	}
	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		r.hub.CaptureException(err)
	})
}

// Flush waits for buffered events to be delivered.
func (r *Reporter) Flush(timeout time.Duration) bool {
	if !r.Enabled() {
		return true
	}
	return r.hub.Flush(timeout)
}
