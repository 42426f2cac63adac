package logging

import (
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// Tracker receives errors for out-of-band reporting. Reporting is fire and
// forget; implementations never block the caller on delivery.
type Tracker interface {
	CaptureException(err error)
	Flush(timeout time.Duration)
}

// NopTracker drops everything.
type NopTracker struct{}

func (NopTracker) CaptureException(error) {}
func (NopTracker) Flush(time.Duration)    {}

// SentryTracker forwards errors to Sentry.
type SentryTracker struct {
	hub *sentry.Hub
}

// NewTracker returns a Sentry backed tracker, or a NopTracker when dsn is empty.
func NewTracker(dsn, environment, release string, logger *zap.Logger) (Tracker, error) {
	if dsn == "" {
		return NopTracker{}, nil
	}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("sentry error tracking enabled", zap.String("environment", environment))
	return &SentryTracker{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

func (t *SentryTracker) CaptureException(err error) {
	if err == nil || IsCanceled(err) {
		return
	}
	t.hub.CaptureException(err)
}

func (t *SentryTracker) Flush(timeout time.Duration) {
	t.hub.Flush(timeout)
}
