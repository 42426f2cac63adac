package announce

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stake-plus/govtool/src/types"
)

// Event is a registration announcement.
type Event struct {
	Kind         string
	DRepID       string
	Name         string
	TxHash       string
	MetadataURL  string
	MetadataHash string
	At           time.Time
}

// Values flattens the event for a redis stream entry.
func (e Event) Values() map[string]interface{} {
	return map[string]interface{}{
		"kind":          e.Kind,
		"drep_id":       e.DRepID,
		"name":          e.Name,
		"tx_hash":       e.TxHash,
		"metadata_url":  e.MetadataURL,
		"metadata_hash": e.MetadataHash,
		"at":            e.At.UTC().Format(time.RFC3339),
	}
}

// Sink delivers events somewhere.
type Sink interface {
	Send(ctx context.Context, e Event) error
}

// Announcer fans events out to every sink.
type Announcer struct {
	sinks  []Sink
	logger *zap.Logger
}

func New(logger *zap.Logger, sinks ...Sink) *Announcer {
	return &Announcer{sinks: sinks, logger: logger}
}

// AnnounceRegistration sends reg to all sinks; one failing sink does not
// stop the others.
func (a *Announcer) AnnounceRegistration(ctx context.Context, reg types.DRepRegistration) error {
	e := Event{
		Kind:         reg.Kind,
		DRepID:       reg.DRepID,
		Name:         reg.Name,
		TxHash:       reg.TxHash,
		MetadataURL:  reg.MetadataURL,
		MetadataHash: reg.MetadataHash,
		At:           time.Now(),
	}
	var errs []error
	for _, s := range a.sinks {
		if err := s.Send(ctx, e); err != nil {
			a.logger.Warn("announce failed", zap.String("sink", fmt.Sprintf("%T", s)), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
