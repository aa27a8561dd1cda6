package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/iliyamo/flight-transfer-admin/internal/metrics"
	"github.com/iliyamo/flight-transfer-admin/internal/model"
	"github.com/iliyamo/flight-transfer-admin/internal/queue"
	"github.com/iliyamo/flight-transfer-admin/internal/repository"
)

// eventStore publishes a TransferChangedEvent after every successful write
// of the wrapped store.  Publish failures are logged and never fail the
// write.
type eventStore struct {
	repository.TransferStore
	pub     Publisher
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// WithEvents wraps s so that inserts, updates and deletes are announced on
// pub.  m and logger may be nil.
func WithEvents(s repository.TransferStore, pub Publisher, m *metrics.Metrics, logger *zap.Logger) repository.TransferStore {
	if pub == nil {
		return s
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &eventStore{TransferStore: s, pub: pub, metrics: m, logger: logger}
}

func (s *eventStore) emit(ctx context.Context, ev queue.TransferChangedEvent) {
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.logger.Warn("publish transfer event failed",
			zap.String("action", ev.Action),
			zap.Uint64("transfer_id", ev.TransferID),
			zap.Error(err))
		return
	}
	if s.metrics != nil {
		s.metrics.EventsSent.WithLabelValues(ev.Action).Inc()
	}
}

func (s *eventStore) Insert(ctx context.Context, f model.TransferFields) (model.Transfer, error) {
	t, err := s.TransferStore.Insert(ctx, f)
	if err == nil {
		s.emit(ctx, queue.NewTransferChangedEvent(queue.ActionCreated, t.ID, t.FlightCode))
	}
	return t, err
}

func (s *eventStore) Update(ctx context.Context, id uint64, f model.TransferFields) error {
	err := s.TransferStore.Update(ctx, id, f)
	if err == nil {
		s.emit(ctx, queue.NewTransferChangedEvent(queue.ActionUpdated, id, f.FlightCode))
	}
	return err
}

func (s *eventStore) Delete(ctx context.Context, id uint64) error {
	err := s.TransferStore.Delete(ctx, id)
	if err == nil {
		s.emit(ctx, queue.NewTransferChangedEvent(queue.ActionDeleted, id, ""))
	}
	return err
}
