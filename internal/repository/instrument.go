package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/flight-transfer-admin/internal/metrics"
	"github.com/iliyamo/flight-transfer-admin/internal/model"
)

// instrumentedStore records call counts, failures and latency of another
// TransferStore and logs every failure.
type instrumentedStore struct {
	next    TransferStore
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// Instrument decorates s with prometheus metrics and zap logging.  Either m
// or logger may be nil.
func Instrument(s TransferStore, m *metrics.Metrics, logger *zap.Logger) TransferStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &instrumentedStore{next: s, metrics: m, logger: logger}
}

func (s *instrumentedStore) observe(op string, start time.Time, err error, fields ...zap.Field) {
	if s.metrics != nil {
		s.metrics.StoreCalls.WithLabelValues(op).Inc()
		s.metrics.StoreDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		if err != nil {
			s.metrics.StoreErrors.WithLabelValues(op).Inc()
		}
	}
	if err == nil {
		return
	}
	fields = append(fields, zap.String("operation", op), zap.Error(err))
	if errors.Is(err, ErrTransferNotFound) {
		s.logger.Warn("transfer not found", fields...)
		return
	}
	s.logger.Error("transfer store call failed", fields...)
}

func (s *instrumentedStore) List(ctx context.Context) ([]model.Transfer, error) {
	start := time.Now()
	items, err := s.next.List(ctx)
	s.observe(OpList, start, err)
	return items, err
}

func (s *instrumentedStore) Insert(ctx context.Context, f model.TransferFields) (model.Transfer, error) {
	start := time.Now()
	t, err := s.next.Insert(ctx, f)
	s.observe(OpInsert, start, err, zap.String("flight_code", f.FlightCode))
	return t, err
}

func (s *instrumentedStore) Update(ctx context.Context, id uint64, f model.TransferFields) error {
	start := time.Now()
	err := s.next.Update(ctx, id, f)
	s.observe(OpUpdate, start, err, zap.Uint64("transfer_id", id))
	return err
}

func (s *instrumentedStore) Delete(ctx context.Context, id uint64) error {
	start := time.Now()
	err := s.next.Delete(ctx, id)
	s.observe(OpDelete, start, err, zap.Uint64("transfer_id", id))
	return err
}
