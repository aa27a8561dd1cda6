package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/flight-transfer-admin/internal/metrics"
	"github.com/iliyamo/flight-transfer-admin/internal/model"
)

type failingStore struct{ err error }

func (s failingStore) List(context.Context) ([]model.Transfer, error) { return nil, s.err }
func (s failingStore) Insert(context.Context, model.TransferFields) (model.Transfer, error) {
	return model.Transfer{}, s.err
}
func (s failingStore) Update(context.Context, uint64, model.TransferFields) error { return s.err }
func (s failingStore) Delete(context.Context, uint64) error                       { return s.err }

func TestInstrument(t *testing.T) {
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	core, logs := observer.New(zap.InfoLevel)

	boom := &StoreError{Op: OpList, Err: errors.New("connection refused")}
	store := Instrument(failingStore{err: boom}, m, zap.New(core))

	_, err := store.List(context.Background())
	assert.Same(t, boom, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreCalls.WithLabelValues(OpList)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreErrors.WithLabelValues(OpList)))

	entries := logs.FilterMessage("transfer store call failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, OpList, entries[0].ContextMap()["operation"])
}

func TestInstrument_NotFoundIsWarning(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	store := Instrument(failingStore{err: wrap(OpDelete, ErrTransferNotFound)}, nil, zap.New(core))

	err := store.Delete(context.Background(), 4)
	assert.True(t, errors.Is(err, ErrTransferNotFound))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zap.WarnLevel, logs.All()[0].Level)
}

func TestInstrument_Success(t *testing.T) {
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	core, logs := observer.New(zap.InfoLevel)
	store := Instrument(failingStore{}, m, zap.New(core))

	require.NoError(t, store.Update(context.Background(), 1, model.TransferFields{}))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreCalls.WithLabelValues(OpUpdate)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.StoreErrors.WithLabelValues(OpUpdate)))
	assert.Zero(t, logs.Len())
}
