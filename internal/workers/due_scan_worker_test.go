package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"coursemate_backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingScanner struct {
	calls atomic.Int32
	err   error
}

func (s *countingScanner) ScanAll(ctx context.Context) (*services.ScanSummary, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("scan must run with a deadline")
	}
	return &services.ScanSummary{Users: 1, Dispatched: 1}, nil
}

func TestDueScanWorker_RunOnce(t *testing.T) {
	scanner := &countingScanner{}
	w := NewDueScanWorker(scanner, "", nil)

	w.RunOnce(context.Background())
	assert.EqualValues(t, 1, scanner.calls.Load())

	scanner.err = errors.New("store unavailable")
	w.RunOnce(context.Background())
	assert.EqualValues(t, 2, scanner.calls.Load())
}

func TestDueScanWorker_SkipsAfterShutdown(t *testing.T) {
	scanner := &countingScanner{}
	w := NewDueScanWorker(scanner, "", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.RunOnce(ctx)
	assert.Zero(t, scanner.calls.Load())
}

func TestDueScanWorker_InvalidSpec(t *testing.T) {
	w := NewDueScanWorker(&countingScanner{}, "every now and then", nil)
	assert.Error(t, w.Start(context.Background()))
}

func TestDueScanWorker_FiresOnSchedule(t *testing.T) {
	scanner := &countingScanner{}
	w := NewDueScanWorker(scanner, "@every 1s", nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	assert.Eventually(t, func() bool { return scanner.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
