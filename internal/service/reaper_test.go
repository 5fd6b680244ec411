package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbak/minbak-web/config"
)

// stubReaperRepo hands out queued batch counts, then zero.
type stubReaperRepo struct {
	mu sync.Mutex

	stale      []int64
	staleErr   error
	staleCalls int
	cutoff     time.Time

	rejected      []int64
	rejectedErr   error
	rejectedCalls int
}

func (m *stubReaperRepo) DeclineStaleRequests(_ context.Context, cutoff time.Time, _ int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staleCalls++
	m.cutoff = cutoff
	if m.staleErr != nil {
		return 0, m.staleErr
	}
	return pop(&m.stale), nil
}

func (m *stubReaperRepo) DeclineRejectedListingRequests(_ context.Context, _ int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejectedCalls++
	if m.rejectedErr != nil {
		return 0, m.rejectedErr
	}
	return pop(&m.rejected), nil
}

func pop(q *[]int64) int64 {
	if len(*q) == 0 {
		return 0
	}
	v := (*q)[0]
	*q = (*q)[1:]
	return v
}

func newTestReaper(t *testing.T, repo *stubReaperRepo, cfg config.ReaperConfig) *ReaperService {
	t.Helper()
	svc, err := NewReaperService(ReaperServiceOptions{
		Repo:   repo,
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    func() time.Time { return time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return svc
}

func TestNewReaperService(t *testing.T) {
	_, err := NewReaperService(ReaperServiceOptions{})
	require.Error(t, err)

	svc, err := NewReaperService(ReaperServiceOptions{Repo: &stubReaperRepo{}})
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, svc.config.Interval)
	assert.Equal(t, 500, svc.config.BatchSize)
}

func TestReaperService_SweepDrainsBatches(t *testing.T) {
	repo := &stubReaperRepo{stale: []int64{500, 20}, rejected: []int64{3}}
	svc := newTestReaper(t, repo, config.ReaperConfig{})

	require.NoError(t, svc.Sweep(context.Background()))

	assert.Equal(t, 3, repo.staleCalls)
	assert.Equal(t, 2, repo.rejectedCalls)
	assert.Equal(t, time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC), repo.cutoff)
}

func TestReaperService_SweepContinuesAfterStepFailure(t *testing.T) {
	repo := &stubReaperRepo{staleErr: errors.New("connection reset"), rejected: []int64{1}}
	svc := newTestReaper(t, repo, config.ReaperConfig{})

	err := svc.Sweep(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decline stale requests")
	assert.Equal(t, 2, repo.rejectedCalls)
}

func TestReaperService_SweepReportsCancellation(t *testing.T) {
	repo := &stubReaperRepo{staleErr: context.Canceled, rejectedErr: context.Canceled}
	svc := newTestReaper(t, repo, config.ReaperConfig{})

	assert.ErrorIs(t, svc.Sweep(context.Background()), context.Canceled)
}

func TestReaperService_Run(t *testing.T) {
	repo := &stubReaperRepo{stale: []int64{1}}
	svc := newTestReaper(t, repo, config.ReaperConfig{Interval: 10 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	select {
	case err := <-done:
		// Deadline expiry is reported; plain cancellation is not.
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("reaper did not stop")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.GreaterOrEqual(t, repo.staleCalls, 2)
}

func TestReaperService_RunStopsCleanlyOnCancel(t *testing.T) {
	svc := newTestReaper(t, &stubReaperRepo{}, config.ReaperConfig{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, svc.Run(ctx))
}
