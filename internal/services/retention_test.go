package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPurger struct{ mock.Mock }

func (m *MockPurger) EnforceRetentionPolicy(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurger) DeleteStalePatterns(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestRetentionScheduler_RunOnce(t *testing.T) {
	p := new(MockPurger)
	p.On("EnforceRetentionPolicy", mock.Anything).Return(int64(4), nil)
	p.On("DeleteStalePatterns", mock.Anything).Return(int64(2), nil)

	s := NewRetentionScheduler(p, p, "0 3 * * *", testLogger())
	shots, patterns, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), shots)
	assert.Equal(t, int64(2), patterns)
}

func TestRetentionScheduler_RunOnceStopsOnShotError(t *testing.T) {
	p := new(MockPurger)
	p.On("EnforceRetentionPolicy", mock.Anything).Return(int64(0), errDown)

	s := NewRetentionScheduler(p, p, "0 3 * * *", testLogger())
	_, _, err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, errDown)
	p.AssertNotCalled(t, "DeleteStalePatterns", mock.Anything)
}

func TestRetentionScheduler_StartStop(t *testing.T) {
	p := new(MockPurger)

	s := NewRetentionScheduler(p, p, "0 3 * * *", testLogger())
	require.NoError(t, s.Start())
	assert.Error(t, s.Start(), "second start is rejected")
	s.Stop()
	s.Stop()

	bad := NewRetentionScheduler(p, p, "every tuesday", testLogger())
	assert.Error(t, bad.Start())
}
