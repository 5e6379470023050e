package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCounterStore is a mock implementation of repository.CounterStore
type MockCounterStore struct {
	mock.Mock
}

func (m *MockCounterStore) Get(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func (m *MockCounterStore) Set(ctx context.Context, key string, value int) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockCounterStore) Increment(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func (m *MockCounterStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
