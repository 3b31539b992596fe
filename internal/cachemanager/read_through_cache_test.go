package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCacheManager struct {
	mock.Mock
}

func (m *mockCacheManager) Get(ctx context.Context, key string) (document, bool) {
	args := m.Called(ctx, key)
	return args.Get(0).(document), args.Bool(1)
}

func (m *mockCacheManager) Set(ctx context.Context, key string, value document, ttl time.Duration) {
	m.Called(ctx, key, value, ttl)
}

func (m *mockCacheManager) Delete(ctx context.Context, keys ...string) {
	m.Called(ctx, keys)
}

func (m *mockCacheManager) Flush(ctx context.Context) {
	m.Called(ctx)
}

func (m *mockCacheManager) Len() int {
	return m.Called().Int(0)
}

func newMockCacheManager(t *testing.T) *mockCacheManager {
	m := &mockCacheManager{}
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func parseLoader(calls *int) func(context.Context, string) (document, error) {
	return func(_ context.Context, src string) (document, error) {
		*calls++
		if src == "" {
			return document{}, errors.New("empty source")
		}
		return document{Root: src, Size: len(src)}, nil
	}
}

func TestReadThroughCache_Bypass(t *testing.T) {
	managerMock := newMockCacheManager(t)
	calls := 0

	rtc := NewReadThroughCache[document, string](managerMock, parseLoader(&calls), true)

	got, err := rtc.Get(context.Background(), "key", "View", time.Minute)
	require.NoError(t, err)
	require.Equal(t, document{Root: "View", Size: 4}, got)
	require.Equal(t, 1, calls)
	managerMock.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestReadThroughCache_Hit(t *testing.T) {
	managerMock := newMockCacheManager(t)
	managerMock.On("Get", mock.Anything, "key").Return(document{Root: "Cached"}, true).Once()
	calls := 0

	rtc := NewReadThroughCache[document, string](managerMock, parseLoader(&calls), false)

	got, err := rtc.Get(context.Background(), "key", "View", time.Minute)
	require.NoError(t, err)
	require.Equal(t, document{Root: "Cached"}, got)
	require.Zero(t, calls)
}

func TestReadThroughCache_MissStores(t *testing.T) {
	managerMock := newMockCacheManager(t)
	managerMock.On("Get", mock.Anything, "key").Return(document{}, false).Once()
	managerMock.On("Set", mock.Anything, "key", document{Root: "View", Size: 4}, time.Minute).Once()
	calls := 0

	rtc := NewReadThroughCache[document, string](managerMock, parseLoader(&calls), false)

	got, err := rtc.Get(context.Background(), "key", "View", time.Minute)
	require.NoError(t, err)
	require.Equal(t, document{Root: "View", Size: 4}, got)
	require.Equal(t, 1, calls)
}

func TestReadThroughCache_ErrorNotStored(t *testing.T) {
	managerMock := newMockCacheManager(t)
	managerMock.On("Get", mock.Anything, "key").Return(document{}, false).Once()
	calls := 0

	rtc := NewReadThroughCache[document, string](managerMock, parseLoader(&calls), false)

	_, err := rtc.Get(context.Background(), "key", "", time.Minute)
	require.Error(t, err)
	managerMock.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReadThroughCache_WithInMemory(t *testing.T) {
	cache := NewInMemoryCacheManager[document]("parse", DefaultExpiration, DefaultCleanupInterval)
	calls := 0
	rtc := NewReadThroughCache[document, string](cache, parseLoader(&calls), false)
	ctx := context.Background()

	for range 3 {
		_, err := rtc.Get(ctx, "k", "Text", 0)
		require.NoError(t, err)
	}
	require.Equal(t, 1, calls)

	rtc.Invalidate(ctx, "k")
	_, err := rtc.Get(ctx, "k", "Text", 0)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}
