package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/himesh-bhushan/catchup-backend/internal/cache"
)

type memDeviceStore struct {
	connected  map[int64]bool
	lastSynced map[int64]time.Time
}

func newMemDeviceStore() *memDeviceStore {
	return &memDeviceStore{
		connected:  make(map[int64]bool),
		lastSynced: make(map[int64]time.Time),
	}
}

func (s *memDeviceStore) SetDeviceConnected(_ context.Context, userID int64, connected bool) error {
	s.connected[userID] = connected
	return nil
}

func (s *memDeviceStore) TouchLastSynced(_ context.Context, userID int64, at time.Time) error {
	s.lastSynced[userID] = at
	return nil
}

func TestConnectURLCarriesUserState(t *testing.T) {
	svc := NewWearableService(newMemDeviceStore(), "", "catchup-dev",
		"https://accounts.google.com/o/oauth2/v2/auth", "http://localhost:5050/callback", nil, zap.NewNop())

	u := svc.ConnectURL(42)
	assert.True(t, strings.HasPrefix(u, "https://accounts.google.com/o/oauth2/v2/auth?"))
	assert.Contains(t, u, "state=42")
	assert.Contains(t, u, "client_id=catchup-dev")
}

func TestRunSyncConfirmsPairingAndDropsSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	snapshots := newSnapshotFixture(t)
	ctx := context.Background()
	snapshots.Write(ctx, cache.ScreenDashboard, 7, &DashboardSnapshot{CaloriesToday: 100})

	store := newMemDeviceStore()
	svc := NewWearableService(store, server.URL, "catchup-dev", "https://example.com/auth", "http://localhost/callback", snapshots, zap.NewNop())

	svc.runSync(7)

	assert.True(t, store.connected[7])
	require.Contains(t, store.lastSynced, int64(7))

	var cached DashboardSnapshot
	assert.False(t, snapshots.Read(ctx, cache.ScreenDashboard, 7, &cached),
		"dashboard snapshot must be dropped after a sync")
}

func TestRunSyncLeavesStateOnWorkerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	store := newMemDeviceStore()
	svc := NewWearableService(store, server.URL, "catchup-dev", "https://example.com/auth", "http://localhost/callback", nil, zap.NewNop())

	svc.runSync(7)

	assert.NotContains(t, store.connected, int64(7))
	assert.NotContains(t, store.lastSynced, int64(7))
}
