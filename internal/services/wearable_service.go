package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/himesh-bhushan/catchup-backend/internal/cache"
)

const syncTimeout = 20 * time.Second

type deviceStore interface {
	SetDeviceConnected(ctx context.Context, userID int64, connected bool) error
	TouchLastSynced(ctx context.Context, userID int64, at time.Time) error
}

// WearableService owns the Google Fit pairing flow and delegates the actual
// data pull to the sync worker over HTTP.
type WearableService struct {
	deviceRepo   deviceStore
	syncClient   *resty.Client
	clientID     string
	authorizeURL string
	redirectURL  string
	snapshots    *cache.SnapshotCache
	logger       *zap.Logger
}

func NewWearableService(
	deviceRepo deviceStore,
	syncBaseURL string,
	clientID string,
	authorizeURL string,
	redirectURL string,
	snapshots *cache.SnapshotCache,
	logger *zap.Logger,
) *WearableService {
	client := resty.New().
		SetBaseURL(syncBaseURL).
		SetTimeout(syncTimeout).
		SetRetryCount(2)
	return &WearableService{
		deviceRepo:   deviceRepo,
		syncClient:   client,
		clientID:     clientID,
		authorizeURL: authorizeURL,
		redirectURL:  redirectURL,
		snapshots:    snapshots,
		logger:       logger,
	}
}

// ConnectURL builds the OAuth consent URL. The user id rides in state so the
// callback can attribute the grant without a session lookup.
func (s *WearableService) ConnectURL(userID int64) string {
	q := url.Values{}
	q.Set("client_id", s.clientID)
	q.Set("redirect_uri", s.redirectURL)
	q.Set("response_type", "code")
	q.Set("scope", "https://www.googleapis.com/auth/fitness.activity.read https://www.googleapis.com/auth/fitness.heart_rate.read")
	q.Set("access_type", "offline")
	q.Set("state", fmt.Sprintf("%d", userID))
	return s.authorizeURL + "?" + q.Encode()
}

// Connect marks the device paired and kicks off the first sync in the
// background. Pairing succeeds even when the sync worker is down.
func (s *WearableService) Connect(ctx context.Context, userID int64) error {
	if err := s.deviceRepo.SetDeviceConnected(ctx, userID, true); err != nil {
		return err
	}
	go s.runSync(userID)
	return nil
}

func (s *WearableService) Disconnect(ctx context.Context, userID int64) error {
	return s.deviceRepo.SetDeviceConnected(ctx, userID, false)
}

// TriggerSync is the explicit pull from the settings screen. The response is
// not awaited; progress lands through the worker writing logs directly.
func (s *WearableService) TriggerSync(userID int64) {
	go s.runSync(userID)
}

func (s *WearableService) runSync(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	resp, err := s.syncClient.R().
		SetContext(ctx).
		Post(fmt.Sprintf("/api/wearables/google-sync/%d", userID))
	if err != nil {
		s.logger.Warn("wearable sync request failed", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	if resp.IsError() {
		s.logger.Warn("wearable sync rejected",
			zap.Int64("user_id", userID),
			zap.Int("status", resp.StatusCode()),
		)
		return
	}

	// A completed sync proves the pairing works, so the flag is confirmed
	// here too; a sync triggered after a restart re-establishes it.
	if err := s.deviceRepo.SetDeviceConnected(ctx, userID, true); err != nil {
		s.logger.Warn("device flag update failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	if err := s.deviceRepo.TouchLastSynced(ctx, userID, time.Now().UTC()); err != nil {
		s.logger.Warn("last sync timestamp update failed", zap.Int64("user_id", userID), zap.Error(err))
	}

	// The worker has written fresh log rows; the next dashboard read must
	// rebuild from the database.
	if s.snapshots != nil {
		s.snapshots.Invalidate(ctx, userID, cache.ScreenDashboard)
	}
}
