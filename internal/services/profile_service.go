package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/himesh-bhushan/catchup-backend/internal/cache"
	"github.com/himesh-bhushan/catchup-backend/internal/models"
	"github.com/himesh-bhushan/catchup-backend/internal/repository"
)

type profileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	UpdatePartial(ctx context.Context, userID int64, req repository.UpdateProfileInput) (*models.Profile, error)
	SetCalorieGoal(ctx context.Context, userID int64, goal int) error
}

type ProfileService struct {
	profileRepo profileStore
	storage     StorageService
	snapshots   *cache.SnapshotCache
	logger      *zap.Logger
}

func NewProfileService(profileRepo profileStore, storage StorageService, snapshots *cache.SnapshotCache, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		storage:     storage,
		snapshots:   snapshots,
		logger:      logger,
	}
}

func (s *ProfileService) Get(ctx context.Context, userID int64) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) Update(ctx context.Context, userID int64, req repository.UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.profileRepo.UpdatePartial(ctx, userID, req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if s.snapshots != nil {
		s.snapshots.Invalidate(ctx, userID, cache.ScreenProfile, cache.ScreenDashboard, cache.ScreenMedicalID)
	}
	return profile, nil
}

func (s *ProfileService) SetCalorieGoal(ctx context.Context, userID int64, goal int) error {
	if goal <= 0 {
		return ErrInvalidInput
	}
	if err := s.profileRepo.SetCalorieGoal(ctx, userID, goal); err != nil {
		return err
	}
	if s.snapshots != nil {
		s.snapshots.Invalidate(ctx, userID, cache.ScreenDashboard)
	}
	return nil
}

// ResolveAvatar turns the stored reference into something the client can
// load. Absolute URLs pass through verbatim; anything else is treated as an
// object path and signed. A signing failure degrades to an empty string so
// the screen falls back to initials instead of erroring.
func (s *ProfileService) ResolveAvatar(ctx context.Context, ref *string) string {
	if ref == nil || *ref == "" {
		return ""
	}
	if strings.HasPrefix(*ref, "http://") || strings.HasPrefix(*ref, "https://") {
		return *ref
	}
	if s.storage == nil {
		return ""
	}
	signed, err := s.storage.SignedURL(ctx, *ref)
	if err != nil {
		s.logger.Warn("avatar sign failed", zap.String("ref", *ref), zap.Error(err))
		return ""
	}
	return signed
}

// UploadAvatar stores the image and points the profile at the new object,
// removing the previous object when the profile owned one.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID int64, file multipart.File, filename string) (*models.Profile, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	current, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	objectPath, err := s.storage.UploadAvatar(ctx, file, filename, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.Update(ctx, userID, repository.UpdateProfileInput{AvatarRef: &objectPath})
	if err != nil {
		return nil, err
	}

	if old := current.AvatarRef; old != nil && *old != "" && *old != objectPath &&
		!strings.HasPrefix(*old, "http://") && !strings.HasPrefix(*old, "https://") {
		if err := s.storage.DeleteObject(ctx, *old); err != nil {
			s.logger.Warn("old avatar cleanup failed", zap.String("ref", *old), zap.Error(err))
		}
	}

	return profile, nil
}
