package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-hub-api/internal/models"
	appErrors "github.com/noah-isme/campus-hub-api/pkg/errors"
	"github.com/noah-isme/campus-hub-api/pkg/lock"
)

type ephmatchRepository interface {
	FindByUser(ctx context.Context, userID string) (*models.EphmatchProfile, error)
	SetDeleted(ctx context.Context, userID string, deleted bool) (*models.EphmatchProfile, error)
}

// EphmatchService manages a user's matching opt-in state.
type EphmatchService struct {
	repo    ephmatchRepository
	locks   *lock.KeyedMutex
	store   storeScope
	metrics *MetricsService
	logger  *zap.Logger
}

// NewEphmatchService constructs an EphmatchService.
func NewEphmatchService(repo ephmatchRepository, locks *lock.KeyedMutex, storeTimeout time.Duration, metrics *MetricsService, logger *zap.Logger) *EphmatchService {
	if locks == nil {
		locks = lock.NewKeyedMutex()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EphmatchService{repo: repo, locks: locks, store: newStoreScope(storeTimeout), metrics: metrics, logger: logger}
}

// GetSelf returns caller's profile.
func (s *EphmatchService) GetSelf(ctx context.Context, caller *models.AccessToken) (*models.EphmatchProfile, error) {
	if err := requireEphmatch(caller); err != nil {
		return nil, err
	}
	ctx, cancel := s.store.read(ctx)
	defer cancel()

	profile, err := s.repo.FindByUser(ctx, caller.UserID)
	if err != nil {
		return nil, storeError(ctx, err, "ephmatch profile not found", "failed to load ephmatch profile")
	}
	return profile, nil
}

// OptOut hides caller from matching.
func (s *EphmatchService) OptOut(ctx context.Context, caller *models.AccessToken) (*models.EphmatchProfile, error) {
	return s.setDeleted(ctx, caller, true)
}

// OptIn makes caller visible again, creating the profile on first use.
func (s *EphmatchService) OptIn(ctx context.Context, caller *models.AccessToken) (*models.EphmatchProfile, error) {
	return s.setDeleted(ctx, caller, false)
}

func (s *EphmatchService) setDeleted(ctx context.Context, caller *models.AccessToken, deleted bool) (*models.EphmatchProfile, error) {
	if err := requireEphmatch(caller); err != nil {
		return nil, err
	}
	wctx, cancel := s.store.write(ctx)
	defer cancel()
	unlock, err := acquire(wctx, s.locks, "ephmatch:"+caller.UserID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	profile, err := s.repo.SetDeleted(wctx, caller.UserID, deleted)
	if err != nil {
		return nil, storeError(wctx, err, "ephmatch profile not found", "failed to update ephmatch profile")
	}
	action := "opt_in"
	if deleted {
		action = "opt_out"
	}
	s.metrics.RecordMutation("ephmatch_profile", action)
	s.logger.Info("ephmatch participation changed", zap.String("user_id", caller.UserID), zap.Bool("deleted", deleted))
	return profile, nil
}

func requireEphmatch(caller *models.AccessToken) error {
	if !Authenticated(caller) {
		return appErrors.Clone(appErrors.ErrUnauthorized, "sign in to manage ephmatch")
	}
	if !HasScope(caller, models.ScopeEphmatch, models.ScopeAdminAll) {
		return appErrors.Clone(appErrors.ErrForbidden, "ephmatch access required")
	}
	return nil
}
