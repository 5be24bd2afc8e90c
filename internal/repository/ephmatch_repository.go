package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-hub-api/internal/models"
)

// EphmatchRepository stores matching profiles.
type EphmatchRepository struct {
	db *sqlx.DB
}

// NewEphmatchRepository creates the repository.
func NewEphmatchRepository(db *sqlx.DB) *EphmatchRepository {
	return &EphmatchRepository{db: db}
}

// FindByUser returns the profile of userID.
func (r *EphmatchRepository) FindByUser(ctx context.Context, userID string) (*models.EphmatchProfile, error) {
	var profile models.EphmatchProfile
	const query = "SELECT user_id, description, deleted, created_at, updated_at FROM ephmatch_profiles WHERE user_id = $1"
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SetDeleted flips the opt-out flag, creating the profile when missing.
func (r *EphmatchRepository) SetDeleted(ctx context.Context, userID string, deleted bool) (*models.EphmatchProfile, error) {
	now := time.Now().UTC()
	const query = `INSERT INTO ephmatch_profiles (user_id, description, deleted, created_at, updated_at)
VALUES ($1, '', $2, $3, $3)
ON CONFLICT (user_id) DO UPDATE SET deleted = EXCLUDED.deleted, updated_at = EXCLUDED.updated_at
RETURNING user_id, description, deleted, created_at, updated_at`
	var profile models.EphmatchProfile
	if err := r.db.GetContext(ctx, &profile, query, userID, deleted, now); err != nil {
		return nil, fmt.Errorf("set ephmatch opt-out: %w", err)
	}
	return &profile, nil
}
