package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-hub-api/internal/models"
)

// UserRepository reads public user projections.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByIDs returns the users matching ids; unknown ids are skipped.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, "SELECT id, name FROM users WHERE id = ANY($1)", pqStringArray(ids)); err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return users, nil
}
