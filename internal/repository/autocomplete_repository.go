package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-hub-api/internal/models"
)

// AutocompleteRepository answers prefix lookups over catalog data.
type AutocompleteRepository struct {
	db *sqlx.DB
}

// NewAutocompleteRepository creates the repository.
func NewAutocompleteRepository(db *sqlx.DB) *AutocompleteRepository {
	return &AutocompleteRepository{db: db}
}

func likePrefix(raw string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(raw)
	return escaped + "%"
}

// AreaAbbreviations returns area abbreviations starting with prefix.
func (r *AutocompleteRepository) AreaAbbreviations(ctx context.Context, prefix string, limit int) ([]models.Suggestion, error) {
	const query = `SELECT id, abbreviation AS value, 'area-of-study' AS type FROM areas_of_study
WHERE abbreviation ILIKE $1 OR name ILIKE $1 ORDER BY abbreviation ASC LIMIT $2`
	return r.suggest(ctx, "areas of study", query, likePrefix(prefix), limit)
}

// AbbreviationExists reports whether abbreviation names an area exactly.
func (r *AutocompleteRepository) AbbreviationExists(ctx context.Context, abbreviation string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM areas_of_study WHERE UPPER(abbreviation) = UPPER($1))", abbreviation); err != nil {
		return false, fmt.Errorf("check abbreviation: %w", err)
	}
	return exists, nil
}

// CourseNumbers returns "ABBR NUMBER" labels for courses of abbreviation whose number starts with prefix.
func (r *AutocompleteRepository) CourseNumbers(ctx context.Context, abbreviation, prefix string, limit int) ([]models.Suggestion, error) {
	const query = `SELECT c.id, a.abbreviation || ' ' || c.number AS value, 'course' AS type
FROM courses c JOIN areas_of_study a ON a.id = c.area_of_study_id
WHERE UPPER(a.abbreviation) = UPPER($1) AND c.number ILIKE $2
ORDER BY c.number ASC LIMIT $3`
	suggestions := []models.Suggestion{}
	if err := r.db.SelectContext(ctx, &suggestions, query, abbreviation, likePrefix(prefix), limit); err != nil {
		return nil, fmt.Errorf("suggest courses: %w", err)
	}
	return suggestions, nil
}

// ProfessorNames returns professors whose name contains a word starting with prefix.
func (r *AutocompleteRepository) ProfessorNames(ctx context.Context, prefix string, limit int) ([]models.Suggestion, error) {
	const query = `SELECT id, name AS value, 'professor' AS type FROM professors
WHERE name ILIKE $1 OR name ILIKE '% ' || $1 ORDER BY name ASC LIMIT $2`
	return r.suggest(ctx, "professors", query, likePrefix(prefix), limit)
}

// TagNames returns tags starting with prefix.
func (r *AutocompleteRepository) TagNames(ctx context.Context, prefix string, limit int) ([]models.Suggestion, error) {
	const query = `SELECT id, name AS value, 'tag' AS type FROM tags WHERE name ILIKE $1 ORDER BY name ASC LIMIT $2`
	return r.suggest(ctx, "tags", query, likePrefix(prefix), limit)
}

// Factrak mixes professors and areas of study, professors first.
func (r *AutocompleteRepository) Factrak(ctx context.Context, prefix string, limit int) ([]models.Suggestion, error) {
	const query = `SELECT id, value, type FROM (
SELECT id::text AS id, name AS value, 'professor' AS type, 0 AS rank FROM professors WHERE name ILIKE $1 OR name ILIKE '% ' || $1
UNION ALL
SELECT id::text, abbreviation, 'area-of-study', 1 FROM areas_of_study WHERE abbreviation ILIKE $1 OR name ILIKE $1
) s ORDER BY rank ASC, value ASC LIMIT $2`
	return r.suggest(ctx, "factrak", query, likePrefix(prefix), limit)
}

func (r *AutocompleteRepository) suggest(ctx context.Context, what, query, pattern string, limit int) ([]models.Suggestion, error) {
	suggestions := []models.Suggestion{}
	if err := r.db.SelectContext(ctx, &suggestions, query, pattern, limit); err != nil {
		return nil, fmt.Errorf("suggest %s: %w", what, err)
	}
	return suggestions, nil
}
