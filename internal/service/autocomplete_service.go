package service

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/noah-isme/campus-hub-api/internal/models"
	appErrors "github.com/noah-isme/campus-hub-api/pkg/errors"
)

const defaultShortSuggestions = 5

type autocompleteRepository interface {
	AreaAbbreviations(ctx context.Context, prefix string, limit int) ([]models.Suggestion, error)
	AbbreviationExists(ctx context.Context, abbreviation string) (bool, error)
	CourseNumbers(ctx context.Context, abbreviation, prefix string, limit int) ([]models.Suggestion, error)
	ProfessorNames(ctx context.Context, prefix string, limit int) ([]models.Suggestion, error)
	TagNames(ctx context.Context, prefix string, limit int) ([]models.Suggestion, error)
	Factrak(ctx context.Context, prefix string, limit int) ([]models.Suggestion, error)
}

// AutocompleteConfig bounds suggestion lists.
type AutocompleteConfig struct {
	// ServerCap limits course, professor and factrak suggestions.
	ServerCap int
	// HardCap limits every other kind, whatever the client asks for.
	HardCap int
}

// AutocompleteService answers prefix lookups.
type AutocompleteService struct {
	repo  autocompleteRepository
	cfg   AutocompleteConfig
	store storeScope
}

// NewAutocompleteService constructs an AutocompleteService.
func NewAutocompleteService(repo autocompleteRepository, cfg AutocompleteConfig, storeTimeout time.Duration) *AutocompleteService {
	if cfg.ServerCap <= 0 {
		cfg.ServerCap = 10
	}
	if cfg.HardCap <= 0 {
		cfg.HardCap = 50
	}
	return &AutocompleteService{repo: repo, cfg: cfg, store: newStoreScope(storeTimeout)}
}

// Suggest returns suggestions of kind for q. limit <= 0 means the caller sent none.
func (s *AutocompleteService) Suggest(ctx context.Context, kind models.AutocompleteKind, q string, limit int) ([]models.Suggestion, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.Suggestion{}, nil
	}
	ctx, cancel := s.store.read(ctx)
	defer cancel()

	var (
		out []models.Suggestion
		err error
	)
	switch kind {
	case models.AutocompleteAreaOfStudy:
		out, err = s.repo.AreaAbbreviations(ctx, q, s.shortLimit(limit))
	case models.AutocompleteTag:
		out, err = s.repo.TagNames(ctx, q, s.shortLimit(limit))
	case models.AutocompleteProfessor:
		out, err = s.repo.ProfessorNames(ctx, q, s.cappedLimit(limit))
	case models.AutocompleteFactrak:
		out, err = s.repo.Factrak(ctx, q, s.cappedLimit(limit))
	case models.AutocompleteCourse:
		out, err = s.courses(ctx, q, s.cappedLimit(limit))
	default:
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown autocomplete type")
	}
	if err != nil {
		return nil, storeError(ctx, err, "suggestion not found", "failed to load suggestions")
	}
	if out == nil {
		out = []models.Suggestion{}
	}
	return out, nil
}

// courses completes the area abbreviation first, then the course number once the typed
// abbreviation names an area.
func (s *AutocompleteService) courses(ctx context.Context, q string, limit int) ([]models.Suggestion, error) {
	abbreviation, number := splitCourseQuery(q)
	exists, err := s.repo.AbbreviationExists(ctx, abbreviation)
	if err != nil {
		return nil, err
	}
	if !exists {
		return s.repo.AreaAbbreviations(ctx, abbreviation, limit)
	}
	return s.repo.CourseNumbers(ctx, abbreviation, number, limit)
}

func (s *AutocompleteService) shortLimit(limit int) int {
	if limit <= 0 {
		return defaultShortSuggestions
	}
	if limit > s.cfg.HardCap {
		return s.cfg.HardCap
	}
	return limit
}

func (s *AutocompleteService) cappedLimit(limit int) int {
	if limit <= 0 || limit > s.cfg.ServerCap {
		return s.cfg.ServerCap
	}
	return limit
}

// splitCourseQuery separates "csci 13" or "CSCI13" into the abbreviation and number prefix.
func splitCourseQuery(q string) (string, string) {
	q = strings.ToUpper(strings.TrimSpace(q))
	if i := strings.IndexFunc(q, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsDigit(r) }); i >= 0 {
		return q[:i], strings.TrimSpace(q[i:])
	}
	return q, ""
}
