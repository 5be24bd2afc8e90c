package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-hub-api/internal/models"
	appErrors "github.com/noah-isme/campus-hub-api/pkg/errors"
	"github.com/noah-isme/campus-hub-api/pkg/export"
)

const exportPageSize = 200

type flaggedRepository interface {
	ListFlagged(ctx context.Context, limit, offset int) ([]models.Survey, int, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFormat selects the rendering of a moderation report.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportFile is a rendered moderation report.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ModerationService exposes the flagged-survey queue. The queue is a query over surveys,
// never a stored collection.
type ModerationService struct {
	flagged    flaggedRepository
	surveys    *SurveyService
	aggregator surveyAggregator
	catalog    relationLoader
	csv        csvRenderer
	pdf        pdfRenderer
	store      storeScope
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewModerationService constructs a ModerationService.
func NewModerationService(flagged flaggedRepository, surveys *SurveyService, aggregator surveyAggregator, catalog relationLoader,
	csv csvRenderer, pdf pdfRenderer, storeTimeout time.Duration, metrics *MetricsService, logger *zap.Logger) *ModerationService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModerationService{
		flagged:    flagged,
		surveys:    surveys,
		aggregator: aggregator,
		catalog:    catalog,
		csv:        csv,
		pdf:        pdf,
		store:      newStoreScope(storeTimeout),
		metrics:    metrics,
		logger:     logger,
	}
}

// CanModerate reports whether caller may work the moderation queue.
func CanModerate(caller *models.AccessToken) bool {
	return HasScope(caller, models.ScopeFactrakAdmin)
}

// ListFlagged returns one window of flagged surveys, oldest first so old flags are not starved.
func (s *ModerationService) ListFlagged(ctx context.Context, caller *models.AccessToken, filter models.FlaggedFilter) ([]models.Survey, int, error) {
	if !CanModerate(caller) {
		return nil, 0, appErrors.Clone(appErrors.ErrForbidden, "moderation access required")
	}
	ctx, cancel := s.store.read(ctx)
	defer cancel()

	surveys, total, err := fetchWindow(filter.Limit, filter.Offset, func(limit, offset int) ([]models.Survey, int, error) {
		return s.flagged.ListFlagged(ctx, limit, offset)
	})
	if err != nil {
		return nil, 0, storeError(ctx, err, "survey not found", "failed to list flagged surveys")
	}
	if err := s.aggregator.DecorateSurveys(ctx, surveys, true, ""); err != nil {
		return nil, 0, storeError(ctx, err, "survey not found", "failed to load agreements")
	}
	if err := attachSurveyRelations(ctx, s.catalog, surveys, filter.Preload); err != nil {
		return nil, 0, err
	}
	s.metrics.SetFlaggedQueueDepth(total)
	return surveys, total, nil
}

// Unflag clears the flag of a survey. Unflagging a clean survey succeeds without writing.
func (s *ModerationService) Unflag(ctx context.Context, caller *models.AccessToken, id string) (*models.Survey, error) {
	if !CanModerate(caller) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "moderation access required")
	}
	survey, err := s.surveys.setFlag(ctx, id, false)
	if err != nil {
		return nil, err
	}
	s.logger.Info("survey unflagged", zap.String("survey_id", id), zap.String("actor", caller.UserID))
	return survey, nil
}

// Delete removes a survey from the queue and the store, then rebuilds its aggregates.
func (s *ModerationService) Delete(ctx context.Context, caller *models.AccessToken, id string) error {
	if !HasScope(caller, models.ScopeFactrakAdmin, models.ScopeAdminAll) {
		return appErrors.Clone(appErrors.ErrForbidden, "moderation access required")
	}
	if err := s.surveys.remove(ctx, id, func(*models.Survey) error { return nil }); err != nil {
		return err
	}
	s.metrics.RecordModeration("delete")
	s.logger.Info("survey removed by moderator", zap.String("survey_id", id), zap.String("actor", caller.UserID))
	return nil
}

// Export renders the whole queue for offline review.
func (s *ModerationService) Export(ctx context.Context, caller *models.AccessToken, format ExportFormat) (*ExportFile, error) {
	if !CanModerate(caller) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "moderation access required")
	}
	if format == "" {
		format = ExportCSV
	}
	if format != ExportCSV && format != ExportPDF {
		return nil, appErrors.Validation("invalid export request", fmt.Sprintf("unsupported format %q", format))
	}

	var all []models.Survey
	seen := make(map[string]struct{})
	for offset := 0; ; offset += exportPageSize {
		page, total, err := s.ListFlagged(ctx, caller, models.FlaggedFilter{
			Limit:   exportPageSize,
			Offset:  offset,
			Preload: models.SurveyPreload{Professor: true},
		})
		if err != nil {
			return nil, err
		}
		for _, survey := range page {
			if _, dup := seen[survey.ID]; !dup {
				seen[survey.ID] = struct{}{}
				all = append(all, survey)
			}
		}
		if len(page) == 0 || offset+len(page) >= total {
			break
		}
	}

	dataset := flaggedDataset(all)
	stamp := time.Now().UTC().Format("20060102-150405")
	switch format {
	case ExportPDF:
		data, err := s.pdf.Render(dataset, "Flagged factrak reviews")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
		}
		return &ExportFile{Filename: "flagged-" + stamp + ".pdf", ContentType: "application/pdf", Data: data}, nil
	default:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
		}
		return &ExportFile{Filename: "flagged-" + stamp + ".csv", ContentType: "text/csv", Data: data}, nil
	}
}

func flaggedDataset(surveys []models.Survey) export.Dataset {
	headers := []string{"Survey", "Created", "Professor", "Course", "Agree", "Disagree", "Comment"}
	rows := make([]map[string]string, 0, len(surveys))
	for _, survey := range surveys {
		professor := survey.ProfessorID
		if survey.Professor != nil {
			professor = survey.Professor.Name
		}
		rows = append(rows, map[string]string{
			"Survey":    survey.ID,
			"Created":   survey.CreatedTime.UTC().Format(time.RFC3339),
			"Professor": professor,
			"Course":    strings.TrimSpace(survey.AreaOfStudyAbbreviation + " " + survey.CourseNumber),
			"Agree":     strconv.Itoa(survey.TotalAgree),
			"Disagree":  strconv.Itoa(survey.TotalDisagree),
			"Comment":   survey.Comment,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows, Weights: map[string]float64{"Survey": 2, "Created": 1.6, "Professor": 1.6, "Comment": 5}}
}
