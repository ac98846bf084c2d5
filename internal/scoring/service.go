package scoring

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Spok95/showcase-judging/internal/models"
)

type Source interface {
	ListCriteria(ctx context.Context) ([]models.JudgingCriteria, error)
	GetJudgingSummary(ctx context.Context, productID string) ([]models.CriterionSummary, error)
}

// SummaryCache is optional; a nil cache means every call hits the source.
type SummaryCache interface {
	GetSummary(ctx context.Context, productID string) ([]models.CriterionSummary, bool)
	PutSummary(ctx context.Context, productID string, rows []models.CriterionSummary)
}

type Service struct {
	src   Source
	cache SummaryCache
	log   *zap.Logger
}

func NewService(src Source, cache SummaryCache, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{src: src, cache: cache, log: log}
}

func (s *Service) Summary(ctx context.Context, productID string) ([]models.CriterionSummary, error) {
	if s.cache != nil {
		if rows, ok := s.cache.GetSummary(ctx, productID); ok {
			return rows, nil
		}
	}
	rows, err := s.src.GetJudgingSummary(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("judging summary: %w", err)
	}
	if s.cache != nil {
		s.cache.PutSummary(ctx, productID, rows)
	}
	return rows, nil
}

// Evaluation собирает критерии, сводку и итоговый балл. Пустые данные: не ошибка.
func (s *Service) Evaluation(ctx context.Context, productID string) (*models.Evaluation, error) {
	criteria, err := s.src.ListCriteria(ctx)
	if err != nil {
		return nil, fmt.Errorf("criteria: %w", err)
	}
	summary, err := s.Summary(ctx, productID)
	if err != nil {
		return nil, err
	}
	if criteria == nil {
		criteria = []models.JudgingCriteria{}
	}
	if summary == nil {
		summary = []models.CriterionSummary{}
	}
	ev := &models.Evaluation{Criteria: criteria, Summary: summary, OverallScore: OverallScore(summary)}
	s.log.Debug("evaluation computed",
		zap.String("product_id", productID),
		zap.Int("criteria", len(criteria)),
		zap.String("overall", FormatScore(ev.OverallScore)))
	return ev, nil
}
