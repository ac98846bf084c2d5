package export

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Spok95/showcase-judging/internal/metrics"
	"github.com/Spok95/showcase-judging/internal/models"
)

type Source interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListAssignedJudgeIDs(ctx context.Context, productID string) ([]string, error)
	ProfilesByIDs(ctx context.Context, ids []string) ([]models.Profile, error)
	ListCriteria(ctx context.Context) ([]models.JudgingCriteria, error)
	ListSubmissions(ctx context.Context, productID string) ([]models.JudgingSubmission, error)
	ListNotes(ctx context.Context, productID string) ([]models.JudgingNote, error)
}

type SummaryReader interface {
	Summary(ctx context.Context, productID string) ([]models.CriterionSummary, error)
}

type Service struct {
	src     Source
	summary SummaryReader
	log     *zap.Logger
}

func NewService(src Source, summary SummaryReader, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{src: src, summary: summary, log: log}
}

// Load читает все данные выгрузки параллельно; любая ошибка прерывает выгрузку целиком.
func (s *Service) Load(ctx context.Context, productID string) (*JudgingReport, error) {
	var (
		r        JudgingReport
		assigned []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.src.GetProduct(gctx, productID)
		if err != nil {
			return fmt.Errorf("product: %w", err)
		}
		r.Product = *p
		return nil
	})
	g.Go(func() (err error) {
		assigned, err = s.src.ListAssignedJudgeIDs(gctx, productID)
		if err != nil {
			return fmt.Errorf("assignments: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		r.Criteria, err = s.src.ListCriteria(gctx)
		if err != nil {
			return fmt.Errorf("criteria: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		r.Submissions, err = s.src.ListSubmissions(gctx, productID)
		if err != nil {
			return fmt.Errorf("submissions: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		r.Notes, err = s.src.ListNotes(gctx, productID)
		if err != nil {
			return fmt.Errorf("notes: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		r.Summary, err = s.summary.Summary(gctx, productID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := judgeOrder(assigned, r.Submissions)
	profiles, err := s.src.ProfilesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("profiles: %w", err)
	}
	byID := make(map[string]models.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			r.Judges = append(r.Judges, p)
		}
	}
	return &r, nil
}

// judgeOrder: сначала назначенные судьи в порядке назначения, затем остальные
// судьи с оценками (назначение могли снять) по id.
func judgeOrder(assigned []string, subs []models.JudgingSubmission) []string {
	seen := make(map[string]bool, len(assigned))
	out := make([]string, 0, len(assigned))
	for _, id := range assigned {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	var extra []string
	for _, s := range subs {
		if !seen[s.JudgeID] {
			seen[s.JudgeID] = true
			extra = append(extra, s.JudgeID)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Export returns the xlsx bytes and a download filename.
func (s *Service) Export(ctx context.Context, productID string) (data []byte, filename string, err error) {
	defer func() { metrics.ReportDone("xlsx", err) }()

	r, err := s.Load(ctx, productID)
	if err != nil {
		return nil, "", err
	}
	f, err := BuildJudgingWorkbook(*r)
	if err != nil {
		return nil, "", fmt.Errorf("build workbook: %w", err)
	}
	data, err = Bytes(f)
	if err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}
	s.log.Info("judging export generated",
		zap.String("product_id", productID),
		zap.Int("judges", len(r.Judges)),
		zap.Int("bytes", len(data)))
	return data, BuildJudgingReportFilename(r.Product.Name), nil
}
