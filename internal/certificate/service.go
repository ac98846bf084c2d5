package certificate

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/showcase-judging/internal/metrics"
	"github.com/Spok95/showcase-judging/internal/models"
)

type Source interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListMakers(ctx context.Context, productID string) ([]models.Maker, error)
	ListEvaluatingJudges(ctx context.Context, productID string) ([]models.Judge, error)
}

type Evaluator interface {
	Evaluation(ctx context.Context, productID string) (*models.Evaluation, error)
}

type Service struct {
	src        Source
	eval       Evaluator
	renderer   *Renderer
	verifyBase string
	loc        *time.Location
	now        func() time.Time
	log        *zap.Logger
}

func NewService(src Source, eval Evaluator, renderer *Renderer, verifyBase string, loc *time.Location, log *zap.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		src:        src,
		eval:       eval,
		renderer:   renderer,
		verifyBase: strings.TrimRight(verifyBase, "/"),
		loc:        loc,
		now:        time.Now,
		log:        log,
	}
}

// VerifyURL is the link encoded into the certificate QR code.
func (s *Service) VerifyURL(productID string) string {
	return s.verifyBase + "/" + productID
}

// Load собирает данные сертификата. Дата выдачи: начало текущего дня в loc,
// поэтому повторная генерация в тот же день даёт тот же документ.
func (s *Service) Load(ctx context.Context, productID string) (*CertificateData, error) {
	p, err := s.src.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("product: %w", err)
	}
	makers, err := s.src.ListMakers(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("makers: %w", err)
	}
	judges, err := s.src.ListEvaluatingJudges(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("judges: %w", err)
	}
	ev, err := s.eval.Evaluation(ctx, productID)
	if err != nil {
		return nil, err
	}
	now := s.now().In(s.loc)
	return &CertificateData{
		Product:    *p,
		Makers:     makers,
		Judges:     judges,
		Evaluation: *ev,
		VerifyURL:  s.VerifyURL(productID),
		IssuedAt:   time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc),
	}, nil
}

// Generate returns the PDF bytes and a download filename.
func (s *Service) Generate(ctx context.Context, productID string) (data []byte, filename string, err error) {
	defer func() { metrics.ReportDone("pdf", err) }()

	d, err := s.Load(ctx, productID)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if err := s.renderer.Render(ctx, *d, &buf); err != nil {
		return nil, "", err
	}
	s.log.Info("certificate generated",
		zap.String("product_id", productID),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), Filename(d.Product.Name), nil
}

func Filename(productName string) string {
	name := strings.Join(strings.FieldsFunc(productName, func(r rune) bool {
		return !(r == '-' || r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	}), "_")
	if name == "" {
		name = "product"
	}
	return "certificate_" + name + ".pdf"
}
