package certificate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/Spok95/showcase-judging/internal/metrics"
	"github.com/Spok95/showcase-judging/internal/models"
	"github.com/Spok95/showcase-judging/internal/scoring"
)

const (
	margin = 15.0
	// Continuation threshold at the bottom of the page.
	bottomThreshold = 20.0
)

type CertificateData struct {
	Product    models.Product
	Makers     []models.Maker
	Judges     []models.Judge
	Evaluation models.Evaluation
	VerifyURL  string
	IssuedAt   time.Time
}

type Renderer struct {
	images ImageFetcher
	qr     *QRSource
	log    *zap.Logger
}

// NewRenderer: images and qr may be nil, then the corresponding regions stay blank.
func NewRenderer(images ImageFetcher, qr *QRSource, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{images: images, qr: qr, log: log}
}

// Render пишет PDF в w. Для одинаковых данных и даты выдачи результат побайтно совпадает.
func (r *Renderer) Render(ctx context.Context, d CertificateData, w io.Writer) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetCreationDate(d.IssuedAt)
	pdf.SetModificationDate(d.IssuedAt)
	pdf.SetCompression(true)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetTitle("Certificate of Excellence: "+d.Product.Name, true)
	pdf.SetAuthor("Showcase", false)
	registerFonts(pdf)

	r.awardPage(ctx, pdf, d)
	r.evaluationPage(pdf, d)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render certificate: %w", err)
	}
	return pdf.Output(w)
}

func (r *Renderer) awardPage(ctx context.Context, pdf *fpdf.Fpdf, d CertificateData) {
	pdf.AddPage()
	w, h := pdf.GetPageSize()

	// двойная рамка
	pdf.SetDrawColor(30, 58, 138)
	pdf.SetLineWidth(1.2)
	pdf.Rect(margin/2, margin/2, w-margin, h-margin, "D")
	pdf.SetLineWidth(0.4)
	pdf.Rect(margin/2+3, margin/2+3, w-margin-6, h-margin-6, "D")

	// watermark
	pdf.SetAlpha(0.06, "Normal")
	pdf.SetFont("ZapfDingbats", "", 220)
	pdf.SetTextColor(30, 58, 138)
	gw := pdf.GetStringWidth("H")
	pdf.Text((w-gw)/2, h/2+35, "H")
	pdf.SetAlpha(1, "Normal")

	centered := func(y float64, family, style string, size float64, s string) {
		pdf.SetFont(family, style, size)
		pdf.SetXY(margin, y)
		pdf.CellFormat(w-2*margin, size*0.45, s, "", 0, "C", false, 0, "")
	}

	pdf.SetTextColor(30, 58, 138)
	centered(26, "Times", "B", 34, "CERTIFICATE")
	centered(42, "Times", "", 18, "of Excellence")
	pdf.SetTextColor(60, 60, 60)
	centered(56, fontFamily, "", 12, "This certificate is proudly presented to")
	pdf.SetTextColor(0, 0, 0)
	centered(65, fontFamily, "B", 22, makerNames(d.Makers))
	pdf.SetTextColor(60, 60, 60)
	centered(78, fontFamily, "", 12, "for the outstanding product")
	pdf.SetTextColor(30, 58, 138)
	centered(87, fontFamily, "B", 26, d.Product.Name)

	if d.Product.ImageURL != nil && *d.Product.ImageURL != "" && r.images != nil {
		img, err := r.images.Fetch(ctx, *d.Product.ImageURL)
		r.placeImage(pdf, "product", img, err, Rect{X: (w - 90) / 2, Y: 100, W: 90, H: 55})
	}

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(fontFamily, "B", 16)
	pdf.Text(margin+10, h-42, "Overall score: "+scoring.FormatScore(d.Evaluation.OverallScore))
	pdf.SetFont(fontFamily, "", 11)
	pdf.Text(margin+10, h-33, "Issued on "+d.IssuedAt.Format("January 2, 2006"))

	qrBox := Rect{X: w - margin - 45, Y: h - margin - 48, W: 35, H: 35}
	if r.qr != nil && d.VerifyURL != "" {
		img, err := r.qr.Fetch(ctx, d.VerifyURL)
		r.placeImage(pdf, "qr", img, err, qrBox)
	}
	pdf.SetFont(fontFamily, "", 8)
	pdf.SetTextColor(90, 90, 90)
	pdf.SetXY(qrBox.X-5, qrBox.Y+qrBox.H+1)
	pdf.CellFormat(qrBox.W+10, 4, "Scan to verify", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func (r *Renderer) evaluationPage(pdf *fpdf.Fpdf, d CertificateData) {
	pdf.AddPage()
	c := NewCursor(pdf, margin, bottomThreshold)

	pdf.SetTextColor(30, 58, 138)
	c.Text("Detailed Evaluation", 22, "B")
	pdf.SetTextColor(0, 0, 0)
	c.Text(d.Product.Name, 13, "")
	c.Gap(4)

	rows := make([][]string, 0, len(d.Evaluation.Criteria))
	byID := make(map[string]models.CriterionSummary, len(d.Evaluation.Summary))
	for _, s := range d.Evaluation.Summary {
		byID[s.CriteriaID] = s
	}
	for _, cr := range d.Evaluation.Criteria {
		rows = append(rows, []string{cr.Name, fmt.Sprintf("%g", cr.Weight), resultLabel(cr, byID[cr.ID])})
	}
	c.Table([]Column{
		{Title: "Criterion", Share: 0.6, Align: "L"},
		{Title: "Weight", Share: 0.15, Align: "C"},
		{Title: "Score", Share: 0.25, Align: "C"},
	}, rows)
	c.Gap(6)

	if len(d.Evaluation.Criteria) > 0 {
		c.Text("Criteria", 14, "B")
		for _, cr := range d.Evaluation.Criteria {
			line := cr.Name
			if desc := strings.TrimSpace(cr.Description); desc != "" {
				line += ": " + desc
			}
			c.WrappedText("- "+line, 10, "")
		}
		c.Gap(6)
	}

	if judges := scoring.SelectDisplayJudges(d.Judges, scoring.CertificateJudges); len(judges) > 0 {
		c.Text("Evaluated by", 14, "B")
		for _, j := range judges {
			c.Text(j.FullName, 11, "")
		}
		c.Gap(6)
	}

	if desc := strings.TrimSpace(d.Product.Description); desc != "" {
		c.Text("About the project", 14, "B")
		c.WrappedText(desc, 10, "")
	}
}

// placeImage draws img fitted into box; fetch or decode failures leave the box blank.
func (r *Renderer) placeImage(pdf *fpdf.Fpdf, name string, img *Image, fetchErr error, box Rect) {
	if fetchErr != nil || img == nil {
		r.imageFailed(name, fetchErr)
		return
	}
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: img.Type}, bytes.NewReader(img.Data))
	if !pdf.Ok() {
		err := pdf.Error()
		pdf.ClearError()
		r.imageFailed(name, err)
		return
	}
	rect := FitImage(pxToMM(img.Width), pxToMM(img.Height), box.X, box.Y, box.W, box.H)
	if rect.Empty() {
		r.imageFailed(name, fmt.Errorf("empty image %dx%d", img.Width, img.Height))
		return
	}
	pdf.ImageOptions(name, rect.X, rect.Y, rect.W, rect.H, false, fpdf.ImageOptions{ImageType: img.Type}, 0, "")
}

func (r *Renderer) imageFailed(name string, err error) {
	metrics.ImageFetchFailures.Inc()
	r.log.Warn("certificate image skipped", zap.String("image", name), zap.Error(err))
}

func makerNames(makers []models.Maker) string {
	names := make([]string, 0, len(makers))
	for _, m := range makers {
		if n := strings.TrimSpace(m.FullName); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return "The Product Team"
	}
	return strings.Join(names, ", ")
}

func resultLabel(c models.JudgingCriteria, s models.CriterionSummary) string {
	switch c.Type {
	case models.CriteriaRating:
		return scoring.FormatScore(s.AvgRating)
	case models.CriteriaBoolean:
		return fmt.Sprintf("Yes %d / No %d", s.TrueCount, s.FalseCount)
	default:
		return fmt.Sprintf("%d response(s)", s.JudgeCount)
	}
}
