package certificate

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Spok95/showcase-judging/internal/models"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 30, G: 58, B: 138, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type fakeFetcher struct {
	images map[string]*Image
	calls  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*Image, error) {
	f.calls = append(f.calls, url)
	if img, ok := f.images[url]; ok {
		return img, nil
	}
	return nil, errors.New("connection refused")
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestFitImage(t *testing.T) {
	t.Run("wider_than_box", func(t *testing.T) {
		r := FitImage(400, 100, 10, 20, 100, 100)
		if !approx(r.W, 100) || !approx(r.H, 25) {
			t.Fatalf("size = %vx%v", r.W, r.H)
		}
		if !approx(r.X, 10) || !approx(r.Y, 20+37.5) {
			t.Fatalf("not centered: %+v", r)
		}
		if !approx(r.W/r.H, 4) {
			t.Fatal("aspect ratio changed")
		}
	})
	t.Run("taller_than_box", func(t *testing.T) {
		r := FitImage(50, 200, 0, 0, 100, 100)
		if !approx(r.H, 100) || !approx(r.W, 25) || !approx(r.X, 37.5) {
			t.Fatalf("%+v", r)
		}
	})
	t.Run("smaller_is_not_upscaled", func(t *testing.T) {
		r := FitImage(10, 20, 0, 0, 100, 100)
		if !approx(r.W, 10) || !approx(r.H, 20) || !approx(r.X, 45) || !approx(r.Y, 40) {
			t.Fatalf("%+v", r)
		}
	})
	t.Run("degenerate", func(t *testing.T) {
		if r := FitImage(0, 10, 0, 0, 100, 100); !r.Empty() {
			t.Fatalf("%+v", r)
		}
	})
}

func TestQRURL(t *testing.T) {
	got := QRURL("https://api.qrserver.com/v1/create-qr-code/", "https://example.org/verify/p 1?x=1", 300)
	want := "https://api.qrserver.com/v1/create-qr-code/?size=300x300&data=https%3A%2F%2Fexample.org%2Fverify%2Fp+1%3Fx%3D1"
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
	if got := QRURL("https://qr.local/gen?format=png", "v", 10); got != "https://qr.local/gen?format=png&size=10x10&data=v" {
		t.Fatalf("got %s", got)
	}
}

func TestQRSourceUsesGeneratorURL(t *testing.T) {
	f := &fakeFetcher{}
	q := NewQRSource("https://qr.local/", 100, f)
	_, _ = q.Fetch(context.Background(), "https://example.org/verify/p1")
	if len(f.calls) != 1 || !strings.HasPrefix(f.calls[0], "https://qr.local/?size=300x300&data=") {
		t.Fatalf("calls = %v", f.calls)
	}
}

func TestDecodeImage(t *testing.T) {
	img, err := DecodeImage(pngBytes(t, 40, 20))
	if err != nil {
		t.Fatal(err)
	}
	if img.Type != "PNG" || img.Width != 40 || img.Height != 20 {
		t.Fatalf("%+v", img)
	}
	if _, err := DecodeImage([]byte("<html>nope</html>")); !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("err = %v", err)
	}
}

func TestHTTPFetcher(t *testing.T) {
	data := pngBytes(t, 8, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ok.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(2 * time.Second)
	img, err := f.Fetch(context.Background(), srv.URL+"/ok.png")
	if err != nil || img.Width != 8 {
		t.Fatalf("img=%+v err=%v", img, err)
	}
	if _, err := f.Fetch(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Fatal("expected error on 404")
	}
}

type publicFiles map[string][]byte

func (p publicFiles) ReadPublic(path string) ([]byte, error) {
	if b, ok := p[path]; ok {
		return b, nil
	}
	return nil, errors.New("not found")
}

func TestLocalFirstFetcher(t *testing.T) {
	next := &fakeFetcher{}
	f := LocalFirstFetcher{Files: publicFiles{"/files/product-images/a.png": pngBytes(t, 4, 4)}, Next: next}
	img, err := f.Fetch(context.Background(), "/files/product-images/a.png")
	if err != nil || img.Width != 4 {
		t.Fatalf("img=%+v err=%v", img, err)
	}
	_, _ = f.Fetch(context.Background(), "https://cdn.example.org/a.png")
	if len(next.calls) != 1 {
		t.Fatalf("remote url must go to Next, calls=%v", next.calls)
	}
}

func sampleData() CertificateData {
	avg := 7.5
	img := "https://cdn.example.org/broken.png"
	overall := 7.5
	return CertificateData{
		Product: models.Product{
			ID: "p1", Name: "Rocket", ImageURL: &img,
			Description: "A tool that ships things. " + strings.Repeat("Fast and reliable. ", 20),
		},
		Makers: []models.Maker{{FullName: "Ada Lovelace", IsCreator: true}, {FullName: "Grace Hopper"}},
		Judges: []models.Judge{{ID: "j1", FullName: "Judge One"}, {ID: "j2", FullName: "Judge Two"}},
		Evaluation: models.Evaluation{
			Criteria: []models.JudgingCriteria{
				{ID: "c1", Name: "Innovation", Description: "How new is it", Type: models.CriteriaRating, Weight: 2},
				{ID: "c2", Name: "Ready", Type: models.CriteriaBoolean, Weight: 1},
			},
			Summary: []models.CriterionSummary{
				{CriteriaID: "c1", Type: models.CriteriaRating, Weight: 2, AvgRating: &avg, JudgeCount: 2},
				{CriteriaID: "c2", Type: models.CriteriaBoolean, Weight: 1, TrueCount: 2, JudgeCount: 2},
			},
			OverallScore: &overall,
		},
		VerifyURL: "https://example.org/verify/p1",
		IssuedAt:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	qr := &fakeFetcher{images: map[string]*Image{}}
	qrImg, err := DecodeImage(pngBytes(t, 300, 300))
	if err != nil {
		t.Fatal(err)
	}
	qr.images[QRURL("https://qr.local/", "https://example.org/verify/p1", QRSizePx)] = qrImg
	return NewRenderer(&fakeFetcher{}, NewQRSource("https://qr.local/", 1000, qr), nil)
}

func TestRenderSurvivesBrokenImage(t *testing.T) {
	var buf bytes.Buffer
	if err := newTestRenderer(t).Render(context.Background(), sampleData(), &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatal("not a PDF")
	}
	if !bytes.Contains(out, []byte("/Count 2")) {
		t.Fatal("expected two pages")
	}
}

func TestRenderDeterministic(t *testing.T) {
	render := func() []byte {
		var buf bytes.Buffer
		if err := newTestRenderer(t).Render(context.Background(), sampleData(), &buf); err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}
	if !bytes.Equal(render(), render()) {
		t.Fatal("same input rendered to different bytes")
	}
}

func TestRenderCyrillicNames(t *testing.T) {
	d := sampleData()
	d.Product.Name = "Ракета"
	d.Makers = []models.Maker{{FullName: "Анна Каренина", IsCreator: true}}
	d.Judges = []models.Judge{{ID: "j1", FullName: "Лев Толстой"}}
	d.Evaluation.Criteria[0].Name = "Новизна"
	var buf bytes.Buffer
	if err := newTestRenderer(t).Render(context.Background(), d, &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.Bytes()
	if !bytes.Contains(out, []byte("/Encoding /Identity-H")) || !bytes.Contains(out, []byte("/FontFile2")) {
		t.Fatal("names must be set in the embedded unicode font")
	}
}

func TestRenderPaginatesLongDescription(t *testing.T) {
	d := sampleData()
	d.Product.Description = strings.Repeat("Lorem ipsum dolor sit amet, consectetur adipiscing elit. ", 200)
	var buf bytes.Buffer
	if err := newTestRenderer(t).Render(context.Background(), d, &buf); err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(buf.Bytes(), []byte("/Count 2")) {
		t.Fatal("long description should continue on a third page")
	}
}

type fakeSource struct{}

func (fakeSource) GetProduct(_ context.Context, id string) (*models.Product, error) {
	return &models.Product{ID: id, Name: "My App: v2"}, nil
}
func (fakeSource) ListMakers(context.Context, string) ([]models.Maker, error) {
	return []models.Maker{{FullName: "Ada", IsCreator: true}}, nil
}
func (fakeSource) ListEvaluatingJudges(context.Context, string) ([]models.Judge, error) {
	return nil, nil
}

type emptyEval struct{}

func (emptyEval) Evaluation(context.Context, string) (*models.Evaluation, error) {
	return &models.Evaluation{}, nil
}

func TestServiceGenerate(t *testing.T) {
	svc := NewService(fakeSource{}, emptyEval{}, NewRenderer(nil, nil, nil), "https://example.org/verify/", time.UTC, nil)
	svc.now = func() time.Time { return time.Date(2026, 5, 4, 15, 30, 0, 0, time.UTC) }

	d, err := svc.Load(context.Background(), "p1")
	if err != nil {
		t.Fatal(err)
	}
	if d.VerifyURL != "https://example.org/verify/p1" {
		t.Fatalf("verify url = %s", d.VerifyURL)
	}
	if !d.IssuedAt.Equal(time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("issued at = %v", d.IssuedAt)
	}

	a, name, err := svc.Generate(context.Background(), "p1")
	if err != nil {
		t.Fatal(err)
	}
	if name != "certificate_My_App_v2.pdf" {
		t.Fatalf("filename = %s", name)
	}
	svc.now = func() time.Time { return time.Date(2026, 5, 4, 23, 0, 0, 0, time.UTC) }
	b, _, err := svc.Generate(context.Background(), "p1")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("same-day certificates differ")
	}
}
