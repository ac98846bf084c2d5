package certificate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxImageBytes = 10 << 20

var ErrUnsupportedImage = errors.New("unsupported image format")

// Image: загруженная картинка с типом в терминах fpdf (PNG/JPG/GIF) и размером в пикселях.
type Image struct {
	Data   []byte
	Type   string
	Width  int
	Height int
}

type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*Image, error)
}

// DecodeImage sniffs the format and reads dimensions without decoding pixels.
func DecodeImage(data []byte) (*Image, error) {
	var typ string
	switch http.DetectContentType(data) {
	case "image/png":
		typ = "PNG"
	case "image/jpeg":
		typ = "JPG"
	case "image/gif":
		typ = "GIF"
	default:
		return nil, ErrUnsupportedImage
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s config: %w", strings.ToLower(typ), err)
	}
	return &Image{Data: data, Type: typ, Width: cfg.Width, Height: cfg.Height}, nil
}

type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher: timeout 0 means no per-image deadline beyond ctx.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("GET %s: image larger than %d bytes", url, maxImageBytes)
	}
	return DecodeImage(data)
}

// PublicFiles reads files the service itself serves under /files/.
type PublicFiles interface {
	ReadPublic(publicPath string) ([]byte, error)
}

// LocalFirstFetcher отдаёт локальные файлы хранилища напрямую, остальное: через Next.
type LocalFirstFetcher struct {
	Files PublicFiles
	Next  ImageFetcher
}

func (f LocalFirstFetcher) Fetch(ctx context.Context, url string) (*Image, error) {
	if f.Files != nil && strings.HasPrefix(url, "/files/") {
		data, err := f.Files.ReadPublic(url)
		if err != nil {
			return nil, err
		}
		return DecodeImage(data)
	}
	if f.Next == nil {
		return nil, fmt.Errorf("no fetcher for %q", url)
	}
	return f.Next.Fetch(ctx, url)
}
