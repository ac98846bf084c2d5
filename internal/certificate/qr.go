package certificate

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/time/rate"
)

const QRSizePx = 300

// QRURL builds the generator link: endpoint?size=WxH&data=<escaped verify url>.
func QRURL(endpoint, verifyURL string, size int) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%ssize=%dx%d&data=%s", endpoint, sep, size, size, url.QueryEscape(verifyURL))
}

// QRSource fetches QR images from the public generator, at most perSec calls per second.
type QRSource struct {
	endpoint string
	size     int
	limiter  *rate.Limiter
	fetch    ImageFetcher
}

func NewQRSource(endpoint string, perSec float64, fetch ImageFetcher) *QRSource {
	return &QRSource{
		endpoint: endpoint,
		size:     QRSizePx,
		limiter:  rate.NewLimiter(rate.Limit(perSec), 1),
		fetch:    fetch,
	}
}

func (q *QRSource) Fetch(ctx context.Context, verifyURL string) (*Image, error) {
	if err := q.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("qr rate limit: %w", err)
	}
	return q.fetch.Fetch(ctx, QRURL(q.endpoint, verifyURL, q.size))
}
