package asset

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Source fetches the raw bytes behind an image URL
type Source interface {
	Fetch(ctx context.Context, u *url.URL) ([]byte, error)
}

// errUnsupportedScheme is not retried
var errUnsupportedScheme = errors.New("unsupported image URL scheme")

// Downloader fetches image bytes, retrying failed attempts. Each attempt is
// bounded by Timeout.
type Downloader struct {
	Timeout time.Duration
	Retries int

	sources map[string]Source
	logger  *zap.Logger
}

// NewDownloader returns a Downloader serving http and https URLs through
// web. Further schemes are added with Register.
func NewDownloader(web Source, timeout time.Duration, retries int, logger *zap.Logger) *Downloader {
	d := &Downloader{
		Timeout: timeout,
		Retries: retries,
		sources: make(map[string]Source),
		logger:  logger,
	}
	d.Register("http", web)
	d.Register("https", web)
	return d
}

// Register serves URLs with the given scheme through src.
func (d *Downloader) Register(scheme string, src Source) {
	d.sources[scheme] = src
}

// Download returns the bytes at rawURL, trying at most Retries+1 times.
func (d *Downloader) Download(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid image URL %q: %w", rawURL, err)
	}

	src, ok := d.sources[u.Scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errUnsupportedScheme, u.Scheme)
	}

	var lastErr error
	for attempt := 0; attempt <= d.Retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bs, err := d.fetch(ctx, src, u)
		if err == nil {
			return bs, nil
		}

		lastErr = err
		d.logger.Debug("image download attempt failed",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	return nil, lastErr
}

func (d *Downloader) fetch(ctx context.Context, src Source, u *url.URL) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	return src.Fetch(ctx, u)
}
