package detection

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/vincent-petithory/dataurl"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/providers/http/client"
)

// Image is a dereferenced image locator.
type Image struct {
	Data []byte
	// MIME is sniffed from the bytes; it is informational only
	MIME string
}

// Fetcher dereferences image locators
type Fetcher struct {
	client  *client.Client
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewFetcher creates a fetcher. logger and metrics may be nil.
func NewFetcher(c *client.Client, logger *zap.Logger, metrics *monitoring.Metrics) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{client: c, logger: logger, metrics: metrics}
}

// Fetch returns the bytes behind ref. data: URLs are decoded in-process,
// http(s) URLs are downloaded.
func (f *Fetcher) Fetch(ctx context.Context, ref string) (*Image, error) {
	var (
		data []byte
		err  error
	)

	if hasScheme(ref, "data") {
		data, err = decodeDataURL(ref)
	} else {
		data, err = f.download(ctx, ref)
	}
	if err != nil {
		return nil, err
	}

	mime := mimetype.Detect(data).String()
	f.logger.Debug("image fetched",
		zap.String("mime", mime),
		zap.Int("bytes", len(data)),
	)
	if f.metrics != nil {
		f.metrics.RecordImage(mime, len(data))
	}

	return &Image{Data: data, MIME: mime}, nil
}

func decodeDataURL(ref string) ([]byte, error) {
	// the decoder only accepts the lowercase prefix
	du, err := dataurl.DecodeString("data" + ref[len("data"):])
	if err != nil {
		return nil, fmt.Errorf("invalid data URL: %w", err)
	}
	return du.Data, nil
}

func (f *Fetcher) download(ctx context.Context, ref string) ([]byte, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid image URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	req, err := f.client.Request(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.Get(ref)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{Service: serviceFetch, StatusCode: resp.StatusCode()}
	}

	return resp.Body(), nil
}

func hasScheme(ref, scheme string) bool {
	return len(ref) > len(scheme) &&
		ref[len(scheme)] == ':' &&
		strings.EqualFold(ref[:len(scheme)], scheme)
}
