package dogpic

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const breedPlaceholder = "{breed}"

// Fetcher resolves a breed name into an image URL.
type Fetcher interface {
	Fetch(ctx context.Context, breed string) (string, error)
}

// Variant describes where the image URL is fetched from and which field of the JSON response holds it.
type Variant struct {
	Name string
	// BaseURL is the scheme and host of the service, without trailing slash.
	BaseURL string
	// PathTemplate contains the {breed} placeholder.
	PathTemplate string
	// Key is a gjson path into the response body.
	Key string
}

var (
	VariantAPI = Variant{
		Name:         "api",
		BaseURL:      "https://dog.ceo",
		PathTemplate: "/api/breed/{breed}/images/random",
		Key:          "message",
	}
	VariantLegacy = Variant{
		Name:         "legacy",
		BaseURL:      "https://dog.ceo",
		PathTemplate: "/breed/{breed}/images/random",
		Key:          "message",
	}
)

// VariantByName returns the preset named name.
func VariantByName(name string) (Variant, error) {
	switch name {
	case VariantAPI.Name:
		return VariantAPI, nil
	case VariantLegacy.Name:
		return VariantLegacy, nil
	}

	return Variant{}, errors.Wrapf(ErrUnknownVariant, "%q", name)
}

// URL returns the request URL for breed. The breed is substituted as is, without escaping.
func (v Variant) URL(breed string) string {
	return strings.TrimSuffix(v.BaseURL, "/") + strings.ReplaceAll(v.PathTemplate, breedPlaceholder, breed)
}

// HTTPFetcher fetches the image URL with a single GET request.
type HTTPFetcher struct {
	client  *http.Client
	variant Variant
	timeout time.Duration
	logger  *zap.Logger
}

type FetcherOption func(f *HTTPFetcher)

// FetcherHTTPClient replaces the default client.
func FetcherHTTPClient(client *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		f.client = client
	}
}

// FetcherTimeout bounds the whole request. Zero means no timeout.
func FetcherTimeout(timeout time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		f.timeout = timeout
	}
}

func FetcherLogger(logger *zap.Logger) FetcherOption {
	return func(f *HTTPFetcher) {
		f.logger = logger
	}
}

// NewHTTPFetcher creates a fetcher for variant.
func NewHTTPFetcher(variant Variant, opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:  &http.Client{},
		variant: variant,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch requests the image for breed and returns the value found at the variant key.
func (f *HTTPFetcher) Fetch(ctx context.Context, breed string) (string, error) {
	url := f.variant.URL(breed)

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	f.logger.Debug("image requested",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)
	if err != nil {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus}
	}

	if !gjson.ValidBytes(body) {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode, Err: ErrInvalidBody}
	}

	value := gjson.GetBytes(body, f.variant.Key)
	if !value.Exists() {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode, Err: errors.Wrapf(ErrMissingField, "key %q", f.variant.Key)}
	}

	return value.String(), nil
}

var _ Fetcher = (*HTTPFetcher)(nil)
