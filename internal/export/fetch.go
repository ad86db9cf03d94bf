package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"proposal_ai_server/internal/ai/utils"
)

// maxImageBytes caps a single fetched image.
const maxImageBytes = 20 << 20

// ImageFetcher loads the bytes behind an image reference.
type ImageFetcher interface {
	Fetch(ctx context.Context, ref string) (data []byte, contentType string, err error)
}

// HTTPFetcher fetches http(s) images and decodes data URLs in place.
type HTTPFetcher struct {
	httpClient *http.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) ([]byte, string, error) {
	if mime, data, ok := utils.DecodeDataURL(ref); ok {
		return data, mime, nil
	}
	lower := strings.ToLower(ref)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return nil, "", fmt.Errorf("unsupported image reference %.60q", ref)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create image request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image body: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, "", fmt.Errorf("image larger than %d bytes", maxImageBytes)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
