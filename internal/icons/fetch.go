package icons

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/meur/iconforge/internal/metrics"
)

// DefaultFetchTimeout bounds a whole CDN request, body included.
const DefaultFetchTimeout = 10 * time.Second

// Fetcher downloads icon images from the CDN
type Fetcher struct {
	baseURL string
	client  *http.Client
}

// NewFetcher creates a fetcher for icons under baseURL. A zero timeout
// selects DefaultFetchTimeout.
func NewFetcher(baseURL string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Fetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// URL returns the CDN address of an icon, <base>/<icon>.png
func (f *Fetcher) URL(icon string) string {
	return fmt.Sprintf("%s/%s.png", f.baseURL, icon)
}

// Fetch returns the raw bytes of an icon. Every failure is a *FetchError.
func (f *Fetcher) Fetch(icon string) ([]byte, error) {
	url := f.URL(icon)
	start := time.Now()

	resp, err := f.client.Get(url)
	if err != nil {
		metrics.RecordFetch("error", time.Since(start))
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordFetch(strconv.Itoa(resp.StatusCode), time.Since(start))
		io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	metrics.RecordFetch(strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}
	return data, nil
}
