package taxlots

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/etnz/taxlots/date"
	"github.com/rs/zerolog"
)

// contains http utils to fetch price documents from remote services

// diskCache implements a simple disk cache for HTTP responses.
type diskCache struct {
	base  http.RoundTripper
	dir   string
	log   zerolog.Logger
	today func() date.Date
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// the key changes every day, so the cache expires every day.
	key := fmt.Sprintf("%s %s %s", c.today(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		c.log.Debug().Str("url", req.URL.String()).Msg("price document served from cache")
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("status", resp.Status).Msg("http request")
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		c.log.Warn().Err(err).Msg("cache write error ignored")
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores a response to disk cache. The response body remains readable.
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0644)
}

// DailyClient returns an HTTP client caching successful responses in dir for
// the current day. An empty dir means the OS temporary directory.
func DailyClient(dir string, log *zerolog.Logger) *http.Client {
	if dir == "" {
		dir = os.TempDir()
	}
	l := zerolog.Nop()
	if log != nil {
		l = *log
	}
	return &http.Client{Transport: &diskCache{base: http.DefaultTransport, dir: dir, log: l, today: date.Today}}
}

// FetchPrices downloads a price document and extracts its quotes like
// DecodePrices does.
func FetchPrices(ctx context.Context, client *http.Client, url, path string) (PriceTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http GET %v/%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	return DecodePrices(resp.Body, path)
}
