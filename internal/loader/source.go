// Package loader fetches the boundary topology and the domain record files.
package loader

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// NewClient returns the HTTP client used for remote sources.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Transport: &http.Transport{
			TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
			MaxIdleConns:        16,
			MaxIdleConnsPerHost: 16,
		},
		Timeout: timeout,
	}
}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Open returns a reader for a local path or an http(s) URL.
// A nil client uses NewClient defaults.
func Open(client *http.Client, source string) (io.ReadCloser, error) {
	if source == "" {
		return nil, fmt.Errorf("empty source")
	}

	if !IsRemote(source) {
		return os.Open(source)
	}

	if client == nil {
		client = NewClient(0)
	}

	log.Debug().Str("url", source).Msg("Downloading source")
	resp, err := client.Get(source)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("download %s: status %d", source, resp.StatusCode)
	}

	return resp.Body, nil
}
