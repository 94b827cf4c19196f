package fetch

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"aviutl2-cli/internal/logger"
)

// UserAgent identifies the CLI to download servers.
const UserAgent = "aviutl2-cli"

// MaxRedirects bounds how many redirects a download follows.
const MaxRedirects = 5

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

// Error reports the URL with the server's status line.
func (e *StatusError) Error() string {
	return fmt.Sprintf("download failed: %s (%s)", e.URL, e.Status)
}

// Client performs plain HTTP GET downloads.
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

// New returns a Client that follows at most MaxRedirects redirects.
func New() *Client {
	return &Client{
		HTTP: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= MaxRedirects {
					return fmt.Errorf("stopped after %d redirects", MaxRedirects)
				}
				return nil
			},
		},
		UserAgent: UserAgent,
	}
}

// Download streams the body of rawURL (with optional query parameters) into w.
func (c *Client) Download(rawURL string, query url.Values, w io.Writer) error {
	target := rawURL
	if len(query) > 0 {
		u, err := url.Parse(rawURL)
		if err != nil {
			return fmt.Errorf("invalid URL %s: %w", rawURL, err)
		}
		q := u.Query()
		for key, values := range query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
		target = u.String()
	}

	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("invalid request for %s: %w", target, err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	logger.Debug("[DEBUG] GET %s\n", target)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", target, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: target, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to read response from %s: %w", target, err)
	}
	return nil
}

// DownloadFile writes the body of rawURL to destPath, removing the partial file on failure.
func (c *Client) DownloadFile(rawURL string, query url.Values, destPath string) (err error) {
	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", destPath, cerr)
		}
		if err != nil {
			_ = os.Remove(destPath)
		}
	}()

	return c.Download(rawURL, query, out)
}
