package dataset

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const datasetDownloadPath = "/datasets/download/"

// KaggleOptions parameterise the dataset client.
type KaggleOptions struct {
	Username  string
	Key       string
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// KaggleClient downloads dataset archives from the Kaggle API.
type KaggleClient struct {
	opts    KaggleOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewKaggleClient constructs a dataset client.
func NewKaggleClient(opts KaggleOptions, logger zerolog.Logger) *KaggleClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://www.kaggle.com/api/v1"
	}

	return &KaggleClient{
		opts:    opts,
		logger:  logger.With().Str("component", "kaggle_client").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// DownloadDataset fetches the archive for a dataset handle ("owner/slug")
// and returns a reader over its fully buffered contents.
func (c *KaggleClient) DownloadDataset(ctx context.Context, handle string) (*zip.Reader, error) {
	if c.opts.Username == "" || c.opts.Key == "" {
		return nil, errors.New("kaggle credentials not configured (KAGGLE_USERNAME / KAGGLE_KEY)")
	}
	if handle == "" || !strings.Contains(handle, "/") {
		return nil, fmt.Errorf("invalid dataset handle %q", handle)
	}

	endpoint := c.baseURL + datasetDownloadPath + handle
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.opts.Username, c.opts.Key)
	req.Header.Set("Accept", "application/zip")
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "btcpricer/1.0")
	}

	c.logger.Debug().Str("dataset", handle).Msg("downloading dataset archive")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseHTTPError(handle, resp.StatusCode, payload)
	}

	archive, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("open archive for %s: %w", handle, err)
	}

	c.logger.Info().Str("dataset", handle).Int("bytes", len(payload)).Int("files", len(archive.File)).Msg("dataset archive downloaded")
	return archive, nil
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func parseHTTPError(handle string, status int, payload []byte) error {
	var apiErr apiError
	if err := json.Unmarshal(payload, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("kaggle api error for %s (%d): %s", handle, status, apiErr.Message)
	}
	if len(payload) > 0 && len(payload) < 512 {
		return fmt.Errorf("kaggle api error for %s (%d): %s", handle, status, strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("kaggle api error for %s (%d)", handle, status)
}

// openArchiveFile locates a file inside the archive by exact name or, when
// not found, by path suffix (Kaggle sometimes nests files in a directory).
func openArchiveFile(archive *zip.Reader, name string) (io.ReadCloser, error) {
	for _, f := range archive.File {
		if f.Name == name || strings.HasSuffix(f.Name, "/"+name) {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("file %q not found in archive", name)
}
