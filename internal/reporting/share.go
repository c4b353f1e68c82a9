package reporting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spboyer/ipsbench/internal/models"
)

// ErrShareFailed is returned when the share server rejects a report.
var ErrShareFailed = errors.New("error sharing report")

// DefaultShareTimeout bounds one upload.
const DefaultShareTimeout = 30 * time.Second

// ShareSink uploads records to a benchmark sharing server and prints the
// resulting link.
type ShareSink struct {
	baseURL string
	compare bool
	client  *http.Client
	out     io.Writer
}

// ShareOption configures a ShareSink.
type ShareOption func(*ShareSink)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) ShareOption {
	return func(s *ShareSink) {
		s.client = c
	}
}

// NewShareSink returns a sink posting to <baseURL>/reports. compare is sent
// along so the server can render the comparison.
func NewShareSink(baseURL string, compare bool, out io.Writer, opts ...ShareOption) *ShareSink {
	s := &ShareSink{
		baseURL: strings.TrimRight(baseURL, "/"),
		compare: compare,
		client:  &http.Client{Timeout: DefaultShareTimeout},
		out:     out,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type shareRequest struct {
	Entries []models.Record `json:"entries"`
	Options shareOptions    `json:"options"`
}

type shareOptions struct {
	Compare bool `json:"compare"`
}

type shareResponse struct {
	ID string `json:"id"`
}

// PostRun implements Sink.
func (s *ShareSink) PostRun(ctx context.Context, records []models.Record) error {
	link, err := s.Share(ctx, records)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.out, "Shared at: %s\n", link)
	return err
}

// Share uploads records and returns the link to the shared report.
func (s *ShareSink) Share(ctx context.Context, records []models.Record) (string, error) {
	body, err := json.Marshal(shareRequest{Entries: records, Options: shareOptions{Compare: s.compare}})
	if err != nil {
		return "", fmt.Errorf("marshaling share request: %w", err)
	}

	endpoint, err := url.JoinPath(s.baseURL, "reports")
	if err != nil {
		return "", fmt.Errorf("building share URL from %q: %w", s.baseURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating share request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("posting report: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s", ErrShareFailed, resp.Status)
	}

	var out shareResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decoding response: %w", ErrShareFailed, err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("%w: response has no id", ErrShareFailed)
	}

	link, err := url.JoinPath(s.baseURL, out.ID)
	if err != nil {
		return "", fmt.Errorf("building share link: %w", err)
	}
	return link, nil
}
