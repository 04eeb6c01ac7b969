// Package uguu uploads files to a uguu.se-compatible pomf endpoint and
// extracts the returned link.
package uguu

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"uguulink/internal/httputil"
	"uguulink/internal/media"
)

// DefaultEndpoint is the public uguu.se upload URL.
const DefaultEndpoint = "https://uguu.se/upload"

// FormField is the multipart field uguu.se reads uploads from.
const FormField = "files[]"

const (
	maxResponseSize = 10 * 1024 * 1024 // 10MB
	maxErrorSnippet = 200
)

// ErrInvalidResponse is returned when the endpoint answered but no link
// could be read from the body.
var ErrInvalidResponse = errors.New("empty or invalid upload response")

// HTTPError reports a failed request or a non-success status.
type HTTPError struct {
	StatusCode int    // 0 when the request never got a response
	Status     string // e.g. "500 Internal Server Error"
	Body       string // truncated response body
	Err        error  // transport error, if any
}

func (e *HTTPError) Error() string {
	var msg string
	if e.Err != nil {
		msg = "HTTP Error: " + e.Err.Error()
	} else {
		msg = "HTTP Error: " + e.Status
	}
	if e.Body != "" {
		msg += " - Response: " + e.Body
	}
	return msg
}

func (e *HTTPError) Unwrap() error { return e.Err }

// Client uploads files to a single endpoint.
type Client struct {
	endpoint  string
	http      *http.Client
	log       *zap.Logger
	htmlLinks bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default hardened client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithTimeout sets the whole-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.http = httputil.NewClient(d) }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.log = l
		}
	}
}

// WithHTMLLinks makes html responses yield the first anchor href instead of
// the raw body.
func WithHTMLLinks(enabled bool) Option {
	return func(cl *Client) { cl.htmlLinks = enabled }
}

// New creates a Client for endpoint. An empty endpoint selects DefaultEndpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if err := httputil.ValidateURL(endpoint); err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	c := &Client{
		endpoint: endpoint,
		http:     httputil.NewClient(httputil.DefaultTimeout),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the upload URL without the output parameter.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Upload posts the file at path and returns the link from the response.
// outputFormat is passed through verbatim as the "output" query parameter;
// empty means "text".
func (c *Client) Upload(ctx context.Context, path string, outputFormat string) (string, error) {
	if outputFormat == "" {
		outputFormat = string(media.DefaultFormat)
	}

	body, contentType, err := c.buildForm(path)
	if err != nil {
		return "", err
	}

	target, err := httputil.WithQuery(c.endpoint, "output", outputFormat)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httputil.SetDefaultHeaders(req)
	req.Header.Set("Content-Type", contentType)

	c.log.Info("uploading file",
		zap.String("endpoint", c.endpoint),
		zap.String("output", outputFormat),
		zap.String("path", path),
		zap.Int("bytes", body.Len()),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &HTTPError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Err: fmt.Errorf("reading response: %w", err)}
	}

	c.log.Debug("upload response",
		zap.Int("status", resp.StatusCode),
		zap.String("contentType", resp.Header.Get("Content-Type")),
		zap.String("body", httputil.Snippet(raw, 1000)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       httputil.Snippet(raw, maxErrorSnippet),
		}
	}

	link := c.parseLink(resp.Header.Get("Content-Type"), raw)
	if link == "" {
		c.log.Warn("no link in upload response", zap.String("body", httputil.Snippet(raw, 1000)))
		return "", ErrInvalidResponse
	}
	c.log.Info("upload complete", zap.String("link", link))
	return link, nil
}

// buildForm reads the file into a multipart body with a single files[] part.
func (c *Client) buildForm(path string) (*bytes.Buffer, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	partType := "application/octet-stream"
	if mt, err := mimetype.DetectReader(f); err == nil {
		partType = mt.String()
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("rewinding file: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(FormField), escapeQuotes(filepath.Base(path))))
	header.Set("Content-Type", partType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("creating form part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("reading file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("closing form: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
