package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/orgportal-gateway/pkg/config"
)

// Error carries a failed upstream exchange: the HTTP status plus any
// error/message field the legacy endpoint managed to emit. Raw body
// text is kept for diagnostics and never shown to end users.
type Error struct {
	Status  int
	Message string
	Body    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("upstream status %d", e.Status)
}

// Client is the single canonical JSON client over the legacy PHP
// endpoints. The legacy browser code lazily self-installed a fetch
// wrapper per file; here every consumer receives this one instance.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	logger    *zap.Logger
}

// NewClient builds a client with a shared cookie jar so the PHP
// session cookie persists across calls, mirroring the credentialed
// fetches of the legacy client.
func NewClient(cfg config.UpstreamConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		logger:    logger,
		http: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}
}

// GetJSON issues a no-cache GET and decodes the JSON body into dest.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, dest interface{}) error {
	endpoint := c.endpoint(path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	return c.do(req, dest)
}

// PostForm issues a form-urlencoded POST and decodes the JSON body.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, dest)
}

// PostJSON issues a JSON POST and decodes the JSON body.
func (c *Client) PostJSON(ctx context.Context, path string, body interface{}, dest interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, dest)
}

// FilePart is one file attached to a multipart POST.
type FilePart struct {
	FieldName string
	FileName  string
	Content   io.Reader
}

// PostMultipart issues a multipart POST (registration, file replace)
// and decodes the JSON body.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, files []FilePart, dest interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("write field %s: %w", name, err)
		}
	}
	for _, part := range files {
		fw, err := writer.CreateFormFile(part.FieldName, part.FileName)
		if err != nil {
			return fmt.Errorf("create file part %s: %w", part.FieldName, err)
		}
		if _, err := io.Copy(fw, part.Content); err != nil {
			return fmt.Errorf("copy file part %s: %w", part.FieldName, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), &buf)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req, dest)
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) do(req *http.Request, dest interface{}) error {
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("upstream request failed",
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return fmt.Errorf("upstream %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read upstream body %s: %w", req.URL.Path, err)
	}

	c.logger.Debug("upstream request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Status:  resp.StatusCode,
			Message: extractMessage(raw),
			Body:    string(raw),
		}
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return &Error{
			Status:  resp.StatusCode,
			Message: "malformed JSON",
			Body:    string(raw),
		}
	}
	return nil
}

// extractMessage pulls an error or message field out of an upstream
// failure body, tolerating non-JSON responses.
func extractMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
