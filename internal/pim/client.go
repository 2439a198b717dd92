// Package pim is a client for the Akeneo-style PIM REST API: a raw
// request layer plus the asset and product operations built on it.
package pim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Catalog names the asset family and product attributes the client
// writes to.
type Catalog struct {
	AssetFamily    string
	MainAttribute  string
	OtherAttribute string
	LabelLocale    string
}

// Options configures a Client.
type Options struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string

	// Timeout bounds each request, token requests included
	Timeout time.Duration

	// RequestsPerSecond throttles API calls; 0 disables throttling
	RequestsPerSecond float64

	Catalog Catalog

	// Transport is the underlying round tripper; nil uses the default
	Transport http.RoundTripper
}

// Client is a client for the PIM REST API. All requests share one OAuth2
// session.
type Client struct {
	baseURL string
	catalog Catalog
	client  *http.Client
	limiter *rate.Limiter
}

// Response is the raw outcome of an API call. Non-2xx statuses are not
// errors at this level; callers interpret StatusCode.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// MultipartFile is a single file part of a multipart/form-data upload
type MultipartFile struct {
	Field       string
	Filename    string
	ContentType string
	Content     io.Reader
}

// NewClient is the factory for the PIM client. The access token is
// requested on the first call and reused for the rest of the run.
func NewClient(ctx context.Context, opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")

	tokenClient := &http.Client{Timeout: opts.Timeout, Transport: opts.Transport}

	c := &Client{
		baseURL: baseURL,
		catalog: opts.Catalog,
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: newAuthTransport(ctx, tokenClient, baseURL, opts),
		},
	}

	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return c
}

// Get issues a GET request with the given query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, "", nil)
}

// Post issues a POST request with body encoded as compact JSON. A nil body
// sends no content.
func (c *Client) Post(ctx context.Context, path string, body any, headers map[string]string) (*Response, error) {
	r, contentType, err := jsonBody(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, path, r, contentType, headers)
}

// PostMultipart uploads file as multipart/form-data. The content type
// carries the boundary computed by the multipart writer.
func (c *Client) PostMultipart(ctx context.Context, path string, file MultipartFile, headers map[string]string) (*Response, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(file.Field), escapeQuotes(file.Filename)))
	h.Set("Content-Type", file.ContentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return nil, fmt.Errorf("failed to write multipart content: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return c.do(ctx, http.MethodPost, path, &buf, w.FormDataContentType(), headers)
}

// Patch issues a PATCH request with body encoded as compact JSON.
func (c *Client) Patch(ctx context.Context, path string, body any, headers map[string]string) (*Response, error) {
	r, contentType, err := jsonBody(body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPatch, path, r, contentType, headers)
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	body io.Reader,
	contentType string,
	headers map[string]string,
) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("response body is unreadable: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func jsonBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}

	bs, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("marshalling %T to JSON failed: %w", body, err)
	}

	return bytes.NewReader(bs), "application/json", nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
