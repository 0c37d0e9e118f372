// Package imagestore wraps the external image-hosting service. The host is
// treated as opaque: calls are synchronous, double invocation is not
// guaranteed to be idempotent, and there is no undo for a completed upload.
package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"social-service/internal/observability"
)

// Store uploads, deletes and addresses images by logical key.
type Store interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Client talks to the image host over HTTP.
type Client struct {
	baseURL   string
	uploadURL string
	apiKey    string
	http      *http.Client
}

// NewClient constructs a Client.
func NewClient(baseURL, uploadURL, apiKey string) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		uploadURL: strings.TrimSuffix(uploadURL, "/"),
		apiKey:    apiKey,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload stores the image bytes under the key and returns the retrieval URL.
func (c *Client) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	ctx, span := otel.Tracer("social-service/imagestore").Start(ctx, "imagestore.upload", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("key", key); err != nil {
		return "", err
	}
	part, err := writer.CreatePart(map[string][]string{
		"Content-Disposition": {fmt.Sprintf(`form-data; name="file"; filename=%q`, key)},
		"Content-Type":        {contentType},
	})
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	if err := c.do(req, "upload"); err != nil {
		return "", err
	}
	return c.URL(key), nil
}

// Delete removes the image stored under the key.
func (c *Client) Delete(ctx context.Context, key string) error {
	ctx, span := otel.Tracer("social-service/imagestore").Start(ctx, "imagestore.delete", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.uploadURL+"/"+key, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	return c.do(req, "delete")
}

// URL derives the retrieval URL for a key without contacting the host.
func (c *Client) URL(key string) string {
	return c.baseURL + "/" + key
}

// KeyFromURL recovers the logical key from a retrieval URL produced by URL.
// Message rows store the full URL as content, so deletion needs this to
// address the asset again.
func KeyFromURL(rawURL string) string {
	if parsed, err := url.Parse(rawURL); err == nil {
		return path.Base(parsed.Path)
	}
	return path.Base(rawURL)
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *Client) do(req *http.Request, op string) error {
	resp, err := c.http.Do(req)
	if err != nil {
		observability.IncImageStoreOp(op, "error")
		return fmt.Errorf("image store %s: %w", op, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		observability.IncImageStoreOp(op, "error")
		return fmt.Errorf("image store %s: unexpected status %d", op, resp.StatusCode)
	}
	observability.IncImageStoreOp(op, "ok")
	return nil
}
