package webhook

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"time"

	"github.com/Rarebox/kalorify-ai/internal/analysis"
)

// FormField is the multipart field the analysis webhook reads the image from.
const FormField = "file"

// Client posts images to an analysis webhook and parses its envelope array.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, timeout time.Duration) (*Client, error) {
	slog.Info("Creating analysis webhook client", "url", url)
	if url == "" {
		return nil, fmt.Errorf("webhook url cannot be empty")
	}

	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (c *Client) Name() string { return "webhook" }

// Analyze sends one image and returns the parsed result. A nil result with a
// nil error means the service found nothing to report.
func (c *Client) Analyze(ctx context.Context, img analysis.Image) (*analysis.Result, error) {
	body, contentType, err := encodeImage(img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	slog.Debug("Posting image to analysis webhook", "filename", img.Filename, "bytes", len(img.Data))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &analysis.TransportError{Err: err}
	}
	defer resp.Body.Close()

	return analysis.ReadResponse(resp)
}

func encodeImage(img analysis.Image) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	filename := filepath.Base(img.Filename)
	if filename == "." || filename == "/" {
		filename = "image"
	}
	contentType := img.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(img.Data)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FormField, filename))
	h.Set("Content-Type", contentType)

	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}
