// Package analysis talks to the remote blueprint analysis service.
//
// The service exposes a single endpoint that accepts a multipart upload with
// one file part named "file" and answers with JSON. A 2xx answer is either a
// report or a soft-failure envelope of the form {"error": "..."}; non-2xx
// answers may carry the same envelope in their body. Client only moves bytes:
// it returns the decoded body or the failure, and leaves the interpretation
// to Response.SoftError, Response.Report and ErrorMessage.
package analysis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/treykane/carbon-blueprint/internal/blueprint"
	"github.com/treykane/carbon-blueprint/internal/logging"
)

// FileField is the multipart field name the service reads the upload from.
const FileField = "file"

// RequestIDHeader carries a per-request identifier for log correlation.
const RequestIDHeader = "X-Request-ID"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

// Client uploads blueprints to the analysis endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient returns a client that posts to endpoint. A zero timeout leaves
// request lifetime to the caller's context.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		log:        logging.New("analysis"),
	}
}

// Endpoint returns the URL the client posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Analyze uploads bp and returns the decoded response body. Non-2xx answers
// are returned as *HTTPError. There are no retries.
func (c *Client) Analyze(ctx context.Context, bp blueprint.Blueprint) (Response, error) {
	body, contentType, err := encodeUpload(bp)
	if err != nil {
		return Response{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	log := c.log.With("request_id", requestID, "file", bp.Name)
	log.Info("uploading blueprint", "endpoint", c.endpoint, "bytes", body.Len())
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("analysis request failed", "error", err, "elapsed", time.Since(start))
		return Response{}, fmt.Errorf("analysis request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Warn("read analysis response", "status", resp.StatusCode, "error", err)
		return Response{}, fmt.Errorf("read analysis response: %w", err)
	}
	log.Info("analysis response", "status", resp.StatusCode, "bytes", len(data), "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Response{}, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       data,
		}
	}

	out, err := NewResponse(data)
	if err != nil {
		log.Warn("decode analysis response", "error", err)
		return Response{}, err
	}
	return out, nil
}

// encodeUpload builds the multipart body with bp's content under FileField.
func encodeUpload(bp blueprint.Blueprint) (*bytes.Buffer, string, error) {
	f, err := os.Open(bp.Path)
	if err != nil {
		return nil, "", fmt.Errorf("open blueprint: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(FileField, bp.Name)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("copy blueprint: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
