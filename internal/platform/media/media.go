package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Client uploads binary artifacts (punch selfies, reimbursement receipts) to
// an external media host and returns the durable URL the host assigns.
type Client struct {
	uploadURL string
	apiKey    string
	http      *http.Client
}

type disabledClient struct{}

func (disabledClient) Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
	return "", fmt.Errorf("media uploads are not configured")
}

type Uploader interface {
	Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error)
}

func New(uploadURL, apiKey string) Uploader {
	if uploadURL == "" {
		return disabledClient{}
	}
	return &Client{
		uploadURL: uploadURL,
		apiKey:    apiKey,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

func (c *Client) Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
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
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("media upload failed: status %d: %s", resp.StatusCode, payload)
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("media upload response decode failed: %w", err)
	}
	if parsed.URL == "" {
		return "", fmt.Errorf("media upload response missing url")
	}
	return parsed.URL, nil
}
