package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/sleepaiz/sleep-client/internal/logic"
)

// healthTimeout is deliberately shorter than the general request timeout:
// the health probe gates the whole collection job.
const healthTimeout = 5 * time.Second

// RealClient talks to an actual companion server.
type RealClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int

	// retryDelay is the backoff base (doubles per attempt). Overridable in
	// tests to keep them fast.
	retryDelay time.Duration
}

// NewRealClient creates a client for the server at baseURL. Uploads retry
// maxRetries times with exponential backoff starting at one second.
func NewRealClient(baseURL string, timeout time.Duration, maxRetries int) *RealClient {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &RealClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		retryDelay: time.Second,
	}
}

// Health checks the server's /health endpoint.
func (c *RealClient) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check: server returned %d", resp.StatusCode)
	}
	return nil
}

// UploadEnvironment posts a reading to /api/environment.
func (c *RealClient) UploadEnvironment(ctx context.Context, r EnvironmentReading) (int, error) {
	var result EnvironmentResult
	err := retry.Do(func() error {
		body, err := json.Marshal(r)
		if err != nil {
			return retry.Unrecoverable(fmt.Errorf("marshal reading: %w", err))
		}
		data, err := c.post(ctx, "/api/environment", "application/json", bytes.NewReader(body))
		if err != nil {
			return err
		}
		return json.Unmarshal(data, &result)
	}, c.retryOpts(ctx, "environment upload")...)
	if err != nil {
		return 0, err
	}
	return result.ID, nil
}

// UploadPosture posts the photo to /api/posture as multipart form data.
// The multipart body is rebuilt from the file on every attempt.
func (c *RealClient) UploadPosture(ctx context.Context, imagePath string, analyzedAt time.Time) (PostureResult, error) {
	var result PostureResult
	path := "/api/posture?" + url.Values{
		"analyzed_at": {analyzedAt.Format(time.RFC3339)},
	}.Encode()

	err := retry.Do(func() error {
		body, contentType, err := multipartImage(imagePath)
		if err != nil {
			return retry.Unrecoverable(err)
		}
		data, err := c.post(ctx, path, contentType, body)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, &result)
	}, c.retryOpts(ctx, "posture upload")...)
	if err != nil {
		return PostureResult{}, err
	}
	return result, nil
}

// Alarms fetches all alarms.
func (c *RealClient) Alarms(ctx context.Context) ([]logic.Alarm, error) {
	data, err := c.get(ctx, "/api/alarms")
	if err != nil {
		return nil, err
	}
	var alarms []logic.Alarm
	if err := json.Unmarshal(data, &alarms); err != nil {
		return nil, fmt.Errorf("decode alarms: %w", err)
	}
	return alarms, nil
}

// RingingAlarms fetches the alarms currently marked ringing on the server.
func (c *RealClient) RingingAlarms(ctx context.Context) ([]logic.Alarm, error) {
	data, err := c.get(ctx, "/api/alarms/ringing/check")
	if err != nil {
		return nil, err
	}
	var resp struct {
		RingingAlarms []logic.Alarm `json:"ringing_alarms"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode ringing alarms: %w", err)
	}
	return resp.RingingAlarms, nil
}

// SetRinging flips an alarm's ringing flag.
func (c *RealClient) SetRinging(ctx context.Context, alarmID int, ringing bool) error {
	path := fmt.Sprintf("/api/alarms/%d/ring?is_ringing=%s", alarmID, strconv.FormatBool(ringing))
	_, err := c.post(ctx, path, "application/json", nil)
	return err
}

func (c *RealClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.do(req)
}

func (c *RealClient) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req)
}

func (c *RealClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s %s: server returned %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	return data, nil
}

// retryOpts is the single backoff policy for uploads: delay doubles per
// attempt (1s, 2s, 4s, ...), capped at maxRetries attempts.
func (c *RealClient) retryOpts(ctx context.Context, op string) []retry.Option {
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.MaxDelay(30 * time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("api: %s attempt %d/%d failed: %v", op, n+1, c.maxRetries, err)
		}),
	}
}

// multipartImage builds a multipart body with the image file under the
// "image" field, as the server expects.
func multipartImage(imagePath string) (io.Reader, string, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("copy image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finish multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
