package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type similarityRequest struct {
	Text1 string `json:"text1"`
	Text2 string `json:"text2"`
}

type similarityResponse struct {
	Similarity *float64 `json:"similarity"`
}

type healthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

// StatusError is a non 200 answer of the embedding service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %v, body: %v", e.StatusCode, e.Body)
}

// Client talks to the sentence embedding service that exposes /similarity and /health.
type Client struct {
	baseURL     string
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
	retries     int
	retryDelay  time.Duration
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		retries:    2,
		retryDelay: 200 * time.Millisecond,
	}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetMinuteRateLimit(maxRequestsPerMinute float32) {
	if maxRequestsPerMinute <= 0 {
		c.rateLimiter = nil
		return
	}
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerMinute/60), 1)
}

// SetRetries sets how many extra attempts a 5xx answer gets.
func (c *Client) SetRetries(retries int, delay time.Duration) {
	c.retries = max(retries, 0)
	c.retryDelay = delay
}

// Similarity returns the cosine similarity of both texts clamped to [0,1].
func (c *Client) Similarity(ctx context.Context, query, candidate string) (float64, error) {
	payload, err := json.Marshal(similarityRequest{Text1: query, Text2: candidate})
	if err != nil {
		return 0, err
	}

	var body []byte
	_, _, _ = lo.AttemptWhileWithDelay(c.retries+1, c.retryDelay, func(i int, _ time.Duration) (error, bool) {
		if i > 0 {
			log.Warn("embedding service returned 5xx error, retrying...")
		}
		body, err = c.sendRequest(ctx, http.MethodPost, c.baseURL+"/similarity", payload)
		return err, isServerError(err) && ctx.Err() == nil
	})
	if err != nil {
		return 0, err
	}

	var response similarityResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&response); err != nil {
		return 0, fmt.Errorf("error decoding JSON response: %v", err)
	}
	if response.Similarity == nil {
		return 0, fmt.Errorf("response has no similarity")
	}

	return min(max(*response.Similarity, 0), 1), nil
}

// Health returns the model name reported by the service.
func (c *Client) Health(ctx context.Context) (string, error) {
	body, err := c.sendRequest(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return "", err
	}

	var response healthResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&response); err != nil {
		return "", fmt.Errorf("error decoding JSON response: %v", err)
	}
	return response.Model, nil
}

func (c *Client) sendRequest(ctx context.Context, method string, url string, payload []byte) ([]byte, error) {

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

func (c *Client) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

func isServerError(err error) bool {
	statusErr, ok := err.(*StatusError)
	return ok && statusErr.StatusCode >= http.StatusInternalServerError
}
