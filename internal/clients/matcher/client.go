package matcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lukeperry/ssu-career-connect/internal/scoring"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type matchRequest struct {
	Job    scoring.JobDescriptor    `json:"job"`
	Talent scoring.TalentDescriptor `json:"talent"`
}

type matchResponse struct {
	Score      *float64            `json:"score"`
	Percentage float64             `json:"percentage"`
	Band       scoring.QualityBand `json:"band"`
	Details    struct {
		Breakdown scoring.Breakdown `json:"breakdown"`
		Rule      string            `json:"rule"`
	} `json:"details"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
}

// Client scores pairs through a running matcher's /api/v1/match endpoint, so the
// evaluation harness can measure a deployed instance.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	retries    int
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retries:    2,
	}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) Score(ctx context.Context, job scoring.JobDescriptor, talent scoring.TalentDescriptor) (scoring.Result, error) {
	payload, err := json.Marshal(matchRequest{Job: job, Talent: talent})
	if err != nil {
		return scoring.Result{}, err
	}

	var resp *http.Response
	_, _, _ = lo.AttemptWhileWithDelay(c.retries+1, 500*time.Millisecond, func(i int, _ time.Duration) (error, bool) {
		if i > 0 {
			log.Warnf("matcher returned %v, retrying...", resp.StatusCode)
		}
		resp, err = c.sendRequest(ctx, payload)
		if err != nil {
			return err, false
		}
		if resp.StatusCode >= http.StatusInternalServerError && i < c.retries {
			resp.Body.Close()
			return fmt.Errorf("status %v", resp.StatusCode), ctx.Err() == nil
		}
		return nil, false
	})
	if err != nil {
		return scoring.Result{}, err
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

func (c *Client) sendRequest(ctx context.Context, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/match", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	return resp, nil
}

func (c *Client) handleResponse(resp *http.Response) (scoring.Result, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return scoring.Result{}, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode == http.StatusBadRequest {
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error.Field != "" {
			return scoring.Result{}, scoring.NewInvalidInput(errResp.Error.Field, errResp.Error.Message)
		}
	}
	if resp.StatusCode != http.StatusOK {
		return scoring.Result{}, fmt.Errorf("request failed with status %v, body: %v", resp.StatusCode, string(body))
	}

	var response matchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return scoring.Result{}, fmt.Errorf("error decoding JSON response: %v", err)
	}
	if response.Score == nil {
		return scoring.Result{}, fmt.Errorf("response has no score")
	}

	return scoring.Result{
		Score:      *response.Score,
		Percentage: response.Percentage,
		Band:       response.Band,
		Breakdown:  response.Details.Breakdown,
		Adjustment: scoring.Adjustment{Rule: response.Details.Rule},
	}, nil
}
