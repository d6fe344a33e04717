package gemini

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

type Model string

const (
	//ModelTextEmbedding004 is the general purpose text embedding model
	ModelTextEmbedding004 Model = "text-embedding-004"
	//ModelEmbedding001 is the first-generation embedding model
	ModelEmbedding001 Model = "embedding-001"
)

type embedder interface {
	EmbedContent(ctx context.Context, parts ...genai.Part) (*genai.EmbedContentResponse, error)
}

// Client compares texts by the cosine similarity of their Gemini embeddings.
type Client struct {
	client            *genai.Client
	model             embedder
	minuteRateLimiter *rate.Limiter
	dayRateLimiter    *rate.Limiter
}

func NewClient(ctx context.Context, apiKey string, model Model) (*Client, error) {

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	embeddingModel := client.EmbeddingModel(string(model))
	embeddingModel.TaskType = genai.TaskTypeSemanticSimilarity

	service := Client{
		client: client,
		model:  embeddingModel,
	}

	return &service, nil
}

func (c *Client) SetMinuteRateLimit(maxRequestsPerMinute float32) {
	c.minuteRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerMinute/60), 1)
}

func (c *Client) SetDayRateLimit(maxRequestsPerDay float32) {
	c.dayRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerDay/86400), int(maxRequestsPerDay))
}

func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Similarity embeds both texts and returns their cosine similarity clamped to [0,1].
func (c *Client) Similarity(ctx context.Context, query, candidate string) (float64, error) {
	queryVector, err := c.Embed(ctx, query)
	if err != nil {
		return 0, err
	}
	candidateVector, err := c.Embed(ctx, candidate)
	if err != nil {
		return 0, err
	}

	similarity, err := Cosine(queryVector, candidateVector)
	if err != nil {
		return 0, err
	}
	return min(max(similarity, 0), 1), nil
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {

	var values []float32
	var err error

	_, _, _ = lo.AttemptWhileWithDelay(3, 2*time.Second, func(i int, _ time.Duration) (error, bool) {
		if i > 0 {
			log.Warn("gemini api returned 500 error, retrying...")
		}
		values, err = c.waitAndEmbed(ctx, text)
		return err, isInternalError(err) && ctx.Err() == nil
	})

	return values, err
}

func (c *Client) waitAndEmbed(ctx context.Context, text string) ([]float32, error) {

	limiters := []*rate.Limiter{c.minuteRateLimiter, c.dayRateLimiter}
	for _, limiter := range limiters {
		if limiter != nil {
			err := limiter.Wait(ctx)
			if err != nil {
				return nil, err
			}
		}
	}

	return c.tryEmbed(ctx, text)
}

func (c *Client) tryEmbed(ctx context.Context, text string) ([]float32, error) {

	response, err := c.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}

	if response == nil || response.Embedding == nil || len(response.Embedding.Values) == 0 {
		return nil, fmt.Errorf("response has no embedding")
	}

	return response.Embedding.Values, nil
}

// Cosine returns the cosine similarity of two vectors of equal length.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimensions differ: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("zero embedding vector")
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

func isInternalError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "Error 500")
}
