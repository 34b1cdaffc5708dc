// Package zeroshot classifies text against candidate intents with a hosted
// zero-shot NLI model served over the Hugging Face inference API.
package zeroshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	httpclient "restaurant-workers/internal/common/http"
	"restaurant-workers/internal/common/logger"
	"restaurant-workers/internal/common/metrics"
	"restaurant-workers/internal/nlp"
)

var (
	ErrModelUnavailable = errors.New("ZERO_SHOT_UNAVAILABLE")
	ErrRateLimited      = errors.New("ZERO_SHOT_RATE_LIMITED")
	ErrBadResponse      = errors.New("ZERO_SHOT_BAD_RESPONSE")
)

type request struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type parameters struct {
	CandidateLabels []string `json:"candidate_labels"`
}

// response covers both payload shapes the inference API returns: the
// classic {labels, scores} object and a list of {label, score} pairs.
type response struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (r *response) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var pairs []labelScore
		if err := json.Unmarshal(data, &pairs); err != nil {
			return err
		}
		for _, p := range pairs {
			r.Labels = append(r.Labels, p.Label)
			r.Scores = append(r.Scores, p.Score)
		}
		return nil
	}
	type plain response
	return json.Unmarshal(data, (*plain)(r))
}

// Client implements nlp.ZeroShotModel.
type Client struct {
	config  Config
	http    *httpclient.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	cache   *expirable.LRU[string, nlp.Prediction]
	logger  logger.Logger
}

var _ nlp.ZeroShotModel = (*Client)(nil)

func NewClient(config Config, log logger.Logger) *Client {
	config = config.withDefaults()
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"component": "zero-shot", "model": config.Model})

	c := &Client{
		config:  config,
		http:    httpclient.NewClient(config.Timeout).WithBearerToken(config.APIKey),
		limiter: rate.NewLimiter(rate.Limit(config.RatePerSecond), config.Burst),
		cache:   expirable.NewLRU[string, nlp.Prediction](config.CacheSize, nil, config.CacheTTL),
		logger:  log,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "zero-shot",
		MaxRequests: 1,
		Timeout:     config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return c
}

// Predict returns the highest-scoring candidate. Results are memoised per
// text and candidate set; calls beyond the rate limit fail immediately.
func (c *Client) Predict(ctx context.Context, text string, candidates []nlp.Intent) (nlp.Prediction, error) {
	labels := make([]string, len(candidates))
	for i, candidate := range candidates {
		labels[i] = candidate.String()
	}
	key := strings.Join(labels, ",") + "\x00" + text

	if cached, ok := c.cache.Get(key); ok {
		metrics.ZeroShotRequests.WithLabelValues("cache_hit").Inc()
		return cached, nil
	}

	if !c.limiter.Allow() {
		metrics.ZeroShotRequests.WithLabelValues("rate_limited").Inc()
		return nlp.Prediction{}, ErrRateLimited
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.call(ctx, text, labels)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.ZeroShotRequests.WithLabelValues("circuit_open").Inc()
			return nlp.Prediction{}, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
		}
		metrics.ZeroShotRequests.WithLabelValues("error").Inc()
		return nlp.Prediction{}, err
	}

	prediction := result.(nlp.Prediction)
	c.cache.Add(key, prediction)
	metrics.ZeroShotRequests.WithLabelValues("ok").Inc()
	return prediction, nil
}

func (c *Client) call(ctx context.Context, text string, labels []string) (nlp.Prediction, error) {
	url := strings.TrimRight(c.config.BaseURL, "/") + "/models/" + c.config.Model
	body := request{Inputs: text, Parameters: parameters{CandidateLabels: labels}}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nlp.Prediction{}, fmt.Errorf("%w: %w", ErrModelUnavailable, ctx.Err())
			}
		}

		var resp response
		err := c.http.PostJSON(ctx, url, body, &resp)
		if err == nil {
			return pickBest(resp)
		}
		lastErr = err

		if ctx.Err() != nil {
			return nlp.Prediction{}, fmt.Errorf("%w: %w", ErrModelUnavailable, ctx.Err())
		}
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && !statusErr.Retryable() {
			break
		}

		c.logger.Debug("zero-shot request failed", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})
	}

	return nlp.Prediction{}, fmt.Errorf("%w: %v", ErrModelUnavailable, lastErr)
}

func pickBest(resp response) (nlp.Prediction, error) {
	if len(resp.Labels) == 0 || len(resp.Labels) != len(resp.Scores) {
		return nlp.Prediction{}, fmt.Errorf("%w: %d labels, %d scores", ErrBadResponse, len(resp.Labels), len(resp.Scores))
	}
	best := 0
	for i := range resp.Scores {
		if resp.Scores[i] > resp.Scores[best] {
			best = i
		}
	}
	return nlp.Prediction{Intent: nlp.Intent(resp.Labels[best]), Score: resp.Scores[best]}, nil
}
