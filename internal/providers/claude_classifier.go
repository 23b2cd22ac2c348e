package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/stitts-dev/golf-caddy/internal/models"
	"github.com/stitts-dev/golf-caddy/internal/routing"
	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

const (
	anthropicVersion   = "2023-06-01"
	classifierMaxInput = 500 // characters
)

// ClaudeConfig configures the Claude intent classifier
type ClaudeConfig struct {
	APIKey           string
	Model            string
	BaseURL          string
	Timeout          time.Duration
	RequestsPerMin   int
	BreakerThreshold int
}

// ClaudeClassifier classifies player utterances with the Anthropic Messages API.
type ClaudeClassifier struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
	newID      func() string
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	System      string          `json:"system,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type claudeError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// classifierReply is the JSON the model is asked to produce
type classifierReply struct {
	IntentType models.IntentType     `json:"intent_type"`
	Confidence float64               `json:"confidence"`
	Entities   map[string]string     `json:"entities"`
	UserGoal   string                `json:"user_goal"`
	Target     *models.RoutingTarget `json:"routing_target"`
}

// NewClaudeClassifier creates a classifier.
func NewClaudeClassifier(cfg ClaudeConfig, logger *logrus.Logger) *ClaudeClassifier {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerMin <= 0 {
		cfg.RequestsPerMin = 30
	}

	return &ClaudeClassifier{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMin)), cfg.RequestsPerMin),
		breaker:    newBreaker("claude-api", cfg.BreakerThreshold, 30*time.Second, logger),
		logger:     logger,
		newID:      uuid.NewString,
	}
}

// Classify never returns a Go error; every failure becomes routing.ClassificationFailed.
func (c *ClaudeClassifier) Classify(ctx context.Context, input string, cc routing.ClassificationContext) routing.ClassificationResult {
	input = strings.TrimSpace(input)
	if input == "" {
		return routing.Failed(utils.InvalidInput("empty utterance"))
	}
	input = truncateRunes(input, classifierMaxInput)

	if !c.limiter.Allow() {
		return routing.Failed(fmt.Errorf("%w: classifier rate limit exceeded", utils.ErrUnavailable))
	}

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.makeRequest(ctx, c.buildRequest(input, cc))
	})
	if err != nil {
		c.logger.WithError(err).Warn("Intent classification failed")
		return routing.Failed(breakerErr("claude-api", err))
	}
	resp := result.(*claudeResponse)

	intent, err := c.parseIntent(resp)
	if err != nil {
		c.logger.WithError(err).Warn("Could not parse classifier reply")
		return routing.Failed(err)
	}

	c.logger.WithFields(logrus.Fields{
		"intent_type":   intent.IntentType,
		"confidence":    intent.Confidence,
		"input_tokens":  resp.Usage.InputTokens,
		"output_tokens": resp.Usage.OutputTokens,
		"duration_ms":   time.Since(start).Milliseconds(),
	}).Debug("Classified utterance")

	return routing.Classify(intent, input)
}

// truncateRunes keeps at most limit characters of s without splitting a UTF-8 sequence.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}

func (c *ClaudeClassifier) buildRequest(input string, cc routing.ClassificationContext) claudeRequest {
	return claudeRequest{
		Model:       c.model,
		MaxTokens:   256,
		Temperature: 0,
		System:      classifierSystemPrompt(cc),
		Messages:    []claudeMessage{{Role: "user", Content: input}},
	}
}

func classifierSystemPrompt(cc routing.ClassificationContext) string {
	var b strings.Builder
	b.WriteString("You classify what a golfer is asking their caddy app for.\n")
	b.WriteString("Reply with a single JSON object and nothing else, with fields ")
	b.WriteString(`"intent_type", "confidence" (0 to 1), "entities" (string map) and "user_goal".` + "\n")
	b.WriteString("intent_type must be one of: ")
	for i, t := range models.AllIntentTypes {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(t))
	}
	b.WriteString(".\n")

	if cc.RoundActive {
		b.WriteString("The player is on a round")
		if cc.CourseName != "" {
			fmt.Fprintf(&b, " at %s", cc.CourseName)
		}
		if cc.CurrentHole > 0 {
			fmt.Fprintf(&b, ", hole %d", cc.CurrentHole)
		}
		b.WriteString(".\n")
	} else {
		b.WriteString("The player is not on a round.\n")
	}
	if len(cc.RecentIntents) > 0 {
		recent := make([]string, len(cc.RecentIntents))
		for i, t := range cc.RecentIntents {
			recent[i] = string(t)
		}
		fmt.Fprintf(&b, "Recent requests: %s.\n", strings.Join(recent, ", "))
	}
	return b.String()
}

func (c *ClaudeClassifier) makeRequest(ctx context.Context, request claudeRequest) (*claudeResponse, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var claudeResp claudeResponse
		if err := json.NewDecoder(resp.Body).Decode(&claudeResp); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return &claudeResp, nil
	}

	var apiErr claudeError
	_ = json.NewDecoder(resp.Body).Decode(&apiErr)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("invalid API credentials: %s", apiErr.Error.Message)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: rate limit exceeded: %s", utils.ErrUnavailable, apiErr.Error.Message)
	case http.StatusBadRequest:
		return nil, fmt.Errorf("bad request: %s", apiErr.Error.Message)
	default:
		return nil, fmt.Errorf("%w: unexpected status %d: %s", utils.ErrUnavailable, resp.StatusCode, apiErr.Error.Message)
	}
}

func (c *ClaudeClassifier) parseIntent(resp *claudeResponse) (models.ParsedIntent, error) {
	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	raw := text.String()
	start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return models.ParsedIntent{}, utils.InvalidInput("classifier reply has no JSON object")
	}

	var reply classifierReply
	if err := json.Unmarshal([]byte(raw[start:end+1]), &reply); err != nil {
		return models.ParsedIntent{}, fmt.Errorf("%w: classifier reply: %v", utils.ErrInvalidInput, err)
	}

	intent := models.ParsedIntent{
		IntentID:      c.newID(),
		IntentType:    models.IntentType(strings.ToUpper(strings.TrimSpace(string(reply.IntentType)))),
		Confidence:    reply.Confidence,
		Entities:      reply.Entities,
		UserGoal:      reply.UserGoal,
		RoutingTarget: reply.Target,
	}
	if err := intent.Validate(); err != nil {
		return models.ParsedIntent{}, err
	}
	return intent, nil
}
