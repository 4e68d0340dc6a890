package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/time/rate"

	"github.com/Reathyze20/akcion/internal/contracts"
	"github.com/Reathyze20/akcion/pkg/config"
	"github.com/Reathyze20/akcion/pkg/logger"
)

const systemPrompt = `You are a conflict classifier for an investment thesis tracker covering thinly-traded equities.

You receive the current thesis summary and a piece of new information. Decide how the new information relates to the stored thesis.

Respond with ONLY a JSON object, no prose, matching exactly:
{
  "conflict_type": "NONE" | "MINOR" | "SIGNIFICANT" | "CRITICAL",
  "conflicts": ["short description of each contradiction"],
  "score_adjustment": <integer between -4 and 4>,
  "explanation": "<one sentence>"
}

Rules:
- CRITICAL means the thesis core is invalidated (fraud, bankruptcy, delisting).
- SIGNIFICANT means a load-bearing assumption is weakened.
- MINOR means peripheral friction only.
- NONE means neutral or confirming information.
- score_adjustment is negative for bearish, positive for bullish, 0 for neutral.`

// classifierResponse is the JSON contract expected from the model.
type classifierResponse struct {
	ConflictType    string   `json:"conflict_type"`
	Conflicts       []string `json:"conflicts"`
	ScoreAdjustment int      `json:"score_adjustment"`
	Explanation     string   `json:"explanation"`
}

// Classifier is the AI classification path, backed by the Anthropic API.
// A rate limiter bounds outbound calls; every failure is wrapped as
// ErrCollaboratorUnavailable so the synthesis engine falls back cleanly.
type Classifier struct {
	client    anthropic.Client
	model     string
	maxTokens int
	limiter   *rate.Limiter
	logger    *logger.Logger
}

// NewClassifier creates a Claude-backed classifier from config.
func NewClassifier(cfg config.ClaudeConfig, log *logger.Logger) *Classifier {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}

	return &Classifier{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		limiter:   rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		logger:    log.Component("claude"),
	}
}

// Classify sends one (summary, text) pair to the model and parses the
// JSON verdict. The caller's context carries the deadline.
func (c *Classifier) Classify(ctx context.Context, existingSummary, newText string) (*contracts.Classification, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", contracts.ErrCollaboratorUnavailable, err)
	}

	userPrompt := fmt.Sprintf("Current thesis:\n%s\n\nNew information:\n%s", existingSummary, newText)

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
		Temperature: anthropic.Float(0.0),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: anthropic request failed: %v", contracts.ErrCollaboratorUnavailable, err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	parsed, err := parseResponse(text.String())
	if err != nil {
		c.logger.WithError(err).Warn("Claude returned an out-of-contract response")
		return nil, fmt.Errorf("%w: %v", contracts.ErrCollaboratorUnavailable, err)
	}

	return &contracts.Classification{
		ConflictType:    contracts.ConflictType(parsed.ConflictType),
		Conflicts:       parsed.Conflicts,
		ScoreAdjustment: parsed.ScoreAdjustment,
		Explanation:     parsed.Explanation,
		Path:            contracts.PathAI,
	}, nil
}

// parseResponse extracts the JSON object from the model output. Models
// occasionally wrap JSON in markdown fences despite instructions.
func parseResponse(raw string) (*classifierResponse, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response: %q", truncate(raw, 120))
	}

	var parsed classifierResponse
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse classifier JSON: %w", err)
	}
	if parsed.ConflictType == "" {
		return nil, fmt.Errorf("classifier response missing conflict_type")
	}
	return &parsed, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
