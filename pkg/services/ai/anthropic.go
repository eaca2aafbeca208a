package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"

	"github.com/clearops/ticketlens/pkg/models/domain"
)

const (
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultMaxTokens = 4096
)

type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
}

type anthropicGenerator struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewAnthropicGenerator builds the production Generator backed by the
// Anthropic Messages API.
func NewAnthropicGenerator(cfg Config) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &anthropicGenerator{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     anthropic.Model(model),
		maxTokens: maxTokens,
	}, nil
}

func (g *anthropicGenerator) Generate(ctx context.Context, req Request) (string, error) {
	logger := zerolog.Ctx(ctx)

	userPrompt, err := buildPrompt(req)
	if err != nil {
		return "", err
	}

	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt(req.Kind)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic message request: %w", err)
	}

	logger.Debug().
		Int64("tokens_in", message.Usage.InputTokens).
		Int64("tokens_out", message.Usage.OutputTokens).
		Str("kind", string(req.Kind)).
		Msg("narrative generated")

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in model response")
}

func systemPrompt(kind domain.ReportKind) string {
	switch kind {
	case domain.ReportExecutiveSummary:
		return "You are a support operations analyst. Write a concise executive summary " +
			"of the SLA performance data you are given: key compliance figures, the biggest " +
			"risks, and two or three clear actions for leadership. Plain prose, no markdown."
	case domain.ReportPresentation:
		return "You are a support operations analyst preparing talking points for a " +
			"presentation. Produce short, slide-ready sections: a headline finding, " +
			"supporting figures, and a closing recommendation per section. Plain prose, no markdown."
	default:
		return "You are a support operations analyst. Write a detailed report over the SLA " +
			"performance data you are given: overall compliance, per-agent and per-category " +
			"findings, time-based patterns, and concrete recommendations. Plain prose, no markdown."
	}
}

func buildPrompt(req Request) (string, error) {
	structureJSON, err := json.MarshalIndent(req.Structure, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode structure: %w", err)
	}
	analysisJSON, err := json.MarshalIndent(req.Analysis, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode analysis: %w", err)
	}
	return fmt.Sprintf(
		"Dataset: %s (%d rows)\n\nInferred structure:\n%s\n\nSLA analysis:\n%s\n",
		req.Filename, req.RowCount, structureJSON, analysisJSON), nil
}
