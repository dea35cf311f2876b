package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/xam-health/equity-atlas/pkg/models/domain"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
const defaultGeminiModel = "gemini-2.0-flash"

const systemPrompt = "You are a health-equity analyst. Summarize the given " +
	"association patterns for policy readers. Only reference the patterns and " +
	"facts provided; never invent states, rates, or numbers."

// chatCompleter is the slice of the OpenAI-compatible client the narrator
// needs; Gemini exposes the same surface.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type geminiNarrator struct {
	client   chatCompleter
	model    string
	fallback Narrator
}

// NewGeminiNarrator decorates the ML-only narrator with a generative model
// behind Gemini's OpenAI-compatible endpoint. Any upstream failure is
// reported as an UpstreamError after recovering with the fallback text, so
// callers always get a usable narration.
func NewGeminiNarrator(cfg domain.NarratorConfig, fallback Narrator) Narrator {
	base := cfg.BaseURL
	if base == "" {
		base = defaultGeminiBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = base

	return &geminiNarrator{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    model,
		fallback: fallback,
	}
}

func (n *geminiNarrator) Narrate(ctx context.Context, result *domain.MiningResult) (string, domain.MiningSource, error) {
	text, err := n.generate(ctx, result)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("generative narrator unavailable, serving ml-only narration")
		fallbackText, source, fbErr := n.fallback.Narrate(ctx, result)
		if fbErr != nil {
			return "", source, fbErr
		}
		return fallbackText, source, &domain.UpstreamError{Collaborator: "gemini", Err: err}
	}
	return text, domain.SourceGeminiAI, nil
}

func (n *geminiNarrator) generate(ctx context.Context, result *domain.MiningResult) (string, error) {
	resp, err := n.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: n.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: factSheet(result)},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("model returned empty content")
	}
	return text, nil
}

// factSheet renders the result as the grounding context the model may draw
// from. Suppressed cells never appear here: the result was built entirely
// from disclosable data.
func factSheet(result *domain.MiningResult) string {
	var b strings.Builder

	disease := strings.ReplaceAll(string(result.Scope.Disease), "_", " ")
	fmt.Fprintf(&b, "Disease: %s. Year: %d. Transactions: %d.\n", disease, result.Scope.Year, result.Transactions)

	if result.Disparity != nil {
		d := result.Disparity
		fmt.Fprintf(&b, "Highest rate: %s (%.4f). Lowest rate: %s (%.4f). Disparity index: %.4f.\n",
			d.MaxState, d.MaxRate, d.MinState, d.MinRate, d.DisparityIndex)
	}

	if len(result.Rules) == 0 {
		b.WriteString("No association patterns met the thresholds.")
		return b.String()
	}

	b.WriteString("Mined association patterns:\n")
	for _, r := range result.Rules {
		fmt.Fprintf(&b, "- %s => %s (support %.4f, confidence %.4f)\n",
			domain.ItemsetKey(r.Antecedent), domain.ItemsetKey(r.Consequent), r.Support, r.Confidence)
	}
	return b.String()
}
