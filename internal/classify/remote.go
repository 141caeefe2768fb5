package classify

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/civicworks/civic-cli/internal/model"
	"github.com/civicworks/civic-cli/pkg/anthropic"
	"github.com/civicworks/civic-cli/pkg/llm"
)

var (
	// ErrTransport covers network failures, non-success status codes, and
	// responses carrying no content at all.
	ErrTransport = eris.New("classify: transport failure")
	// ErrBadShape covers well-formed responses whose content is not the
	// required classification JSON object. The result is discarded whole;
	// no partial or coerced classification is ever returned.
	ErrBadShape = eris.New("classify: malformed classification response")
)

// Input is a freeform report to classify.
type Input struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
}

// Completer runs one system+user exchange against a text-generation service
// and returns the raw assistant content.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// remoteTemperature keeps remote classifications consistent across calls.
const remoteTemperature = 0.3

// OpenAICompleter adapts an OpenAI-compatible chat-completions client.
type OpenAICompleter struct {
	Client llm.Client
	Model  string
}

// Complete implements Completer.
func (c OpenAICompleter) Complete(ctx context.Context, system, user string) (string, error) {
	temp := remoteTemperature
	resp, err := c.Client.ChatCompletion(ctx, llm.ChatCompletionRequest{
		Model: c.Model,
		Messages: []llm.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: &temp,
	})
	if err != nil {
		return "", eris.Wrap(err, "classify: chat completion")
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", eris.New("classify: no response content received")
	}
	return resp.Choices[0].Message.Content, nil
}

// AnthropicCompleter adapts the Anthropic messages API.
type AnthropicCompleter struct {
	Client    anthropic.Client
	Model     string
	MaxTokens int64
}

// Complete implements Completer.
func (c AnthropicCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	maxTokens := c.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}
	temp := remoteTemperature
	resp, err := c.Client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       c.Model,
		MaxTokens:   maxTokens,
		System:      system,
		Messages:    []anthropic.Message{{Role: "user", Content: user}},
		Temperature: &temp,
	})
	if err != nil {
		return "", eris.Wrap(err, "classify: create message")
	}
	text := resp.Text()
	if text == "" {
		return "", eris.New("classify: no response content received")
	}
	return text, nil
}

// Remote classifies by delegating to an external text-generation service.
// Each call is a single request/response exchange with no retry and no state
// held between calls.
type Remote struct {
	completer Completer
}

// NewRemote creates a Remote classifier over the given completer.
func NewRemote(completer Completer) *Remote {
	return &Remote{completer: completer}
}

// Classify sends the report to the remote service and validates the response
// shape before accepting it. Every failure mode reports an error and no
// classification.
func (r *Remote) Classify(ctx context.Context, in Input) (model.Classification, error) {
	if strings.TrimSpace(in.Title) == "" && strings.TrimSpace(in.Description) == "" {
		return model.Classification{}, eris.Wrap(model.ErrInvalidArgument, "classify: empty title and description")
	}

	content, err := r.completer.Complete(ctx, systemPrompt, userMessage(in))
	if err != nil {
		return model.Classification{}, eris.Wrap(ErrTransport, err.Error())
	}

	return parseClassification(content)
}

// parseClassification decodes and shape-checks the remote response content.
func parseClassification(content string) (model.Classification, error) {
	var raw struct {
		Category       *string         `json:"category"`
		SuggestedTitle *string         `json:"suggested_title"`
		Summary        *string         `json:"summary"`
		Tags           json.RawMessage `json:"tags"`
		Urgency        *string         `json:"urgency"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return model.Classification{}, eris.Wrap(ErrBadShape, err.Error())
	}

	if raw.Category == nil || raw.SuggestedTitle == nil || raw.Summary == nil {
		return model.Classification{}, eris.Wrap(ErrBadShape, "missing required string field")
	}
	if raw.Tags == nil {
		return model.Classification{}, eris.Wrap(ErrBadShape, "missing tags array")
	}
	var tags []string
	if err := json.Unmarshal(raw.Tags, &tags); err != nil || tags == nil {
		return model.Classification{}, eris.Wrap(ErrBadShape, "tags is not an array of strings")
	}
	if raw.Urgency == nil || !model.ValidUrgency(model.Urgency(*raw.Urgency)) {
		return model.Classification{}, eris.Wrap(ErrBadShape, "urgency is not one of Low, Medium, High")
	}

	return model.Classification{
		Category:       model.Category(*raw.Category),
		SuggestedTitle: *raw.SuggestedTitle,
		Summary:        *raw.Summary,
		Tags:           tags,
		Urgency:        model.Urgency(*raw.Urgency),
	}, nil
}
