package api

import "github.com/openai/openai-go"

// Model is a reduced view of an available model.
type Model struct {
	// ID is the model identifier used in requests.
	ID string
	// Created is the Unix timestamp when the model was created.
	Created int64
	// OwnedBy is the organization owning the model.
	OwnedBy string
}

// Usage captures token accounting for a completion.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

// Choice is one generated alternative.
type Choice struct {
	// Text is the generated content.
	Text string
	// FinishReason reports why generation stopped ("stop", "length", ...).
	FinishReason string
}

// Completion is the normalized result of a text or chat completion.
type Completion struct {
	Choices []Choice
	Usage   Usage
}

// FirstText returns the text of the first choice.
func (c *Completion) FirstText() string {
	if len(c.Choices) == 0 {
		return ""
	}

	return c.Choices[0].Text
}

// CompletionRequest describes a text completion call.
type CompletionRequest struct {
	// ModelID selects the model.
	ModelID string
	// Prompt is the input text; callers trim trailing whitespace because it
	// impacts tokenization.
	Prompt string
	// Suffix comes after a completion of inserted text.
	Suffix string
	// MaxTokens caps the completion length; zero means the API default.
	MaxTokens int64
	// Temperature is the sampling temperature.
	Temperature float64
	// Echo returns the prompt along with the completion.
	Echo bool
}

// ChatRequest describes a chat completion call.
type ChatRequest struct {
	// ModelID selects the model.
	ModelID string
	// Instruction becomes the system message when non-empty.
	Instruction string
	// Input becomes the user message.
	Input string
	// MaxTokens caps the completion length; zero means the API default.
	MaxTokens int64
	// Temperature is the sampling temperature.
	Temperature float64
	// N is how many choices to generate; zero or one means a single choice.
	N int64
}

// ImageRequest describes an image generation call.
type ImageRequest struct {
	Prompt         string
	N              int64
	Size           string
	ResponseFormat string
}

// Image is one generated image, either inline or by URL.
type Image struct {
	B64JSON string
	URL     string
}

// FineTuningJob is a reduced view of a fine-tuning job.
type FineTuningJob struct {
	ID             string
	Model          string
	FineTunedModel string
	Status         string
	CreatedAt      int64
}

// fromCompletion converts an SDK completion into the local shape.
func fromCompletion(response *openai.Completion) (*Completion, error) {
	if response == nil || len(response.Choices) == 0 {
		return nil, errNoCompletion
	}

	result := &Completion{
		Choices: make([]Choice, 0, len(response.Choices)),
		Usage: Usage{
			PromptTokens:     response.Usage.PromptTokens,
			CompletionTokens: response.Usage.CompletionTokens,
			TotalTokens:      response.Usage.TotalTokens,
		},
	}

	for _, choice := range response.Choices {
		result.Choices = append(result.Choices, Choice{
			Text:         choice.Text,
			FinishReason: string(choice.FinishReason),
		})
	}

	return result, nil
}

// fromChatCompletion converts an SDK chat completion into the local shape.
func fromChatCompletion(response *openai.ChatCompletion) (*Completion, error) {
	if response == nil || len(response.Choices) == 0 {
		return nil, errNoCompletion
	}

	result := &Completion{
		Choices: make([]Choice, 0, len(response.Choices)),
		Usage: Usage{
			PromptTokens:     response.Usage.PromptTokens,
			CompletionTokens: response.Usage.CompletionTokens,
			TotalTokens:      response.Usage.TotalTokens,
		},
	}

	for _, choice := range response.Choices {
		result.Choices = append(result.Choices, Choice{
			Text:         choice.Message.Content,
			FinishReason: string(choice.FinishReason),
		})
	}

	return result, nil
}
