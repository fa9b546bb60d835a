package services

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GenerativeClient is the model capability: a system instruction plus a user
// message in, free-form text out. The analyzer never assumes anything about
// the shape of that text.
type GenerativeClient interface {
	GenerateContent(ctx context.Context, systemPrompt, userMessage string) (string, error)
	Model() string
}

type geminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(apiKey, modelName string) (GenerativeClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not set")
	}

	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

func (g *geminiClient) Model() string {
	return g.modelName
}

// GenerateContent implements GenerativeClient.
func (g *geminiClient) GenerateContent(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	temperature := float32(0.1)
	topP := float32(0.9)

	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		TopP:            &topP,
		MaxOutputTokens: 1024,
	}

	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(userMessage), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}
