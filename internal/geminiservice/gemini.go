package geminiservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// --- Gemini API Configuration ---
const (
	DefaultFastModel   = "gemini-1.5-flash"
	DefaultProModel    = "gemini-1.5-pro"
	structuredMimeType = "application/json"
)

var (
	ErrMissingAPIKey = errors.New("GEMINI_API_KEY environment variable is not set")
	ErrEmptyResponse = errors.New("no content found in Gemini response")
)

// Attachment is decoded binary content sent alongside a prompt.
type Attachment struct {
	MIMEType string
	Data     []byte
}

// GenerateRequest is one call to the model.
type GenerateRequest struct {
	Model          string
	Prompt         string
	Attachment     *Attachment
	ResponseSchema *genai.Schema
}

// Provider produces text for a prompt. GenAIProvider is the production
// implementation; tests substitute their own.
type Provider interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GenAIProvider calls Gemini through the genai SDK.
type GenAIProvider struct {
	client *genai.Client
}

// NewGenAIProvider builds a provider for the Gemini API. A blank key is a
// configuration error reported at startup.
func NewGenAIProvider(ctx context.Context, apiKey string) (*GenAIProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GenAIProvider{client: client}, nil
}

// Generate sends the prompt, plus any attachment, and returns the response
// text. It makes exactly one attempt; ctx is the only deadline.
func (p *GenAIProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.Attachment != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Attachment.Data, req.Attachment.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	var cfg *genai.GenerateContentConfig
	if req.ResponseSchema != nil {
		cfg = &genai.GenerateContentConfig{
			ResponseMIMEType: structuredMimeType,
			ResponseSchema:   req.ResponseSchema,
		}
	}

	zerolog.Ctx(ctx).Debug().Str("model", req.Model).Msg("Calling Gemini API")

	resp, err := p.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
