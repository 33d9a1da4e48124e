// Package oracle implements the data quality oracle on top of Gemini. The
// model receives the records in a prompt and must answer with JSON matching
// the annotated record schema.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/model"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.0-flash"

// GeminiConfig holds the settings of a GeminiOracle.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string        // overrides the API endpoint
	Timeout time.Duration // HTTP timeout for one request; zero keeps the SDK default
}

// GeminiOracle classifies student records with a Gemini model.
type GeminiOracle struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiOracle creates a client for the Gemini API.
func NewGeminiOracle(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiOracle, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("oracle: Gemini API key is required")
	}
	modelName := strings.TrimSpace(cfg.Model)
	if modelName == "" {
		modelName = DefaultModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		timeout := cfg.Timeout
		clientCfg.HTTPOptions.Timeout = &timeout
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("oracle: create Gemini client: %w", err)
	}

	return &GeminiOracle{client: client, model: modelName, logger: logger}, nil
}

// Name identifies the oracle in logs.
func (o *GeminiOracle) Name() string {
	return "gemini:" + o.model
}

// Review sends records to the model and returns its annotated answer. The
// answer is decoded strictly; checking it against the request is left to
// the caller.
func (o *GeminiOracle) Review(ctx context.Context, records []model.StudentRecord) ([]model.Student, error) {
	prompt, err := RenderPrompt(records)
	if err != nil {
		return nil, fmt.Errorf("oracle: render prompt: %w", err)
	}

	temperature := float32(0)
	start := time.Now()
	resp, err := o.client.Models.GenerateContent(ctx, o.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:      &temperature,
			ResponseMIMEType: "application/json",
			ResponseSchema:   responseSchema(),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("oracle: Gemini request failed: %w", err)
	}

	text := resp.Text()
	o.logger.Debug("oracle response received",
		zap.String("oracle", o.Name()),
		zap.Int("records", len(records)),
		zap.Int("response_bytes", len(text)),
		zap.Duration("elapsed", time.Since(start)))
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", model.ErrSchemaViolation)
	}
	return DecodeResponse(text)
}
