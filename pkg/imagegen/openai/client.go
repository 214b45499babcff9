package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dskvich/imagegen/pkg/config"
	"github.com/dskvich/imagegen/pkg/domain"
	"github.com/dskvich/imagegen/pkg/fileutil"
	"github.com/dskvich/imagegen/pkg/logger"
)

const defaultBaseURL = "https://api.openai.com/v1"

type client struct {
	apiKey  string
	baseURL string
	cfg     config.OpenAIConfig
	hc      *http.Client
}

func NewClient(apiKey string, cfg config.OpenAIConfig) (*client, error) {
	if apiKey == "" {
		return nil, errors.New("api key cannot be empty")
	}
	return &client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		cfg:     cfg,
		hc:      &http.Client{},
	}, nil
}

// Generate makes a single attempt against the images endpoint, decodes the
// inline base64 payload and writes it to outputPath. No retries.
func (c *client) Generate(ctx context.Context, prompt string, outputPath string) (string, error) {
	reqBody, err := json.Marshal(imageGenerationRequest{
		Model:   c.cfg.Model,
		Prompt:  prompt,
		N:       1,
		Size:    string(c.cfg.Size),
		Quality: string(c.cfg.Quality),
		Style:   string(c.cfg.Style),
	})
	if err != nil {
		return "", c.fail(ctx, domain.FaultTransport, fmt.Errorf("marshaling request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(reqBody))
	if err != nil {
		return "", c.fail(ctx, domain.FaultTransport, fmt.Errorf("creating HTTP request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", c.fail(ctx, domain.FaultTransport, fmt.Errorf("HTTP request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.fail(ctx, domain.FaultTransport, fmt.Errorf("reading response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.fail(ctx, domain.FaultBackend,
			fmt.Errorf("unexpected status code: %d, response: %s", resp.StatusCode, string(respBody)))
	}

	var genResp imageGenerationResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", c.fail(ctx, domain.FaultResponseShape, fmt.Errorf("parsing response: %w", err))
	}

	if len(genResp.Data) == 0 || genResp.Data[0].B64JSON == "" {
		return "", c.fail(ctx, domain.FaultResponseShape, errors.New("no image data in response"))
	}

	imageData, err := base64.StdEncoding.DecodeString(genResp.Data[0].B64JSON)
	if err != nil {
		return "", c.fail(ctx, domain.FaultResponseShape, fmt.Errorf("decoding image payload: %w", err))
	}

	if err := fileutil.WriteAtomic(outputPath, imageData, 0o644); err != nil {
		return "", c.fail(ctx, domain.FaultLocalIO, fmt.Errorf("writing image to %s: %w", outputPath, err))
	}

	return outputPath, nil
}

func (c *client) fail(ctx context.Context, kind domain.FaultKind, err error) error {
	slog.ErrorContext(ctx, "Image generation failed",
		"provider", domain.ProviderOpenAI, "fault", string(kind), logger.Err(err))
	return &domain.GenerationError{Provider: domain.ProviderOpenAI, Kind: kind, Err: err}
}
