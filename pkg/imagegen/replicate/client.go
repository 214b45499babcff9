package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dskvich/imagegen/pkg/config"
	"github.com/dskvich/imagegen/pkg/domain"
	"github.com/dskvich/imagegen/pkg/fileutil"
	"github.com/dskvich/imagegen/pkg/logger"
)

const (
	defaultBaseURL      = "https://api.replicate.com/v1"
	defaultPollTimeout  = 60 * time.Second
	defaultPollInterval = 1 * time.Second

	negativePrompt = "text, watermark, low quality"
	imageWidth     = 1024
	imageHeight    = 1024
)

type client struct {
	token   string
	baseURL string
	cfg     config.ReplicateConfig
	hc      *http.Client

	pollTimeout  time.Duration
	pollInterval time.Duration
}

func NewClient(token string, cfg config.ReplicateConfig) (*client, error) {
	if token == "" {
		return nil, errors.New("token cannot be empty")
	}
	return &client{
		token:        token,
		baseURL:      defaultBaseURL,
		cfg:          cfg,
		hc:           &http.Client{},
		pollTimeout:  defaultPollTimeout,
		pollInterval: defaultPollInterval,
	}, nil
}

// Generate submits a prediction for the configured model, waits for it to
// finish, then downloads the image from the prediction output URL and writes
// it to outputPath.
func (c *client) Generate(ctx context.Context, prompt string, outputPath string) (string, error) {
	reqBody, err := json.Marshal(createPredictionRequest{
		Input: predictionInput{
			Prompt:         prompt,
			NegativePrompt: negativePrompt,
			Width:          imageWidth,
			Height:         imageHeight,
		},
	})
	if err != nil {
		return "", c.fail(ctx, domain.FaultTransport, fmt.Errorf("marshaling request: %w", err))
	}

	predictionURL := fmt.Sprintf("%s/models/%s/predictions", c.baseURL, c.cfg.Model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, predictionURL, bytes.NewReader(reqBody))
	if err != nil {
		return "", c.fail(ctx, domain.FaultTransport, fmt.Errorf("creating HTTP request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "wait") // Wait for the prediction to complete

	respBody, err := c.doRequest(ctx, req)
	if err != nil {
		return "", err
	}

	var pred prediction
	if err := json.Unmarshal(respBody, &pred); err != nil {
		return "", c.fail(ctx, domain.FaultResponseShape, fmt.Errorf("parsing prediction response: %w", err))
	}

	// Predictions can come back non-terminal despite Prefer: wait.
	if !isTerminalStatus(pred.Status) {
		pred, err = c.pollPrediction(ctx, pred.ID)
		if err != nil {
			return "", err
		}
	}

	if pred.Status != predictionStatusSucceeded {
		return "", c.fail(ctx, domain.FaultBackend,
			fmt.Errorf("prediction failed with status %s: %s", pred.Status, pred.Error))
	}

	if pred.Output == "" {
		return "", c.fail(ctx, domain.FaultResponseShape, errors.New("prediction output has no image URL"))
	}

	imageData, err := c.downloadImage(ctx, string(pred.Output))
	if err != nil {
		return "", err
	}

	if err := fileutil.WriteAtomic(outputPath, imageData, 0o644); err != nil {
		return "", c.fail(ctx, domain.FaultLocalIO, fmt.Errorf("writing image to %s: %w", outputPath, err))
	}

	return outputPath, nil
}

func (c *client) pollPrediction(ctx context.Context, predictionID string) (prediction, error) {
	var pred prediction

	timeoutCtx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timeoutCtx.Done():
			return pred, c.fail(ctx, domain.FaultTransport, errors.New("polling timed out"))
		case <-ticker.C:
			predictionURL := fmt.Sprintf("%s/predictions/%s", c.baseURL, predictionID)

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, predictionURL, nil)
			if err != nil {
				return pred, c.fail(ctx, domain.FaultTransport, fmt.Errorf("creating HTTP request: %w", err))
			}

			respBody, err := c.doRequest(ctx, req)
			if err != nil {
				return pred, err
			}

			if err := json.Unmarshal(respBody, &pred); err != nil {
				return pred, c.fail(ctx, domain.FaultResponseShape, fmt.Errorf("parsing prediction response: %w", err))
			}

			if isTerminalStatus(pred.Status) {
				return pred, nil
			}
		}
	}
}

func (c *client) downloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, c.fail(ctx, domain.FaultTransport, fmt.Errorf("creating HTTP request: %w", err))
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, c.fail(ctx, domain.FaultTransport, fmt.Errorf("downloading image: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.fail(ctx, domain.FaultBackend,
			fmt.Errorf("unexpected status code downloading image: %d", resp.StatusCode))
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(ctx, domain.FaultTransport, fmt.Errorf("reading image data: %w", err))
	}

	return imageData, nil
}

// doRequest authorizes and executes req. Returned errors are already
// classified and logged.
func (c *client) doRequest(ctx context.Context, req *http.Request) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, c.fail(ctx, domain.FaultTransport, fmt.Errorf("HTTP request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(ctx, domain.FaultTransport, fmt.Errorf("reading response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.fail(ctx, domain.FaultBackend,
			fmt.Errorf("unexpected status code: %d, response: %s", resp.StatusCode, string(respBody)))
	}

	return respBody, nil
}

func (c *client) fail(ctx context.Context, kind domain.FaultKind, err error) error {
	slog.ErrorContext(ctx, "Image generation failed",
		"provider", domain.ProviderReplicate, "fault", string(kind), logger.Err(err))
	return &domain.GenerationError{Provider: domain.ProviderReplicate, Kind: kind, Err: err}
}
