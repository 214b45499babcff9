package replicate

import (
	"encoding/json"
	"fmt"
)

type createPredictionRequest struct {
	Input predictionInput `json:"input"`
}

type predictionInput struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

type prediction struct {
	ID     string    `json:"id"`
	Status string    `json:"status"`
	Error  string    `json:"error"`
	Output outputURL `json:"output"`
}

// outputURL tolerates the two output shapes image models return: a bare URL
// string or a list of URLs. For a list, the first URL wins.
type outputURL string

func (o *outputURL) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*o = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = outputURL(s)
	case '[':
		var urls []string
		if err := json.Unmarshal(data, &urls); err != nil {
			return err
		}
		if len(urls) > 0 {
			*o = outputURL(urls[0])
		}
	default:
		return fmt.Errorf("unexpected prediction output shape: %s", data)
	}

	return nil
}

const (
	predictionStatusStarting   = "starting"
	predictionStatusProcessing = "processing"
	predictionStatusSucceeded  = "succeeded"
	predictionStatusFailed     = "failed"
	predictionStatusCanceled   = "canceled"
)

func isTerminalStatus(status string) bool {
	return status == predictionStatusSucceeded ||
		status == predictionStatusFailed ||
		status == predictionStatusCanceled
}
