package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const sdxlVersion = "a4a8d91cb03cda6c33e938f6b6e49eaa593c14020c9ef477aae27302b08d5275"

// ReplicateClient standart sağlayıcıdır: Replicate prediction API'sine iş
// bırakır ve tamamlanana kadar poll eder.
type ReplicateClient struct {
	APIToken     string
	BaseURL      string
	PollInterval time.Duration
	HTTPClient   *http.Client
}

func NewReplicateClient(timeout time.Duration) *ReplicateClient {
	baseURL := os.Getenv("REPLICATE_API_URL")
	if baseURL == "" {
		baseURL = "https://api.replicate.com/v1"
	}

	return &ReplicateClient{
		APIToken:     os.Getenv("REPLICATE_API_TOKEN"),
		BaseURL:      baseURL,
		PollInterval: time.Second,
		HTTPClient:   &http.Client{Timeout: timeout},
	}
}

type replicateInput struct {
	Image             string  `json:"image,omitempty"`
	Prompt            string  `json:"prompt"`
	NegativePrompt    string  `json:"negative_prompt,omitempty"`
	NumOutputs        int     `json:"num_outputs,omitempty"`
	GuidanceScale     float64 `json:"guidance_scale,omitempty"`
	NumInferenceSteps int     `json:"num_inference_steps,omitempty"`
	Width             int     `json:"width,omitempty"`
	Height            int     `json:"height,omitempty"`
}

type replicatePrediction struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Output []string `json:"output"`
	Error  string   `json:"error"`
}

func (c *ReplicateClient) Generate(ctx context.Context, input Input) (*Result, error) {
	width, height := pixelDimensions(input.Options)

	prediction, err := c.createPrediction(ctx, replicateInput{
		Image:             input.ImageURL,
		Prompt:            input.Prompt,
		NegativePrompt:    "blurry, low quality, distorted, ugly, bad, deformed",
		NumOutputs:        1,
		GuidanceScale:     7.5,
		NumInferenceSteps: 50,
		Width:             width,
		Height:            height,
	})
	if err != nil {
		return nil, err
	}

	final, err := c.waitForPrediction(ctx, prediction.ID)
	if err != nil {
		return nil, err
	}

	if len(final.Output) == 0 {
		return nil, fmt.Errorf("replicate: no output generated")
	}

	return &Result{ImageURL: final.Output[0], Prompt: input.Prompt}, nil
}

func (c *ReplicateClient) createPrediction(ctx context.Context, input replicateInput) (*replicatePrediction, error) {
	body, err := json.Marshal(map[string]interface{}{
		"version": sdxlVersion,
		"input":   input,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/predictions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+c.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Detail string `json:"detail"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Detail == "" {
			apiErr.Detail = resp.Status
		}
		return nil, fmt.Errorf("replicate: %s", apiErr.Detail)
	}

	var prediction replicatePrediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, fmt.Errorf("replicate: could not decode prediction: %v", err)
	}
	return &prediction, nil
}

func (c *ReplicateClient) getPrediction(ctx context.Context, id string) (*replicatePrediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/predictions/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+c.APIToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("replicate: could not fetch prediction: %s", resp.Status)
	}

	var prediction replicatePrediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, err
	}
	return &prediction, nil
}

// waitForPrediction ctx deadline'ına kadar saniyede bir durumu sorgular.
func (c *ReplicateClient) waitForPrediction(ctx context.Context, id string) (*replicatePrediction, error) {
	ticker := time.NewTicker(c.PollInterval)
	defer ticker.Stop()

	for {
		prediction, err := c.getPrediction(ctx, id)
		if err != nil {
			return nil, err
		}

		switch prediction.Status {
		case "succeeded":
			return prediction, nil
		case "failed":
			return nil, fmt.Errorf("replicate: generation failed: %s", prediction.Error)
		case "canceled":
			return nil, fmt.Errorf("replicate: generation was canceled")
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("replicate: generation timeout: %v", ctx.Err())
		case <-ticker.C:
		}
	}
}

func pixelDimensions(opts Options) (int, int) {
	base := map[string]int{"1K": 1024, "2K": 2048, "4K": 4096}[opts.ImageSize]
	if base == 0 {
		base = 2048
	}

	switch opts.AspectRatio {
	case "4:3":
		return base, base * 3 / 4
	case "3:4":
		return base * 3 / 4, base
	case "16:9":
		return base, base * 9 / 16
	case "9:16":
		return base * 9 / 16, base
	default:
		return base, base
	}
}
