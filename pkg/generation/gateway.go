package generation

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Uploader sağlayıcıdan base64 dönen görselleri kalıcı bir URL'e çevirir.
type Uploader interface {
	Upload(ctx context.Context, objectKey, contentType string, data []byte) (string, error)
}

// GatewayClient Gemini-uyumlu görsel üretim gateway'ine generateContent
// çağrısı yapar. Hem nano hem pro modeli aynı API'yi kullanır.
type GatewayClient struct {
	APIKey       string
	BaseURL      string
	ModelName    string
	ObjectPrefix string
	HTTPClient   *http.Client
	Uploader     Uploader
}

func NewGatewayClient(modelName, objectPrefix string, timeout time.Duration, uploader Uploader) *GatewayClient {
	return &GatewayClient{
		APIKey:       os.Getenv("GATEWAY_API_KEY"),
		BaseURL:      os.Getenv("GATEWAY_BASE_URL"),
		ModelName:    modelName,
		ObjectPrefix: objectPrefix,
		HTTPClient:   &http.Client{Timeout: timeout},
		Uploader:     uploader,
	}
}

type gatewayRequest struct {
	Contents         []gatewayContent `json:"contents"`
	GenerationConfig gatewayGenConfig `json:"generationConfig"`
}

type gatewayContent struct {
	Parts []gatewayPart `json:"parts"`
}

type gatewayPart struct {
	Text       string             `json:"text,omitempty"`
	InlineData *gatewayInlineData `json:"inline_data,omitempty"`
}

type gatewayInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type gatewayGenConfig struct {
	ResponseModalities []string           `json:"responseModalities"`
	ImageConfig        gatewayImageConfig `json:"imageConfig"`
}

type gatewayImageConfig struct {
	AspectRatio string `json:"aspectRatio"`
	ImageSize   string `json:"imageSize"`
}

type gatewayResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				InlineData *struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *GatewayClient) Generate(ctx context.Context, input Input) (*Result, error) {
	mimeType, encoded, err := c.fetchSourceImage(ctx, input.ImageURL)
	if err != nil {
		return nil, err
	}

	reqBody := gatewayRequest{
		Contents: []gatewayContent{
			{
				Parts: []gatewayPart{
					{Text: input.Prompt},
					{InlineData: &gatewayInlineData{MimeType: mimeType, Data: encoded}},
				},
			},
		},
		GenerationConfig: gatewayGenConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig: gatewayImageConfig{
				AspectRatio: input.Options.AspectRatio,
				ImageSize:   input.Options.ImageSize,
			},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(c.BaseURL, "/"), c.ModelName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var gatewayResp gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&gatewayResp); err != nil {
		return nil, fmt.Errorf("gateway: could not decode response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		message := resp.Status
		if gatewayResp.Error != nil && gatewayResp.Error.Message != "" {
			message = gatewayResp.Error.Message
		}
		return nil, fmt.Errorf("gateway: %s", message)
	}

	imageData, imageMime, err := extractImage(&gatewayResp)
	if err != nil {
		return nil, err
	}

	ext := ".png"
	if imageMime == "image/jpeg" {
		ext = ".jpg"
	} else if imageMime == "image/webp" {
		ext = ".webp"
	}

	objectKey := fmt.Sprintf("%s/%s%s", c.ObjectPrefix, uuid.New().String(), ext)
	resultURL, err := c.Uploader.Upload(ctx, objectKey, imageMime, imageData)
	if err != nil {
		return nil, fmt.Errorf("gateway: could not store result image: %v", err)
	}

	return &Result{ImageURL: resultURL, Prompt: input.Prompt}, nil
}

// fetchSourceImage kaynak fotoğrafı indirip inline_data için base64'ler.
func (c *GatewayClient) fetchSourceImage(ctx context.Context, imageURL string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", "", err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("gateway: could not fetch source image: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("gateway: could not fetch source image: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024+1))
	if err != nil {
		return "", "", err
	}
	if len(data) > 10*1024*1024 {
		return "", "", fmt.Errorf("gateway: source image too large (>10MB)")
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}

	return mimeType, base64.StdEncoding.EncodeToString(data), nil
}

func extractImage(resp *gatewayResponse) ([]byte, string, error) {
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, "", fmt.Errorf("gateway: invalid image payload: %v", err)
			}
			mimeType := part.InlineData.MimeType
			if mimeType == "" {
				mimeType = "image/png"
			}
			return data, mimeType, nil
		}
	}
	return nil, "", fmt.Errorf("gateway: invalid response format")
}
