package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"socialforge/internal/models"

	"github.com/cenkalti/backoff/v4"
)

// errJobPending signals an async generation job that has not finished yet.
var errJobPending = errors.New("generation job still running")

// defaultClients wires every catalogued provider to its client. Providers
// without a wired client return ErrNotImplemented so the router falls
// through to the next candidate.
func defaultClients(httpClient *http.Client) map[string]ProviderClient {
	return map[string]ProviderClient{
		"huggingface":     &huggingFaceClient{http: httpClient},
		"siliconflow":     &siliconFlowClient{http: httpClient},
		"replicate":       &replicateClient{http: httpClient},
		"replicate-video": &replicateClient{http: httpClient},
		"fal":             &falClient{http: httpClient},
		"leonardo":        &leonardoClient{http: httpClient},
		"openai":          &openAIClient{http: httpClient},
		"runway":          &runwayClient{http: httpClient},
		"heygen":          notImplementedClient{},
		"elevenlabs":      &elevenLabsClient{http: httpClient},
		"coqui":           notImplementedClient{},
		"playht":          notImplementedClient{},
	}
}

type notImplementedClient struct{}

func (notImplementedClient) Generate(context.Context, Request) (*models.MediaAsset, error) {
	return nil, ErrNotImplemented
}

// postJSON issues a JSON POST and decodes a JSON response into out.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// getJSON issues a GET and decodes a JSON response into out.
func getJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// pollForResult polls an async generation job at a fixed interval for a
// bounded attempt count. Exhausting the attempts is a provider failure, not
// a pipeline failure.
func pollForResult(ctx context.Context, interval time.Duration, maxAttempts uint64, fetch func(context.Context) (string, error)) (string, error) {
	var result string
	operation := func() error {
		url, err := fetch(ctx)
		if err != nil {
			if errors.Is(err, errJobPending) {
				return err
			}
			return backoff.Permanent(err)
		}
		result = url
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), maxAttempts), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		if errors.Is(err, errJobPending) {
			return "", fmt.Errorf("generation timed out after %d poll attempts", maxAttempts)
		}
		return "", err
	}
	return result, nil
}

// huggingFaceClient calls the Hugging Face inference API, which returns raw
// image bytes inline.
type huggingFaceClient struct {
	http *http.Client
}

func (c *huggingFaceClient) Generate(ctx context.Context, req Request) (*models.MediaAsset, error) {
	url := fmt.Sprintf("%s/%s", req.Descriptor.BaseURL, req.Descriptor.Model)
	body, err := json.Marshal(map[string]string{"inputs": req.Prompt})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.Key)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image bytes: %w", err)
	}

	return &models.MediaAsset{
		URL:      "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw),
		Cost:     req.Descriptor.CostPerUnit,
		Metadata: map[string]string{"prompt": req.Prompt, "model": req.Descriptor.Model},
	}, nil
}

type siliconFlowClient struct {
	http *http.Client
}

func (c *siliconFlowClient) Generate(ctx context.Context, req Request) (*models.MediaAsset, error) {
	var result struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	payload := map[string]any{
		"model":  req.Descriptor.Model,
		"prompt": req.Prompt,
		"width":  req.Width,
		"height": req.Height,
	}
	headers := map[string]string{"Authorization": "Bearer " + req.Key}
	if err := postJSON(ctx, c.http, req.Descriptor.BaseURL+"/images/generations", headers, payload, &result); err != nil {
		return nil, err
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("no image in response")
	}
	return &models.MediaAsset{
		URL:      result.Data[0].URL,
		Cost:     req.Descriptor.CostPerUnit,
		Metadata: map[string]string{"prompt": req.Prompt},
	}, nil
}

type openAIClient struct {
	http *http.Client
}

func (c *openAIClient) Generate(ctx context.Context, req Request) (*models.MediaAsset, error) {
	// DALL-E supports three fixed sizes; pick by orientation.
	size := "1024x1024"
	if req.Width > req.Height {
		size = "1792x1024"
	} else if req.Height > req.Width {
		size = "1024x1792"
	}

	var result struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	payload := map[string]any{
		"model":  req.Descriptor.Model,
		"prompt": req.Prompt,
		"size":   size,
		"n":      1,
	}
	headers := map[string]string{"Authorization": "Bearer " + req.Key}
	if err := postJSON(ctx, c.http, req.Descriptor.BaseURL+"/images/generations", headers, payload, &result); err != nil {
		return nil, err
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("no image in response")
	}
	return &models.MediaAsset{
		URL:      result.Data[0].URL,
		Cost:     req.Descriptor.CostPerUnit,
		Metadata: map[string]string{"prompt": req.Prompt, "size": size},
	}, nil
}

type falClient struct {
	http *http.Client
}

func (c *falClient) Generate(ctx context.Context, req Request) (*models.MediaAsset, error) {
	var result struct {
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	}
	payload := map[string]any{
		"prompt": req.Prompt,
		"width":  req.Width,
		"height": req.Height,
	}
	headers := map[string]string{"Authorization": "Key " + req.Key}
	if err := postJSON(ctx, c.http, fmt.Sprintf("%s/%s", req.Descriptor.BaseURL, req.Descriptor.Model), headers, payload, &result); err != nil {
		return nil, err
	}
	if len(result.Images) == 0 {
		return nil, fmt.Errorf("no image in response")
	}
	return &models.MediaAsset{
		URL:      result.Images[0].URL,
		Cost:     req.Descriptor.CostPerUnit,
		Metadata: map[string]string{"prompt": req.Prompt},
	}, nil
}

// leonardoClient submits a generation job and polls it to completion.
type leonardoClient struct {
	http *http.Client
}

func (c *leonardoClient) Generate(ctx context.Context, req Request) (*models.MediaAsset, error) {
	headers := map[string]string{"Authorization": "Bearer " + req.Key}
	payload := map[string]any{
		"prompt":     req.Prompt,
		"width":      req.Width,
		"height":     req.Height,
		"modelId":    req.Descriptor.Model,
		"num_images": 1,
	}

	var submitted struct {
		Job struct {
			GenerationID string `json:"generationId"`
		} `json:"sdGenerationJob"`
	}
	if err := postJSON(ctx, c.http, req.Descriptor.BaseURL+"/generations", headers, payload, &submitted); err != nil {
		return nil, err
	}
	if submitted.Job.GenerationID == "" {
		return nil, fmt.Errorf("no generation id in response")
	}

	statusURL := fmt.Sprintf("%s/generations/%s", req.Descriptor.BaseURL, submitted.Job.GenerationID)
	url, err := pollForResult(ctx, 2*time.Second, 60, func(ctx context.Context) (string, error) {
		var status struct {
			Generation struct {
				Status string `json:"status"`
				Images []struct {
					URL string `json:"url"`
				} `json:"generated_images"`
			} `json:"generations_by_pk"`
		}
		if err := getJSON(ctx, c.http, statusURL, headers, &status); err != nil {
			return "", err
		}
		if status.Generation.Status != "COMPLETE" {
			return "", errJobPending
		}
		if len(status.Generation.Images) == 0 {
			return "", fmt.Errorf("generation complete but no images")
		}
		return status.Generation.Images[0].URL, nil
	})
	if err != nil {
		return nil, err
	}

	return &models.MediaAsset{
		URL:      url,
		Cost:     req.Descriptor.CostPerUnit,
		Metadata: map[string]string{"prompt": req.Prompt, "generation_id": submitted.Job.GenerationID},
	}, nil
}

// replicateClient serves both image and video predictions.
type replicateClient struct {
	http *http.Client
}

func (c *replicateClient) Generate(ctx context.Context, req Request) (*models.MediaAsset, error) {
	headers := map[string]string{"Authorization": "Token " + req.Key}
	payload := map[string]any{
		"version": req.Descriptor.Model,
		"input": map[string]any{
			"prompt": req.Prompt,
			"width":  req.Width,
			"height": req.Height,
		},
	}

	var submitted struct {
		ID string `json:"id"`
	}
	if err := postJSON(ctx, c.http, req.Descriptor.BaseURL+"/predictions", headers, payload, &submitted); err != nil {
		return nil, err
	}
	if submitted.ID == "" {
		return nil, fmt.Errorf("no prediction id in response")
	}

	statusURL := fmt.Sprintf("%s/predictions/%s", req.Descriptor.BaseURL, submitted.ID)
	url, err := pollForResult(ctx, 2*time.Second, 60, func(ctx context.Context) (string, error) {
		var status struct {
			Status string   `json:"status"`
			Output []string `json:"output"`
			Error  string   `json:"error"`
		}
		if err := getJSON(ctx, c.http, statusURL, headers, &status); err != nil {
			return "", err
		}
		switch status.Status {
		case "succeeded":
			if len(status.Output) == 0 {
				return "", fmt.Errorf("prediction succeeded but no output")
			}
			return status.Output[0], nil
		case "failed", "canceled":
			return "", fmt.Errorf("prediction %s: %s", status.Status, status.Error)
		default:
			return "", errJobPending
		}
	})
	if err != nil {
		return nil, err
	}

	return &models.MediaAsset{
		URL:      url,
		Cost:     req.Descriptor.CostPerUnit,
		Metadata: map[string]string{"prompt": req.Prompt, "prediction_id": submitted.ID},
	}, nil
}

type runwayClient struct {
	http *http.Client
}

func (c *runwayClient) Generate(ctx context.Context, req Request) (*models.MediaAsset, error) {
	headers := map[string]string{"Authorization": "Bearer " + req.Key}
	payload := map[string]any{
		"prompt":   req.Prompt,
		"duration": 4,
	}

	var submitted struct {
		ID string `json:"id"`
	}
	if err := postJSON(ctx, c.http, req.Descriptor.BaseURL+"/generate", headers, payload, &submitted); err != nil {
		return nil, err
	}
	if submitted.ID == "" {
		return nil, fmt.Errorf("no task id in response")
	}

	statusURL := fmt.Sprintf("%s/tasks/%s", req.Descriptor.BaseURL, submitted.ID)
	url, err := pollForResult(ctx, 3*time.Second, 120, func(ctx context.Context) (string, error) {
		var status struct {
			Status string   `json:"status"`
			Output []string `json:"output"`
			Error  string   `json:"error"`
		}
		if err := getJSON(ctx, c.http, statusURL, headers, &status); err != nil {
			return "", err
		}
		switch status.Status {
		case "SUCCEEDED":
			if len(status.Output) == 0 {
				return "", fmt.Errorf("task succeeded but no output")
			}
			return status.Output[0], nil
		case "FAILED":
			return "", fmt.Errorf("video generation failed: %s", status.Error)
		default:
			return "", errJobPending
		}
	})
	if err != nil {
		return nil, err
	}

	return &models.MediaAsset{
		URL:      url,
		Cost:     req.Descriptor.CostPerUnit,
		Metadata: map[string]string{"prompt": req.Prompt, "task_id": submitted.ID},
	}, nil
}

// elevenLabsClient synthesizes a voiceover; cost scales with text length.
type elevenLabsClient struct {
	http *http.Client
}

const elevenLabsVoiceID = "21m00Tcm4TlvDq8ikWAM"

func (c *elevenLabsClient) Generate(ctx context.Context, req Request) (*models.MediaAsset, error) {
	text := req.Prompt
	if len(text) > 5000 {
		text = text[:5000]
	}

	payload := map[string]any{
		"text":     text,
		"model_id": "eleven_multilingual_v2",
		"voice_settings": map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", req.Descriptor.BaseURL, elevenLabsVoiceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", req.Key)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio bytes: %w", err)
	}

	preview := text
	if len(preview) > 100 {
		preview = preview[:100]
	}
	return &models.MediaAsset{
		URL:      "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(raw),
		Cost:     float64(len(text)) * req.Descriptor.CostPerUnit,
		Metadata: map[string]string{"text": preview, "voice_id": elevenLabsVoiceID},
	}, nil
}
