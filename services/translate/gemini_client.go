package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type geminiClient struct {
	apiKey string
	model  string
	httpc  *http.Client
}

func newGeminiClient(apiKey, model string, httpc *http.Client) *geminiClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &geminiClient{
		apiKey: strings.TrimSpace(apiKey),
		model:  model,
		httpc:  httpc,
	}
}

func (c *geminiClient) isConfigured() bool {
	return c != nil && c.apiKey != "" && c.model != ""
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	ResponseMIMEType string `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate sends one prompt demanding a JSON response and returns the raw
// model output text. Transient failures are retried with backoff.
func (c *geminiClient) generate(ctx context.Context, prompt string) (string, error) {
	if !c.isConfigured() {
		return "", errors.New("translator api key not configured")
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{
			ResponseMIMEType: "application/json",
		},
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", geminiBaseURL, c.model, c.apiKey)

	return retry.DoWithData(
		func() (string, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
			if err != nil {
				return "", retry.Unrecoverable(err)
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := c.httpc.Do(req)
			if err != nil {
				return "", err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return "", fmt.Errorf("gemini request failed: %s", resp.Status)
			}
			if resp.StatusCode >= 400 {
				return "", retry.Unrecoverable(fmt.Errorf("gemini request failed: %s", resp.Status))
			}

			var payload geminiResponse
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				return "", retry.Unrecoverable(err)
			}

			if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
				return "", retry.Unrecoverable(errors.New("gemini response has no candidates"))
			}

			text := strings.TrimSpace(payload.Candidates[0].Content.Parts[0].Text)
			if text == "" {
				return "", retry.Unrecoverable(errors.New("gemini response body empty"))
			}
			return text, nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}
