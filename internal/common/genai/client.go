// internal/common/genai/client.go
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	stderrors "hol-manager/internal/common/errors"
	"hol-manager/internal/common/logger"
)

// Client calls the profile-summarizer API. The generation itself is an
// opaque capability: this client only ships facts out and a text back.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
		// No client-level timeout; the per-call context bounds the request.
		httpClient: &http.Client{},
		logger:     log.WithFields(map[string]interface{}{"component": "genai"}),
	}
}

type summaryResponse struct {
	Text string `json:"text"`
}

// Summarize generates a short text summary for an employee profile. Facts is
// a flat map of fields the caller considers presentable.
func (c *Client) Summarize(ctx context.Context, facts map[string]interface{}) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, _ := json.Marshal(map[string]interface{}{
		"prompt": "Summarize this employee profile in two sentences.",
		"facts":  facts,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ai/generate", bytes.NewBuffer(body))
	if err != nil {
		return "", stderrors.NewSummaryGenerationFailedError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return "", stderrors.NewSummaryTimeoutError()
		}
		return "", stderrors.NewSummaryGenerationFailedError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", stderrors.NewSummaryGenerationFailedError(fmt.Errorf("status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", stderrors.NewSummaryGenerationFailedError(err)
	}

	var parsed summaryResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", stderrors.NewSummaryGenerationFailedError(err)
	}
	if parsed.Text == "" {
		return "", stderrors.NewSummaryGenerationFailedError(errors.New("empty summary in response"))
	}

	c.logger.Debug("summary generated", map[string]interface{}{"chars": len(parsed.Text)})
	return parsed.Text, nil
}
