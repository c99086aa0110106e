package ai

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/doeshing/aida-go/internal/domain"
	"github.com/doeshing/aida-go/internal/ports"
)

// Anthropic messages wire format.

func anthropicAdapter() providerAdapter {
	return providerAdapter{
		buildRequest:  buildAnthropicRequest,
		parseResponse: parseAnthropicResponse,
		setHeaders:    setAnthropicHeaders,
	}
}

func buildAnthropicRequest(def domain.ProviderDefinition, req ports.ProviderRequest) ([]byte, error) {
	modelID := req.ModelID
	if modelID == "" {
		modelID = def.ModelID
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	request := map[string]interface{}{
		"model":       modelID,
		"max_tokens":  maxTokens,
		"temperature": req.Temperature,
		"messages": []map[string]string{
			{"role": "user", "content": req.Prompt},
		},
	}
	if req.SystemPrompt != "" {
		request["system"] = req.SystemPrompt
	}

	return json.Marshal(request)
}

func parseAnthropicResponse(body []byte) (string, error) {
	var response struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}

	if len(response.Content) == 0 {
		return "", nil
	}
	return strings.TrimSpace(response.Content[0].Text), nil
}

func setAnthropicHeaders(req *http.Request, def domain.ProviderDefinition) error {
	key, err := apiKey(def)
	if err != nil {
		return err
	}
	req.Header.Set("x-api-key", key)
	req.Header.Set("anthropic-version", "2023-06-01")
	return nil
}
