package ai

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/doeshing/aida-go/internal/domain"
	"github.com/doeshing/aida-go/internal/ports"
)

// OpenAI-style chat completion wire format. Any endpoint speaking this
// dialect (OpenAI, Azure, local servers) can reuse the same adapter.

func chatCompletionAdapter() providerAdapter {
	return providerAdapter{
		buildRequest:  buildChatCompletionRequest,
		parseResponse: parseChatCompletionResponse,
		setHeaders:    setBearerAuthHeader,
	}
}

func buildChatCompletionRequest(def domain.ProviderDefinition, req ports.ProviderRequest) ([]byte, error) {
	var messages []map[string]string
	if req.SystemPrompt != "" {
		messages = append(messages, map[string]string{"role": "system", "content": req.SystemPrompt})
	}
	messages = append(messages, map[string]string{"role": "user", "content": req.Prompt})

	modelID := req.ModelID
	if modelID == "" {
		modelID = def.ModelID
	}
	request := map[string]interface{}{
		"model":       modelID,
		"messages":    messages,
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		request["max_tokens"] = req.MaxTokens
	}

	return json.Marshal(request)
}

func parseChatCompletionResponse(body []byte) (string, error) {
	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

func setBearerAuthHeader(req *http.Request, def domain.ProviderDefinition) error {
	key, err := apiKey(def)
	if err != nil {
		return err
	}
	req.Header.Set("authorization", "Bearer "+key)
	return nil
}
