package ai

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/doeshing/aida-go/internal/domain"
	"github.com/doeshing/aida-go/internal/ports"
)

// Gemini generateContent wire format.

func geminiAdapter() providerAdapter {
	return providerAdapter{
		buildRequest:  buildGeminiRequest,
		parseResponse: parseGeminiResponse,
		setHeaders:    setGeminiHeaders,
	}
}

func buildGeminiRequest(_ domain.ProviderDefinition, req ports.ProviderRequest) ([]byte, error) {
	request := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role":  "user",
				"parts": []map[string]string{{"text": req.Prompt}},
			},
		},
	}
	if req.SystemPrompt != "" {
		request["systemInstruction"] = map[string]interface{}{
			"parts": []map[string]string{{"text": req.SystemPrompt}},
		}
	}

	generation := map[string]interface{}{"temperature": req.Temperature}
	if req.MaxTokens > 0 {
		generation["maxOutputTokens"] = req.MaxTokens
	}
	request["generationConfig"] = generation

	return json.Marshal(request)
}

func parseGeminiResponse(body []byte) (string, error) {
	var response struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}

	var parts []string
	for _, part := range response.Candidates[0].Content.Parts {
		parts = append(parts, part.Text)
	}
	return strings.TrimSpace(strings.Join(parts, "")), nil
}

func setGeminiHeaders(req *http.Request, def domain.ProviderDefinition) error {
	key, err := apiKey(def)
	if err != nil {
		return err
	}
	req.Header.Set("x-goog-api-key", key)
	return nil
}
