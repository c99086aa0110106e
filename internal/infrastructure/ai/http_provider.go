package ai

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/time/rate"

	"github.com/doeshing/aida-go/internal/domain"
	"github.com/doeshing/aida-go/internal/ports"
)

type httpProvider struct {
	def        domain.ProviderDefinition
	httpClient *http.Client
	limiter    *rate.Limiter
	adapter    providerAdapter
}

// providerAdapter isolates the wire format of one API family. Adding a
// provider means supplying these three functions, nothing else.
type providerAdapter struct {
	buildRequest  func(domain.ProviderDefinition, ports.ProviderRequest) ([]byte, error)
	parseResponse func([]byte) (string, error)
	setHeaders    func(*http.Request, domain.ProviderDefinition) error
}

func newHTTPProvider(def domain.ProviderDefinition, client *http.Client, adapter providerAdapter) ports.Provider {
	var limiter *rate.Limiter
	if def.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(def.RequestsPerMinute)/60.0), 1)
	}
	return &httpProvider{
		def:        def,
		httpClient: client,
		limiter:    limiter,
		adapter:    adapter,
	}
}

func (p *httpProvider) Name() string {
	return p.def.Name
}

func (p *httpProvider) Generate(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return ports.ProviderResponse{}, err
		}
	}

	requestBody, err := p.adapter.buildRequest(p.def, req)
	if err != nil {
		return ports.ProviderResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.def.Endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return ports.ProviderResponse{}, err
	}

	httpReq.Header.Set("content-type", "application/json")
	if err := p.adapter.setHeaders(httpReq, p.def); err != nil {
		return ports.ProviderResponse{}, err
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return ports.ProviderResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return ports.ProviderResponse{}, fmt.Errorf("%s: %s", p.def.Name, resp.Status)
	}

	var responseBody bytes.Buffer
	if _, err := responseBody.ReadFrom(resp.Body); err != nil {
		return ports.ProviderResponse{}, err
	}

	text, err := p.adapter.parseResponse(responseBody.Bytes())
	if err != nil {
		return ports.ProviderResponse{}, err
	}

	// The chat APIs report no confidence; zero tells the synthesizer to
	// fall back to its default quality.
	return ports.ProviderResponse{Text: text}, nil
}

func apiKey(def domain.ProviderDefinition) (string, error) {
	if def.AuthEnvVar == "" {
		return "", fmt.Errorf("%s: no auth_env_var configured", def.Name)
	}
	key := os.Getenv(def.AuthEnvVar)
	if key == "" {
		return "", fmt.Errorf("%s: missing API key: set %s", def.Name, def.AuthEnvVar)
	}
	return key, nil
}
