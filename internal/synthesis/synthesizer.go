// Package synthesis fans one prompt out to the selected providers
// concurrently, absorbs per-provider failures, and reduces the surviving
// responses to a single best answer. Provider failure is an expected input
// here, not an exceptional one.
package synthesis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/doeshing/aida-go/internal/domain"
	"github.com/doeshing/aida-go/internal/ports"
)

// defaultQuality is assigned when a lone provider reports no confidence.
const defaultQuality = 0.6

// Synthesizer coordinates concurrent provider calls for one utterance.
type Synthesizer struct {
	Factory ports.ProviderFactory
	Policy  ports.ScorePolicy
	Timeout time.Duration
	Logger  ports.Logger
}

// Synthesize issues one request per plan concurrently, each bounded by the
// per-provider timeout, and reduces the results. The caller never waits past
// the single per-provider timeout plus scheduling overhead; the timeouts run
// in parallel, not in sequence.
func (s *Synthesizer) Synthesize(ctx context.Context, prompt string, plans []domain.ProviderPlan) (domain.SynthesizedResponse, error) {
	if len(plans) == 0 {
		return domain.SynthesizedResponse{}, fmt.Errorf("%w: no providers selected", domain.ErrNoProviderAvailable)
	}

	// Results land at their plan index so the reduction below is
	// independent of goroutine completion order.
	results := make([]domain.ModelResponse, len(plans))
	var wg sync.WaitGroup
	for i, plan := range plans {
		wg.Add(1)
		go func(i int, plan domain.ProviderPlan) {
			defer wg.Done()
			results[i] = s.callProvider(ctx, prompt, plan)
		}(i, plan)
	}
	wg.Wait()

	var succeeded []int
	var failures []error
	for i, res := range results {
		if res.Err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", res.Provider, res.Err))
			s.Logger.Debug("provider failed", map[string]interface{}{
				"provider": res.Provider,
				"error":    res.Err.Error(),
			})
			continue
		}
		succeeded = append(succeeded, i)
	}

	switch len(succeeded) {
	case 0:
		return domain.SynthesizedResponse{}, fmt.Errorf("%w: %w", domain.ErrNoProviderAvailable, errors.Join(failures...))
	case 1:
		res := results[succeeded[0]]
		quality := res.Confidence
		if quality == 0 {
			quality = defaultQuality
		}
		return domain.SynthesizedResponse{
			Text:      res.Text,
			Providers: []string{res.Provider},
			Quality:   quality,
			Strategy:  domain.StrategyVerbatim,
		}, nil
	default:
		return s.bestOf(prompt, plans, results, succeeded), nil
	}
}

// bestOf picks the single highest-scoring response. Synthesis never
// concatenates texts; blended replies read incoherently. Ties keep the
// earlier (higher-priority) provider so the outcome is deterministic for a
// given response set.
func (s *Synthesizer) bestOf(prompt string, plans []domain.ProviderPlan, results []domain.ModelResponse, succeeded []int) domain.SynthesizedResponse {
	best := succeeded[0]
	bestScore := s.Policy.Score(prompt, results[best], plans[best].Weight)
	for _, i := range succeeded[1:] {
		score := s.Policy.Score(prompt, results[i], plans[i].Weight)
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	return domain.SynthesizedResponse{
		Text:      results[best].Text,
		Providers: []string{results[best].Provider},
		Quality:   clamp01(bestScore),
		Strategy:  domain.StrategyBestOf,
	}
}

// callProvider runs one bounded provider call. Timeouts and transport errors
// are folded into the ModelResponse, never propagated directly.
func (s *Synthesizer) callProvider(ctx context.Context, prompt string, plan domain.ProviderPlan) domain.ModelResponse {
	res := domain.ModelResponse{Provider: plan.Provider}

	provider, err := s.Factory.ForName(plan.Provider)
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
		return res
	}

	callCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := provider.Generate(callCtx, ports.ProviderRequest{
		Prompt:       prompt,
		SystemPrompt: plan.SystemPrompt,
		ModelID:      plan.ModelID,
		Temperature:  plan.Temperature,
		MaxTokens:    plan.MaxTokens,
	})
	res.Latency = time.Since(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			res.Err = fmt.Errorf("%w after %s", domain.ErrProviderTimeout, s.Timeout)
		} else {
			res.Err = fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
		}
		return res
	}

	res.Text = resp.Text
	res.Confidence = resp.Confidence
	return res
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
