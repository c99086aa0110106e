// Package app wires application services with infrastructure adapters.
package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/doeshing/aida-go/internal/command"
	"github.com/doeshing/aida-go/internal/conversation"
	"github.com/doeshing/aida-go/internal/domain"
	"github.com/doeshing/aida-go/internal/gate"
	"github.com/doeshing/aida-go/internal/infrastructure/ai"
	"github.com/doeshing/aida-go/internal/infrastructure/config"
	"github.com/doeshing/aida-go/internal/infrastructure/memory"
	"github.com/doeshing/aida-go/internal/infrastructure/system"
	"github.com/doeshing/aida-go/internal/intent"
	"github.com/doeshing/aida-go/internal/pkg/logger"
	"github.com/doeshing/aida-go/internal/ports"
	"github.com/doeshing/aida-go/internal/selector"
	"github.com/doeshing/aida-go/internal/services"
	"github.com/doeshing/aida-go/internal/synthesis"
)

// Container holds the dependency graph for one process.
type Container struct {
	Assistant    *services.Assistant
	Tracker      *conversation.Tracker
	Config       domain.Config
	ConfigLoader *config.FileLoader
	Store        *memory.SQLiteStore
	Logger       *logger.ZapLogger
}

// BuildContainer constructs the dependency graph. The conversation resumes
// from the most recently saved session unless newSession is set.
func BuildContainer(ctx context.Context, verbose, newSession bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New(verbose)

	store, err := memory.NewSQLiteStore(cfg.Memory.Database)
	if err != nil {
		return nil, err
	}

	tracker, err := resumeTracker(ctx, store, cfg, newSession)
	if err != nil {
		store.Close()
		return nil, err
	}

	cfg = ensureOfflineFallback(cfg, log)

	factory := ai.NewFactory(cfg.Providers)
	timeout := time.Duration(cfg.Pipeline.ProviderTimeoutMS) * time.Millisecond

	classifier, err := newClassifier(cfg, factory, timeout, log)
	if err != nil {
		store.Close()
		return nil, err
	}

	controller := system.NewLocalController(filepath.Dir(cfg.Memory.Database), log)

	assistant := &services.Assistant{
		Tracker:    tracker,
		Classifier: classifier,
		Selector:   selector.New(cfg),
		Synthesizer: &synthesis.Synthesizer{
			Factory: factory,
			Policy:  synthesis.HeuristicPolicy{},
			Timeout: timeout,
			Logger:  log,
		},
		Generator: command.NewGenerator(),
		Gate: &gate.Gate{
			Controller: controller,
			Auditor:    store,
			Logger:     log,
			Mid:        cfg.Gate.ConfidenceMid,
			High:       cfg.Gate.ConfidenceHigh,
		},
		Logger:                     log,
		CommandLikelihoodThreshold: cfg.Pipeline.CommandLikelihoodThreshold,
	}

	return &Container{
		Assistant:    assistant,
		Tracker:      tracker,
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Store:        store,
		Logger:       log,
	}, nil
}

func newClassifier(cfg domain.Config, factory *ai.Factory, timeout time.Duration, log *logger.ZapLogger) (*intent.Classifier, error) {
	var fallback ports.Provider
	if cfg.Intent.SemanticFallback && len(cfg.Selection.DefaultProviderOrder) > 0 {
		if provider, err := factory.ForName(cfg.Selection.DefaultProviderOrder[0]); err == nil {
			fallback = provider
		}
	}
	return intent.NewClassifier(cfg.Intent.RulesFile, fallback, timeout, log)
}

// ensureOfflineFallback appends the heuristic provider when no configured
// provider has credentials, so the pipeline degrades instead of dying.
func ensureOfflineFallback(cfg domain.Config, log *logger.ZapLogger) domain.Config {
	for _, def := range cfg.Providers {
		if def.AuthEnvVar == "" || os.Getenv(def.AuthEnvVar) != "" {
			return cfg
		}
	}

	log.Warn("no provider credentials found, enabling offline fallback", map[string]interface{}{
		"providers": len(cfg.Providers),
	})
	cfg.Providers = append(cfg.Providers, domain.ProviderDefinition{Name: "offline"})
	cfg.Selection.DefaultProviderOrder = append(cfg.Selection.DefaultProviderOrder, "offline")
	for kind, order := range cfg.Selection.IntentOverrides {
		cfg.Selection.IntentOverrides[kind] = append(order, "offline")
	}
	return cfg
}

func resumeTracker(ctx context.Context, store *memory.SQLiteStore, cfg domain.Config, newSession bool) (*conversation.Tracker, error) {
	if newSession {
		return conversation.NewTracker(cfg.Context.WindowSize), nil
	}
	sessionID, err := store.LatestSessionID(ctx)
	if err != nil {
		return nil, err
	}
	if sessionID == "" {
		return conversation.NewTracker(cfg.Context.WindowSize), nil
	}
	saved, err := store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return conversation.Resume(saved, cfg.Context.WindowSize), nil
}

// Close releases held resources.
func (c *Container) Close() error {
	c.Logger.Sync()
	return c.Store.Close()
}

// SaveSession persists the current conversation.
func (c *Container) SaveSession(ctx context.Context) error {
	return c.Store.Save(ctx, c.Tracker.Snapshot())
}
