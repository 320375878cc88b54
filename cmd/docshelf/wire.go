package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docshelf/internal/adapters/driven/ai"
	"github.com/custodia-labs/docshelf/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docshelf/internal/adapters/driven/markdown"
	"github.com/custodia-labs/docshelf/internal/adapters/driven/pdf"
	"github.com/custodia-labs/docshelf/internal/adapters/driven/resource"
	"github.com/custodia-labs/docshelf/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docshelf/internal/adapters/driving/cli"
	"github.com/custodia-labs/docshelf/internal/core/services"
	"github.com/custodia-labs/docshelf/internal/logger"
)

// bootstrap builds the services for one command run.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	dataDir, err := resolveDataDir(opts.DataDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("Data directory: %s", dataDir)

	configStore, err := file.NewConfigStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	prompts, err := file.NewPromptStore(filepath.Join(dataDir, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("failed to open prompts: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(dataDir, "data"))
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	// Each process owns its resource files; handles do not survive it.
	resources, err := resource.NewRunProvider(filepath.Join(dataDir, "resources"))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to open resource directory: %w", err)
	}

	sessions := store.SessionStore(settings.Session.MaxBytes)
	registry := services.NewRegistry(resources, sessions, pdf.NewInspector())
	restore, err := registry.Restore(ctx)
	if err != nil {
		_ = resources.Discard()
		_ = store.Close()
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	services.NewPersister(sessions).Attach(registry)

	aiResult := ai.Init(settings, prompts)

	svc := &cli.Services{
		Registry: registry,
		Render:   services.NewRenderService(registry, markdown.NewRenderer()),
		Actions:  services.NewActionService(registry, filepath.Join(dataDir, "open")),
		Settings: settingsService,
		Restore:  restore,
		Warnings: aiResult.Warnings,
	}
	if aiResult.Summarizer != nil {
		svc.Summary = services.NewSummaryService(registry, aiResult.Summarizer)
	}
	if err := prompts.InitErr(); err != nil {
		svc.Warnings = append(svc.Warnings, fmt.Sprintf("Using built-in prompts: %v", err))
	}

	svc.Close = func() {
		closeCtx := context.WithoutCancel(ctx)
		registry.Close(closeCtx)
		if err := resources.Discard(); err != nil {
			logger.Warn("Failed to clean up resources: %v", err)
		}
		aiResult.Close()
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close session store: %v", err)
		}
	}

	return svc, nil
}

// resolveDataDir returns dir, or ~/.docshelf when dir is empty.
func resolveDataDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".docshelf"), nil
}
