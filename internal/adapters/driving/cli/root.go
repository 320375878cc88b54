// Package cli provides the docshelf command line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/core/ports/driving"
	"github.com/custodia-labs/docshelf/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// skipBootstrap marks commands that run without services.
const skipBootstrap = "skip-bootstrap"

// Global flags.
var (
	verbose bool
	dataDir string
)

// Services configured by the bootstrap or by tests.
var (
	registry        driving.DocumentRegistry
	summaryService  driving.SummaryService
	renderService   driving.RenderService
	actionService   driving.DocumentActions
	settingsService driving.SettingsService
	restoreResult   domain.RestoreResult
	closeServices   func()
)

// Options carries global flag values to the bootstrap.
type Options struct {
	DataDir string
	Verbose bool
}

// Services holds everything a command may use.
type Services struct {
	Registry driving.DocumentRegistry
	Summary  driving.SummaryService
	Render   driving.RenderService
	Actions  driving.DocumentActions
	Settings driving.SettingsService

	// Restore is the outcome of restoring the previous session.
	Restore domain.RestoreResult

	// Warnings are shown once before the command runs.
	Warnings []string

	// Close releases resources when the command finishes.
	Close func()
}

// Bootstrap builds services once flags are parsed.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var bootstrap Bootstrap

// SetBootstrap sets the function that builds services before each command.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

var rootCmd = &cobra.Command{
	Use:   "docshelf",
	Short: "A working shelf of local documents with AI summaries",
	Long: `docshelf keeps a working set of local documents (PDF, Markdown, XML,
plain text and presentations), renders them for viewing and generates
AI summaries. The shelf survives restarts.`,
	SilenceUsage:      true,
	PersistentPreRunE: runBootstrap,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default ~/.docshelf)")
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	defer shutdown()
	return rootCmd.ExecuteContext(ctx)
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || cmd.Annotations[skipBootstrap] == "true" {
		return nil
	}

	svc, err := bootstrap(cmd.Context(), Options{DataDir: dataDir, Verbose: verbose})
	if err != nil {
		return err
	}
	setServices(svc)

	for _, w := range svc.Warnings {
		logger.Warn("%s", w)
	}
	return nil
}

func setServices(svc *Services) {
	registry = svc.Registry
	summaryService = svc.Summary
	renderService = svc.Render
	actionService = svc.Actions
	settingsService = svc.Settings
	restoreResult = svc.Restore
	closeServices = svc.Close
}

func shutdown() {
	if closeServices != nil {
		closeServices()
		closeServices = nil
	}
}

// requireRegistry returns an error when no registry is configured.
func requireRegistry() error {
	if registry == nil {
		return errors.New("document registry not configured")
	}
	return nil
}
