package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docshelf/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the summarisation provider and session options.

Settings are stored in ~/.docshelf/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the LLM provider used for summaries",
	Long: `Configure the LLM provider used for summaries.

Without --provider the command asks for each value. With --provider the
values are taken from flags.`,
	RunE: runSettingsLLM,
}

var settingsSessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Configure session persistence",
	RunE:  runSettingsSession,
}

var settingsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Configure summarisation throttling",
	RunE:  runSettingsSummary,
}

var (
	llmProvider string
	llmModel    string
	llmBaseURL  string
	llmAPIKey   string
	llmNoCheck  bool

	sessionMaxBytes int
	summaryRate     int
)

func init() {
	settingsLLMCmd.Flags().StringVar(&llmProvider, "provider", "", "LLM provider (ollama, openai, anthropic)")
	settingsLLMCmd.Flags().StringVar(&llmModel, "model", "", "Model name (provider default when empty)")
	settingsLLMCmd.Flags().StringVar(&llmBaseURL, "base-url", "", "API endpoint")
	settingsLLMCmd.Flags().StringVar(&llmAPIKey, "api-key", "", "API key for cloud providers")
	settingsLLMCmd.Flags().BoolVar(&llmNoCheck, "no-check", false, "Skip contacting the provider")

	settingsSessionCmd.Flags().IntVar(&sessionMaxBytes, "max-bytes", 0, "Largest session that will be saved, in bytes")
	_ = settingsSessionCmd.MarkFlagRequired("max-bytes")

	settingsSummaryCmd.Flags().IntVar(&summaryRate, "rate", 0, "Summaries per minute, 0 for no limit")
	_ = settingsSummaryCmd.MarkFlagRequired("rate")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsSessionCmd)
	settingsCmd.AddCommand(settingsSummaryCmd)
	rootCmd.AddCommand(settingsCmd)
}

func requireSettings() error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	p := paletteFor(cmd.OutOrStdout())

	cmd.Println(p.title.Render("Current Settings"))
	cmd.Println()

	cmd.Println(p.header.Render("[LLM]"))
	if settings.LLM.Provider == "" {
		cmd.Println("  Provider: (not set)")
	} else {
		cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
		cmd.Printf("  Model: %s\n", settings.LLM.Model)
	}
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Println("  API Key: (not set)")
		}
	}
	if settings.LLM.IsConfigured() {
		cmd.Printf("  Status: %s\n", p.ok.Render("configured"))
	} else {
		cmd.Printf("  Status: %s\n", p.warn.Render("not configured"))
	}
	cmd.Println()

	cmd.Println(p.header.Render("[Session]"))
	cmd.Printf("  Max size: %s\n", humanize.Bytes(uint64(settings.Session.MaxBytes))) //nolint:gosec // positive by construction
	cmd.Println()

	cmd.Println(p.header.Render("[Summary]"))
	if settings.Summary.RatePerMinute == 0 {
		cmd.Println("  Rate: unlimited")
	} else {
		cmd.Printf("  Rate: %d per minute\n", settings.Summary.RatePerMinute)
	}

	if !settings.LLM.IsConfigured() {
		cmd.Println()
		cmd.Println("Run 'docshelf settings llm' to enable summaries.")
	}
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	if llmProvider != "" {
		return applyLLMProvider(cmd, domain.AIProvider(llmProvider), llmModel, llmBaseURL, llmAPIKey)
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	selected := providers[parseChoice(readLine(reader), len(providers), 1)-1]

	cmd.Print("Enter model name (empty for default): ")
	model := readLine(reader)

	var baseURL string
	if selected.IsLocal() {
		cmd.Print("Enter base URL (empty for default): ")
		baseURL = readLine(reader)
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	return applyLLMProvider(cmd, selected, model, baseURL, apiKey)
}

func applyLLMProvider(cmd *cobra.Command, provider domain.AIProvider, model, baseURL, apiKey string) error {
	if err := settingsService.SetLLMProvider(provider, model, baseURL, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	if !llmNoCheck {
		cmd.Print("Validating configuration... ")
		if err := settingsService.ValidateLLMConfig(); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("LLM configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("LLM provider configured: %s (%s)\n", provider.Description(), settings.LLM.Model)
	return nil
}

func runSettingsSession(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	if err := settingsService.SetSessionMaxBytes(sessionMaxBytes); err != nil {
		return fmt.Errorf("failed to set session size: %w", err)
	}
	cmd.Printf("Session size limit set to %s\n", humanize.Bytes(uint64(sessionMaxBytes))) //nolint:gosec // validated positive
	return nil
}

func runSettingsSummary(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	if err := settingsService.SetSummaryRate(summaryRate); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	if summaryRate == 0 {
		cmd.Println("Summary rate limit removed")
	} else {
		cmd.Printf("Summary rate limit set to %d per minute\n", summaryRate)
	}
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal, otherwise a line
// from the buffered reader.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
