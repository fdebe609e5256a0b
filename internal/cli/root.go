package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/onescan/internal/camera"
	"github.com/existflow/onescan/internal/config"
	"github.com/existflow/onescan/internal/logger"
	"github.com/existflow/onescan/internal/tui"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	logFile    string
	logConsole bool
	baseURL    string
)

var rootCmd = &cobra.Command{
	Use:   "onescan",
	Short: "OneScan - batch QR check-in client",
	Long: `OneScan manages multiple sets of credentials and fans a single scanned
QR code out into batched login/check-in requests against an attendance backend.

Run 'onescan' without arguments to launch the interactive TUI.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			cfg = config.DefaultConfig()
		}

		// Override with CLI flags if provided
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
		}
		if cmd.Flags().Changed("base-url") {
			cfg.BaseURL = baseURL
		}
		loadedConfig = cfg

		logConfig := logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			FilePath:   cfg.LogFile,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxBackups: 5,
			Console:    cfg.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("OneScan started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps()
		if err != nil {
			logger.Error("Failed to open account store", logger.F("error", err))
			return fmt.Errorf("failed to open account store: %w", err)
		}
		defer d.Close()

		logger.Info("Launching TUI")
		m := tui.NewModel(d.store, d.rec, d.client, camera.NewManualEngine(), d.cfg)
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("OneScan exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// loadedConfig is populated by the persistent pre-run for subcommands.
var loadedConfig *config.Config

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Attendance backend endpoint")

	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(checkinCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statusCmd)
}
