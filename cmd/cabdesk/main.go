package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Veraticus/cabdesk/internal/common"
	"github.com/Veraticus/cabdesk/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	logFile *os.File
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "cabdesk",
		Short: "🚕 Taxi fleet data entry and dashboard",
		Long: `cabdesk: A terminal front end for a taxi fleet's business data.

Record daily trips, expenses, payments and salaries per cab, and browse
monthly and daily summaries computed by the fleet API.

Run without a subcommand to open the interactive dashboard.`,
		RunE:         runUI,
		SilenceUsage: true,
	}
)

func init() {
	// Assigned here rather than in the literal: initConfig refers back to
	// rootCmd via isInteractive, which would be an initialization cycle.
	rootCmd.PersistentPreRunE = initConfig

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/cabdesk/config.yaml)")
	rootCmd.PersistentFlags().String("api-url", config.DefaultAPIURL, "fleet API base URL")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("log-file", "", "log file for the interactive UI (default: discarded)")

	// Bind flags to viper
	_ = viper.BindPFlag(config.KeyAPIBaseURL, rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag(config.KeyLogFile, rootCmd.PersistentFlags().Lookup("log-file"))

	// Add commands
	rootCmd.AddCommand(uiCmd())
	rootCmd.AddCommand(cabsCmd())
	rootCmd.AddCommand(entryCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel() // Always cleanup
	if logFile != nil {
		_ = logFile.Close()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	// A .env file is optional
	_ = godotenv.Load()

	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := config.ConfigDir()
		if err != nil {
			return err
		}

		// Search for config in standard locations
		viper.AddConfigPath(dir)
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables: CABDESK_API_BASE_URL, CABDESK_LOGGING_LEVEL, ...
	viper.SetEnvPrefix(config.AppName)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	// Set up logging
	w, err := logWriter(isInteractive(cmd))
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	if err := setupLogging(w); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

// isInteractive reports whether cmd takes over the terminal.
func isInteractive(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd.Name() == "ui"
}

// logWriter picks the log destination. The interactive UI owns the screen,
// so it logs to logging.file or nowhere.
func logWriter(interactive bool) (io.Writer, error) {
	if !interactive {
		return os.Stderr, nil
	}

	path := config.ExpandPath(viper.GetString(config.KeyLogFile))
	if path == "" {
		return io.Discard, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}
	logFile = f
	return f, nil
}

func setupLogging(w io.Writer) error {
	level, err := common.ParseLevel(viper.GetString(config.KeyLogLevel))
	if err != nil {
		return err
	}

	logger, err := common.NewLogger(w, level, viper.GetString(config.KeyLogFormat))
	if err != nil {
		return err
	}

	// Set default logger
	slog.SetDefault(logger)

	return nil
}
