package main

import (
	"fmt"
	"os"

	"kb-console/internal/app"
	"kb-console/internal/backend"
	"kb-console/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	version          = "1.0.0"
	defaultServerURL = "http://127.0.0.1:5000"
)

func main() {
	root := &cobra.Command{
		Use:     "kbc",
		Short:   "kbc - chat console for a document-search service",
		Long:    "kbc is a terminal chat console for conversing with a document-search backend and browsing prior conversations.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The backend this console talks to is configured through a
			// .env file; pick it up when present.
			_ = godotenv.Load()

			configPath, _ := cmd.Flags().GetString("config")
			if configPath == "" {
				configPath = app.DefaultConfigPath()
			}
			cfg, err := app.LoadConfig(configPath)
			if err != nil {
				return err
			}

			if serverFlag, _ := cmd.Flags().GetString("server"); serverFlag != "" {
				cfg.ServerURL = serverFlag
			}
			if cfg.ServerURL == "" {
				cfg.ServerURL = os.Getenv("KB_SERVER_URL")
			}
			if cfg.ServerURL == "" {
				cfg.ServerURL = defaultServerURL
			}
			if logFlag, _ := cmd.Flags().GetString("log-file"); logFlag != "" {
				cfg.LogFile = logFlag
			}

			logger := app.NewLogger(cfg.LogFile)
			defer logger.Sync()

			logger.Info("main", "starting console", map[string]interface{}{
				"server":  cfg.ServerURL,
				"version": version,
			})

			client := backend.NewClient(cfg, logger)
			p := tea.NewProgram(tui.New(client, logger))
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}

	root.Flags().String("server", "", "Base URL of the search service")
	root.Flags().String("config", "", "Path to the config file")
	root.Flags().String("log-file", "", "Path to the log file")

	completionCmd := &cobra.Command{
		Use:   "completion [shell]",
		Short: "Generate shell completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(os.Stdout)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
	root.AddCommand(completionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
