package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/galaxy-co-ai/results-roofing-sub001/internal/config"
	"github.com/galaxy-co-ai/results-roofing-sub001/internal/infrastructure/leadconnector"
	"github.com/galaxy-co-ai/results-roofing-sub001/internal/infrastructure/logger"
	"github.com/galaxy-co-ai/results-roofing-sub001/internal/ratelimit"
)

var version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "crmctl",
	Short: "CRM gateway CLI - talk to the CRM platform from the command line",
	Long: `crmctl drives the rate-limited CRM platform gateway.

Credentials come from the environment (CRM_API_KEY, CRM_LOCATION_ID);
a .env file in the working directory is loaded when present.

Examples:
  crmctl contacts lookup --email jane@example.com
  crmctl contacts list --limit 10
  crmctl conversations send-sms --contact C123 --message "Hi"
  crmctl pipelines counts --pipeline P456
  crmctl quota`,
	Version: version,
}

func init() {
	rootCmd.AddCommand(contactsCmd)
	rootCmd.AddCommand(conversationsCmd)
	rootCmd.AddCommand(pipelinesCmd)
	rootCmd.AddCommand(quotaCmd)
}

// newGateway wires config, logger, limiter and client for a command run.
func newGateway() (*leadconnector.Client, zerolog.Logger, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Logger{}, err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}

	limiter := ratelimit.New(cfg.RateLimitWindow, cfg.RateLimitMax)
	client, err := leadconnector.New(cfg, limiter, log)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	return client, log, nil
}

// printJSON renders a command result for human and script consumption alike.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show the current shared request quota",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newGateway()
		if err != nil {
			return err
		}
		return printJSON(client.Quota())
	},
}
