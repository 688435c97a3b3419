// ABOUTME: Root command for the coffee CLI
// ABOUTME: Handles global flags, configuration, and launching the interactive storefront

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TagleD/coffee-app/internal/client"
	"github.com/TagleD/coffee-app/internal/config"
	"github.com/TagleD/coffee-app/internal/logger"
	"github.com/TagleD/coffee-app/internal/session"
	"github.com/TagleD/coffee-app/internal/tokens"
	"github.com/TagleD/coffee-app/internal/tui"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command; running it with no subcommand opens the TUI
var rootCmd = &cobra.Command{
	Use:   "coffee",
	Short: "Coffee-shop storefront and loyalty client",
	Long: `coffee is a terminal client for the CoffeeBeam storefront.

Running it with no arguments opens the interactive shop. Subcommands
provide scriptable access to the same API for quick checks.

Environment Variables:
  COFFEE_API_URL      Backend API URL (default: http://localhost:8456/api)
  COFFEE_CONFIG_DIR   Directory for persisted session tokens`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, cfg, err := newSession()
		if err != nil {
			return err
		}
		return tui.Run(sess, cfg)
	},
}

// shopCmd is an explicit alias for the default interactive mode
var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Open the interactive storefront",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, cfg, err := newSession()
		if err != nil {
			return err
		}
		return tui.Run(sess, cfg)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	logger.Init()
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides COFFEE_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.AddCommand(shopCmd)
}

// loadConfig resolves configuration, letting the --api-url flag win
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	return cfg, nil
}

// newSession builds the session manager over the persisted token store
func newSession() (*session.Manager, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.ConfigDir == "" {
		return nil, nil, fmt.Errorf("no config directory available; set COFFEE_CONFIG_DIR")
	}

	store := tokens.New(cfg.ConfigDir)
	sess := session.NewManager(cfg.APIURL, store, client.WithTimeout(cfg.HTTPTimeout))
	return sess, cfg, nil
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}
