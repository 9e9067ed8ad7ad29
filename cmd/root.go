package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/conf"

	"github.com/qx/budget_robot/internal/config"
)

var flagConfigFile string

var rootCmd = &cobra.Command{
	Use:          "budget",
	Short:        "Daily budget tracker",
	Long:         "Budget tracker with a JSON API for the web app and a Telegram bot.",
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfigFile, "config", "f", "etc/budget.yaml", "the config file")
}

// loadConfig reads the config file, expanding ${ENV} references.
func loadConfig() config.Config {
	var c config.Config
	conf.MustLoad(flagConfigFile, &c, conf.UseEnv())
	return c
}
