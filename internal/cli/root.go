package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "sarthi",
	Short: "Decompose objectives into task graphs executed by delegate agents",
	Long: `sarthi turns a natural-language objective into a typed task plan: a
dependency graph of prompts, each executed by a separate LLM-backed delegate
agent. Plans are validated (unique ids, resolvable dependencies, matching
input/output types, no cycles), persisted, and can be executed in dependency
order with upstream outputs fed into downstream delegates.`,
	SilenceUsage: true,
}

// ExecuteContext runs the root command with the given context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.json", "path to the config file")
}
