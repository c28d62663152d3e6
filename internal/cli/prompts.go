package cli

import (
	"fmt"

	"github.com/rahul/sarthi/internal/planner"
	"github.com/spf13/cobra"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Write the built-in prompts to the prompt directory for editing",
	Args:  cobra.NoArgs,
	RunE:  runPromptsCmd,
}

func init() {
	rootCmd.AddCommand(promptsCmd)
}

func runPromptsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pm := planner.NewPromptManager(cfg.App.Prompts)
	if err := pm.WriteDefaults(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Prompts written to %s\n", cfg.App.Prompts)
	return nil
}
