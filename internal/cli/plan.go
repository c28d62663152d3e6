package cli

import (
	"fmt"

	"github.com/rahul/sarthi/internal/observability"
	"github.com/rahul/sarthi/internal/plan"
	"github.com/rahul/sarthi/internal/planner"
	"github.com/rahul/sarthi/internal/store"
	"github.com/spf13/cobra"
)

var planOutput string

var planCmd = &cobra.Command{
	Use:   "plan <objective>",
	Short: "Decompose an objective into a validated task plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanCmd,
}

func init() {
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "", "also write the plan to a YAML or JSON file")
	rootCmd.AddCommand(planCmd)
}

func runPlanCmd(cmd *cobra.Command, args []string) error {
	objective := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	model, modelName, err := buildModel(cfg)
	if err != nil {
		return err
	}

	logger := observability.NewLogger()
	prompts := planner.NewPromptManager(cfg.App.Prompts)

	pl := planner.New(model, prompts, logger)
	pl.Retries = cfg.Planner.Retries

	taskPlan, usage, err := pl.Decompose(cmd.Context(), objective)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printCost(out, cfg, modelName, usage)
	fmt.Fprintln(out)
	printPlan(out, taskPlan)

	s, err := store.NewPlanStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open plan store: %v", err)
	}
	defer s.Close()

	id, err := s.SavePlan(taskPlan)
	if err != nil {
		return fmt.Errorf("failed to save plan: %v", err)
	}
	fmt.Fprintf(out, "Saved as plan %d\n", id)

	if planOutput != "" {
		if err := plan.Save(taskPlan, planOutput); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", planOutput)
	}

	return nil
}
