package cli

import (
	"fmt"

	"github.com/rahul/sarthi/internal/plan"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <plan-file>",
	Short: "Check a plan file for structural problems",
	Long: `validate loads a plan from a YAML or JSON file and checks it: task ids
must be unique, every dependency must reference an existing task, dependency
inputs must match the referenced task's outputs in count and type, and the
dependency graph must be acyclic.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidateCmd,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidateCmd(cmd *cobra.Command, args []string) error {
	taskPlan, err := plan.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	issues := plan.NewValidator().Validate(taskPlan)
	if len(issues) == 0 {
		fmt.Fprintf(out, "Plan is valid: %d tasks, objective %q\n", len(taskPlan.Tasks), taskPlan.Objective)
		return nil
	}

	for _, issue := range issues {
		fmt.Fprintln(out, issue.String())
	}
	return fmt.Errorf("plan has %d issue(s)", len(issues))
}
