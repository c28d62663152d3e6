package cli

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/rahul/sarthi/internal/delegate"
	"github.com/rahul/sarthi/internal/executor"
	"github.com/rahul/sarthi/internal/governance"
	"github.com/rahul/sarthi/internal/observability"
	"github.com/rahul/sarthi/internal/plan"
	"github.com/rahul/sarthi/internal/planner"
	"github.com/rahul/sarthi/internal/store"
	"github.com/rahul/sarthi/internal/tools"
	"github.com/spf13/cobra"
)

var runNoop bool

var runCmd = &cobra.Command{
	Use:   "run <plan-file|plan-id>",
	Short: "Execute a plan in dependency order",
	Long: `run loads a plan from a file or from the store by numeric id, validates
it, and executes each task with a delegate agent in topological order. The
outputs of completed tasks are fed into the delegates of the tasks that
depend on them.`,
	Args: cobra.ExactArgs(1),
	RunE: runRunCmd,
}

func init() {
	runCmd.Flags().BoolVar(&runNoop, "noop", false, "use the no-op runner instead of calling a model")
	rootCmd.AddCommand(runCmd)
}

func runRunCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := store.NewPlanStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open plan store: %v", err)
	}
	defer s.Close()

	// Numeric arguments name stored plans; everything else is a file path.
	var taskPlan *plan.TaskPlan
	var planID int64
	if id, convErr := strconv.ParseInt(args[0], 10, 64); convErr == nil {
		rec, err := s.GetPlan(id)
		if err != nil {
			return err
		}
		taskPlan = rec.Plan
		planID = rec.ID
	} else {
		taskPlan, err = plan.Load(args[0])
		if err != nil {
			return err
		}
		planID, err = s.SavePlan(taskPlan)
		if err != nil {
			return fmt.Errorf("failed to save plan: %v", err)
		}
	}

	if issues := plan.NewValidator().Validate(taskPlan); len(issues) > 0 {
		for _, issue := range issues {
			fmt.Fprintln(cmd.ErrOrStderr(), issue.String())
		}
		return fmt.Errorf("refusing to run an invalid plan (%d issue(s))", len(issues))
	}

	logger := observability.NewLogger()

	var runner delegate.Runner
	var agent *delegate.AgentRunner
	var modelName string
	if runNoop {
		runner = delegate.NoopRunner{}
	} else {
		model, name, err := buildModel(cfg)
		if err != nil {
			return err
		}
		modelName = name

		var registry *tools.Registry
		if cfg.Delegate.ToolsEnabled {
			registry = tools.NewRegistry()
			if searchTool, err := tools.NewSearchTool(); err != nil {
				log.Printf("Warning: failed to initialize search tool: %v", err)
			} else {
				registry.Register(searchTool)
			}
			registry.Register(tools.NewScraperTool())
		}

		gov := governance.NewDefaultPolicyEngine()
		// Keep delegates away from local and internal addresses.
		_ = gov.DenyArguments(`file://`)
		_ = gov.DenyArguments(`169\.254\.`)

		prompts := planner.NewPromptManager(cfg.App.Prompts)
		agent = delegate.NewAgentRunner(model, registry, gov, logger, prompts.GetDelegatePrompt(), cfg.Delegate.MaxSteps)
		runner = agent
	}

	observability.PrintBanner()
	log.SetOutput(observability.NewTermWriter())

	// Live status line while tasks execute.
	if !runNoop {
		go func() {
			ticker := time.NewTicker(1 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					observability.PrintLiveStatus()
				}
			}
		}()
	}

	exec := executor.New(taskPlan, runner)
	exec.Store = s
	exec.PlanID = planID
	exec.Logger = logger

	execErr := exec.Execute(ctx)
	observability.ClearLiveStatus()
	if execErr != nil {
		return execErr
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Objective: %s\n\n", taskPlan.Objective)

	sortedIDs, err := plan.NewGraph(taskPlan).SortedIDs()
	if err != nil {
		return err
	}
	for _, id := range sortedIDs {
		result := exec.Results[id]
		task := taskPlan.TaskByID(id)
		fmt.Fprintf(out, "Task %s:\n", id)
		for i, v := range result.Outputs {
			desc := ""
			if task != nil && i < len(task.Outputs) {
				desc = task.Outputs[i].Description
			}
			fmt.Fprintf(out, "  (%s) %s: %v\n", v.Type, desc, v.Raw)
		}
		fmt.Fprintln(out)
	}

	if agent != nil {
		printCost(out, cfg, modelName, agent.Usage())
	}
	return nil
}
