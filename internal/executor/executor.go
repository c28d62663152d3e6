// Package executor runs a validated TaskPlan in dependency order, feeding
// each task's outputs into the delegates of the tasks that depend on it.
package executor

import (
	"context"
	"fmt"

	"github.com/rahul/sarthi/internal/delegate"
	"github.com/rahul/sarthi/internal/observability"
	"github.com/rahul/sarthi/internal/plan"
)

// ResultStore persists delegate run results. The sqlite store satisfies
// this; tests use stubs.
type ResultStore interface {
	SaveResult(planID int64, result *delegate.RunResult) error
}

// Executor walks a TaskPlan in topological order and delegates each task.
type Executor struct {
	Plan   *plan.TaskPlan
	Runner delegate.Runner
	Store  ResultStore
	Logger *observability.Logger
	PlanID int64

	// Results holds the outcome of every completed task, keyed by task id.
	Results map[string]*delegate.RunResult
}

func New(p *plan.TaskPlan, runner delegate.Runner) *Executor {
	return &Executor{
		Plan:    p,
		Runner:  runner,
		Results: make(map[string]*delegate.RunResult),
	}
}

// Execute runs every task in the plan. Tasks run sequentially in
// topological order; execution stops at the first failed task or when ctx
// is cancelled.
func (e *Executor) Execute(ctx context.Context) error {
	sortedIDs, err := plan.NewGraph(e.Plan).SortedIDs()
	if err != nil {
		return err
	}

	planKey := fmt.Sprintf("%d", e.PlanID)

	for _, id := range sortedIDs {
		if err := ctx.Err(); err != nil {
			return err
		}

		task := e.Plan.TaskByID(id)
		if task == nil {
			return fmt.Errorf("task with id %q not found in plan", id)
		}

		dctx, err := e.buildContext(task)
		if err != nil {
			return err
		}

		observability.SetStatus(observability.PhaseExecuting, task.ID)
		e.Logger.LogTask(planKey, task.ID, "in_progress")

		result, err := e.Runner.Run(ctx, task, dctx)
		if err != nil {
			e.Logger.LogTask(planKey, task.ID, "failed")
			return fmt.Errorf("task %s failed: %w", task.ID, err)
		}

		e.Results[task.ID] = result
		e.Logger.LogTask(planKey, task.ID, "completed")

		if e.Store != nil {
			if err := e.Store.SaveResult(e.PlanID, result); err != nil {
				return fmt.Errorf("failed to persist result of task %s: %v", task.ID, err)
			}
		}
	}

	observability.SetStatus(observability.PhaseIdle, "")
	return nil
}

// buildContext assembles the delegate context for a task from its declared
// dependencies and the results collected so far.
func (e *Executor) buildContext(task *plan.Task) (*delegate.Context, error) {
	dctx := &delegate.Context{
		DependencyTasks:   make(map[string]*plan.Task),
		DependencyResults: make(map[string]*delegate.RunResult),
	}

	for _, dep := range task.DependsOn {
		depTask := e.Plan.TaskByID(dep.TaskID)
		if depTask == nil {
			return nil, fmt.Errorf("dependency task %q not found in plan while preparing task %q", dep.TaskID, task.ID)
		}
		result, ok := e.Results[dep.TaskID]
		if !ok {
			return nil, fmt.Errorf("result of dependency %q not available while preparing task %q", dep.TaskID, task.ID)
		}
		dctx.DependencyTasks[dep.TaskID] = depTask
		dctx.DependencyResults[dep.TaskID] = result
	}

	return dctx, nil
}
