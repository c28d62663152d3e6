package executor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rahul/sarthi/internal/delegate"
	"github.com/rahul/sarthi/internal/plan"
)

// recordingRunner echoes each task id into a string output and records the
// order and contexts it saw.
type recordingRunner struct {
	order    []string
	contexts map[string]*delegate.Context
	failOn   string
}

func (r *recordingRunner) Run(ctx context.Context, task *plan.Task, dctx *delegate.Context) (*delegate.RunResult, error) {
	if r.contexts == nil {
		r.contexts = make(map[string]*delegate.Context)
	}
	r.order = append(r.order, task.ID)
	r.contexts[task.ID] = dctx

	if task.ID == r.failOn {
		return nil, errors.New("boom")
	}

	values := make([]delegate.Value, 0, len(task.Outputs))
	for range task.Outputs {
		values = append(values, delegate.Value{Type: plan.TypeString, Raw: "from " + task.ID})
	}
	return delegate.NewRunResult(task.ID, values)
}

func pipelinePlan() *plan.TaskPlan {
	out := []plan.Output{{Description: "out", Type: plan.TypeString}}
	in := []plan.Input{{Description: "out", Type: plan.TypeString}}
	return &plan.TaskPlan{
		Objective: "pipeline",
		Tasks: []plan.Task{
			{ID: "final", Prompt: "p", DependsOn: []plan.Dependency{
				{TaskID: "left", Inputs: in},
				{TaskID: "right", Inputs: in},
			}, Outputs: out},
			{ID: "root", Prompt: "p", Outputs: out},
			{ID: "left", Prompt: "p", DependsOn: []plan.Dependency{{TaskID: "root", Inputs: in}}, Outputs: out},
			{ID: "right", Prompt: "p", DependsOn: []plan.Dependency{{TaskID: "root", Inputs: in}}, Outputs: out},
		},
	}
}

func TestExecutor_RunsInDependencyOrder(t *testing.T) {
	runner := &recordingRunner{}
	exec := New(pipelinePlan(), runner)

	if err := exec.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	pos := map[string]int{}
	for i, id := range runner.order {
		pos[id] = i
	}
	if pos["root"] > pos["left"] || pos["root"] > pos["right"] {
		t.Errorf("root must run before left and right: %v", runner.order)
	}
	if pos["final"] < pos["left"] || pos["final"] < pos["right"] {
		t.Errorf("final must run after left and right: %v", runner.order)
	}

	if len(exec.Results) != 4 {
		t.Errorf("expected 4 results, got %d", len(exec.Results))
	}
}

func TestExecutor_BuildsDependencyContext(t *testing.T) {
	runner := &recordingRunner{}
	exec := New(pipelinePlan(), runner)

	if err := exec.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	dctx := runner.contexts["final"]
	if len(dctx.DependencyResults) != 2 {
		t.Fatalf("final should see 2 dependency results, got %d", len(dctx.DependencyResults))
	}
	if dctx.DependencyResults["left"].Outputs[0].Raw != "from left" {
		t.Errorf("unexpected upstream value: %v", dctx.DependencyResults["left"].Outputs[0].Raw)
	}
	if dctx.DependencyTasks["right"].ID != "right" {
		t.Error("dependency task definitions should be passed through")
	}

	// Root has no dependencies and must see an empty context.
	if len(runner.contexts["root"].DependencyResults) != 0 {
		t.Error("root should have no dependency results")
	}
}

func TestExecutor_StopsOnFailure(t *testing.T) {
	runner := &recordingRunner{failOn: "left"}
	exec := New(pipelinePlan(), runner)

	err := exec.Execute(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if _, ran := exec.Results["final"]; ran {
		t.Error("final must not run after an upstream failure")
	}
}

func TestExecutor_CycleFailsUpFront(t *testing.T) {
	p := &plan.TaskPlan{Objective: "cycle", Tasks: []plan.Task{
		{ID: "a", DependsOn: []plan.Dependency{{TaskID: "b"}}},
		{ID: "b", DependsOn: []plan.Dependency{{TaskID: "a"}}},
	}}

	runner := &recordingRunner{}
	if err := New(p, runner).Execute(context.Background()); err == nil {
		t.Fatal("expected cycle error, got nil")
	}
	if len(runner.order) != 0 {
		t.Errorf("no task should run on a cyclic plan, ran: %v", runner.order)
	}
}

func TestExecutor_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &recordingRunner{}
	err := New(pipelinePlan(), runner).Execute(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(runner.order) != 0 {
		t.Errorf("no task should run after cancellation, ran: %v", runner.order)
	}
}

type memoryStore struct {
	saved []string
}

func (m *memoryStore) SaveResult(planID int64, result *delegate.RunResult) error {
	m.saved = append(m.saved, fmt.Sprintf("%d/%s", planID, result.TaskID))
	return nil
}

func TestExecutor_PersistsResults(t *testing.T) {
	runner := &recordingRunner{}
	store := &memoryStore{}

	exec := New(pipelinePlan(), runner)
	exec.Store = store
	exec.PlanID = 7

	if err := exec.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(store.saved) != 4 {
		t.Errorf("expected 4 persisted results, got %v", store.saved)
	}
	if store.saved[0] != "7/root" {
		t.Errorf("first persisted result = %s, want 7/root", store.saved[0])
	}
}
