package store

import (
	"path/filepath"
	"testing"

	"github.com/rahul/sarthi/internal/delegate"
	"github.com/rahul/sarthi/internal/plan"
)

func testStore(t *testing.T) *PlanStore {
	t.Helper()
	s, err := NewPlanStore(filepath.Join(t.TempDir(), "sarthi.db"))
	if err != nil {
		t.Fatalf("NewPlanStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func storedPlan() *plan.TaskPlan {
	return &plan.TaskPlan{
		Objective: "write a report",
		Tasks: []plan.Task{
			{ID: "research", Prompt: "p", Outputs: []plan.Output{{Description: "facts", Type: plan.TypeString}}},
		},
	}
}

func TestPlanStore_SaveAndGetPlan(t *testing.T) {
	s := testStore(t)

	id, err := s.SavePlan(storedPlan())
	if err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	rec, err := s.GetPlan(id)
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}
	if rec.Objective != "write a report" {
		t.Errorf("objective = %q", rec.Objective)
	}
	if len(rec.Plan.Tasks) != 1 || rec.Plan.Tasks[0].ID != "research" {
		t.Errorf("unexpected plan body: %+v", rec.Plan)
	}

	if _, err := s.GetPlan(id + 100); err == nil {
		t.Error("expected error for unknown plan id")
	}
}

func TestPlanStore_ListPlans(t *testing.T) {
	s := testStore(t)

	first, err := s.SavePlan(storedPlan())
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.SavePlan(storedPlan())
	if err != nil {
		t.Fatal(err)
	}

	records, err := s.ListPlans()
	if err != nil {
		t.Fatalf("ListPlans failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(records))
	}
	// Newest first
	if records[0].ID != second || records[1].ID != first {
		t.Errorf("unexpected order: %d, %d", records[0].ID, records[1].ID)
	}
}

func TestPlanStore_Results(t *testing.T) {
	s := testStore(t)

	id, err := s.SavePlan(storedPlan())
	if err != nil {
		t.Fatal(err)
	}

	result, err := delegate.NewRunResult("research", []delegate.Value{
		{Type: plan.TypeString, Raw: "fact one"},
		{Type: plan.TypeInteger, Raw: 3},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveResult(id, result); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	results, err := s.GetResults(id)
	if err != nil {
		t.Fatalf("GetResults failed: %v", err)
	}
	got, ok := results["research"]
	if !ok {
		t.Fatal("missing result for task research")
	}
	if got.Outputs[0].Raw != "fact one" {
		t.Errorf("output 0 = %v", got.Outputs[0].Raw)
	}
	// Round-tripped through JSON, so numbers come back as float64.
	if got.Outputs[1].Raw != 3.0 {
		t.Errorf("output 1 = %v", got.Outputs[1].Raw)
	}
}
