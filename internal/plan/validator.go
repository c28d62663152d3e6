package plan

import "fmt"

// Issue describes a single structural problem found in a TaskPlan.
type Issue struct {
	TaskID string
	Reason string
}

func (i Issue) String() string {
	if i.TaskID == "" {
		return i.Reason
	}
	return fmt.Sprintf("task %s: %s", i.TaskID, i.Reason)
}

// Validator checks the structural and semantic correctness of a TaskPlan:
// unique task ids, resolvable dependencies, input/output compatibility, and
// an acyclic dependency graph.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate returns every issue found in the plan. An empty slice means the
// plan is valid.
func (v *Validator) Validate(p *TaskPlan) []Issue {
	var issues []Issue

	byID := make(map[string]*Task, len(p.Tasks))
	for i := range p.Tasks {
		task := &p.Tasks[i]
		if _, dup := byID[task.ID]; dup {
			issues = append(issues, Issue{TaskID: task.ID, Reason: "duplicate task id"})
			continue
		}
		byID[task.ID] = task
	}

	for i := range p.Tasks {
		task := &p.Tasks[i]
		for _, dep := range task.DependsOn {
			producer, ok := byID[dep.TaskID]
			if !ok {
				issues = append(issues, Issue{
					TaskID: task.ID,
					Reason: fmt.Sprintf("depends on unknown task %q", dep.TaskID),
				})
				continue
			}
			issues = append(issues, checkIO(task, dep, producer)...)
		}
	}

	if _, err := NewGraph(p).SortedIDs(); err != nil {
		issues = append(issues, Issue{Reason: err.Error()})
	}

	return issues
}

// Valid is a convenience wrapper that reports whether the plan has no issues.
func (v *Validator) Valid(p *TaskPlan) bool {
	return len(v.Validate(p)) == 0
}

// checkIO verifies that a dependency's declared inputs line up with the
// producer task's outputs, both in count and position-wise type.
func checkIO(consumer *Task, dep Dependency, producer *Task) []Issue {
	var issues []Issue

	if len(dep.Inputs) != len(producer.Outputs) {
		issues = append(issues, Issue{
			TaskID: consumer.ID,
			Reason: fmt.Sprintf(
				"dependency %s declares %d inputs but the task produces %d outputs",
				dep.TaskID, len(dep.Inputs), len(producer.Outputs),
			),
		})
		return issues
	}

	for i, in := range dep.Inputs {
		if in.Type != producer.Outputs[i].Type {
			issues = append(issues, Issue{
				TaskID: consumer.ID,
				Reason: fmt.Sprintf(
					"dependency %s input %d has type %s but the task outputs %s",
					dep.TaskID, i, in.Type, producer.Outputs[i].Type,
				),
			})
		}
	}

	return issues
}
