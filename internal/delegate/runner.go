// Package delegate executes single tasks from a plan. The executor depends
// only on the Runner interface so that LLM-backed runners can be swapped for
// stubs in tests.
package delegate

import (
	"context"
	"fmt"
	"math"

	"github.com/rahul/sarthi/internal/plan"
)

// Runner executes one task with the context prepared from its dependencies.
type Runner interface {
	Run(ctx context.Context, task *plan.Task, dctx *Context) (*RunResult, error)
}

// Context carries everything a delegate may see beyond its own prompt: the
// tasks it depends on and their results.
type Context struct {
	DependencyTasks   map[string]*plan.Task
	DependencyResults map[string]*RunResult
}

// Value is a single typed output produced by a delegate.
type Value struct {
	Type plan.DataType `json:"type"`
	Raw  any           `json:"value"`
}

// RunResult is the immutable outcome of a delegate run: one value per output
// the task declared, in declaration order.
type RunResult struct {
	TaskID  string  `json:"task_id"`
	Outputs []Value `json:"outputs"`
}

// NewRunResult builds a RunResult, validating each value against its declared
// type. Integer values reject booleans and non-integral numbers; float values
// accept integers; string and boolean values accept only their own kind.
func NewRunResult(taskID string, outputs []Value) (*RunResult, error) {
	for i, v := range outputs {
		if err := checkValue(v.Type, v.Raw); err != nil {
			return nil, fmt.Errorf("output %d of task %s: %v", i, taskID, err)
		}
	}
	return &RunResult{TaskID: taskID, Outputs: outputs}, nil
}

func checkValue(t plan.DataType, raw any) error {
	switch t {
	case plan.TypeString:
		if _, ok := raw.(string); !ok {
			return fmt.Errorf("expected type string but got %T: %v", raw, raw)
		}
	case plan.TypeInteger:
		switch v := raw.(type) {
		case bool:
			return fmt.Errorf("expected type integer but got bool: %v", v)
		case int, int64:
		case float64:
			// JSON numbers always decode as float64; accept integral ones.
			if v != math.Trunc(v) {
				return fmt.Errorf("expected type integer but got non-integral number: %v", v)
			}
		default:
			return fmt.Errorf("expected type integer but got %T: %v", raw, raw)
		}
	case plan.TypeFloat:
		switch raw.(type) {
		case bool:
			return fmt.Errorf("expected type float but got bool: %v", raw)
		case int, int64, float64:
		default:
			return fmt.Errorf("expected type float but got %T: %v", raw, raw)
		}
	case plan.TypeBoolean:
		if _, ok := raw.(bool); !ok {
			return fmt.Errorf("expected type boolean but got %T: %v", raw, raw)
		}
	default:
		return fmt.Errorf("unsupported output type: %q", t)
	}
	return nil
}

// NoopRunner is a development stub that returns a zero value for every output
// the task declares, without calling a model.
type NoopRunner struct{}

func (NoopRunner) Run(ctx context.Context, task *plan.Task, dctx *Context) (*RunResult, error) {
	outputs := make([]Value, 0, len(task.Outputs))
	for _, out := range task.Outputs {
		var raw any
		switch out.Type {
		case plan.TypeString:
			raw = ""
		case plan.TypeInteger:
			raw = 0
		case plan.TypeFloat:
			raw = 0.0
		case plan.TypeBoolean:
			raw = false
		default:
			return nil, fmt.Errorf("task %s declares unsupported output type %q", task.ID, out.Type)
		}
		outputs = append(outputs, Value{Type: out.Type, Raw: raw})
	}
	return NewRunResult(task.ID, outputs)
}
