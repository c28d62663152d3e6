package plan

// DataType is the set of primitive types a task input or output can carry.
// Values produced by delegates are validated against these before they are
// passed downstream.
type DataType string

const (
	TypeString  DataType = "string"
	TypeInteger DataType = "integer"
	TypeFloat   DataType = "float"
	TypeBoolean DataType = "boolean"
)

// Valid reports whether t is one of the known data types.
func (t DataType) Valid() bool {
	switch t {
	case TypeString, TypeInteger, TypeFloat, TypeBoolean:
		return true
	}
	return false
}

// Input describes a value a task expects to receive from an upstream task.
type Input struct {
	Description string   `json:"description" yaml:"description"`
	Type        DataType `json:"type" yaml:"type"`
}

// Output describes a value a task must produce for downstream tasks.
type Output struct {
	Description string   `json:"description" yaml:"description"`
	Type        DataType `json:"type" yaml:"type"`
}

// Dependency links a task to an upstream task whose outputs it consumes.
// Inputs mirror the upstream task's declared outputs.
type Dependency struct {
	TaskID string  `json:"taskId" yaml:"taskId"`
	Inputs []Input `json:"inputs" yaml:"inputs"`
}

// Task is a single unit of agent work. Its prompt is executed by a delegate
// agent that sees only the prompt and the outputs of the tasks it depends on.
type Task struct {
	ID        string       `json:"id" yaml:"id"`
	Prompt    string       `json:"prompt" yaml:"prompt"`
	DependsOn []Dependency `json:"dependsOn" yaml:"dependsOn"`
	Inputs    []Input      `json:"inputs" yaml:"inputs"`
	Outputs   []Output     `json:"outputs" yaml:"outputs"`
}

// TaskPlan is the decomposition of one objective into a dependency graph of
// tasks.
type TaskPlan struct {
	Objective string `json:"objective" yaml:"objective"`
	Tasks     []Task `json:"tasks" yaml:"tasks"`
}

// TaskByID returns the task with the given id, or nil if the plan has none.
func (p *TaskPlan) TaskByID(id string) *Task {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i]
		}
	}
	return nil
}
