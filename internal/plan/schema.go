package plan

import (
	"encoding/json"
	"fmt"
)

// jsonType maps a DataType to its JSON Schema type name.
func jsonType(t DataType) (string, error) {
	switch t {
	case TypeString:
		return "string", nil
	case TypeInteger:
		return "integer", nil
	case TypeFloat:
		return "number", nil
	case TypeBoolean:
		return "boolean", nil
	}
	return "", fmt.Errorf("unsupported data type: %q", t)
}

// OutputsParameters builds the JSON Schema a delegate agent must satisfy
// when submitting its outputs, in the shape langchaingo expects for function
// parameters. Each declared output becomes a required property named
// item_0..item_{n-1}, matching the declaration order.
func (t *Task) OutputsParameters() (map[string]any, error) {
	properties := map[string]any{}
	required := []string{}

	for i, out := range t.Outputs {
		jt, err := jsonType(out.Type)
		if err != nil {
			return nil, fmt.Errorf("task %s output %d: %v", t.ID, i, err)
		}
		key := fmt.Sprintf("item_%d", i)
		properties[key] = map[string]any{
			"type":        jt,
			"description": out.Description,
		}
		required = append(required, key)
	}

	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}, nil
}

// OutputsSchema is OutputsParameters rendered as a JSON string.
func (t *Task) OutputsSchema() (string, error) {
	schema, err := t.OutputsParameters()
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("failed to marshal outputs schema: %v", err)
	}
	return string(data), nil
}

// Schema returns the JSON Schema for a full TaskPlan, used as the parameter
// schema of the planner's submit_task_plan function call.
func Schema() map[string]any {
	typeEnum := []string{"string", "integer", "float", "boolean"}

	inputSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"description": map[string]any{
				"type":        "string",
				"description": "A description of the input which helps the prompted LLM understand what is being input",
			},
			"type": map[string]any{
				"type":        "string",
				"enum":        typeEnum,
				"description": "The basic type of the input, used for validation of the input",
			},
		},
		"required": []string{"description", "type"},
	}

	outputSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"description": map[string]any{
				"type":        "string",
				"description": "A description of the output which helps the prompted LLM understand what is required to output",
			},
			"type": map[string]any{
				"type":        "string",
				"enum":        typeEnum,
				"description": "The basic type of the output, used for validation of the output",
			},
		},
		"required": []string{"description", "type"},
	}

	dependencySchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"taskId": map[string]any{
				"type":        "string",
				"description": "The id of the task for this dependency",
			},
			"inputs": map[string]any{
				"type":        "array",
				"items":       inputSchema,
				"description": "The inputs required from the dependency. Must match the outputs of the referenced task in count and type.",
			},
		},
		"required": []string{"taskId", "inputs"},
	}

	taskSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{
				"type":        "string",
				"description": "A unique identifier for the task, referred to by dependencies.",
			},
			"prompt": map[string]any{
				"type":        "string",
				"description": "The LLM prompt for the delegate agent to run. Must follow the format: Role:, Intent:, Context:, Constraints:, Output:, and must explain the dependencies and outputs.",
			},
			"dependsOn": map[string]any{
				"type":        "array",
				"items":       dependencySchema,
				"description": "The tasks this task depends on and their outputs. Forms the dependency graph and ensures tasks run in the correct order.",
			},
			"inputs": map[string]any{
				"type":        "array",
				"items":       inputSchema,
				"description": "The input parameters required by this task. Empty if this task has no dependency. Must match the outputs of the dependant tasks.",
			},
			"outputs": map[string]any{
				"type":        "array",
				"items":       outputSchema,
				"description": "The output properties produced by this task. Inputs of downstream tasks must match these outputs.",
			},
		},
		"required": []string{"id", "prompt", "dependsOn", "inputs", "outputs"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"objective": map[string]any{
				"type":        "string",
				"description": "A clear restatement of the user's overall goal",
			},
			"tasks": map[string]any{
				"type":        "array",
				"items":       taskSchema,
				"description": "The tasks which must be completed to satisfy the objective. Forms a graph of prompts executed by delegate agents and fed into dependant tasks.",
			},
		},
		"required": []string{"objective", "tasks"},
	}
}
