package delegate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rahul/sarthi/internal/cost"
	"github.com/rahul/sarthi/internal/governance"
	"github.com/rahul/sarthi/internal/observability"
	"github.com/rahul/sarthi/internal/plan"
	"github.com/rahul/sarthi/internal/tools"
	"github.com/tmc/langchaingo/llms"
)

const submitOutputsTool = "submit_outputs"

// AgentRunner executes a task by prompting an LLM-backed delegate. The
// delegate sees only the task prompt and the outputs of its dependencies,
// may call research tools, and must finish by calling submit_outputs with
// values matching the task's declared output schema.
type AgentRunner struct {
	Model        llms.Model
	Registry     *tools.Registry
	Policy       governance.PolicyEngine
	Logger       *observability.Logger
	SystemPrompt string
	MaxSteps     int

	usage cost.Usage
}

func NewAgentRunner(model llms.Model, registry *tools.Registry, policy governance.PolicyEngine, logger *observability.Logger, systemPrompt string, maxSteps int) *AgentRunner {
	if maxSteps <= 0 {
		maxSteps = 8
	}
	return &AgentRunner{
		Model:        model,
		Registry:     registry,
		Policy:       policy,
		Logger:       logger,
		SystemPrompt: systemPrompt,
		MaxSteps:     maxSteps,
	}
}

// Usage returns the token usage accumulated across all runs.
func (r *AgentRunner) Usage() cost.Usage {
	return r.usage
}

func (r *AgentRunner) Run(ctx context.Context, task *plan.Task, dctx *Context) (*RunResult, error) {
	params, err := task.OutputsParameters()
	if err != nil {
		return nil, err
	}

	llmTools := []llms.Tool{{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        submitOutputsTool,
			Description: "Submit the final outputs of this task. Must be called exactly once, with one value per declared output.",
			Parameters:  params,
		},
	}}
	if r.Registry != nil {
		for _, t := range r.Registry.Tools {
			llmTools = append(llmTools, llms.Tool{
				Type: "function",
				Function: &llms.FunctionDefinition{
					Name:        t.Name(),
					Description: t.Description(),
					Parameters:  t.Parameters(),
				},
			})
		}
	}

	var messages []llms.MessageContent
	if r.SystemPrompt != "" {
		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(r.SystemPrompt)},
		})
	}
	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(buildTaskMessage(task, dctx))},
	})

	for step := 0; step < r.MaxSteps; step++ {
		resp, err := r.Model.GenerateContent(ctx, messages, llms.WithTools(llmTools))
		if err != nil {
			return nil, fmt.Errorf("delegate model call failed for task %s: %w", task.ID, err)
		}
		r.usage.Add(cost.FromResponse(resp))

		choice := resp.Choices[0]

		var assistantParts []llms.ContentPart
		if choice.Content != "" {
			assistantParts = append(assistantParts, llms.TextContent{Text: choice.Content})
		}
		for _, tc := range choice.ToolCalls {
			assistantParts = append(assistantParts, tc)
		}
		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeAI,
			Parts: assistantParts,
		})

		if len(choice.ToolCalls) == 0 {
			// Text-only answers are not acceptable; outputs must arrive
			// through the submission tool.
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeHuman,
				Parts: []llms.ContentPart{llms.TextPart(
					"Do not answer in plain text. Call " + submitOutputsTool + " with the task's outputs.",
				)},
			})
			continue
		}

		for _, tc := range choice.ToolCalls {
			if tc.FunctionCall.Name == submitOutputsTool {
				result, perr := parseSubmission(task, tc.FunctionCall.Arguments)
				if perr == nil {
					return result, nil
				}
				messages = append(messages, toolResponse(tc, fmt.Sprintf("Rejected: %v. Fix the values and call %s again.", perr, submitOutputsTool)))
				continue
			}

			messages = append(messages, toolResponse(tc, r.callTool(ctx, task, tc)))
		}
	}

	return nil, fmt.Errorf("task %s: delegate did not submit outputs within %d steps", task.ID, r.MaxSteps)
}

// callTool runs a registry tool on behalf of the delegate, subject to the
// policy engine.
func (r *AgentRunner) callTool(ctx context.Context, task *plan.Task, tc llms.ToolCall) string {
	name := tc.FunctionCall.Name
	args := tc.FunctionCall.Arguments

	var tool tools.Tool
	if r.Registry != nil {
		tool = r.Registry.Get(name)
	}
	if tool == nil {
		return fmt.Sprintf("Error: Tool %s not found", name)
	}

	if r.Policy != nil {
		res, err := r.Policy.Evaluate(ctx, governance.Request{Tool: name, Arguments: args, TaskID: task.ID})
		if err != nil {
			return fmt.Sprintf("Error: policy evaluation failed: %v", err)
		}
		r.Logger.LogPolicy("", task.ID, name, string(res.Effect), res.Reason)
		if res.Effect == governance.EffectDeny {
			return fmt.Sprintf("Denied by policy: %s", res.Reason)
		}
	}

	r.Logger.LogToolCall("", task.ID, name, args)
	out, err := tool.Execute(ctx, args)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return out
}

func toolResponse(tc llms.ToolCall, content string) llms.MessageContent {
	return llms.MessageContent{
		Role: llms.ChatMessageTypeTool,
		Parts: []llms.ContentPart{
			llms.ToolCallResponse{
				ToolCallID: tc.ID,
				Name:       tc.FunctionCall.Name,
				Content:    content,
			},
		},
	}
}

// parseSubmission turns the submit_outputs arguments into a validated
// RunResult, matching item_i keys to the task's declared outputs in order.
func parseSubmission(task *plan.Task, arguments string) (*RunResult, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(arguments), &payload); err != nil {
		return nil, fmt.Errorf("outputs are not valid JSON: %v", err)
	}

	values := make([]Value, 0, len(task.Outputs))
	for i, out := range task.Outputs {
		key := fmt.Sprintf("item_%d", i)
		raw, ok := payload[key]
		if !ok {
			return nil, fmt.Errorf("missing output %s (%s)", key, out.Description)
		}
		values = append(values, Value{Type: out.Type, Raw: raw})
	}

	return NewRunResult(task.ID, values)
}

// buildTaskMessage renders the delegate's working message: the task prompt
// followed by the outputs of every dependency, in dependency declaration
// order.
func buildTaskMessage(task *plan.Task, dctx *Context) string {
	var b strings.Builder
	b.WriteString(task.Prompt)

	if dctx == nil || len(task.DependsOn) == 0 {
		return b.String()
	}

	b.WriteString("\n\n## Inputs from completed dependency tasks:\n")
	for _, dep := range task.DependsOn {
		depTask := dctx.DependencyTasks[dep.TaskID]
		result := dctx.DependencyResults[dep.TaskID]
		if depTask == nil || result == nil {
			continue
		}
		fmt.Fprintf(&b, "\n### Outputs of task %s:\n", dep.TaskID)
		for i, v := range result.Outputs {
			desc := ""
			if i < len(depTask.Outputs) {
				desc = depTask.Outputs[i].Description
			}
			fmt.Fprintf(&b, "- (%s) %s: %v\n", v.Type, desc, v.Raw)
		}
	}
	return b.String()
}
