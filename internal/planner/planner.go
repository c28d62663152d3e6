// Package planner turns a natural-language objective into a validated
// TaskPlan by prompting an LLM through a function-call boundary.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rahul/sarthi/internal/cost"
	"github.com/rahul/sarthi/internal/observability"
	"github.com/rahul/sarthi/internal/plan"
	"github.com/tmc/langchaingo/llms"
)

const submitPlanTool = "submit_task_plan"

// DefaultRetries bounds how often a malformed or invalid plan is sent back
// to the model for another attempt.
const DefaultRetries = 5

// Planner is the decomposition agent. The model must answer through the
// submit_task_plan function; its arguments are parsed into a TaskPlan and
// validated, and validation issues are fed back for another attempt.
type Planner struct {
	Model     llms.Model
	Prompts   *PromptManager
	Validator *plan.Validator
	Logger    *observability.Logger
	Retries   int
}

func New(model llms.Model, prompts *PromptManager, logger *observability.Logger) *Planner {
	return &Planner{
		Model:     model,
		Prompts:   prompts,
		Validator: plan.NewValidator(),
		Logger:    logger,
		Retries:   DefaultRetries,
	}
}

// Decompose produces a validated TaskPlan for the objective, along with the
// token usage accumulated across all attempts.
func (p *Planner) Decompose(ctx context.Context, objective string) (*plan.TaskPlan, cost.Usage, error) {
	var usage cost.Usage

	observability.SetStatus(observability.PhasePlanning, objective)
	defer observability.SetStatus(observability.PhaseIdle, "")

	plannerTools := []llms.Tool{{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        submitPlanTool,
			Description: "Submit the complete decomposed task plan for the user's objective.",
			Parameters:  plan.Schema(),
		},
	}}

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(p.Prompts.GetPlannerPrompt())},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(objective)},
		},
	}

	retries := p.Retries
	if retries <= 0 {
		retries = DefaultRetries
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		resp, err := p.Model.GenerateContent(ctx, messages, llms.WithTools(plannerTools))
		if err != nil {
			return nil, usage, fmt.Errorf("planner model call failed: %w", err)
		}
		usage.Add(cost.FromResponse(resp))

		choice := resp.Choices[0]

		var planCall *llms.ToolCall
		for i := range choice.ToolCalls {
			if choice.ToolCalls[i].FunctionCall.Name == submitPlanTool {
				planCall = &choice.ToolCalls[i]
				break
			}
		}

		if planCall == nil {
			// The model answered in prose; push it back to the function.
			messages = append(messages, llms.MessageContent{
				Role:  llms.ChatMessageTypeAI,
				Parts: []llms.ContentPart{llms.TextContent{Text: choice.Content}},
			})
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeHuman,
				Parts: []llms.ContentPart{llms.TextPart(
					"Do not answer in plain text. Call " + submitPlanTool + " with the full task plan.",
				)},
			})
			lastErr = fmt.Errorf("model did not call %s", submitPlanTool)
			continue
		}

		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeAI,
			Parts: []llms.ContentPart{*planCall},
		})

		taskPlan, perr := parsePlan(planCall.FunctionCall.Arguments)
		if perr == nil {
			if issues := p.Validator.Validate(taskPlan); len(issues) > 0 {
				perr = fmt.Errorf("plan failed validation: %s", formatIssues(issues))
			}
		}

		if perr != nil {
			lastErr = perr
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: planCall.ID,
					Name:       submitPlanTool,
					Content:    fmt.Sprintf("Rejected: %v. Fix the plan and call %s again.", perr, submitPlanTool),
				}},
			})
			continue
		}

		p.Logger.LogPlan("", taskPlan.Objective, len(taskPlan.Tasks))
		return taskPlan, usage, nil
	}

	return nil, usage, fmt.Errorf("planner gave no valid plan after %d attempts: %w", retries, lastErr)
}

func parsePlan(arguments string) (*plan.TaskPlan, error) {
	var taskPlan plan.TaskPlan
	if err := json.Unmarshal([]byte(arguments), &taskPlan); err != nil {
		return nil, fmt.Errorf("plan is not valid JSON: %v", err)
	}
	if taskPlan.Objective == "" {
		return nil, fmt.Errorf("plan is missing an objective")
	}
	if len(taskPlan.Tasks) == 0 {
		return nil, fmt.Errorf("plan contains no tasks")
	}
	return &taskPlan, nil
}

func formatIssues(issues []plan.Issue) string {
	parts := make([]string, len(issues))
	for i, issue := range issues {
		parts[i] = issue.String()
	}
	return strings.Join(parts, "; ")
}
