package delegate

import (
	"context"
	"strings"
	"testing"

	"github.com/rahul/sarthi/internal/plan"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel replays scripted responses and records the messages it was
// called with.
type fakeModel struct {
	responses []*llms.ContentResponse
	calls     [][]llms.MessageContent
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls = append(f.calls, messages)
	if len(f.responses) == 0 {
		return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "out of script"}}}, nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", nil
}

func toolCallResponse(name, args string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			ToolCalls: []llms.ToolCall{{
				ID:   "call-1",
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      name,
					Arguments: args,
				},
			}},
		}},
	}
}

func researchTask() *plan.Task {
	return &plan.Task{
		ID:     "summarize",
		Prompt: "Role: summarizer\nIntent: summarize the article\nContext:\nConstraints:\nOutput:",
		Outputs: []plan.Output{
			{Description: "summary", Type: plan.TypeString},
			{Description: "word count", Type: plan.TypeInteger},
		},
	}
}

func TestAgentRunner_SubmitsOutputs(t *testing.T) {
	model := &fakeModel{responses: []*llms.ContentResponse{
		toolCallResponse(submitOutputsTool, `{"item_0":"a short summary","item_1":120}`),
	}}

	runner := NewAgentRunner(model, nil, nil, nil, "you are a delegate", 4)
	result, err := runner.Run(context.Background(), researchTask(), &Context{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.TaskID != "summarize" {
		t.Errorf("TaskID = %s, want summarize", result.TaskID)
	}
	if result.Outputs[0].Raw != "a short summary" {
		t.Errorf("output 0 = %v", result.Outputs[0].Raw)
	}
	if result.Outputs[1].Raw != 120.0 {
		t.Errorf("output 1 = %v", result.Outputs[1].Raw)
	}
}

func TestAgentRunner_RetriesOnBadSubmission(t *testing.T) {
	// First submission has the wrong type for item_1; the runner must feed
	// the rejection back and accept the corrected second attempt.
	model := &fakeModel{responses: []*llms.ContentResponse{
		toolCallResponse(submitOutputsTool, `{"item_0":"a summary","item_1":"not a number"}`),
		toolCallResponse(submitOutputsTool, `{"item_0":"a summary","item_1":99}`),
	}}

	runner := NewAgentRunner(model, nil, nil, nil, "", 4)
	result, err := runner.Run(context.Background(), researchTask(), &Context{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Outputs[1].Raw != 99.0 {
		t.Errorf("output 1 = %v, want 99", result.Outputs[1].Raw)
	}

	if len(model.calls) != 2 {
		t.Fatalf("expected 2 model calls, got %d", len(model.calls))
	}
	// The second call must carry the rejection as a tool response.
	last := model.calls[1]
	found := false
	for _, msg := range last {
		if msg.Role == llms.ChatMessageTypeTool {
			found = true
		}
	}
	if !found {
		t.Error("expected a tool response message carrying the rejection")
	}
}

func TestAgentRunner_NudgesPlainTextAnswers(t *testing.T) {
	model := &fakeModel{responses: []*llms.ContentResponse{
		{Choices: []*llms.ContentChoice{{Content: "Here is my answer in plain text."}}},
		toolCallResponse(submitOutputsTool, `{"item_0":"done","item_1":1}`),
	}}

	runner := NewAgentRunner(model, nil, nil, nil, "", 4)
	if _, err := runner.Run(context.Background(), researchTask(), &Context{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	last := model.calls[1]
	nudge := last[len(last)-1]
	if nudge.Role != llms.ChatMessageTypeHuman {
		t.Fatalf("expected a human nudge message, got role %s", nudge.Role)
	}
	text := nudge.Parts[0].(llms.TextContent).Text
	if !strings.Contains(text, submitOutputsTool) {
		t.Errorf("nudge should name the submission tool: %q", text)
	}
}

func TestAgentRunner_GivesUpAfterMaxSteps(t *testing.T) {
	model := &fakeModel{responses: []*llms.ContentResponse{
		{Choices: []*llms.ContentChoice{{Content: "chatter"}}},
		{Choices: []*llms.ContentChoice{{Content: "more chatter"}}},
	}}

	runner := NewAgentRunner(model, nil, nil, nil, "", 2)
	if _, err := runner.Run(context.Background(), researchTask(), &Context{}); err == nil {
		t.Fatal("expected error after max steps, got nil")
	}
}

func TestBuildTaskMessage_IncludesDependencyOutputs(t *testing.T) {
	producer := &plan.Task{
		ID:      "research",
		Outputs: []plan.Output{{Description: "key facts", Type: plan.TypeString}},
	}
	consumer := &plan.Task{
		ID:     "draft",
		Prompt: "Role: writer",
		DependsOn: []plan.Dependency{{
			TaskID: "research",
			Inputs: []plan.Input{{Description: "key facts", Type: plan.TypeString}},
		}},
	}

	result, err := NewRunResult("research", []Value{{Type: plan.TypeString, Raw: "fact one"}})
	if err != nil {
		t.Fatal(err)
	}

	msg := buildTaskMessage(consumer, &Context{
		DependencyTasks:   map[string]*plan.Task{"research": producer},
		DependencyResults: map[string]*RunResult{"research": result},
	})

	for _, want := range []string{"Role: writer", "Outputs of task research", "key facts", "fact one"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}
