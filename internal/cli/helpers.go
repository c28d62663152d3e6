package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/rahul/sarthi/internal/cost"
	"github.com/rahul/sarthi/internal/plan"
	"github.com/rahul/sarthi/pkg/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// defaultOllamaURL is the OpenAI-compatible endpoint of a local ollama
// instance.
const defaultOllamaURL = "http://localhost:11434/v1"

// loadConfig reads the configured config file. A missing file is not an
// error: offline commands (validate) work with defaults, and commands that
// need a provider fail later with a clear message.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// buildModel constructs the LLM client for the first enabled provider.
func buildModel(cfg *config.Config) (llms.Model, string, error) {
	name, pCfg := cfg.GetDefaultProvider()
	if name == "" {
		return nil, "", fmt.Errorf("no enabled provider found in config %s", cfgPath)
	}

	switch name {
	case "openai", "openrouter":
		opts := []openai.Option{
			openai.WithToken(pCfg.APIKey),
			openai.WithModel(pCfg.Model),
		}
		if pCfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(pCfg.BaseURL))
		}
		model, err := openai.New(opts...)
		return model, pCfg.Model, err
	case "ollama":
		// ollama speaks the OpenAI wire protocol on /v1.
		baseURL := pCfg.BaseURL
		if baseURL == "" {
			baseURL = defaultOllamaURL
		}
		model, err := openai.New(
			openai.WithToken("ollama"),
			openai.WithModel(pCfg.Model),
			openai.WithBaseURL(baseURL),
		)
		return model, pCfg.Model, err
	default:
		return nil, "", fmt.Errorf("provider %s is not supported", name)
	}
}

// printPlan renders a plan the way a reviewer wants to read it: objective
// first, then each task with its prompt, dependencies, inputs, and outputs.
func printPlan(w io.Writer, p *plan.TaskPlan) {
	fmt.Fprintf(w, "Objective: %s\n\n", p.Objective)

	for _, task := range p.Tasks {
		fmt.Fprintf(w, "Task: %s\n", task.ID)
		fmt.Fprintln(w, "Prompt:")
		fmt.Fprintln(w, "```")
		fmt.Fprintln(w, task.Prompt)
		fmt.Fprintln(w, "```")
		for _, dep := range task.DependsOn {
			fmt.Fprintf(w, "Depends on: %s\n", dep.TaskID)
		}
		for _, input := range task.Inputs {
			fmt.Fprintf(w, "Input (%s): %s\n", input.Type, input.Description)
		}
		for _, output := range task.Outputs {
			fmt.Fprintf(w, "Output (%s): %s\n", output.Type, output.Description)
		}
		fmt.Fprintln(w)
	}
}

// printCost reports the priced usage for a model, or just the token counts
// when no pricing is known.
func printCost(w io.Writer, cfg *config.Config, model string, usage cost.Usage) {
	pricing, ok := cfg.GetPricing(model)
	if !ok {
		fmt.Fprintf(w, "Tokens: %d prompt, %d completion (no pricing for model %s)\n",
			usage.PromptTokens, usage.CompletionTokens, model)
		return
	}
	fmt.Fprintln(w, cost.Format(cost.Calculate(usage, pricing)))
}
