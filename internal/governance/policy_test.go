package governance

import (
	"context"
	"testing"
)

func TestDefaultPolicyEngine_Evaluate(t *testing.T) {
	engine := NewDefaultPolicyEngine()
	ctx := context.Background()

	// Allowed by default
	res, err := engine.Evaluate(ctx, Request{Tool: "search", TaskID: "t1"})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res.Effect != EffectAllow {
		t.Errorf("Expected EffectAllow, got %s", res.Effect)
	}

	// Denied tool
	engine.DenyTool("fetch_page")
	res, err = engine.Evaluate(ctx, Request{Tool: "fetch_page", TaskID: "t1"})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res.Effect != EffectDeny {
		t.Errorf("Expected EffectDeny, got %s", res.Effect)
	}
}

func TestDefaultPolicyEngine_DenyArguments(t *testing.T) {
	engine := NewDefaultPolicyEngine()
	ctx := context.Background()

	if err := engine.DenyArguments(`file://`); err != nil {
		t.Fatalf("DenyArguments failed: %v", err)
	}

	res, err := engine.Evaluate(ctx, Request{
		Tool:      "fetch_page",
		Arguments: `{"url":"file:///etc/passwd"}`,
		TaskID:    "t1",
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res.Effect != EffectDeny {
		t.Errorf("Expected EffectDeny for restricted arguments, got %s", res.Effect)
	}

	if err := engine.DenyArguments(`[`); err == nil {
		t.Error("expected error for invalid regex pattern")
	}
}
