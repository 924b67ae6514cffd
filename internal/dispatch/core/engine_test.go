package core

import (
	"errors"
	"testing"
)

type fakeFlow struct {
	name  string
	steps []*Step
}

func (f fakeFlow) Name() string   { return f.name }
func (f fakeFlow) Steps() []*Step { return f.steps }

func TestEngineRunsStepsInOrder(t *testing.T) {
	var order []string
	flow := fakeFlow{
		name: "ordered",
		steps: []*Step{
			NewStep("first", func(ctx *FlowContext) error {
				order = append(order, "first")
				return nil
			}),
			NewStep("second", func(ctx *FlowContext) error {
				order = append(order, "second")
				return nil
			}),
		},
	}

	engine := NewEngine(flow)
	ctx := NewFlowContext(map[string]any{}, nil, nil)

	if err := engine.Run("ordered", ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("expected steps in order, got %v", order)
	}
}

func TestEngineStopsOnStepFailure(t *testing.T) {
	secondRan := false
	flow := fakeFlow{
		name: "failing",
		steps: []*Step{
			NewStep("boom", func(ctx *FlowContext) error {
				return errors.New("boom")
			}),
			NewStep("unreached", func(ctx *FlowContext) error {
				secondRan = true
				return nil
			}),
		},
	}

	engine := NewEngine(flow)
	err := engine.Run("failing", NewFlowContext(map[string]any{}, nil, nil))
	if err == nil {
		t.Fatal("expected error from failing step")
	}
	if secondRan {
		t.Error("expected pipeline to stop after failed step")
	}
}

func TestEngineUnknownFlow(t *testing.T) {
	engine := NewEngine()
	err := engine.Run("nope", NewFlowContext(map[string]any{}, nil, nil))
	if err == nil {
		t.Fatal("expected error for unknown flow")
	}
}

func TestRequireString(t *testing.T) {
	ctx := NewFlowContext(map[string]any{"present": "value", "wrong": 7}, nil, nil)

	if v, err := ctx.RequireString("present"); err != nil || v != "value" {
		t.Errorf("expected value, got %q err=%v", v, err)
	}
	if _, err := ctx.RequireString("absent"); err == nil {
		t.Error("expected error for absent param")
	}
	if _, err := ctx.RequireString("wrong"); err == nil {
		t.Error("expected error for non-string param")
	}
}
