package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/sahai-labs/sahai-agent/agent/contract"
)

type panicTool struct{}

func (panicTool) Name() contract.ToolName              { return "panic_tool" }
func (panicTool) RequiredFields() []contract.FieldName { return nil }
func (panicTool) AllowPartial() bool                   { return false }
func (panicTool) Execute(context.Context, contract.ToolInput) (contract.ToolResult, error) {
	panic("boom")
}

type errTool struct{}

func (errTool) Name() contract.ToolName              { return "err_tool" }
func (errTool) RequiredFields() []contract.FieldName { return nil }
func (errTool) AllowPartial() bool                   { return false }
func (errTool) Execute(context.Context, contract.ToolInput) (contract.ToolResult, error) {
	return contract.ToolResult{}, errors.New("backend unreachable")
}

func TestRegistryContainsPanics(t *testing.T) {
	t.Parallel()

	r := NewEmptyRegistry()
	r.Register(panicTool{})

	res := r.Execute(context.Background(), "panic_tool", contract.ToolInput{})
	if res.Success {
		t.Fatal("panicking tool reported success")
	}
	if res.Tool != "panic_tool" {
		t.Errorf("result tool = %s", res.Tool)
	}
	if res.Reason == "" {
		t.Error("expected a reason")
	}
}

func TestRegistryNormalizesErrors(t *testing.T) {
	t.Parallel()

	r := NewEmptyRegistry()
	r.Register(errTool{})

	res := r.Execute(context.Background(), "err_tool", contract.ToolInput{})
	if res.Success {
		t.Fatal("erroring tool reported success")
	}
	if res.Reason != "backend unreachable" {
		t.Errorf("reason = %q", res.Reason)
	}
}

func TestRegistryUnknownTool(t *testing.T) {
	t.Parallel()

	r := NewEmptyRegistry()
	res := r.Execute(context.Background(), "nope", contract.ToolInput{})
	if res.Success {
		t.Fatal("unknown tool reported success")
	}
}

func TestRegistryBuiltins(t *testing.T) {
	t.Parallel()

	r := NewRegistry(testStore(t))
	for _, name := range []contract.ToolName{
		contract.ToolFactExtractor,
		contract.ToolEligibilityEngine,
		contract.ToolSchemeLookup,
		contract.ToolDocumentChecker,
		contract.ToolApplicationStatus,
	} {
		if _, ok := r.Lookup(name); !ok {
			t.Errorf("builtin %s not registered", name)
		}
	}
}
