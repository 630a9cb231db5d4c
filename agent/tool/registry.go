package tool

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/sahai-labs/sahai-agent/agent/catalog"
	"github.com/sahai-labs/sahai-agent/agent/contract"
)

// Registry dispatches tool invocations by name. It is the containment
// boundary: panics and tool errors come out as failed ToolResults, never as
// Go errors or panics, so one misbehaving tool cannot abort a turn.
type Registry struct {
	tools map[contract.ToolName]contract.Tool
}

// NewRegistry builds a registry with the five built-in tools wired to the
// given catalog.
func NewRegistry(store catalog.Store) *Registry {
	r := &Registry{tools: make(map[contract.ToolName]contract.Tool)}
	r.Register(NewExtractor())
	r.Register(NewEligibilityEngine(store))
	r.Register(NewSchemeLookup(store))
	r.Register(NewDocumentChecker(store))
	r.Register(NewApplicationStatus())
	return r
}

// NewEmptyRegistry builds a registry with no tools, for callers that wire
// their own set.
func NewEmptyRegistry() *Registry {
	return &Registry{tools: make(map[contract.ToolName]contract.Tool)}
}

// Register adds or replaces a tool.
func (r *Registry) Register(t contract.Tool) {
	r.tools[t.Name()] = t
}

// Lookup returns the named tool if registered.
func (r *Registry) Lookup(name contract.ToolName) (contract.Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names lists the registered tool names.
func (r *Registry) Names() []contract.ToolName {
	out := make([]contract.ToolName, 0, len(r.tools))
	for name := range r.tools {
		out = append(out, name)
	}
	return out
}

// Execute runs one tool and normalizes every failure mode into a failed
// ToolResult.
func (r *Registry) Execute(ctx context.Context, name contract.ToolName, in contract.ToolInput) (result contract.ToolResult) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("tool", string(name)).Any("panic", rec).Msg("tool panicked")
			result = contract.ToolResult{
				Tool:    name,
				Success: false,
				Reason:  fmt.Sprintf("tool panicked: %v", rec),
			}
		}
	}()

	t, ok := r.tools[name]
	if !ok {
		return contract.ToolResult{
			Tool:    name,
			Success: false,
			Reason:  fmt.Sprintf("no such tool: %s", name),
		}
	}

	res, err := t.Execute(ctx, in)
	if err != nil {
		log.Warn().Err(err).Str("tool", string(name)).Msg("tool failed")
		return contract.ToolResult{
			Tool:    name,
			Success: false,
			Reason:  err.Error(),
		}
	}
	res.Tool = name
	return res
}
