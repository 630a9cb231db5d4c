package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahai-labs/sahai-agent/agent/catalog"
	"github.com/sahai-labs/sahai-agent/agent/contract"
)

// argSchemeID is the planner-resolved scheme the turn is about.
const argSchemeID = "scheme_id"

type lookupTool struct {
	store catalog.Store
}

// NewSchemeLookup looks up schemes by id or free-text query. With neither,
// it returns the whole catalog so the responder can list what exists.
func NewSchemeLookup(store catalog.Store) contract.Tool {
	return lookupTool{store: store}
}

func (lookupTool) Name() contract.ToolName              { return contract.ToolSchemeLookup }
func (lookupTool) RequiredFields() []contract.FieldName { return nil }
func (lookupTool) AllowPartial() bool                   { return true }

func (lt lookupTool) Execute(ctx context.Context, in contract.ToolInput) (contract.ToolResult, error) {
	if id, ok := in.Args[argSchemeID].(string); ok && id != "" {
		s, err := lt.store.ByID(ctx, id)
		if err != nil {
			if errors.Is(err, catalog.ErrSchemeNotFound) {
				return contract.ToolResult{
					Tool:    contract.ToolSchemeLookup,
					Success: false,
					Reason:  fmt.Sprintf("unknown scheme %q", id),
				}, nil
			}
			return contract.ToolResult{}, fmt.Errorf("scheme lookup: %w", err)
		}
		return listResult([]catalog.Scheme{s}), nil
	}

	if in.Query != "" {
		hits, err := lt.store.Search(ctx, in.Query)
		if err != nil {
			return contract.ToolResult{}, fmt.Errorf("scheme lookup: %w", err)
		}
		if len(hits) > 0 {
			return listResult(hits), nil
		}
	}

	all, err := lt.store.All(ctx)
	if err != nil {
		return contract.ToolResult{}, fmt.Errorf("scheme lookup: %w", err)
	}
	return listResult(all), nil
}

func listResult(schemes []catalog.Scheme) contract.ToolResult {
	programs := make([]contract.ProgramRecord, 0, len(schemes))
	for _, s := range schemes {
		programs = append(programs, contract.ProgramRecord{
			ID:             s.ID,
			NameHi:         s.LocalName("hi"),
			NameEn:         s.LocalName("en"),
			Category:       s.Category,
			DescriptionHi:  s.LocalDescription("hi"),
			BenefitHi:      s.LocalBenefit("hi"),
			Helpline:       s.Helpline,
			ApplicationURL: s.ApplicationURL,
		})
	}
	return contract.ToolResult{
		Tool:    contract.ToolSchemeLookup,
		Success: true,
		Payload: contract.ProgramList{Programs: programs},
	}
}
