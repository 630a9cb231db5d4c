package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahai-labs/sahai-agent/agent/catalog"
	"github.com/sahai-labs/sahai-agent/agent/contract"
)

// documentDescriptions maps catalog document keys to Hindi explanations of
// what the paper is and where to get it.
var documentDescriptions = map[string]string{
	"aadhaar":                "आधार कार्ड, नजदीकी आधार केंद्र से बनवाएं",
	"bank_passbook":          "बैंक पासबुक की कॉपी, खाता आधार से जुड़ा होना चाहिए",
	"land_records":           "जमीन के कागजात (खसरा/खतौनी), तहसील से मिलते हैं",
	"bpl_card":               "बीपीएल राशन कार्ड",
	"ration_card":            "राशन कार्ड",
	"income_certificate":     "आय प्रमाण पत्र, तहसील या लोक सेवा केंद्र से बनवाएं",
	"age_proof":              "उम्र का प्रमाण (आधार, जन्म प्रमाण पत्र या स्कूल सर्टिफिकेट)",
	"residence_proof":        "निवास प्रमाण पत्र",
	"death_certificate":      "पति के मृत्यु प्रमाण पत्र की कॉपी",
	"disability_certificate": "दिव्यांगता प्रमाण पत्र, जिला अस्पताल से बनवाएं",
}

type documentsTool struct {
	store catalog.Store
}

// NewDocumentChecker lists the papers a scheme application needs. It needs
// a resolved scheme id; without one it fails so the evaluator can ask.
func NewDocumentChecker(store catalog.Store) contract.Tool {
	return documentsTool{store: store}
}

func (documentsTool) Name() contract.ToolName              { return contract.ToolDocumentChecker }
func (documentsTool) RequiredFields() []contract.FieldName { return nil }
func (documentsTool) AllowPartial() bool                   { return false }

func (dt documentsTool) Execute(ctx context.Context, in contract.ToolInput) (contract.ToolResult, error) {
	id, _ := in.Args[argSchemeID].(string)
	if id == "" {
		return contract.ToolResult{
			Tool:    contract.ToolDocumentChecker,
			Success: false,
			Reason:  "no scheme resolved for document lookup",
		}, nil
	}
	s, err := dt.store.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrSchemeNotFound) {
			return contract.ToolResult{
				Tool:    contract.ToolDocumentChecker,
				Success: false,
				Reason:  fmt.Sprintf("unknown scheme %q", id),
			}, nil
		}
		return contract.ToolResult{}, fmt.Errorf("document checker: %w", err)
	}

	docs := make([]contract.DocumentRequirement, 0, len(s.Documents))
	for _, key := range s.Documents {
		docs = append(docs, contract.DocumentRequirement{
			Name:          key,
			DescriptionHi: documentDescriptions[key],
		})
	}
	return contract.ToolResult{
		Tool:    contract.ToolDocumentChecker,
		Success: true,
		Payload: contract.DocumentList{
			SchemeID:     s.ID,
			SchemeNameHi: s.LocalName("hi"),
			Documents:    docs,
		},
	}, nil
}
