package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahai-labs/sahai-agent/agent/catalog"
	"github.com/sahai-labs/sahai-agent/agent/contract"
)

type eligibilityTool struct {
	store catalog.Store
}

// NewEligibilityEngine checks the user's known facts against every scheme
// in the catalog. Age and income must be known; everything else narrows or
// widens the verdict.
func NewEligibilityEngine(store catalog.Store) contract.Tool {
	return eligibilityTool{store: store}
}

func (eligibilityTool) Name() contract.ToolName { return contract.ToolEligibilityEngine }

func (eligibilityTool) RequiredFields() []contract.FieldName {
	return []contract.FieldName{contract.FieldAge, contract.FieldIncome}
}

func (eligibilityTool) AllowPartial() bool { return false }

func (et eligibilityTool) Execute(ctx context.Context, in contract.ToolInput) (contract.ToolResult, error) {
	var missing []contract.FieldName
	for _, f := range et.RequiredFields() {
		if _, ok := in.Facts[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return contract.ToolResult{
			Tool:          contract.ToolEligibilityEngine,
			Success:       false,
			Reason:        "missing required facts",
			MissingFields: missing,
		}, nil
	}

	schemes, err := et.store.All(ctx)
	if err != nil {
		return contract.ToolResult{}, fmt.Errorf("eligibility: load catalog: %w", err)
	}

	var report contract.EligibilityReport
	for _, s := range schemes {
		a := assess(s, in.Facts)
		switch a.Status {
		case contract.Eligible:
			report.Eligible = append(report.Eligible, a)
		case contract.PartiallyEligible:
			report.Partial = append(report.Partial, a)
		default:
			report.Ineligible = append(report.Ineligible, a)
		}
	}
	return contract.ToolResult{
		Tool:    contract.ToolEligibilityEngine,
		Success: true,
		Payload: report,
	}, nil
}

// assess grades one scheme: every rule the facts satisfy goes to
// MetCriteria, every violated rule to Issues, and rules that need a fact
// the user has not stated go to UnknownFields. No issues and no unknowns
// means eligible; issues mean ineligible; only unknowns mean partial.
func assess(s catalog.Scheme, facts map[contract.FieldName]any) contract.SchemeAssessment {
	a := contract.SchemeAssessment{
		SchemeID:  s.ID,
		NameHi:    s.LocalName("hi"),
		NameEn:    s.LocalName("en"),
		BenefitHi: s.LocalBenefit("hi"),
	}
	rules := s.Eligibility

	if rules.AgeMin > 0 || rules.AgeMax > 0 {
		if age, ok := factInt(facts, contract.FieldAge); !ok {
			a.UnknownFields = append(a.UnknownFields, contract.FieldAge)
		} else if rules.AgeMin > 0 && age < rules.AgeMin {
			a.Issues = append(a.Issues, fmt.Sprintf("उम्र कम से कम %d वर्ष होनी चाहिए", rules.AgeMin))
		} else if rules.AgeMax > 0 && age > rules.AgeMax {
			a.Issues = append(a.Issues, fmt.Sprintf("उम्र %d वर्ष से अधिक नहीं होनी चाहिए", rules.AgeMax))
		} else {
			a.MetCriteria = append(a.MetCriteria, "उम्र की शर्त पूरी है")
		}
	}

	if rules.IncomeMax > 0 {
		if income, ok := factFloat(facts, contract.FieldIncome); !ok {
			a.UnknownFields = append(a.UnknownFields, contract.FieldIncome)
		} else if income > rules.IncomeMax {
			a.Issues = append(a.Issues, fmt.Sprintf("वार्षिक आय %.0f रुपये से कम होनी चाहिए", rules.IncomeMax))
		} else {
			a.MetCriteria = append(a.MetCriteria, "आय की शर्त पूरी है")
		}
	}

	if rules.Gender != "" {
		if gender, ok := factString(facts, contract.FieldGender); !ok {
			a.UnknownFields = append(a.UnknownFields, contract.FieldGender)
		} else if !strings.EqualFold(gender, rules.Gender) {
			a.Issues = append(a.Issues, "यह योजना आपके लिए लागू नहीं है")
		} else {
			a.MetCriteria = append(a.MetCriteria, "लिंग की शर्त पूरी है")
		}
	}

	if len(rules.Categories) > 0 {
		if cat, ok := factString(facts, contract.FieldCategory); !ok {
			a.UnknownFields = append(a.UnknownFields, contract.FieldCategory)
		} else if !containsFold(rules.Categories, cat) {
			a.Issues = append(a.Issues, "आपका वर्ग इस योजना में शामिल नहीं है")
		} else {
			a.MetCriteria = append(a.MetCriteria, "वर्ग की शर्त पूरी है")
		}
	}

	if rules.BPL {
		if bpl, ok := factBool(facts, contract.FieldBPL); !ok {
			a.UnknownFields = append(a.UnknownFields, contract.FieldBPL)
		} else if !bpl {
			a.Issues = append(a.Issues, "बीपीएल कार्ड आवश्यक है")
		} else {
			a.MetCriteria = append(a.MetCriteria, "बीपीएल की शर्त पूरी है")
		}
	}

	if rules.Disability {
		if dis, ok := factBool(facts, contract.FieldDisability); !ok {
			a.UnknownFields = append(a.UnknownFields, contract.FieldDisability)
		} else if !dis {
			a.Issues = append(a.Issues, "दिव्यांगता प्रमाण पत्र आवश्यक है")
		} else {
			a.MetCriteria = append(a.MetCriteria, "दिव्यांगता की शर्त पूरी है")
		}
	}

	if rules.Area != "" {
		if area, ok := factString(facts, contract.FieldArea); !ok {
			a.UnknownFields = append(a.UnknownFields, contract.FieldArea)
		} else if !strings.EqualFold(area, rules.Area) {
			a.Issues = append(a.Issues, "यह योजना आपके क्षेत्र के लिए नहीं है")
		} else {
			a.MetCriteria = append(a.MetCriteria, "क्षेत्र की शर्त पूरी है")
		}
	}

	if rules.Occupation != "" {
		if occ, ok := factString(facts, contract.FieldOccupation); !ok {
			a.UnknownFields = append(a.UnknownFields, contract.FieldOccupation)
		} else if !strings.EqualFold(occ, rules.Occupation) {
			a.Issues = append(a.Issues, "यह योजना आपके व्यवसाय के लिए नहीं है")
		} else {
			a.MetCriteria = append(a.MetCriteria, "व्यवसाय की शर्त पूरी है")
		}
	}

	switch {
	case len(a.Issues) > 0:
		a.Status = contract.Ineligible
	case len(a.UnknownFields) > 0:
		a.Status = contract.PartiallyEligible
	default:
		a.Status = contract.Eligible
	}
	return a
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(h, needle) {
			return true
		}
	}
	return false
}

func factInt(facts map[contract.FieldName]any, f contract.FieldName) (int, bool) {
	switch v := facts[f].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func factFloat(facts map[contract.FieldName]any, f contract.FieldName) (float64, bool) {
	switch v := facts[f].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func factString(facts map[contract.FieldName]any, f contract.FieldName) (string, bool) {
	s, ok := facts[f].(string)
	return s, ok && s != ""
}

func factBool(facts map[contract.FieldName]any, f contract.FieldName) (bool, bool) {
	b, ok := facts[f].(bool)
	return b, ok
}
