// Package tool holds the registry of pure tools the executor runs and the
// five built-in tools: fact extraction, eligibility checking, scheme
// lookup, document listing and application status.
package tool

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/sahai-labs/sahai-agent/agent/contract"
)

var (
	ageAfterNumber  = regexp.MustCompile(`(\d{1,3})\s*(?:साल|वर्ष|saal|years?|yrs?)`)
	ageAfterKeyword = regexp.MustCompile(`(?:उम्र|umar|age)\s*(?:है|is)?\s*(\d{1,3})`)

	incomeLakh     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:लाख|lakhs?)`)
	incomeThousand = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:हज़ार|हजार|thousands?|k\b)`)
	incomeRupees   = regexp.MustCompile(`(?:आय|आमदनी|कमाई|income|kamai)\s*(?:है|is)?\s*(?:₹|rs\.?\s*)?(\d+(?:\.\d+)?)`)

	// sc/st as standalone Latin tokens only; substring matching would fire
	// inside ordinary English words.
	casteToken = regexp.MustCompile(`\b(sc|st)\b`)
)

type keywordRule struct {
	Field    contract.FieldName
	Value    any
	Keywords []string
}

// keywordRules capture categorical and boolean facts stated in either
// Hindi or romanized Hindi. Order matters where keywords overlap.
var keywordRules = []keywordRule{
	{contract.FieldGender, "female", []string{"महिला", "औरत", "स्त्री", "विधवा", "mahila", "aurat", "female", "widow"}},
	{contract.FieldGender, "male", []string{"पुरुष", "आदमी", "purush", "aadmi", "male"}},

	{contract.FieldCategory, "sc", []string{"अनुसूचित जाति", "एससी", "दलित", "dalit"}},
	{contract.FieldCategory, "st", []string{"अनुसूचित जनजाति", "एसटी", "आदिवासी", "adivasi"}},
	{contract.FieldCategory, "obc", []string{"पिछड़ा वर्ग", "ओबीसी", "obc"}},
	{contract.FieldCategory, "general", []string{"सामान्य वर्ग", "जनरल", "general"}},

	{contract.FieldBPL, true, []string{"बीपीएल", "गरीबी रेखा", "bpl", "garibi rekha"}},

	{contract.FieldArea, "rural", []string{"गांव", "ग्रामीण", "देहात", "gaon", "village", "rural"}},
	{contract.FieldArea, "urban", []string{"शहर", "शहरी", "shahar", "city", "urban"}},

	{contract.FieldOccupation, "farmer", []string{"किसान", "खेती", "kisan", "kheti", "farmer"}},
	{contract.FieldOccupation, "laborer", []string{"मजदूर", "मज़दूर", "mazdoor", "labour", "laborer"}},

	{contract.FieldDisability, true, []string{"दिव्यांग", "विकलांग", "divyang", "viklang", "disabled", "disability"}},
}

// Extract pulls structured fact candidates out of one utterance. It is
// exported so callers can cheaply check whether a message carries data
// without going through the registry.
func Extract(text string) []contract.Candidate {
	t := strings.ToLower(text)
	var out []contract.Candidate
	seen := map[contract.FieldName]struct{}{}

	add := func(field contract.FieldName, value any) {
		if _, dup := seen[field]; dup {
			return
		}
		seen[field] = struct{}{}
		out = append(out, contract.Candidate{Field: field, Value: value})
	}

	if age, ok := extractAge(t); ok {
		add(contract.FieldAge, age)
	}
	if income, ok := extractIncome(t); ok {
		add(contract.FieldIncome, income)
	}
	for _, rule := range keywordRules {
		if _, dup := seen[rule.Field]; dup {
			continue
		}
		for _, kw := range rule.Keywords {
			if strings.Contains(t, kw) {
				add(rule.Field, rule.Value)
				break
			}
		}
	}
	if _, dup := seen[contract.FieldCategory]; !dup {
		if m := casteToken.FindStringSubmatch(t); m != nil {
			add(contract.FieldCategory, m[1])
		}
	}
	return out
}

func extractAge(t string) (int, bool) {
	for _, re := range []*regexp.Regexp{ageAfterNumber, ageAfterKeyword} {
		if m := re.FindStringSubmatch(t); m != nil {
			age, err := strconv.Atoi(m[1])
			if err == nil && age >= 1 && age <= 120 {
				return age, true
			}
		}
	}
	return 0, false
}

// extractIncome returns annual income in rupees. "2 लाख" and "2.5 lakh"
// scale by 100000, "50 हजार" by 1000. A bare number after an income keyword
// is taken as rupees when it is large and as lakhs when small, since people
// say "आय 2 है" meaning 2 lakh.
func extractIncome(t string) (float64, bool) {
	if m := incomeLakh.FindStringSubmatch(t); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v * 100000, true
		}
	}
	if m := incomeThousand.FindStringSubmatch(t); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v * 1000, true
		}
	}
	if m := incomeRupees.FindStringSubmatch(t); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			if v > 100 {
				return v, true
			}
			return v * 100000, true
		}
	}
	return 0, false
}

type extractorTool struct{}

// NewExtractor returns the fact-extraction tool. It never fails: an
// utterance with no recognizable facts yields an empty candidate list.
func NewExtractor() contract.Tool { return extractorTool{} }

func (extractorTool) Name() contract.ToolName              { return contract.ToolFactExtractor }
func (extractorTool) RequiredFields() []contract.FieldName { return nil }
func (extractorTool) AllowPartial() bool                   { return true }

func (extractorTool) Execute(_ context.Context, in contract.ToolInput) (contract.ToolResult, error) {
	return contract.ToolResult{
		Tool:    contract.ToolFactExtractor,
		Success: true,
		Payload: contract.ExtractedFacts{Candidates: Extract(in.Query)},
	}, nil
}
