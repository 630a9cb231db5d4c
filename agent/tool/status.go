package tool

import (
	"context"
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/sahai-labs/sahai-agent/agent/contract"
)

const argApplicationID = "application_id"

// ApplicationIDPattern matches ids like PM123456. Exported so the planner
// can resolve the id from the raw utterance.
var ApplicationIDPattern = regexp.MustCompile(`\b([A-Z]{2}\d{6})\b`)

// seededRecords are fixed application records so demo conversations behave
// the same every run.
var seededRecords = map[string]contract.StatusRecord{
	"PM123456": {
		ApplicationID: "PM123456",
		SchemeID:      "pm-kisan",
		State:         "approved",
		Stage:         "payment_released",
		NextStepHi:    "अगली किस्त आपके बैंक खाते में भेज दी गई है।",
	},
	"AW789012": {
		ApplicationID: "AW789012",
		SchemeID:      "pm-awas-gramin",
		State:         "pending",
		Stage:         "document_verification",
		NextStepHi:    "आपके दस्तावेजों की जांच चल रही है, 15 दिन में पूरी होगी।",
	},
}

var syntheticStates = []struct {
	State      string
	Stage      string
	NextStepHi string
}{
	{"pending", "initial_review", "आपका आवेदन जमा हो गया है, जांच शुरू होनी बाकी है।"},
	{"pending", "document_verification", "दस्तावेजों की जांच चल रही है।"},
	{"approved", "payment_processing", "आवेदन मंजूर हो गया है, भुगतान की प्रक्रिया चल रही है।"},
	{"rejected", "eligibility_review", "आवेदन अस्वीकृत हुआ है, कारण जानने के लिए हेल्पलाइन पर संपर्क करें।"},
}

type statusTool struct{}

// NewApplicationStatus returns the status-lookup tool. Unknown ids get a
// synthetic record derived from a hash of the id, so repeat queries for the
// same id always agree.
func NewApplicationStatus() contract.Tool { return statusTool{} }

func (statusTool) Name() contract.ToolName              { return contract.ToolApplicationStatus }
func (statusTool) RequiredFields() []contract.FieldName { return nil }
func (statusTool) AllowPartial() bool                   { return false }

func (statusTool) Execute(_ context.Context, in contract.ToolInput) (contract.ToolResult, error) {
	id, _ := in.Args[argApplicationID].(string)
	if id == "" {
		if m := ApplicationIDPattern.FindStringSubmatch(strings.ToUpper(in.Query)); m != nil {
			id = m[1]
		}
	}
	if id == "" {
		return contract.ToolResult{
			Tool:    contract.ToolApplicationStatus,
			Success: false,
			Reason:  "no application id in request",
		}, nil
	}
	id = strings.ToUpper(id)

	rec, ok := seededRecords[id]
	if !ok {
		rec = syntheticRecord(id)
	}
	return contract.ToolResult{
		Tool:    contract.ToolApplicationStatus,
		Success: true,
		Payload: rec,
	}, nil
}

func syntheticRecord(id string) contract.StatusRecord {
	h := fnv.New32a()
	h.Write([]byte(id))
	s := syntheticStates[h.Sum32()%uint32(len(syntheticStates))]
	return contract.StatusRecord{
		ApplicationID: id,
		State:         s.State,
		Stage:         s.Stage,
		NextStepHi:    s.NextStepHi,
	}
}
