package tool

import (
	"context"
	"testing"

	"github.com/sahai-labs/sahai-agent/agent/contract"
)

func TestStatusSeededRecords(t *testing.T) {
	t.Parallel()

	st := NewApplicationStatus()
	res, err := st.Execute(context.Background(), contract.ToolInput{
		Query: "mera application PM123456 ka kya hua",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	rec, ok := res.Payload.(contract.StatusRecord)
	if !ok {
		t.Fatalf("payload type %T", res.Payload)
	}
	if rec.State != "approved" || rec.SchemeID != "pm-kisan" {
		t.Errorf("PM123456 = %+v", rec)
	}
}

func TestStatusSyntheticIsDeterministic(t *testing.T) {
	t.Parallel()

	st := NewApplicationStatus()
	in := contract.ToolInput{Args: map[string]any{"application_id": "ZZ111222"}}

	first, err := st.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	second, err := st.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	a := first.Payload.(contract.StatusRecord)
	b := second.Payload.(contract.StatusRecord)
	if a != b {
		t.Fatalf("synthetic records differ: %+v vs %+v", a, b)
	}
	if a.State == "" {
		t.Error("synthetic record has no state")
	}
}

func TestStatusWithoutIDFails(t *testing.T) {
	t.Parallel()

	st := NewApplicationStatus()
	res, err := st.Execute(context.Background(), contract.ToolInput{Query: "mera paisa kab aayega"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Success {
		t.Fatal("expected failure without an application id")
	}
}

func TestDocumentCheckerNeedsScheme(t *testing.T) {
	t.Parallel()

	dt := NewDocumentChecker(testStore(t))
	res, err := dt.Execute(context.Background(), contract.ToolInput{Query: "कागज क्या लगेंगे"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Success {
		t.Fatal("expected failure without a resolved scheme")
	}

	res, err = dt.Execute(context.Background(), contract.ToolInput{
		Args: map[string]any{"scheme_id": "old-age-pension"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	docs, ok := res.Payload.(contract.DocumentList)
	if !ok {
		t.Fatalf("payload type %T", res.Payload)
	}
	if len(docs.Documents) == 0 {
		t.Fatal("no documents for old-age-pension")
	}
	for _, d := range docs.Documents {
		if d.DescriptionHi == "" {
			t.Errorf("document %s has no description", d.Name)
		}
	}
}

func TestSchemeLookupByIDAndQuery(t *testing.T) {
	t.Parallel()

	lt := NewSchemeLookup(testStore(t))

	res, err := lt.Execute(context.Background(), contract.ToolInput{
		Args: map[string]any{"scheme_id": "pm-kisan"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	list := res.Payload.(contract.ProgramList)
	if len(list.Programs) != 1 || list.Programs[0].ID != "pm-kisan" {
		t.Fatalf("by id: %+v", list.Programs)
	}

	res, err = lt.Execute(context.Background(), contract.ToolInput{Query: "पेंशन चाहिए"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	list = res.Payload.(contract.ProgramList)
	if len(list.Programs) == 0 {
		t.Fatal("query found nothing")
	}

	res, err = lt.Execute(context.Background(), contract.ToolInput{
		Args: map[string]any{"scheme_id": "no-such"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Success {
		t.Fatal("unknown scheme id should fail soft")
	}
}
