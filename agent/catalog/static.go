package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed data/schemes.json
var schemesJSON []byte

// StaticStore serves the embedded scheme catalog. It is immutable after
// construction and safe for concurrent use.
type StaticStore struct {
	schemes []Scheme
	byID    map[string]Scheme
}

var _ Store = (*StaticStore)(nil)

// NewStaticStore decodes the embedded catalog.
func NewStaticStore() (*StaticStore, error) {
	var schemes []Scheme
	if err := json.Unmarshal(schemesJSON, &schemes); err != nil {
		return nil, fmt.Errorf("decode embedded scheme catalog: %w", err)
	}
	byID := make(map[string]Scheme, len(schemes))
	for _, s := range schemes {
		byID[s.ID] = s
	}
	return &StaticStore{schemes: schemes, byID: byID}, nil
}

func (st *StaticStore) All(_ context.Context) ([]Scheme, error) {
	out := make([]Scheme, len(st.schemes))
	copy(out, st.schemes)
	return out, nil
}

func (st *StaticStore) ByID(_ context.Context, id string) (Scheme, error) {
	s, ok := st.byID[strings.TrimSpace(id)]
	if !ok {
		return Scheme{}, fmt.Errorf("%w: %s", ErrSchemeNotFound, id)
	}
	return s, nil
}

func (st *StaticStore) Search(_ context.Context, query string) ([]Scheme, error) {
	return searchIn(st.schemes, query), nil
}

func (st *StaticStore) ByCategory(_ context.Context, category string) ([]Scheme, error) {
	c := strings.ToLower(strings.TrimSpace(category))
	var out []Scheme
	for _, s := range st.schemes {
		if strings.ToLower(s.Category) == c {
			out = append(out, s)
		}
	}
	return out, nil
}

type schemeKeyword struct {
	Keyword  string
	SchemeID string
}

// schemeKeywords maps utterance keywords to scheme ids, most specific
// first, so "विधवा पेंशन" resolves to the widow scheme rather than the
// generic pension one.
var schemeKeywords = []schemeKeyword{
	{"विधवा", "widow-pension"},
	{"widow", "widow-pension"},
	{"दिव्यांग", "disability-pension"},
	{"विकलांग", "disability-pension"},
	{"divyang", "disability-pension"},
	{"किसान", "pm-kisan"},
	{"खेती", "pm-kisan"},
	{"kisan", "pm-kisan"},
	{"आवास", "pm-awas-gramin"},
	{"घर", "pm-awas-gramin"},
	{"मकान", "pm-awas-gramin"},
	{"awas", "pm-awas-gramin"},
	{"पेंशन", "old-age-pension"},
	{"बुजुर्ग", "old-age-pension"},
	{"वृद्ध", "old-age-pension"},
	{"pension", "old-age-pension"},
	{"आयुष्मान", "ayushman-bharat"},
	{"इलाज", "ayushman-bharat"},
	{"अस्पताल", "ayushman-bharat"},
	{"ayushman", "ayushman-bharat"},
	{"स्वास्थ्य", "ayushman-bharat"},
}

// MatchSchemeID returns the scheme id whose keyword appears first in
// priority order, or "" when nothing matches.
func MatchSchemeID(text string) string {
	t := strings.ToLower(text)
	for _, sk := range schemeKeywords {
		if strings.Contains(t, sk.Keyword) {
			return sk.SchemeID
		}
	}
	return ""
}
